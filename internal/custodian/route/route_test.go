//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package route_test

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/svalbard/svbd/internal/channel"
	"github.com/svalbard/svbd/internal/custodian/route"
	"github.com/svalbard/svbd/internal/shareid"
	"github.com/svalbard/svbd/internal/sharestore"
	"github.com/svalbard/svbd/internal/token"
)

func testServer(t *testing.T) (*httptest.Server, *route.Deps, string) {
	t.Helper()
	tokens, err := token.New(token.MinLength, token.MinValidity)
	require.NoError(t, err)

	dir := t.TempDir()
	ch, err := channel.NewFile(dir)
	require.NoError(t, err)

	deps := &route.Deps{
		Tokens:  tokens,
		Shares:  sharestore.NewMemory(),
		Channel: ch,
	}
	srv := httptest.NewServer(route.New(deps))
	t.Cleanup(srv.Close)
	return srv, deps, dir
}

func post(t *testing.T, srv *httptest.Server, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	return resp
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	buf := make([]byte, 4096)
	n, _ := resp.Body.Read(buf)
	return string(buf[:n])
}

func readToken(t *testing.T, ch *channel.File, ownerIDType, ownerID, requestID string) string {
	t.Helper()
	lines, err := ch.ReadAll(channel.Recipient{OwnerIDType: ownerIDType, OwnerID: ownerID})
	require.NoError(t, err)
	for _, line := range lines {
		id, tok, err := channel.Parse(line)
		require.NoError(t, err)
		if id == requestID {
			return tok
		}
	}
	t.Fatalf("no delivered token for request %s", requestID)
	return ""
}

func TestFullStoreRetrieveDeleteRoundTrip(t *testing.T) {
	srv, deps, dir := testServer(t)
	ch, err := channel.NewFile(dir)
	require.NoError(t, err)
	_ = deps

	// Storage leg.
	resp := post(t, srv, "/get_storage_token", url.Values{
		"request_id": {"req-1"}, "owner_id_type": {"email"}, "owner_id": {"a@b.com"}, "secret_name": {"db-pw"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	storeTok := readToken(t, ch, "email", "a@b.com", "req-1")

	resp = post(t, srv, "/store_share", url.Values{
		"token": {storeTok}, "owner_id_type": {"email"}, "owner_id": {"a@b.com"},
		"secret_name": {"db-pw"}, "share_value": {base64.StdEncoding.EncodeToString([]byte("share-bytes"))},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Retrieval leg.
	resp = post(t, srv, "/get_retrieval_token", url.Values{
		"request_id": {"req-2"}, "owner_id_type": {"email"}, "owner_id": {"a@b.com"}, "secret_name": {"db-pw"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	retrieveTok := readToken(t, ch, "email", "a@b.com", "req-2")

	resp = post(t, srv, "/retrieve_share", url.Values{
		"token": {retrieveTok}, "owner_id_type": {"email"}, "owner_id": {"a@b.com"}, "secret_name": {"db-pw"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := body(t, resp)
	decoded, err := base64.StdEncoding.DecodeString(got)
	require.NoError(t, err)
	require.Equal(t, "share-bytes", string(decoded))

	// Deletion leg.
	resp = post(t, srv, "/get_deletion_token", url.Values{
		"request_id": {"req-3"}, "owner_id_type": {"email"}, "owner_id": {"a@b.com"}, "secret_name": {"db-pw"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	deleteTok := readToken(t, ch, "email", "a@b.com", "req-3")

	resp = post(t, srv, "/delete_share", url.Values{
		"token": {deleteTok}, "owner_id_type": {"email"}, "owner_id": {"a@b.com"}, "secret_name": {"db-pw"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// A second deletion is refused at the token step: the share is gone,
	// so get_deletion_token returns 404.
	resp = post(t, srv, "/get_deletion_token", url.Values{
		"request_id": {"req-4"}, "owner_id_type": {"email"}, "owner_id": {"a@b.com"}, "secret_name": {"db-pw"},
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestRetrievalTokenForNeverStoredSecretReturns404(t *testing.T) {
	srv, _, _ := testServer(t)
	resp := post(t, srv, "/get_retrieval_token", url.Values{
		"request_id": {"abc123"}, "owner_id_type": {"email"}, "owner_id": {"nobody@x.com"}, "secret_name": {"ghost"},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "Req. abc123: share not found.", body(t, resp))
}

func TestStoreShareWithoutSecretNameReturns400(t *testing.T) {
	srv, _, _ := testServer(t)
	resp := post(t, srv, "/store_share", url.Values{
		"token": {"whatever"}, "owner_id_type": {"email"}, "owner_id": {"a@b.com"},
		"share_value": {base64.StdEncoding.EncodeToString([]byte("x"))},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStoreShareWithTokenForDifferentSecretReturns403(t *testing.T) {
	srv, _, dir := testServer(t)
	ch, err := channel.NewFile(dir)
	require.NoError(t, err)

	resp := post(t, srv, "/get_storage_token", url.Values{
		"request_id": {"req-1"}, "owner_id_type": {"email"}, "owner_id": {"a@b.com"}, "secret_name": {"secret-a"},
	})
	resp.Body.Close()
	tok := readToken(t, ch, "email", "a@b.com", "req-1")

	resp = post(t, srv, "/store_share", url.Values{
		"token": {tok}, "owner_id_type": {"email"}, "owner_id": {"a@b.com"},
		"secret_name": {"secret-b"}, "share_value": {base64.StdEncoding.EncodeToString([]byte("x"))},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestNonPostReturns400(t *testing.T) {
	srv, _, _ := testServer(t)
	resp, err := http.Get(srv.URL + "/get_storage_token")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStoreShareRejectsAlreadyExistingShareID(t *testing.T) {
	srv, _, dir := testServer(t)
	ch, err := channel.NewFile(dir)
	require.NoError(t, err)

	mintAndStore := func(value string) *http.Response {
		resp := post(t, srv, "/get_storage_token", url.Values{
			"request_id": {"r-" + value}, "owner_id_type": {"email"}, "owner_id": {"a@b.com"}, "secret_name": {"dup"},
		})
		resp.Body.Close()
		tok := readToken(t, ch, "email", "a@b.com", "r-"+value)
		return post(t, srv, "/store_share", url.Values{
			"token": {tok}, "owner_id_type": {"email"}, "owner_id": {"a@b.com"},
			"secret_name": {"dup"}, "share_value": {base64.StdEncoding.EncodeToString([]byte(value))},
		})
	}

	first := mintAndStore("v1")
	require.Equal(t, http.StatusOK, first.StatusCode)
	first.Body.Close()

	second := mintAndStore("v2")
	defer second.Body.Close()
	require.Equal(t, http.StatusBadRequest, second.StatusCode)
}

func TestDeleteShareOnAlreadyDeletedShareNormalizesTo404(t *testing.T) {
	srv, deps, _ := testServer(t)

	// A deletion token can be minted directly against the token store
	// even for a share id that was never stored, bypassing the
	// get_deletion_token existence check: delete_share itself must
	// still report 404, not 500, per the double-delete policy
	// decision recorded in DESIGN.md.
	shareID := shareid.GetShareID("email", "nobody@x.com", "never-stored")
	tok, err := deps.Tokens.Mint(shareID, token.OperationDelete)
	require.NoError(t, err)

	resp := post(t, srv, "/delete_share", url.Values{
		"token": {tok}, "owner_id_type": {"email"}, "owner_id": {"nobody@x.com"}, "secret_name": {"never-stored"},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTokenLifecycleExpiry(t *testing.T) {
	tokens, err := token.New(token.MinLength, token.MinValidity)
	require.NoError(t, err)

	tok, err := tokens.Mint("share-id", token.OperationStore)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(tok), token.MinLength)
	require.Equal(t, token.Valid, tokens.Validate(tok, "share-id", token.OperationStore))

	time.Sleep(token.MinValidity + 50*time.Millisecond)
	require.Equal(t, token.Expired, tokens.Validate(tok, "share-id", token.OperationStore))

	require.Equal(t, token.NotValid,
		func() token.ValidationResult {
			other, _ := tokens.Mint("share-id", token.OperationStore)
			return tokens.Validate(other, "another-share-id", token.OperationStore)
		}())
}
