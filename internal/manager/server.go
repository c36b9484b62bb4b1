//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package manager

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/svalbard/svbd/internal/apperr"
	"github.com/svalbard/svbd/internal/channel"
	"github.com/svalbard/svbd/internal/entity"
	"github.com/svalbard/svbd/internal/future"
	"github.com/svalbard/svbd/pkg/retry"
)

// ChannelReader is satisfied by a Channel backend that can be polled
// for what it has delivered so far. The file-based test channel
// implements it; a real SMS/email backend would not, and a deployment
// built on one must relay the token to the server manager some other
// way (e.g. an operator pasting it in).
type ChannelReader interface {
	ReadAll(recipient channel.Recipient) ([]string, error)
}

// Server is the share-manager that drives the custody server's token
// dance over HTTP: request a token, wait for it to arrive over the
// secondary channel, then execute the store/retrieve/delete call.
type Server struct {
	client       *http.Client
	reader       ChannelReader
	retrier      retry.Retrier
	newRequestID func() string
}

// NewServer returns a Server manager. client defaults to
// http.DefaultClient if nil; retrier defaults to an ExponentialRetrier
// tuned for the secondary channel's expected delivery latency if nil.
func NewServer(client *http.Client, reader ChannelReader, retrier retry.Retrier) *Server {
	if client == nil {
		client = http.DefaultClient
	}
	if retrier == nil {
		retrier = retry.NewExponentialRetrier(
			retry.WithBackOffOptions(
				retry.WithInitialInterval(50*time.Millisecond),
				retry.WithMaxInterval(time.Second),
				retry.WithMaxElapsedTime(10*time.Second),
			),
		)
	}
	return &Server{
		client:       client,
		reader:       reader,
		retrier:      retrier,
		newRequestID: uuid.NewString,
	}
}

func (s *Server) validateLocation(location entity.ShareLocation) error {
	if location.Type != entity.LocationServer {
		return apperr.New(apperr.KindInvalidArgument,
			"server manager cannot dispatch a non-server location")
	}
	return location.Validate()
}

// Store implements Manager.
func (s *Server) Store(ctx context.Context, secretName string, shareBytes []byte,
	location entity.ShareLocation) *future.Future[struct{}] {
	return future.Go(func() (struct{}, error) {
		if err := s.validateLocation(location); err != nil {
			return struct{}{}, err
		}
		requestID := s.newRequestID()
		if err := s.requestToken(ctx, location, "storage", secretName, requestID); err != nil {
			return struct{}{}, err
		}
		token, err := s.awaitToken(ctx, location, requestID)
		if err != nil {
			return struct{}{}, err
		}
		_, err = s.execute(ctx, location, "store", secretName, token, shareBytes)
		return struct{}{}, err
	})
}

// Retrieve implements Manager.
func (s *Server) Retrieve(ctx context.Context, secretName string,
	location entity.ShareLocation) *future.Future[[]byte] {
	return future.Go(func() ([]byte, error) {
		if err := s.validateLocation(location); err != nil {
			return nil, err
		}
		requestID := s.newRequestID()
		if err := s.requestToken(ctx, location, "retrieval", secretName, requestID); err != nil {
			return nil, err
		}
		token, err := s.awaitToken(ctx, location, requestID)
		if err != nil {
			return nil, err
		}
		return s.execute(ctx, location, "retrieve", secretName, token, nil)
	})
}

// Delete implements Manager.
func (s *Server) Delete(ctx context.Context, secretName string,
	location entity.ShareLocation) *future.Future[struct{}] {
	return future.Go(func() (struct{}, error) {
		if err := s.validateLocation(location); err != nil {
			return struct{}{}, err
		}
		requestID := s.newRequestID()
		if err := s.requestToken(ctx, location, "deletion", secretName, requestID); err != nil {
			return struct{}{}, err
		}
		token, err := s.awaitToken(ctx, location, requestID)
		if err != nil {
			return struct{}{}, err
		}
		_, err = s.execute(ctx, location, "delete", secretName, token, nil)
		return struct{}{}, err
	})
}

var tokenPathByOp = map[string]string{
	"storage":   "get_storage_token",
	"retrieval": "get_retrieval_token",
	"deletion":  "get_deletion_token",
}

var executePathByOp = map[string]string{
	"store":    "store_share",
	"retrieve": "retrieve_share",
	"delete":   "delete_share",
}

// requestToken calls the appropriate get_*_token endpoint. Transport
// failures and unexpected statuses are retried with backoff; a 400 or
// 404 from the custodian is a permanent, non-retryable refusal.
func (s *Server) requestToken(ctx context.Context, location entity.ShareLocation,
	op, secretName, requestID string) error {
	form := url.Values{
		"request_id":    {requestID},
		"owner_id_type": {location.OwnerIDType},
		"owner_id":      {location.OwnerID},
		"secret_name":   {secretName},
	}

	return s.retrier.RetryWithBackoff(ctx, func() error {
		resp, err := s.post(ctx, location.Name+"/"+tokenPathByOp[op], form)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		switch resp.StatusCode {
		case http.StatusOK:
			return nil
		case http.StatusBadRequest:
			return backoff.Permanent(apperr.New(apperr.KindInvalidArgument,
				"custodian rejected token request"))
		case http.StatusNotFound:
			return backoff.Permanent(apperr.New(apperr.KindNotFound, "share not found"))
		default:
			return apperr.New(apperr.KindTransport,
				fmt.Sprintf("unexpected status requesting token: %d", resp.StatusCode))
		}
	})
}

// awaitToken polls the secondary channel for a message bearing
// requestID, retrying with backoff until it arrives or the retrier's
// elapsed-time budget runs out.
func (s *Server) awaitToken(ctx context.Context, location entity.ShareLocation,
	requestID string) (string, error) {
	if s.reader == nil {
		return "", apperr.New(apperr.KindTransport,
			"server manager has no secondary-channel reader configured")
	}

	recipient := channel.Recipient{
		OwnerIDType: location.OwnerIDType,
		OwnerID:     location.OwnerID,
	}

	var token string
	err := s.retrier.RetryWithBackoff(ctx, func() error {
		lines, err := s.reader.ReadAll(recipient)
		if err != nil {
			return apperr.Wrap(apperr.KindTransport, "failed to poll secondary channel", err)
		}
		for _, line := range lines {
			id, tok, parseErr := channel.Parse(line)
			if parseErr == nil && id == requestID {
				token = tok
				return nil
			}
		}
		return apperr.New(apperr.KindTransport, "token not yet delivered")
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// execute calls the appropriate {op}_share endpoint with a validated
// token. For "retrieve" the returned []byte is the decoded share; for
// "store" and "delete" it is always nil.
func (s *Server) execute(ctx context.Context, location entity.ShareLocation,
	op, secretName, token string, shareBytes []byte) ([]byte, error) {
	form := url.Values{
		"token":         {token},
		"owner_id_type": {location.OwnerIDType},
		"owner_id":      {location.OwnerID},
		"secret_name":   {secretName},
	}
	if op == "store" {
		form.Set("share_value", base64.StdEncoding.EncodeToString(shareBytes))
	}

	var result []byte
	err := s.retrier.RetryWithBackoff(ctx, func() error {
		resp, err := s.post(ctx, location.Name+"/"+executePathByOp[op], form)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		body, _ := io.ReadAll(resp.Body)
		switch resp.StatusCode {
		case http.StatusOK:
			if op != "retrieve" {
				return nil
			}
			decoded, decodeErr := base64.StdEncoding.DecodeString(strings.TrimSpace(string(body)))
			if decodeErr != nil {
				return backoff.Permanent(apperr.Wrap(apperr.KindTransport,
					"malformed share bytes returned by custodian", decodeErr))
			}
			result = decoded
			return nil
		case http.StatusForbidden:
			return backoff.Permanent(apperr.New(apperr.KindForbidden, "token not valid"))
		case http.StatusNotFound:
			return backoff.Permanent(apperr.New(apperr.KindNotFound, "share not found"))
		case http.StatusBadRequest:
			return backoff.Permanent(apperr.New(apperr.KindInvalidArgument,
				"custodian rejected request"))
		default:
			return apperr.New(apperr.KindTransport,
				fmt.Sprintf("unexpected status from custodian: %d", resp.StatusCode))
		}
	})
	return result, err
}

func (s *Server) post(ctx context.Context, target string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidArgument, "failed to build custodian request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransport, "custodian request failed", err)
	}
	return resp, nil
}
