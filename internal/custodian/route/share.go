//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package route

import (
	"encoding/base64"
	"net/http"

	"github.com/svalbard/svbd/internal/apperr"
	"github.com/svalbard/svbd/internal/log"
	"github.com/svalbard/svbd/internal/shareid"
	"github.com/svalbard/svbd/internal/token"
)

// storeShare consumes a storage token and persists the share bytes it
// was minted for.
func (d *Deps) storeShare() http.HandlerFunc {
	return withAudit(log.AuditStoreShare, "/store_share", func(w http.ResponseWriter, r *http.Request, audit *log.AuditEntry) {
		fields, missing := requireFields(r, "token", "owner_id_type", "owner_id", "secret_name", "share_value")
		if missing != "" {
			fail(w, audit, http.StatusBadRequest, apperr.KindInvalidArgument, "missing required field: "+missing+".")
			return
		}

		shareID := shareid.GetShareID(fields["owner_id_type"], fields["owner_id"], fields["secret_name"])
		audit.ShareID = shareID

		if result := d.Tokens.Validate(fields["token"], shareID, token.OperationStore); result != token.Valid {
			fail(w, audit, http.StatusForbidden, apperr.KindForbidden, "token not valid.")
			return
		}
		d.Tokens.Revoke(fields["token"])

		shareBytes, err := base64.StdEncoding.DecodeString(fields["share_value"])
		if err != nil {
			fail(w, audit, http.StatusBadRequest, apperr.KindInvalidArgument, "malformed share_value.")
			return
		}

		if err := d.Shares.Store(r.Context(), shareID, shareBytes); err != nil {
			fail(w, audit, statusForKind(apperr.Of(err)), apperr.Of(err), "share was not stored.")
			return
		}

		succeed(w, audit, http.StatusOK, "Share stored.")
	})
}

// retrieveShare consumes a retrieval token and returns the share
// bytes base64-encoded, per the endpoint's "base64 share bytes"
// success body.
func (d *Deps) retrieveShare() http.HandlerFunc {
	return withAudit(log.AuditRetrieveShare, "/retrieve_share", func(w http.ResponseWriter, r *http.Request, audit *log.AuditEntry) {
		fields, missing := requireFields(r, "token", "owner_id_type", "owner_id", "secret_name")
		if missing != "" {
			fail(w, audit, http.StatusBadRequest, apperr.KindInvalidArgument, "missing required field: "+missing+".")
			return
		}

		shareID := shareid.GetShareID(fields["owner_id_type"], fields["owner_id"], fields["secret_name"])
		audit.ShareID = shareID

		if result := d.Tokens.Validate(fields["token"], shareID, token.OperationRetrieve); result != token.Valid {
			fail(w, audit, http.StatusForbidden, apperr.KindForbidden, "token not valid.")
			return
		}
		d.Tokens.Revoke(fields["token"])

		shareBytes, err := d.Shares.Retrieve(r.Context(), shareID)
		if err != nil {
			fail(w, audit, http.StatusNotFound, apperr.KindNotFound, "share not found.")
			return
		}

		succeed(w, audit, http.StatusOK, base64.StdEncoding.EncodeToString(shareBytes))
	})
}

// deleteShare consumes a deletion token and removes the share.
//
// Deleting an already-deleted (or never-stored) share id is
// normalized to 404, the same as retrieveShare: NotFound from
// sharestore.Store always maps to 404 through statusForKind, so 500 is
// reserved for an actual transport/backend error, not a missing id.
func (d *Deps) deleteShare() http.HandlerFunc {
	return withAudit(log.AuditDeleteShare, "/delete_share", func(w http.ResponseWriter, r *http.Request, audit *log.AuditEntry) {
		fields, missing := requireFields(r, "token", "owner_id_type", "owner_id", "secret_name")
		if missing != "" {
			fail(w, audit, http.StatusBadRequest, apperr.KindInvalidArgument, "missing required field: "+missing+".")
			return
		}

		shareID := shareid.GetShareID(fields["owner_id_type"], fields["owner_id"], fields["secret_name"])
		audit.ShareID = shareID

		if result := d.Tokens.Validate(fields["token"], shareID, token.OperationDelete); result != token.Valid {
			fail(w, audit, http.StatusForbidden, apperr.KindForbidden, "token not valid.")
			return
		}
		d.Tokens.Revoke(fields["token"])

		if err := d.Shares.Delete(r.Context(), shareID); err != nil {
			if apperr.Of(err) == apperr.KindNotFound {
				fail(w, audit, http.StatusNotFound, apperr.KindNotFound, "share not found.")
				return
			}
			fail(w, audit, http.StatusInternalServerError, apperr.KindTransport, "internal error.")
			return
		}

		succeed(w, audit, http.StatusOK, "Share deleted.")
	})
}
