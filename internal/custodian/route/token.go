//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package route

import (
	"fmt"
	"net/http"

	"github.com/svalbard/svbd/internal/apperr"
	"github.com/svalbard/svbd/internal/channel"
	"github.com/svalbard/svbd/internal/log"
	"github.com/svalbard/svbd/internal/shareid"
	"github.com/svalbard/svbd/internal/token"
)

// getToken builds the handler shared by the three get_*_token
// endpoints: they differ only in which operation the minted token is
// scoped to and whether the share must already exist (retrieval and
// deletion tokens are meaningless for a share this custodian never
// received).
func (d *Deps) getToken(op token.Operation, requireExisting bool, action log.AuditAction) http.HandlerFunc {
	return withAudit(action, "/"+string(action), func(w http.ResponseWriter, r *http.Request, audit *log.AuditEntry) {
		fields, missing := requireFields(r, "request_id", "owner_id_type", "owner_id", "secret_name")
		if missing != "" {
			fail(w, audit, http.StatusBadRequest, apperr.KindInvalidArgument,
				fmt.Sprintf("Req. %s: missing required field: %s.", r.PostFormValue("request_id"), missing))
			return
		}
		requestID := fields["request_id"]

		shareID := shareid.GetShareID(fields["owner_id_type"], fields["owner_id"], fields["secret_name"])
		audit.ShareID = shareID

		if requireExisting {
			if _, err := d.Shares.Retrieve(r.Context(), shareID); err != nil {
				if apperr.Of(err) == apperr.KindNotFound {
					fail(w, audit, http.StatusNotFound, apperr.KindNotFound,
						fmt.Sprintf("Req. %s: share not found.", requestID))
					return
				}
				fail(w, audit, http.StatusInternalServerError, apperr.KindTransport,
					fmt.Sprintf("Req. %s: internal error.", requestID))
				return
			}
		}

		tok, err := d.Tokens.Mint(shareID, op)
		if err != nil {
			fail(w, audit, http.StatusInternalServerError, apperr.KindTransport,
				fmt.Sprintf("Req. %s: internal error.", requestID))
			return
		}

		recipient := channel.Recipient{OwnerIDType: fields["owner_id_type"], OwnerID: fields["owner_id"]}
		if err := d.Channel.Send(r.Context(), recipient, requestID, tok); err != nil {
			fail(w, audit, http.StatusInternalServerError, apperr.KindTransport,
				fmt.Sprintf("Req. %s: internal error.", requestID))
			return
		}

		succeed(w, audit, http.StatusOK, fmt.Sprintf("Req. %s: token issued.", requestID))
	})
}
