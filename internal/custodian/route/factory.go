//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package route

import (
	"net/http"
	"time"

	"github.com/svalbard/svbd/internal/apperr"
	"github.com/svalbard/svbd/internal/channel"
	"github.com/svalbard/svbd/internal/log"
	"github.com/svalbard/svbd/internal/sharestore"
	"github.com/svalbard/svbd/internal/token"
)

// Deps collects the custody server's two process-wide mutable
// resources and its secondary-channel sender. One Deps is shared by
// every request worker; token.Store and sharestore.Store are already
// safe for concurrent use.
type Deps struct {
	Tokens  *token.Store
	Shares  sharestore.Store
	Channel channel.Channel
}

// New builds the custody server's mux: six POST-only endpoints, each
// wrapped with audit logging.
func New(deps *Deps) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/get_storage_token",
		deps.getToken(token.OperationStore, false, log.AuditGetStorageToken))
	mux.HandleFunc("/get_retrieval_token",
		deps.getToken(token.OperationRetrieve, true, log.AuditGetRetrievalToken))
	mux.HandleFunc("/get_deletion_token",
		deps.getToken(token.OperationDelete, true, log.AuditGetDeletionToken))
	mux.HandleFunc("/store_share", deps.storeShare())
	mux.HandleFunc("/retrieve_share", deps.retrieveShare())
	mux.HandleFunc("/delete_share", deps.deleteShare())
	return mux
}

// withAudit wraps h with entry/exit audit logging and the
// all-endpoints-are-POST rule; a non-POST request returns 400 rather
// than the usual 405, and a malformed form body is treated the same
// way.
func withAudit(action log.AuditAction, path string,
	h func(w http.ResponseWriter, r *http.Request, audit *log.AuditEntry)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		audit := &log.AuditEntry{Timestamp: start, Action: action, Path: path, State: log.AuditCreated}
		log.Audit(*audit)

		defer func() {
			audit.Duration = time.Since(start)
			log.Audit(*audit)
		}()

		if r.Method != http.MethodPost {
			fail(w, audit, http.StatusBadRequest, apperr.KindInvalidArgument, "method not allowed.")
			return
		}
		if err := r.ParseForm(); err != nil {
			fail(w, audit, http.StatusBadRequest, apperr.KindInvalidArgument, "malformed form body.")
			return
		}
		audit.RequestID = r.PostFormValue("request_id")
		h(w, r, audit)
	}
}

func fail(w http.ResponseWriter, audit *log.AuditEntry, status int, kind apperr.Kind, body string) {
	audit.State = log.AuditErrored
	audit.Err = string(kind)
	writeText(w, status, body)
}

func succeed(w http.ResponseWriter, audit *log.AuditEntry, status int, body string) {
	audit.State = log.AuditSuccess
	writeText(w, status, body)
}

// requireFields extracts every named form field, reporting the first
// one found empty so the handler can return 400 with a specific
// message instead of a generic "bad request".
func requireFields(r *http.Request, names ...string) (map[string]string, string) {
	values := make(map[string]string, len(names))
	for _, name := range names {
		v := r.PostFormValue(name)
		if v == "" {
			return nil, name
		}
		values[name] = v
	}
	return values, ""
}
