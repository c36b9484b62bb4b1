//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package route

import (
	"io"
	"net/http"

	"github.com/svalbard/svbd/internal/apperr"
)

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// statusForKind maps an error kind to the HTTP status each endpoint
// is allowed to return. already_exists has no status of its own on
// store_share (only 200/400/403 apply there); it is folded into 400,
// alongside the other invalid-argument-shaped refusals that endpoint
// can return.
func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidArgument, apperr.KindAlreadyExists:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
