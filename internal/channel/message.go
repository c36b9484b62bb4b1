//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

// Package channel models the out-of-band secondary channel a custody
// server uses to deliver a minted token to the owner of a share,
// alongside the request id that ties the delivery back to the
// get-*-token call that produced it.
package channel

import (
	"strings"

	"github.com/svalbard/svbd/internal/apperr"
)

const prefix = "SVBD"

// Format renders (requestID, token) as the wire line a recipient
// receives: "SVBD:{request_id}:{token}". Either field containing a
// colon would make the line ambiguous to parse back, so Format
// rejects that case rather than silently producing a misleading line.
func Format(requestID, token string) (string, error) {
	if strings.Contains(requestID, ":") || strings.Contains(token, ":") {
		return "", apperr.New(apperr.KindInvalidArgument, "request id and token must not contain ':'")
	}
	return prefix + ":" + requestID + ":" + token, nil
}

// Parse reverses Format, splitting on the first two colons after the
// prefix and validating the prefix matches.
func Parse(line string) (requestID, token string, err error) {
	parts := strings.SplitN(line, ":", 3)
	if len(parts) != 3 || parts[0] != prefix {
		return "", "", apperr.New(apperr.KindInvalidArgument, "malformed secondary-channel message")
	}
	return parts[1], parts[2], nil
}
