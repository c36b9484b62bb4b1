//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/base64"
	"os"

	"github.com/svalbard/svbd/internal/entity"
)

// writeMetadataFile persists a sharing metadata record as the
// base64 encoding of its wire-format bytes, the same field-tagged
// record a trusted cloud provider would be handed.
func writeMetadataFile(path string, metadata entity.SharingMetadata) error {
	encoded, err := metadata.MarshalBinary()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(base64.StdEncoding.EncodeToString(encoded)+"\n"), 0600)
}

func readMetadataFile(path string) (entity.SharingMetadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return entity.SharingMetadata{}, err
	}
	decoded, err := base64.StdEncoding.DecodeString(trimNewline(raw))
	if err != nil {
		return entity.SharingMetadata{}, err
	}
	var metadata entity.SharingMetadata
	if err := metadata.UnmarshalBinary(decoded); err != nil {
		return entity.SharingMetadata{}, err
	}
	return metadata, nil
}

func trimNewline(b []byte) string {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return string(b)
}
