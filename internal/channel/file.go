//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package channel

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/svalbard/svbd/internal/apperr"
)

// File is a Channel that appends one line per delivery to a
// per-recipient file under dir, named by a hash of the recipient's
// identity so owner-facing names never appear as filenames.
type File struct {
	dir string
	mu  sync.Mutex
}

// NewFile returns a File channel rooted at dir, creating dir if it
// does not already exist.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, apperr.Wrap(apperr.KindTransport, "failed to create channel directory", err)
	}
	return &File{dir: dir}, nil
}

func (f *File) Send(_ context.Context, recipient Recipient, requestID, token string) error {
	line, err := Format(requestID, token)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	path := filepath.Join(f.dir, recipientFileName(recipient))
	handle, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return apperr.Wrap(apperr.KindTransport, "failed to open channel file", err)
	}
	defer handle.Close()

	if _, err := handle.WriteString(line + "\n"); err != nil {
		return apperr.Wrap(apperr.KindTransport, "failed to write channel message", err)
	}
	return nil
}

// ReadAll returns every line delivered to recipient so far, in
// delivery order. It exists for tests that need to observe what a
// recipient "received" without a real SMS/email backend.
func (f *File) ReadAll(recipient Recipient) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := filepath.Join(f.dir, recipientFileName(recipient))
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransport, "failed to read channel file", err)
	}

	var lines []string
	start := 0
	for i, b := range data {
		if b == '\n' {
			if i > start {
				lines = append(lines, string(data[start:i]))
			}
			start = i + 1
		}
	}
	return lines, nil
}

func recipientFileName(r Recipient) string {
	sum := sha256.Sum256([]byte(r.OwnerIDType + ":" + r.OwnerID))
	return hex.EncodeToString(sum[:]) + ".log"
}
