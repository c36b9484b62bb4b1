//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package manager

import (
	"context"
	"encoding/base32"
	"strings"

	"github.com/svalbard/svbd/internal/apperr"
	"github.com/svalbard/svbd/internal/entity"
	"github.com/svalbard/svbd/internal/future"
)

// backupSheetEncoding renders share bytes as groups of uppercase
// letters and digits a person can read aloud or copy onto paper
// without the padding characters standard base32 normally appends.
var backupSheetEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// RenderBackupSheet encodes share bytes as a backup-sheet string: an
// unpadded base32 transcription split into 4-character groups, so a
// human copying it by hand has natural places to pause.
func RenderBackupSheet(shareBytes []byte) string {
	raw := backupSheetEncoding.EncodeToString(shareBytes)
	var groups []string
	for i := 0; i < len(raw); i += 4 {
		end := i + 4
		if end > len(raw) {
			end = len(raw)
		}
		groups = append(groups, raw[i:end])
	}
	return strings.Join(groups, "-")
}

// ParseBackupSheet reverses RenderBackupSheet, tolerating the groups
// a person retypes with or without the separating dashes.
func ParseBackupSheet(sheet string) ([]byte, error) {
	compact := strings.ToUpper(strings.ReplaceAll(sheet, "-", ""))
	compact = strings.ReplaceAll(compact, " ", "")
	if compact == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "backup sheet must not be empty")
	}
	decoded, err := backupSheetEncoding.DecodeString(compact)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidArgument, "malformed backup sheet", err)
	}
	return decoded, nil
}

// Printed is the share-manager for the printed-copy custody type.
// Rendering and parsing a backup sheet (RenderBackupSheet /
// ParseBackupSheet) are real and exercised by app/svbd's CLI, which
// prints a sheet for the owner to keep and prompts for it back on
// recovery. The Manager methods themselves always fail: no paper-
// cutting or scanning hardware exists in this build, and a printed
// share's custody lives with the human holding the paper, not with
// any process this manager could poll.
type Printed struct{}

// NewPrinted returns a Printed manager.
func NewPrinted() *Printed { return &Printed{} }

// NotImplementedError is the cause wrapped into the apperr.KindTransport
// failure Printed.Store and Printed.Retrieve return. Sheet carries the
// rendered backup-sheet text on Store, so a caller's follow-up list
// can still show the owner what to write down even though the manager
// could not store it automatically.
type NotImplementedError struct {
	Sheet string
}

func (e *NotImplementedError) Error() string {
	return "printed-copy manager: store/retrieve require a human; not automated in this build"
}

func (p *Printed) validateLocation(location entity.ShareLocation) error {
	if location.Type != entity.LocationPrinted {
		return apperr.New(apperr.KindInvalidArgument,
			"printed manager cannot dispatch a non-printed location")
	}
	return location.Validate()
}

// Store implements Manager. It always fails, carrying the rendered
// backup sheet in the wrapped NotImplementedError so the sharing
// client can still tell the owner what to transcribe.
func (p *Printed) Store(_ context.Context, _ string, shareBytes []byte,
	location entity.ShareLocation) *future.Future[struct{}] {
	if err := p.validateLocation(location); err != nil {
		return future.Done(struct{}{}, err)
	}
	sheet := RenderBackupSheet(shareBytes)
	return future.Done(struct{}{}, apperr.Wrap(apperr.KindTransport,
		"printed share requires manual custody", &NotImplementedError{Sheet: sheet}))
}

// Retrieve implements Manager. It always fails: only a human re-
// entering the sheet (app/svbd's interactive recovery prompt) can
// produce the bytes back.
func (p *Printed) Retrieve(_ context.Context, _ string,
	location entity.ShareLocation) *future.Future[[]byte] {
	if err := p.validateLocation(location); err != nil {
		return future.Done[[]byte](nil, err)
	}
	return future.Done[[]byte](nil, apperr.Wrap(apperr.KindTransport,
		"printed share requires manual re-entry", &NotImplementedError{}))
}

// Delete implements Manager. Deleting a printed share means asking
// the owner to destroy the paper; this build has no way to confirm
// that happened, so it fails the same way Store and Retrieve do.
func (p *Printed) Delete(_ context.Context, _ string,
	location entity.ShareLocation) *future.Future[struct{}] {
	if err := p.validateLocation(location); err != nil {
		return future.Done(struct{}{}, err)
	}
	return future.Done(struct{}{}, apperr.Wrap(apperr.KindTransport,
		"printed share deletion requires manual custody", &NotImplementedError{}))
}
