//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/svalbard/svbd/internal/apperr"
	"github.com/svalbard/svbd/internal/entity"
	"github.com/svalbard/svbd/internal/future"
	"github.com/svalbard/svbd/internal/manager"
)

// interactivePrinted is the CLI's own printed-copy share manager: it
// replaces internal/manager.Printed (which always fails, since it has
// no terminal to talk to) with one that actually prompts the owner,
// using golang.org/x/term to read the backup sheet without echoing it
// to the screen the way a password prompt does.
type interactivePrinted struct{}

func newInteractivePrinted() *interactivePrinted { return &interactivePrinted{} }

func (p *interactivePrinted) validateLocation(location entity.ShareLocation) error {
	if location.Type != entity.LocationPrinted {
		return apperr.New(apperr.KindInvalidArgument,
			"printed manager cannot dispatch a non-printed location")
	}
	return location.Validate()
}

// Store implements manager.Manager by printing the rendered backup
// sheet for the owner to write down and keep in a safe place.
func (p *interactivePrinted) Store(_ context.Context, secretName string, shareBytes []byte,
	location entity.ShareLocation) *future.Future[struct{}] {
	return future.Go(func() (struct{}, error) {
		if err := p.validateLocation(location); err != nil {
			return struct{}{}, err
		}
		sheet := manager.RenderBackupSheet(shareBytes)
		fmt.Fprintf(os.Stdout, "\nPrinted backup sheet for %q (owner %s):\n\n  %s\n\n",
			secretName, location.OwnerID, sheet)
		fmt.Fprintln(os.Stdout, "Write this down and store it somewhere safe.")
		return struct{}{}, nil
	})
}

// Retrieve implements manager.Manager by prompting the owner to
// type the backup sheet back in during recovery.
func (p *interactivePrinted) Retrieve(_ context.Context, secretName string,
	location entity.ShareLocation) *future.Future[[]byte] {
	return future.Go(func() ([]byte, error) {
		if err := p.validateLocation(location); err != nil {
			return nil, err
		}
		fmt.Fprintf(os.Stdout, "Enter the printed backup sheet for %q (owner %s): ",
			secretName, location.OwnerID)
		sheet, err := readSheet()
		if err != nil {
			return nil, apperr.Wrap(apperr.KindTransport, "failed to read backup sheet", err)
		}
		return manager.ParseBackupSheet(sheet)
	})
}

// Delete implements manager.Manager by asking the owner to destroy
// their paper copy; there is nothing this process can verify.
func (p *interactivePrinted) Delete(_ context.Context, _ string,
	location entity.ShareLocation) *future.Future[struct{}] {
	return future.Go(func() (struct{}, error) {
		if err := p.validateLocation(location); err != nil {
			return struct{}{}, err
		}
		fmt.Fprintln(os.Stdout, "Please destroy the printed backup sheet for this secret.")
		return struct{}{}, nil
	})
}

// readSheet reads one line from the terminal without echoing it when
// stdin is an interactive terminal, falling back to a plain scan when
// it isn't (e.g. piped input).
func readSheet() (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stdout)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return line, nil
}
