//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/svalbard/svbd/internal/custodian"
)

func newServeCustodianCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve-custodian",
		Short: "Run a custody server in-process, configured entirely through the environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return custodian.Serve(ctx)
		},
	}
}
