//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/cobra"
)

const appName = "svbd"

// rootCmd is the entry point for every subcommand. It performs no
// action itself.
var rootCmd = &cobra.Command{
	Use:   "svbd",
	Short: appName + " - long-term backup for short high-value secrets",
}

// Initialize registers every subcommand on the root command.
func Initialize() {
	rootCmd.AddCommand(newShareCommand())
	rootCmd.AddCommand(newRecoverCommand())
	rootCmd.AddCommand(newServeCustodianCommand())
	rootCmd.AddCommand(newVersionCommand())
}

// Execute runs the root command, exiting with status 1 on failure so
// test harnesses can rely on the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}
