//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/svalbard/svbd/internal/env"
	"github.com/svalbard/svbd/internal/integrity"
)

func newRecoverCommand() *cobra.Command {
	var (
		metadataFile  string
		channelDir    string
		skipTLSVerify bool
	)

	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Recover a secret from its shares using a sharing metadata record",
		RunE: func(cmd *cobra.Command, args []string) error {
			metadata, err := readMetadataFile(metadataFile)
			if err != nil {
				return err
			}

			registry, err := buildRegistry(channelDir, skipTLSVerify)
			if err != nil {
				return err
			}

			result, err := integrity.Recover(context.Background(), registry, metadata)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Error:", err.Error())
				for _, outcome := range result.ShareDataList {
					if outcome.Err != nil {
						fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n",
							outcome.Metadata.Location.Name, outcome.Err.Error())
					}
				}
				return err
			}

			used := 0
			for _, outcome := range result.ShareDataList {
				if outcome.Err == nil {
					used++
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recovered using %d shares\n", used)
			fmt.Fprintln(cmd.OutOrStdout(), string(result.Secret))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&metadataFile, "metadata-file", "", "sharing metadata record produced by share (required)")
	flags.StringVar(&channelDir, "channel-dir", env.ChannelDir(), "directory used for the secondary channel")
	flags.BoolVar(&skipTLSVerify, "insecure-skip-tls-verify", true, "skip verifying custody server TLS certificates")

	_ = cmd.MarkFlagRequired("metadata-file")

	return cmd
}
