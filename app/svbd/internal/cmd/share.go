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
	"strings"

	"github.com/spf13/cobra"

	"github.com/svalbard/svbd/internal/entity"
	"github.com/svalbard/svbd/internal/env"
	"github.com/svalbard/svbd/internal/integrity"
)

func newShareCommand() *cobra.Command {
	var (
		secret        string
		secretStdin   bool
		secretName    string
		ownerIDType   string
		ownerID       string
		k             int
		servers       []string
		channelDir    string
		metadataFile  string
		skipTLSVerify bool
	)

	cmd := &cobra.Command{
		Use:   "share",
		Short: "Split a secret and dispatch its shares to a fleet of custody servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := resolveSecret(secret, secretStdin)
			if err != nil {
				return err
			}
			if metadataFile == "" {
				metadataFile = secretName + ".svbd-metadata"
			}

			locations := make([]entity.ShareLocation, len(servers))
			for i, s := range servers {
				locations[i] = entity.ShareLocation{
					Type:        entity.LocationServer,
					Name:        s,
					OwnerIDType: ownerIDType,
					OwnerID:     ownerID,
				}
			}

			registry, err := buildRegistry(channelDir, skipTLSVerify)
			if err != nil {
				return err
			}

			result, err := integrity.Share(context.Background(), registry, integrity.SharingRequest{
				SecretName: secretName,
				Secret:     value,
				K:          k,
				N:          len(locations),
				Locations:  locations,
			})
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err.Error())
				return err
			}

			if err := writeMetadataFile(metadataFile, result.Metadata); err != nil {
				return err
			}

			stored := len(locations) - len(result.SharesToBeStored)
			fmt.Fprintf(cmd.OutOrStdout(), "Stored %d shares\n", stored)
			for _, failed := range result.SharesToBeStored {
				fmt.Fprintf(cmd.ErrOrStderr(), "  pending: %s: %s\n",
					failed.Location.Name, failed.Err.Error())
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&secret, "secret", "", "the secret value to share")
	flags.BoolVar(&secretStdin, "secret-stdin", false, "read the secret from stdin")
	flags.StringVar(&secretName, "secret-name", "", "name identifying the secret (required)")
	flags.StringVar(&ownerIDType, "owner-id-type", "", "owner identifier type handed to each custodian (required)")
	flags.StringVar(&ownerID, "owner-id", "", "owner identifier handed to each custodian (required)")
	flags.IntVar(&k, "k", 0, "recovery threshold (required)")
	flags.StringArrayVar(&servers, "server", nil, "custody server URL, repeatable; one per share")
	flags.StringVar(&channelDir, "channel-dir", env.ChannelDir(), "directory used for the secondary channel")
	flags.StringVar(&metadataFile, "metadata-file", "", "where to write the sharing metadata record")
	flags.BoolVar(&skipTLSVerify, "insecure-skip-tls-verify", true, "skip verifying custody server TLS certificates")

	_ = cmd.MarkFlagRequired("secret-name")
	_ = cmd.MarkFlagRequired("owner-id-type")
	_ = cmd.MarkFlagRequired("owner-id")
	_ = cmd.MarkFlagRequired("k")
	_ = cmd.MarkFlagRequired("server")

	return cmd
}

// resolveSecret reads the secret value from the --secret flag or, if
// --secret-stdin is set, from standard input (trimming a single
// trailing newline so piped input behaves like a flag value).
func resolveSecret(secret string, fromStdin bool) ([]byte, error) {
	if fromStdin {
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		return []byte(strings.TrimRight(line, "\r\n")), nil
	}
	if secret == "" {
		return nil, fmt.Errorf("one of --secret or --secret-stdin is required")
	}
	return []byte(secret), nil
}
