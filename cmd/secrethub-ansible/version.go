package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newVersionCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "secrethub-ansible %s\ncommit: %s\nbuilt: %s\n", version, commit, date)

			// Report the managed CLI too when one is reachable.
			client, err := newClient(root)
			if err != nil {
				return nil
			}
			cliVersion, err := client.Version(cmd.Context())
			if err != nil {
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "secrethub CLI: %s\n", cliVersion)
			return nil
		},
	}

	return cmd
}
