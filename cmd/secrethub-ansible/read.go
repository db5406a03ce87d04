package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReadCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read <path>",
		Short: "Read a secret and print its value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(root)
			if err != nil {
				return err
			}

			value, err := client.Read(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}

	return cmd
}
