package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newWriteCmd(root *rootFlags) *cobra.Command {
	var value string

	cmd := &cobra.Command{
		Use:   "write <path>",
		Short: "Write a secret from --value or stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if value == "" {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading value from stdin: %w", err)
				}
				// Piped input usually ends in a newline that is not part
				// of the secret.
				value = strings.TrimSuffix(string(raw), "\n")
			}
			if value == "" {
				return fmt.Errorf("no value given: use --value or pipe it on stdin")
			}

			client, err := newClient(root)
			if err != nil {
				return err
			}

			if err := client.Write(cmd.Context(), args[0], value); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote a new version of %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "Secret value (stdin when omitted)")

	return cmd
}
