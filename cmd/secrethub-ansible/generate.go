package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGenerateCmd(root *rootFlags) *cobra.Command {
	var (
		length  int
		symbols bool
	)

	cmd := &cobra.Command{
		Use:   "generate <path>",
		Short: "Generate a random secret and print the value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if length <= 0 {
				return fmt.Errorf("length must be greater than zero")
			}

			client, err := newClient(root)
			if err != nil {
				return err
			}

			if err := client.Generate(cmd.Context(), args[0], length, symbols); err != nil {
				return err
			}

			value, err := client.Read(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("generated a new version of %s but reading it back failed: %w", args[0], err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}

	cmd.Flags().IntVar(&length, "length", 22, "Length of the generated secret")
	cmd.Flags().BoolVar(&symbols, "symbols", false, "Include symbols in the generated secret")

	return cmd
}
