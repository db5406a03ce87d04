package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/secrethub/ansible-secrethub/internal/config"
	"github.com/secrethub/ansible-secrethub/internal/logger"
	"github.com/secrethub/ansible-secrethub/internal/secrethub"
)

type rootFlags struct {
	verbose bool
	envFile string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "secrethub-ansible",
		Short:         "Development runner for the SecretHub Ansible modules",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnvFile(flags.envFile)
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", "", "Load environment variables from a file (default .env when present)")

	cmd.AddCommand(newInstallCmd(flags))
	cmd.AddCommand(newUninstallCmd(flags))
	cmd.AddCommand(newReadCmd(flags))
	cmd.AddCommand(newWriteCmd(flags))
	cmd.AddCommand(newGenerateCmd(flags))
	cmd.AddCommand(newRunCmd(flags))
	cmd.AddCommand(newVersionCmd(flags))

	return cmd
}

// loadEnvFile loads environment variables for the run. An explicitly named
// file must exist; the default .env is optional.
func loadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("loading env file %s: %w", path, err)
		}
		return nil
	}
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load()
	}
	return nil
}

func newRunnerLogger(verbose bool) *logger.Logger {
	level := "info"
	if verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Level: level, HumanReadable: true})
	if err != nil {
		return logger.Nop()
	}
	return log
}

// newClient builds a CLI client from the environment, the same resolution
// the modules apply to their parameters.
func newClient(root *rootFlags) (*secrethub.Client, error) {
	return secrethub.NewClientFromParams(config.ClientParams{}, nil, newRunnerLogger(root.verbose))
}
