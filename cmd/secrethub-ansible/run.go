package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/secrethub/ansible-secrethub/internal/ansible"
	"github.com/secrethub/ansible-secrethub/internal/modules/climodule"
	"github.com/secrethub/ansible-secrethub/internal/modules/genmodule"
	"github.com/secrethub/ansible-secrethub/internal/modules/readmodule"
	"github.com/secrethub/ansible-secrethub/internal/modules/writemodule"
)

// moduleByName maps playbook module names onto their implementations.
func moduleByName(name string) (ansible.Module, bool) {
	switch name {
	case "secrethub_cli":
		return climodule.New(), true
	case "secrethub_read":
		return readmodule.New(), true
	case "secrethub_write":
		return writemodule.New(), true
	case "secrethub_generate":
		return genmodule.New(), true
	}
	return nil, false
}

func newRunCmd(root *rootFlags) *cobra.Command {
	var checkMode bool

	cmd := &cobra.Command{
		Use:   "run <module> <args-file>",
		Short: "Run a module exactly as Ansible would",
		Long: "Run a module through the binary module protocol, printing its JSON " +
			"result document. The args file may be JSON or YAML.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, argsPath := args[0], args[1]

			m, ok := moduleByName(name)
			if !ok {
				return fmt.Errorf("unknown module %q", name)
			}

			argsFile, err := prepareArgsFile(argsPath, checkMode)
			if err != nil {
				return err
			}
			defer os.Remove(argsFile)

			if exit := ansible.Execute(m, []string{name, argsFile}, cmd.OutOrStdout()); exit != 0 {
				return fmt.Errorf("module %s reported failure", name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkMode, "check", false, "Run the module in check mode")

	return cmd
}

// prepareArgsFile normalizes a JSON or YAML args file into the JSON file the
// protocol expects and returns its path. The caller removes the file.
func prepareArgsFile(path string, checkMode bool) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading args file: %w", err)
	}

	// JSON is a subset of YAML, so one decoder handles both.
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("parsing args file %s: %w", path, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	if checkMode {
		doc["_ansible_check_mode"] = true
	}

	normalized, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encoding args: %w", err)
	}

	tmp, err := os.CreateTemp("", "secrethub-args-*.json")
	if err != nil {
		return "", fmt.Errorf("creating args file: %w", err)
	}
	if _, err := tmp.Write(normalized); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("writing args file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("closing args file: %w", err)
	}
	return tmp.Name(), nil
}
