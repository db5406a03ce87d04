// Package genmodule implements the secrethub_generate module: have the CLI
// create a random secret version and expose the generated value to the play.
package genmodule

import (
	"context"
	"fmt"

	"github.com/secrethub/ansible-secrethub/internal/ansible"
	"github.com/secrethub/ansible-secrethub/internal/config"
	"github.com/secrethub/ansible-secrethub/internal/secrethub"
)

// defaultLength matches the CLI's own default for generated secrets.
const defaultLength = 22

type args struct {
	config.ClientParams
	Path    string `json:"path" validate:"required,secretpath"`
	Length  int    `json:"length" validate:"omitempty,gt=0"`
	Symbols bool   `json:"symbols"`
}

type module struct {
	executor secrethub.CommandExecutor
}

// New creates the secrethub_generate module.
func New() ansible.Module {
	return &module{}
}

// NewWithExecutor fixes the command executor, for tests.
func NewWithExecutor(executor secrethub.CommandExecutor) ansible.Module {
	return &module{executor: executor}
}

var _ ansible.Module = (*module)(nil)

func (m *module) Metadata() ansible.Metadata {
	return ansible.Metadata{
		Name:        "secrethub_generate",
		Description: "Generate a random secret in SecretHub.",
	}
}

// Run generates a new random secret version, then reads the generated value
// back. When the generate landed but the read back fails, the failure
// reports changed true: a new version exists even though its value is
// unknown.
func (m *module) Run(ctx context.Context, req *ansible.Request) (*ansible.Response, error) {
	var a args
	if err := req.Decode(&a); err != nil {
		return ansible.FailErr(err), nil
	}
	if err := config.ValidateArgs(a); err != nil {
		return ansible.FailErr(err), nil
	}
	if a.Length == 0 {
		a.Length = defaultLength
	}

	client, err := secrethub.NewClientFromParams(a.ClientParams, m.executor, ansible.DebugLogger())
	if err != nil {
		return ansible.FailErr(err), nil
	}

	if err := client.Generate(ctx, a.Path, a.Length, a.Symbols); err != nil {
		return ansible.FailErr(err), nil
	}

	value, err := client.Read(ctx, a.Path)
	if err != nil {
		return &ansible.Response{
			Changed: true,
			Failed:  true,
			Msg:     fmt.Sprintf("generated a new version of %s but reading it back failed: %s", a.Path, err),
		}, nil
	}

	return &ansible.Response{
		Changed: true,
		Payload: map[string]any{"secret": value},
	}, nil
}
