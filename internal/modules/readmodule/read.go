// Package readmodule implements the secrethub_read module: fetch one secret
// version from SecretHub and expose its value to the play. Reading never
// mutates anything, so the module always reports changed false.
package readmodule

import (
	"context"

	"github.com/secrethub/ansible-secrethub/internal/ansible"
	"github.com/secrethub/ansible-secrethub/internal/config"
	"github.com/secrethub/ansible-secrethub/internal/secrethub"
)

type args struct {
	config.ClientParams
	Path string `json:"path" validate:"required,secretpath"`
}

type module struct {
	executor secrethub.CommandExecutor
}

// New creates the secrethub_read module.
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
		Name:        "secrethub_read",
		Description: "Read a secret from SecretHub.",
	}
}

func (m *module) Run(ctx context.Context, req *ansible.Request) (*ansible.Response, error) {
	var a args
	if err := req.Decode(&a); err != nil {
		return ansible.FailErr(err), nil
	}
	if err := config.ValidateArgs(a); err != nil {
		return ansible.FailErr(err), nil
	}

	client, err := secrethub.NewClientFromParams(a.ClientParams, m.executor, ansible.DebugLogger())
	if err != nil {
		return ansible.FailErr(err), nil
	}

	value, err := client.Read(ctx, a.Path)
	if err != nil {
		return ansible.FailErr(err), nil
	}

	return &ansible.Response{
		Payload: map[string]any{"secret": value},
	}, nil
}
