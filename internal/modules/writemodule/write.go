// Package writemodule implements the secrethub_write module: store a new
// version of a secret in SecretHub.
package writemodule

import (
	"context"

	"github.com/secrethub/ansible-secrethub/internal/ansible"
	"github.com/secrethub/ansible-secrethub/internal/config"
	"github.com/secrethub/ansible-secrethub/internal/secrethub"
)

type args struct {
	config.ClientParams
	Path  string `json:"path" validate:"required,secretpath"`
	Value string `json:"value" validate:"required"`
}

type module struct {
	executor secrethub.CommandExecutor
}

// New creates the secrethub_write module.
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
		Name:        "secrethub_write",
		Description: "Write a secret to SecretHub.",
	}
}

// Run writes the value as a new secret version. Every successful write
// creates a version, so success always reports changed.
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

	if err := client.Write(ctx, a.Path, a.Value); err != nil {
		return ansible.FailErr(err), nil
	}

	return &ansible.Response{
		Changed: true,
		Payload: map[string]any{"secret": a.Value},
	}, nil
}
