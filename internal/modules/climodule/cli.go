// Package climodule implements the secrethub_cli module: install, upgrade or
// remove the SecretHub CLI binary on the managed host.
package climodule

import (
	"context"

	"github.com/secrethub/ansible-secrethub/internal/ansible"
	"github.com/secrethub/ansible-secrethub/internal/config"
	"github.com/secrethub/ansible-secrethub/internal/installer"
	"github.com/secrethub/ansible-secrethub/internal/platform"
	"github.com/secrethub/ansible-secrethub/internal/release"
	"github.com/secrethub/ansible-secrethub/internal/secrethub"
)

type args struct {
	InstallDir string `json:"install_dir" validate:"omitempty"`
	State      string `json:"state" validate:"omitempty,oneof=present absent"`
	Version    string `json:"version" validate:"omitempty,cliversion"`
}

// Options supplies overrides for tests. The zero value selects the host
// platform, the upstream release index and the real executor.
type Options struct {
	Profile  *platform.Profile
	Index    *release.Index
	Executor secrethub.CommandExecutor
}

type module struct {
	opts Options
}

// New creates the secrethub_cli module.
func New() ansible.Module {
	return NewWithOptions(Options{})
}

// NewWithOptions creates the module with explicit dependencies.
func NewWithOptions(opts Options) ansible.Module {
	return &module{opts: opts}
}

var _ ansible.Module = (*module)(nil)
var _ ansible.CheckModer = (*module)(nil)

func (m *module) Metadata() ansible.Metadata {
	return ansible.Metadata{
		Name:        "secrethub_cli",
		Description: "Install the SecretHub CLI.",
	}
}

func (m *module) Run(ctx context.Context, req *ansible.Request) (*ansible.Response, error) {
	inst, desired, failResp := m.prepare(req)
	if failResp != nil {
		return failResp, nil
	}

	result, err := inst.Converge(ctx, desired)
	if err != nil {
		return ansible.FailErr(err), nil
	}

	return &ansible.Response{
		Changed: result.Changed,
		Payload: map[string]any{
			"bin_path":    result.BinPath,
			"install_dir": result.InstallDir,
			"version":     result.Version,
		},
	}, nil
}

// CheckMode reports what Run would change without mutating the system.
func (m *module) CheckMode(ctx context.Context, req *ansible.Request) (*ansible.Response, error) {
	inst, desired, failResp := m.prepare(req)
	if failResp != nil {
		return failResp, nil
	}

	ev, err := inst.Evaluate(ctx, desired)
	if err != nil {
		return ansible.FailErr(err), nil
	}

	return &ansible.Response{
		Changed: ev.RequiresAction,
		Msg:     ev.Message,
		Payload: map[string]any{
			"bin_path":    ev.Observed.Path,
			"install_dir": ev.InstallDir,
			"version":     ev.TargetVersion,
		},
	}, nil
}

// prepare decodes and validates the args and wires the installer. A non-nil
// response means the run must bail out with it.
func (m *module) prepare(req *ansible.Request) (*installer.Installer, installer.DesiredState, *ansible.Response) {
	var a args
	if err := req.Decode(&a); err != nil {
		return nil, installer.DesiredState{}, ansible.FailErr(err)
	}
	if err := config.ValidateArgs(a); err != nil {
		return nil, installer.DesiredState{}, ansible.FailErr(err)
	}

	var profile platform.Profile
	if m.opts.Profile != nil {
		profile = *m.opts.Profile
	} else {
		detected, err := platform.Detect()
		if err != nil {
			return nil, installer.DesiredState{}, ansible.FailErr(err)
		}
		profile = detected
	}

	inst := installer.New(installer.Options{
		Profile:  profile,
		Index:    m.opts.Index,
		Executor: m.opts.Executor,
		Logger:   ansible.DebugLogger(),
	})

	desired := installer.DesiredState{
		Version:    a.Version,
		InstallDir: a.InstallDir,
		Presence:   installer.Presence(a.State),
	}
	return inst, desired, nil
}
