package config

import (
	"github.com/secrethub/ansible-secrethub/internal/platform"
)

// ClientParams is the parameter surface shared by every module that talks to
// the CLI. Field names match the playbook parameter names.
type ClientParams struct {
	CLIPath              string `json:"cli_path" validate:"omitempty"`
	ConfigDir            string `json:"config_dir" validate:"omitempty"`
	Credential           string `json:"credential" validate:"omitempty"`
	CredentialPassphrase string `json:"credential_passphrase" validate:"omitempty"`
}

// ResolvedClient holds the client parameters after environment fallback and
// platform defaulting.
type ResolvedClient struct {
	CLIPath              string
	ConfigDir            string
	Credential           string
	CredentialPassphrase string
}

// Resolved applies the resolution order to every client parameter. The CLI
// path falls back to the platform's default install location; the rest
// default to empty, which the CLI treats as unset.
func (p ClientParams) Resolved(profile platform.Profile) ResolvedClient {
	return ResolvedClient{
		CLIPath:              Resolve(p.CLIPath, EnvCLIPath, profile.DefaultBinPath()),
		ConfigDir:            Resolve(p.ConfigDir, EnvConfigDir, ""),
		Credential:           Resolve(p.Credential, EnvCredential, ""),
		CredentialPassphrase: Resolve(p.CredentialPassphrase, EnvCredentialPassphrase, ""),
	}
}
