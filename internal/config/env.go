// Package config resolves module parameters. Every parameter with an
// environment fallback goes through the same resolution order: explicit
// value, named environment variable, default.
package config

// Environment variables consumed by the modules.
const (
	EnvCLIPath              = "SECRETHUB_CLI_PATH"
	EnvConfigDir            = "SECRETHUB_CONFIG_DIR"
	EnvCredential           = "SECRETHUB_CREDENTIAL"
	EnvCredentialPassphrase = "SECRETHUB_CREDENTIAL_PASSPHRASE"

	// EnvDebug enables stderr debug logging in the module binaries.
	EnvDebug = "SECRETHUB_ANSIBLE_DEBUG"
)
