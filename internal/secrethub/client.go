// Package secrethub wraps the SecretHub CLI binary. The client translates
// secret operations into CLI invocations and maps process failures onto the
// module error taxonomy. All cryptography and storage semantics stay inside
// the CLI itself.
package secrethub

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/secrethub/ansible-secrethub/internal/config"
	"github.com/secrethub/ansible-secrethub/internal/logger"
	"github.com/secrethub/ansible-secrethub/internal/platform"
	secrethuberrors "github.com/secrethub/ansible-secrethub/pkg/errors"
)

// Config carries everything a Client needs to invoke the CLI.
type Config struct {
	// BinPath is the location of the CLI binary.
	BinPath string
	// ConfigDir, when set, is passed to every invocation via --config-dir.
	ConfigDir string
	// Credential and CredentialPassphrase travel to the CLI exclusively
	// through the process environment, never through argv.
	Credential           string
	CredentialPassphrase string
	// Executor defaults to the real SystemExecutor.
	Executor CommandExecutor
	Logger   *logger.Logger
}

// Client invokes the SecretHub CLI for secret operations.
type Client struct {
	binPath    string
	configDir  string
	credential string
	passphrase string
	executor   CommandExecutor
	logger     *logger.Logger
}

// NewClient builds a Client from the given configuration.
func NewClient(cfg Config) *Client {
	executor := cfg.Executor
	if executor == nil {
		executor = &SystemExecutor{}
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		binPath:    cfg.BinPath,
		configDir:  cfg.ConfigDir,
		credential: cfg.Credential,
		passphrase: cfg.CredentialPassphrase,
		executor:   executor,
		logger:     log.WithComponent("secrethub-client"),
	}
}

// NewClientFromParams resolves the shared module parameters and builds a
// client. The platform profile only supplies the default binary location, so
// hosts without published releases still work when an explicit CLI path is
// configured.
func NewClientFromParams(params config.ClientParams, executor CommandExecutor, log *logger.Logger) (*Client, error) {
	profile, err := platform.Detect()
	if err != nil {
		if config.Resolve(params.CLIPath, config.EnvCLIPath, "") == "" {
			return nil, err
		}
		profile = platform.Profile{}
	}

	resolved := params.Resolved(profile)
	return NewClient(Config{
		BinPath:              resolved.CLIPath,
		ConfigDir:            resolved.ConfigDir,
		Credential:           resolved.Credential,
		CredentialPassphrase: resolved.CredentialPassphrase,
		Executor:             executor,
		Logger:               log,
	}), nil
}

// BinPath returns the CLI binary path the client invokes.
func (c *Client) BinPath() string {
	return c.binPath
}

// Read returns the value of the secret at the given path. A single trailing
// newline is stripped from the CLI output.
func (c *Client) Read(ctx context.Context, path string) (string, error) {
	stdout, err := c.run(ctx, []string{"read", path}, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(stdout), "\n"), nil
}

// Write creates a new secret version at the given path. The value is fed to
// the CLI on stdin so it never appears in a process listing.
func (c *Client) Write(ctx context.Context, path, value string) error {
	_, err := c.run(ctx, []string{"write", path}, []byte(value))
	return err
}

// Generate has the CLI create a random secret version at the given path.
// The generated value is not returned; callers read it back. A zero length
// leaves the CLI default in charge.
func (c *Client) Generate(ctx context.Context, path string, length int, symbols bool) error {
	args := []string{"generate", "rand"}
	if symbols {
		args = append(args, "--symbols")
	}
	args = append(args, path)
	if length > 0 {
		args = append(args, strconv.Itoa(length))
	}

	_, err := c.run(ctx, args, nil)
	return err
}

// Version reports the version of the CLI binary the client is configured
// with.
func (c *Client) Version(ctx context.Context) (string, error) {
	return BinaryVersion(ctx, c.executor, c.binPath)
}

// run assembles and executes one CLI command:
//
//	<bin> [--config-dir=<dir>] <args...>
func (c *Client) run(ctx context.Context, args []string, stdin []byte) ([]byte, error) {
	full := make([]string, 0, len(args)+1)
	if c.configDir != "" {
		full = append(full, "--config-dir="+c.configDir)
	}
	full = append(full, args...)

	var env []string
	if c.credential != "" {
		env = append(env, "SECRETHUB_CREDENTIAL="+c.credential)
	}
	if c.passphrase != "" {
		env = append(env, "SECRETHUB_CREDENTIAL_PASSPHRASE="+c.passphrase)
	}

	c.logger.WithFields(map[string]any{
		"bin":        c.binPath,
		"args":       strings.Join(args, " "),
		"credential": logger.Secret(c.credential),
	}).Debug("invoking CLI")

	stdout, stderr, err := c.executor.Execute(ctx, Command{
		Name:  c.binPath,
		Args:  full,
		Env:   env,
		Stdin: stdin,
	})
	if err != nil {
		return nil, c.translateError(err, args, stderr)
	}
	return stdout, nil
}

// translateError maps process failures onto the module error taxonomy.
func (c *Client) translateError(err error, args []string, stderr []byte) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", c.commandLabel(args), err)
	case errors.Is(err, fs.ErrNotExist):
		return secrethuberrors.NewConfigurationError("cli_path", fmt.Sprintf("cannot find the SecretHub CLI at: %s", c.binPath), err)
	case errors.Is(err, fs.ErrPermission):
		return secrethuberrors.NewPermissionError(c.binPath, err)
	}

	var exitErr ExitCoder
	if errors.As(err, &exitErr) {
		return secrethuberrors.NewExternalProcessError(c.commandLabel(args), exitErr.ExitCode(), string(stderr), err)
	}
	return fmt.Errorf("%s: %w", c.commandLabel(args), err)
}

// commandLabel names a CLI invocation for error messages without exposing
// the full binary path or any flag values.
func (c *Client) commandLabel(args []string) string {
	label := filepath.Base(c.binPath)
	if len(args) > 0 {
		label += " " + args[0]
	}
	return label
}
