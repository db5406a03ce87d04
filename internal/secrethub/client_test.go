package secrethub_test

import (
	"context"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/secrethub/ansible-secrethub/internal/config"
	"github.com/secrethub/ansible-secrethub/internal/platform"
	"github.com/secrethub/ansible-secrethub/internal/secrethub"
	secrethuberrors "github.com/secrethub/ansible-secrethub/pkg/errors"
	"github.com/secrethub/ansible-secrethub/tests/testutil"
)

const binPath = "/usr/local/secrethub/bin/secrethub"

func newClient(executor secrethub.CommandExecutor, mutate func(*secrethub.Config)) *secrethub.Client {
	cfg := secrethub.Config{BinPath: binPath, Executor: executor}
	if mutate != nil {
		mutate(&cfg)
	}
	return secrethub.NewClient(cfg)
}

func TestClientReadStripsSingleTrailingNewline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		stdout string
		want   string
	}{
		{name: "trailing newline", stdout: "hunter2\n", want: "hunter2"},
		{name: "no newline", stdout: "hunter2", want: "hunter2"},
		{name: "internal newlines preserved", stdout: "line1\nline2\n", want: "line1\nline2"},
		{name: "only one newline stripped", stdout: "value\n\n", want: "value\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock := testutil.NewMockExecutor()
			mock.AddOutput("secrethub read org/repo/secret", tt.stdout)

			client := newClient(mock, nil)
			got, err := client.Read(context.Background(), "org/repo/secret")
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestClientReadPassesConfigDir(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockExecutor()
	mock.AddOutput("secrethub --config-dir=/home/app/.secrethub read org/repo/secret", "value\n")

	client := newClient(mock, func(cfg *secrethub.Config) {
		cfg.ConfigDir = "/home/app/.secrethub"
	})

	got, err := client.Read(context.Background(), "org/repo/secret")
	require.NoError(t, err)
	require.Equal(t, "value", got)

	call := mock.LastCall()
	require.Equal(t, []string{"--config-dir=/home/app/.secrethub", "read", "org/repo/secret"}, call.Args)
}

func TestClientWriteFeedsValueOnStdin(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockExecutor()
	mock.AddOutput("secrethub write org/repo/secret", "")

	client := newClient(mock, nil)
	require.NoError(t, client.Write(context.Background(), "org/repo/secret", "hunter2"))

	call := mock.LastCall()
	require.Equal(t, []string{"write", "org/repo/secret"}, call.Args)
	require.Equal(t, []byte("hunter2"), call.Stdin)
}

func TestClientCredentialTravelsThroughEnvironment(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockExecutor()
	mock.AddOutput("secrethub read org/repo/secret", "value\n")

	client := newClient(mock, func(cfg *secrethub.Config) {
		cfg.Credential = "credential-material"
		cfg.CredentialPassphrase = "passphrase"
	})

	_, err := client.Read(context.Background(), "org/repo/secret")
	require.NoError(t, err)

	call := mock.LastCall()
	require.Contains(t, call.Env, "SECRETHUB_CREDENTIAL=credential-material")
	require.Contains(t, call.Env, "SECRETHUB_CREDENTIAL_PASSPHRASE=passphrase")
	for _, arg := range call.Args {
		require.NotContains(t, arg, "credential-material")
	}
}

func TestClientGenerateArguments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		length   int
		symbols  bool
		wantArgs []string
	}{
		{
			name:     "defaults",
			length:   0,
			symbols:  false,
			wantArgs: []string{"generate", "rand", "org/repo/secret"},
		},
		{
			name:     "length",
			length:   30,
			symbols:  false,
			wantArgs: []string{"generate", "rand", "org/repo/secret", "30"},
		},
		{
			name:     "symbols and length",
			length:   22,
			symbols:  true,
			wantArgs: []string{"generate", "rand", "--symbols", "org/repo/secret", "22"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock := testutil.NewMockExecutor()
			mock.AddOutput("secrethub generate", "")

			client := newClient(mock, nil)
			err := client.Generate(context.Background(), "org/repo/secret", tt.length, tt.symbols)
			require.NoError(t, err)

			require.Equal(t, 1, mock.CallCount())
			require.Equal(t, tt.wantArgs, mock.LastCall().Args)
		})
	}
}

func TestClientNonZeroExitBecomesExternalProcessError(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockExecutor()
	mock.AddExitError("secrethub write org/repo/secret", "error: access denied\n", 1)

	client := newClient(mock, nil)
	err := client.Write(context.Background(), "org/repo/secret", "value")
	require.Error(t, err)

	var procErr *secrethuberrors.ExternalProcessError
	require.ErrorAs(t, err, &procErr)
	require.Equal(t, 1, procErr.ExitCode)
	require.Equal(t, "error: access denied", procErr.Stderr)
	require.Equal(t, "secrethub write", procErr.Cmd)
}

func TestClientMissingBinaryBecomesConfigurationError(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockExecutor()
	mock.AddStartError("secrethub read", fmt.Errorf("fork/exec %s: %w", binPath, fs.ErrNotExist))

	client := newClient(mock, nil)
	_, err := client.Read(context.Background(), "org/repo/secret")
	require.Error(t, err)

	var configErr *secrethuberrors.ConfigurationError
	require.ErrorAs(t, err, &configErr)
	require.Equal(t, "cli_path", configErr.Field)
	require.Contains(t, err.Error(), binPath)
}

func TestClientNonExecutableBinaryBecomesPermissionError(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockExecutor()
	mock.AddStartError("secrethub read", fmt.Errorf("fork/exec %s: %w", binPath, fs.ErrPermission))

	client := newClient(mock, nil)
	_, err := client.Read(context.Background(), "org/repo/secret")
	require.Error(t, err)

	var permErr *secrethuberrors.PermissionError
	require.ErrorAs(t, err, &permErr)
	require.Equal(t, binPath, permErr.Path)
}

func TestClientVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		stdout  string
		stderr  string
		want    string
		wantErr bool
	}{
		{name: "stdout", stdout: "0.44.0\n", want: "0.44.0"},
		{name: "stderr fallback", stderr: "0.41.2\n", want: "0.41.2"},
		{name: "tag prefix stripped", stdout: "v0.44.0\n", want: "0.44.0"},
		{name: "stdout preferred over stderr", stdout: "0.44.0\n", stderr: "noise", want: "0.44.0"},
		{name: "no output", wantErr: true},
		{name: "unrecognized output", stderr: "secrethub: command not understood", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock := testutil.NewMockExecutor()
			mock.AddResponse("secrethub --version", testutil.Response{
				Stdout: []byte(tt.stdout),
				Stderr: []byte(tt.stderr),
			})

			client := newClient(mock, nil)
			got, err := client.Version(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeVersion(t *testing.T) {
	t.Parallel()

	require.Equal(t, "0.44.0", secrethub.NormalizeVersion("v0.44.0"))
	require.Equal(t, "0.44.0", secrethub.NormalizeVersion("0.44.0"))
	require.Equal(t, "0.44.0", secrethub.NormalizeVersion(" v0.44.0\n"))
}

func TestNewClientFromParams(t *testing.T) {
	t.Run("explicit path wins over environment", func(t *testing.T) {
		t.Setenv(config.EnvCLIPath, "/env/bin/secrethub")

		client, err := secrethub.NewClientFromParams(config.ClientParams{CLIPath: "/explicit/bin/secrethub"}, nil, nil)
		require.NoError(t, err)
		require.Equal(t, "/explicit/bin/secrethub", client.BinPath())
	})

	t.Run("environment fallback", func(t *testing.T) {
		t.Setenv(config.EnvCLIPath, "/env/bin/secrethub")

		client, err := secrethub.NewClientFromParams(config.ClientParams{}, nil, nil)
		require.NoError(t, err)
		require.Equal(t, "/env/bin/secrethub", client.BinPath())
	})

	t.Run("platform default", func(t *testing.T) {
		profile, err := platform.Detect()
		if err != nil {
			t.Skipf("no release profile for this host: %v", err)
		}
		t.Setenv(config.EnvCLIPath, "")

		client, err := secrethub.NewClientFromParams(config.ClientParams{}, nil, nil)
		require.NoError(t, err)
		require.Equal(t, profile.DefaultBinPath(), client.BinPath())
	})
}
