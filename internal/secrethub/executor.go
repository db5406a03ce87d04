package secrethub

import (
	"bytes"
	"context"
	"os"
	"os/exec"
)

// Command describes one external process invocation.
type Command struct {
	// Name is the path of the binary to run.
	Name string
	// Args are the command line arguments, excluding the binary name.
	Args []string
	// Env entries (KEY=value) are appended to the inherited environment.
	Env []string
	// Stdin, when non-nil, is fed to the process on standard input.
	Stdin []byte
}

// CommandExecutor is the narrow seam through which all external processes
// run. Tests substitute it with a mock so no real binary is ever invoked.
type CommandExecutor interface {
	// Execute runs the command and blocks until it finishes. It returns
	// whatever the process wrote to stdout and stderr; a non-zero exit
	// status is reported through err.
	Execute(ctx context.Context, cmd Command) (stdout []byte, stderr []byte, err error)
}

// ExitCoder reports the exit status of a finished process. *exec.ExitError
// implements it; mock executors return their own implementation.
type ExitCoder interface {
	ExitCode() int
}

// SystemExecutor executes real processes via os/exec. This is the production
// implementation.
type SystemExecutor struct{}

// Execute runs an actual process.
func (e *SystemExecutor) Execute(ctx context.Context, cmd Command) ([]byte, []byte, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)

	c.Env = os.Environ()
	if len(cmd.Env) > 0 {
		c.Env = append(c.Env, cmd.Env...)
	}
	if cmd.Stdin != nil {
		c.Stdin = bytes.NewReader(cmd.Stdin)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
