// Package testutil provides shared test doubles for the collection.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/secrethub/ansible-secrethub/internal/secrethub"
)

// Response defines the mocked outcome for one command pattern.
type Response struct {
	Stdout []byte
	Stderr []byte
	Err    error
}

// ExitError simulates a process that finished with a non-zero status. It
// satisfies secrethub.ExitCoder the same way *exec.ExitError does.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode reports the simulated status.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// MockExecutor is a configurable secrethub.CommandExecutor for tests.
// Responses are keyed by "name arg1 arg2 ..." with prefix matching, where
// name is the binary's base name, so a pattern of "secrethub read" matches
// any read invocation regardless of the configured binary path.
type MockExecutor struct {
	mu sync.Mutex

	responses map[string]Response
	calls     []secrethub.Command

	// Strict makes unmatched commands fail instead of returning empty
	// success.
	Strict bool
}

// NewMockExecutor creates an empty mock.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{responses: make(map[string]Response)}
}

// Execute returns the configured response for the command.
func (m *MockExecutor) Execute(_ context.Context, cmd secrethub.Command) ([]byte, []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, cmd)

	key := commandKey(cmd.Name, cmd.Args)
	if resp, ok := m.responses[key]; ok {
		return resp.Stdout, resp.Stderr, resp.Err
	}
	for pattern, resp := range m.responses {
		if strings.HasPrefix(key, pattern) {
			return resp.Stdout, resp.Stderr, resp.Err
		}
	}

	if m.Strict {
		return nil, nil, fmt.Errorf("mock: no response configured for %q", key)
	}
	return []byte{}, []byte{}, nil
}

// AddResponse registers a response for a command pattern.
func (m *MockExecutor) AddResponse(pattern string, resp Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[pattern] = resp
}

// AddOutput registers a plain stdout response.
func (m *MockExecutor) AddOutput(pattern, stdout string) {
	m.AddResponse(pattern, Response{Stdout: []byte(stdout)})
}

// AddExitError registers a non-zero exit with the given stderr.
func (m *MockExecutor) AddExitError(pattern, stderr string, code int) {
	m.AddResponse(pattern, Response{
		Stderr: []byte(stderr),
		Err:    &ExitError{Code: code, Stderr: stderr},
	})
}

// AddStartError registers a failure to start the process at all, such as a
// missing or non-executable binary.
func (m *MockExecutor) AddStartError(pattern string, err error) {
	m.AddResponse(pattern, Response{Err: err})
}

// Calls returns every executed command in order.
func (m *MockExecutor) Calls() []secrethub.Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]secrethub.Command(nil), m.calls...)
}

// CallCount reports how many commands were executed.
func (m *MockExecutor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// LastCall returns the most recent command, or a zero Command when nothing
// ran.
func (m *MockExecutor) LastCall() secrethub.Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return secrethub.Command{}
	}
	return m.calls[len(m.calls)-1]
}

func commandKey(name string, args []string) string {
	base := filepath.Base(name)
	if len(args) == 0 {
		return base
	}
	return base + " " + strings.Join(args, " ")
}
