package ansible

import (
	"encoding/json"
	"fmt"
	"os"
)

// Request carries the task arguments Ansible handed to the module process.
type Request struct {
	// CheckMode reports whether the play runs with --check.
	CheckMode bool

	raw []byte
}

// controllerFlags are the internal bookkeeping keys Ansible injects into the
// args file alongside the task parameters. Only check mode is meaningful to
// a binary module; the rest is ignored.
type controllerFlags struct {
	CheckMode bool `json:"_ansible_check_mode"`
}

// ParseArgsFile reads and parses the JSON arguments file Ansible passes as
// the module's only argument.
func ParseArgsFile(path string) (*Request, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading args file: %w", err)
	}
	return ParseArgs(raw)
}

// ParseArgs parses raw task arguments. Split out from ParseArgsFile so the
// development runner can feed arguments without a file.
func ParseArgs(raw []byte) (*Request, error) {
	var flags controllerFlags
	if err := json.Unmarshal(raw, &flags); err != nil {
		return nil, fmt.Errorf("parsing args file: %w", err)
	}
	return &Request{CheckMode: flags.CheckMode, raw: raw}, nil
}

// Decode unmarshals the task arguments into the module's typed args struct.
// Keys the struct does not declare, including Ansible's _ansible_* flags,
// are ignored.
func (r *Request) Decode(v any) error {
	if err := json.Unmarshal(r.raw, v); err != nil {
		return fmt.Errorf("decoding module arguments: %w", err)
	}
	return nil
}
