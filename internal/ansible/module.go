// Package ansible implements the process contract between Ansible and a
// compiled binary module: the controller writes the task arguments to a JSON
// file and passes its path as the only command line argument, the module
// prints exactly one JSON result document on stdout and exits zero unless
// the task failed.
package ansible

import "context"

// Metadata identifies a module towards logs and error messages.
type Metadata struct {
	// Name is the module name as used in playbooks ("secrethub_read").
	Name string
	// Description is a one-line summary of what the module does.
	Description string
}

// Module is the contract every binary module implements.
//
// Run receives the parsed request and returns the result document. Expected
// task failures (a secret that cannot be read, a download that cannot be
// verified) are expressed through a Response with Failed set and a
// human-readable Msg; the returned error is reserved for defects such as an
// args file that cannot be decoded.
type Module interface {
	Metadata() Metadata
	Run(ctx context.Context, req *Request) (*Response, error)
}

// CheckModer is implemented by modules that can predict their result without
// mutating anything. When Ansible runs in check mode, modules that do not
// implement it are skipped; the runtime detects support via type assertion.
type CheckModer interface {
	CheckMode(ctx context.Context, req *Request) (*Response, error)
}
