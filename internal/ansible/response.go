package ansible

import "encoding/json"

// Response is the result document a module hands back to Ansible.
type Response struct {
	// Changed reports whether the module mutated anything. It stays
	// meaningful on failure: a generate that wrote the secret but could
	// not read it back reports Failed with Changed true.
	Changed bool
	// Failed marks the task as failed; the process exits non-zero.
	Failed bool
	// Skipped marks the task as skipped, for modules that cannot run in
	// check mode.
	Skipped bool
	// Msg is the human-readable outcome, mandatory on failure.
	Msg string
	// Payload holds the module-specific result keys ("secret",
	// "bin_path"). They marshal at the top level of the document.
	Payload map[string]any
}

// Fail builds a failed response without a change.
func Fail(msg string) *Response {
	return &Response{Failed: true, Msg: msg}
}

// FailErr builds a failed response from an error.
func FailErr(err error) *Response {
	return Fail(err.Error())
}

// MarshalJSON renders the flat document Ansible expects: payload keys sit
// alongside the bookkeeping keys, which win on collision.
func (r *Response) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(r.Payload)+4)
	for k, v := range r.Payload {
		doc[k] = v
	}
	doc["changed"] = r.Changed
	doc["failed"] = r.Failed
	if r.Skipped {
		doc["skipped"] = true
	}
	if r.Msg != "" {
		doc["msg"] = r.Msg
	}
	return json.Marshal(doc)
}
