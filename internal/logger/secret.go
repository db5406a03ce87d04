package logger

// Secret is a string whose value must never reach a log line. Credentials,
// passphrases and secret values are carried through log fields as Secret so
// an accidental print shows the placeholder instead of the material.
type Secret string

const redacted = "[REDACTED]"

// String implements fmt.Stringer.
func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

// MarshalJSON hides the value in any JSON rendering of log fields.
func (s Secret) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte(`""`), nil
	}
	return []byte(`"` + redacted + `"`), nil
}

// Value returns the underlying secret material.
func (s Secret) Value() string {
	return string(s)
}
