// README: Error taxonomy shared by the pricing, toll and quote modules.
package types

import "fmt"

// ValidationError reports caller-supplied input that violates a precondition.
// It is always surfaced to the caller and never corrected silently.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConfigurationError reports a malformed rule document or catalog feature.
// Subject names the client or feature, Key the offending document key.
type ConfigurationError struct {
	Subject string
	Key     string
	Reason  string
	Err     error
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("configuration error for %q", e.Subject)
	if e.Key != "" {
		msg += fmt.Sprintf(" at key %q", e.Key)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
