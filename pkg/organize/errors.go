package organize

import "fmt"

// ConfigError reports a configuration problem detected before any filesystem
// mutation: an empty or uncompilable pattern, a missing root directory. It is
// reported once and aborts planning; per-action failures never use it.
type ConfigError struct {
	Reason string
	Cause  error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}
