package pipeline

import (
	"errors"
	"fmt"
)

// Error code constants, stable across CLI output formats.
const (
	// Loading errors (E001-E009)
	ErrCodeRead   = "E001" // file read error
	ErrCodeParse  = "E002" // YAML decode error
	ErrCodeSchema = "E003" // CUE schema violation

	// Semantic errors (E101-E109)
	ErrCodeDuplicateName = "E101" // source/node/sink name collision
	ErrCodeUnknownRef    = "E102" // from references an undefined name
	ErrCodeUnknownKind   = "E103" // unknown operator kind
	ErrCodeOpArgs        = "E104" // operator arguments missing or invalid
	ErrCodeEmitOn        = "E105" // emit_on names a non-input
)

// ConfigError describes a rejected pipeline definition. Path locates
// the offending element ("nodes[1].ops[0]" style).
type ConfigError struct {
	Code    string `json:"code"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Path, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// IsConfigError reports whether err (or anything it wraps) is a
// ConfigError.
func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}
