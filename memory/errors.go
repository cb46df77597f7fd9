package memory

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks failures detected while constructing an Extractor.
	ErrConfiguration = errors.New("configuration error")
	// ErrExtractionFailed marks a completion that could not be turned into a Memory.
	ErrExtractionFailed = errors.New("memory extraction failed")
	// ErrUnexpectedShape marks a decoded object whose top-level lists are not arrays of objects.
	ErrUnexpectedShape = errors.New("unexpected memory shape")
)

// ConfigError reports a schema resource that could not be loaded.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("memory extractor: %v", e.Err)
	}
	return fmt.Sprintf("prompt file error: %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() []error { return []error{ErrConfiguration, e.Err} }

// ExtractionError wraps the parse or shape failure behind a failed extraction.
// errors.Is matches both ErrExtractionFailed and the wrapped llmjson sentinel.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string { return "memory extraction failed: " + e.Err.Error() }

func (e *ExtractionError) Unwrap() []error { return []error{ErrExtractionFailed, e.Err} }
