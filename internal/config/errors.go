package config

import (
	"errors"
	"fmt"
)

// ErrValidationFailed is wrapped by every FieldError.
var ErrValidationFailed = errors.New("validation failed")

// ParseError reports a TOML document that could not be decoded.
// Line and Column are zero when the decoder gave no position.
type ParseError struct {
	Source       string
	Line, Column int
	Err          error
}

func (e *ParseError) Error() string {
	where := e.Source
	if e.Line > 0 {
		where = fmt.Sprintf("%s:%d:%d", e.Source, e.Line, e.Column)
	}
	return fmt.Sprintf("config %s: %v", where, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FieldError names the setting that failed validation. Key is the dotted TOML
// key or the environment variable the value came from.
type FieldError struct {
	Key    string
	Value  any
	Reason string
}

func (e *FieldError) Error() string {
	msg := fmt.Sprintf("%s = %#v: %v", e.Key, e.Value, ErrValidationFailed)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *FieldError) Unwrap() error { return ErrValidationFailed }

func invalid(key string, value any, reason string) error {
	return &FieldError{Key: key, Value: value, Reason: reason}
}
