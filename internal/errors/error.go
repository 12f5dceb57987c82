package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Category represents the type of error.
type Category string

const (
	CategoryDescriptor Category = "descriptor"
	CategoryRender     Category = "render"
	CategoryRegistry   Category = "registry"
	CategoryBridge     Category = "bridge"
	CategoryConfig     Category = "config"
	CategoryCLI        Category = "cli"
)

// Location represents a position inside a source document, usually a
// markup fragment or a metadata file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// ExtError is a structured error with a registered code, optional source
// location and a fix suggestion.
type ExtError struct {
	// Code is a unique error identifier (e.g., "E201").
	Code string

	// Category is the error type (descriptor, render, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the source position where the error occurred.
	Location *Location

	// Context contains surrounding source lines.
	Context []string

	// contextStart is the line number of Context[0].
	contextStart int

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *ExtError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *ExtError) Unwrap() error {
	return e.Wrapped
}

// WithLocation records a position and, when source is non-empty, the lines
// surrounding it.
func (e *ExtError) WithLocation(file string, line, column int, source string) *ExtError {
	e.Location = &Location{File: file, Line: line, Column: column}
	if source != "" {
		e.Context, e.contextStart = contextLines(source, line, 5)
	}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *ExtError) WithSuggestion(s string) *ExtError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *ExtError) WithDetail(d string) *ExtError {
	e.Detail = d
	return e
}

// WithDetailf is WithDetail with fmt.Sprintf formatting.
func (e *ExtError) WithDetailf(format string, args ...any) *ExtError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *ExtError) Wrap(err error) *ExtError {
	e.Wrapped = err
	return e
}

// contextLines returns up to size lines of source centred on targetLine and
// the line number of the first returned line.
func contextLines(source string, targetLine, size int) ([]string, int) {
	lines := strings.Split(source, "\n")
	start := targetLine - size/2
	end := targetLine + size/2
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end {
		return nil, 0
	}
	return append([]string(nil), lines[start-1:end]...), start
}

// New creates an ExtError from a registered error code.
func New(code string) *ExtError {
	template, ok := registry[code]
	if !ok {
		return &ExtError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &ExtError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
	}
}

// Newf creates a new ExtError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *ExtError {
	return &ExtError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an ExtError.
func FromError(err error, code string) *ExtError {
	if err == nil {
		return nil
	}
	var ee *ExtError
	if stderrors.As(err, &ee) {
		return ee
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err, or any error it wraps, is an ExtError with
// the given code.
func HasCode(err error, code string) bool {
	for err != nil {
		var ee *ExtError
		if !stderrors.As(err, &ee) {
			return false
		}
		if ee.Code == code {
			return true
		}
		err = ee.Wrapped
	}
	return false
}

// CodeOf returns the code of the outermost ExtError in err's chain.
func CodeOf(err error) string {
	var ee *ExtError
	if stderrors.As(err, &ee) {
		return ee.Code
	}
	return ""
}
