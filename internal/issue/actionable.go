// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ActionableError is an error that tells the user what to do next. Beyond
	// the failed operation it carries the resource involved and concrete
	// suggestions, so command output can offer a fix instead of a bare cause.
	//
	// Construct one through the ErrorContext builder:
	//
	//	return issue.NewErrorContext().
	//		WithOperation("load manifest").
	//		WithResource(manifestPath).
	//		WithSuggestion("Run 'slipway init' to scaffold one").
	//		Wrap(err).
	//		BuildError()
	ActionableError struct {
		// Operation is the verb phrase that failed, e.g. "assemble bundle".
		Operation string

		// Resource is the file, directory, or entity involved. Optional.
		Resource string

		// Suggestions are next steps shown under the message. Optional.
		Suggestions []string

		// Cause is the underlying error. Optional.
		Cause error
	}

	// ErrorContext accumulates error context field by field. A context can be
	// prepared up front and finished with Wrap/BuildError at the failure site.
	ErrorContext struct {
		operation   string
		resource    string
		suggestions []string
		cause       error
	}
)

// NewErrorContext creates an empty ErrorContext builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// WithOperation sets the verb phrase that failed, e.g. "load manifest".
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource sets the file, directory, or entity involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion appends one next step. Call repeatedly to stack suggestions
// in the order they should appear.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.suggestions = append(c.suggestions, sug)
	return c
}

// Wrap records the underlying error as the cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build assembles the ActionableError. The operation is required; without it
// Build returns nil.
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}
	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Suggestions: c.suggestions,
		Cause:       c.cause,
	}
}

// BuildError assembles the ActionableError as a plain error, for direct use
// in return statements. Returns nil when no operation is set.
func (c *ErrorContext) BuildError() error {
	ae := c.Build()
	if ae == nil {
		return nil
	}
	return ae
}

// Error returns the one-line form: "failed to <operation>[: <resource>][: <cause>]".
func (e *ActionableError) Error() string {
	var msg strings.Builder

	msg.WriteString("failed to ")
	msg.WriteString(e.Operation)

	if e.Resource != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Resource)
	}
	if e.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Cause.Error())
	}
	return msg.String()
}

// Unwrap returns the underlying cause for use with errors.Is/As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the error for command output. The one-line message comes
// first, then the suggestions as a bulleted list:
//
//	failed to <operation>: <resource>: <cause>
//	  • <suggestion 1>
//	  • <suggestion 2>
//
// With verbose set, the full cause chain follows, one numbered line per
// wrapped error.
func (e *ActionableError) Format(verbose bool) string {
	var msg strings.Builder

	msg.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n")
		for _, suggestion := range e.Suggestions {
			msg.WriteString("\n  • ")
			msg.WriteString(suggestion)
		}
	}

	if verbose && e.Cause != nil {
		msg.WriteString("\n\nError chain:")
		err := e.Cause
		depth := 1
		for err != nil {
			fmt.Fprintf(&msg, "\n  %d. %s", depth, err.Error())
			err = errors.Unwrap(err)
			depth++
		}
	}

	return msg.String()
}
