package grammar

import (
	"fmt"
	"strconv"
)

const contextAmount = 10

// SyntaxError is a user-facing parse error. Cursor is -1 when the error has
// no position in Input.
type SyntaxError struct {
	Message string
	Input   string
	Cursor  int
}

func (e *SyntaxError) Error() string {
	ctx := e.Context()
	if ctx == "" {
		return e.Message
	}
	return e.Message + " at position " + strconv.Itoa(e.Cursor) + ": " + ctx
}

// Context renders up to ten bytes of input before the cursor followed by a
// marker, or "" when there is no position.
func (e *SyntaxError) Context() string {
	if e.Input == "" || e.Cursor < 0 {
		return ""
	}
	cursor := min(len(e.Input), e.Cursor)
	ctx := ""
	if cursor > contextAmount {
		ctx = "..."
	}
	return ctx + e.Input[max(0, cursor-contextAmount):cursor] + "<--[HERE]"
}

// ErrorType is a message format shared by every error of one kind. Formats
// with verbs take their arguments at construction.
type ErrorType string

func (t ErrorType) message(args []any) string {
	if len(args) == 0 {
		return string(t)
	}
	return fmt.Sprintf(string(t), args...)
}

// Create returns an error without position.
func (t ErrorType) Create(args ...any) *SyntaxError {
	return &SyntaxError{Message: t.message(args), Cursor: -1}
}

// CreateWithContext returns an error positioned at the cursor of r.
func (t ErrorType) CreateWithContext(r *Reader, args ...any) *SyntaxError {
	return &SyntaxError{Message: t.message(args), Input: r.Input(), Cursor: r.Cursor()}
}

// Delayed defers construction until the failing input and cursor are known.
func (t ErrorType) Delayed(args ...any) DelayedError {
	msg := t.message(args)
	return func(input string, cursor int) error {
		return &SyntaxError{Message: msg, Input: input, Cursor: cursor}
	}
}

// DelayedError is a failure reason stored during a parse and turned into an
// error only if it ends up being reported.
type DelayedError func(input string, cursor int) error

func (d DelayedError) Create(input string, cursor int) error { return d(input, cursor) }

var (
	ErrLiteralIncorrect = ErrorType("Expected literal %s")
	ErrInvalidID        = ErrorType("Invalid ID")
)
