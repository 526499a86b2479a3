package valigo

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAsyncSchema is the panic value raised when a synchronous entry point is handed a schema
// containing async steps.
var ErrAsyncSchema = errors.New("valigo: schema contains async steps; use the Async entry points")

// Issue represents a single validation failure.
type Issue struct {
	Kind     Kind   // schema, validation or transformation.
	Type     string // Rule identifier (for example: "string", "min_length", "email").
	Input    any    // Value that failed, captured before any transformation.
	Expected string // Description of the wanted value; empty when the rule has none.
	Received string // Description of the value seen.
	Message  string
	// Requirement echoes the rule parameter (the regex, the minimum length...).
	Requirement any
	// Path leads from the root value to Input. Nil for root issues.
	Path []PathItem
	// Issues holds the per-branch issues of a failed union.
	Issues Issues

	Lang           string
	AbortEarly     bool
	AbortPipeEarly bool
}

// Issues is a collection of validation failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		if key, ok := GetDotPath(it); ok {
			fmt.Fprintf(b, "%s at %s", it.Type, key)
		} else {
			b.WriteString(it.Type)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// ValidationError is returned by Parse when the input does not satisfy the schema.
type ValidationError struct {
	Issues Issues
}

// Error returns the message of the first issue, followed by the number of other issues.
func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "valigo: validation failed"
	}
	msg := e.Issues[0].Message
	if key, ok := GetDotPath(e.Issues[0]); ok {
		msg = key + ": " + msg
	}
	if n := len(e.Issues) - 1; n > 0 {
		msg = fmt.Sprintf("%s (and %d more)", msg, n)
	}
	return msg
}

// Unwrap exposes the issues so errors.As can reach them.
func (e *ValidationError) Unwrap() error { return e.Issues }

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Issues, true
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
