// Package diagnostic implements the structured error catalog: every engine
// failure is a Diagnostic carrying a stable code, an originating fragment,
// a message, and optional help/notes/cause.
package diagnostic

import "fmt"

// FragmentKind tags where a Fragment points.
type FragmentKind uint8

const (
	// FragmentNone means no source span is available.
	FragmentNone FragmentKind = iota
	// FragmentInternal marks a diagnostic raised by engine-internal logic
	// with no corresponding source text.
	FragmentInternal
	// FragmentSpan marks a diagnostic anchored to a source text span.
	FragmentSpan
)

// Fragment is a source text span with line/column, or a sentinel for
// "internal" or "none".
type Fragment struct {
	Kind   FragmentKind
	Text   string
	Line   int
	Column int
}

func NoFragment() Fragment       { return Fragment{Kind: FragmentNone} }
func InternalFragment() Fragment { return Fragment{Kind: FragmentInternal} }
func SpanFragment(text string, line, col int) Fragment {
	return Fragment{Kind: FragmentSpan, Text: text, Line: line, Column: col}
}

// SubFragment returns the span [start, start+length) of a span fragment,
// preserving line/column as best-effort (used by the duration/temporal
// parser to point at one offending component).
func (f Fragment) SubFragment(start, length int) Fragment {
	if f.Kind != FragmentSpan {
		return f
	}
	end := start + length
	if end > len(f.Text) {
		end = len(f.Text)
	}
	if start > len(f.Text) {
		start = len(f.Text)
	}
	return Fragment{Kind: FragmentSpan, Text: f.Text[start:end], Line: f.Line, Column: f.Column + start}
}

// Diagnostic is a single structured failure: a stable code, human message,
// originating fragment, optional short label, optional help text, zero or
// more notes, and an optional nested cause.
type Diagnostic struct {
	Code          string
	Statement     string
	Message       string
	Fragment      Fragment
	Label         string
	Help          string
	Notes         []string
	Cause         *Diagnostic
	OperatorChain []string
}

// Error is the single error type carried everywhere in the engine; it wraps
// exactly one Diagnostic. Converting to a wire representation happens at
// the transport edge, not here.
type Error struct {
	D Diagnostic
}

func New(d Diagnostic) *Error { return &Error{D: d} }

func (e *Error) Error() string {
	if e.D.Label != "" {
		return fmt.Sprintf("[%s] %s: %s", e.D.Code, e.D.Message, e.D.Label)
	}
	return fmt.Sprintf("[%s] %s", e.D.Code, e.D.Message)
}

// Unwrap exposes the nested cause, if any, for errors.Is/As.
func (e *Error) Unwrap() error {
	if e.D.Cause == nil {
		return nil
	}
	return &Error{D: *e.D.Cause}
}

// Code returns the stable diagnostic code, or "" if err is not an *Error.
func Code(err error) string {
	var de *Error
	if e, ok := err.(*Error); ok {
		de = e
	}
	if de == nil {
		return ""
	}
	return de.D.Code
}

// WithOperatorChain attaches the operator-chain context (volcano executor
// stack) to a diagnostic for debugging, returning a new Error.
func (e *Error) WithOperatorChain(chain []string) *Error {
	d := e.D
	d.OperatorChain = chain
	return &Error{D: d}
}
