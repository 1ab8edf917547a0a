package sexp

import "fmt"

// ParseError is returned for any malformed input. It is fatal for the
// file being parsed (spec §4.1 "All errors are fatal for the current
// file"); the core never attempts partial recovery.
type ParseError struct {
	File   string
	Offset int
	Line   int
	Col    int
	Kind   ParseErrorKind
	Detail string
}

// ParseErrorKind enumerates the parse failure taxonomy from spec §4.1.
type ParseErrorKind int

const (
	// UnbalancedParens means the input ended with an open list, or a
	// close paren appeared with no matching open.
	UnbalancedParens ParseErrorKind = iota
	// UnterminatedString means a string literal was never closed.
	UnterminatedString
	// UnescapedNewlineInString means a literal newline appeared inside
	// a quoted string rather than its \n escape.
	UnescapedNewlineInString
)

func (k ParseErrorKind) String() string {
	switch k {
	case UnbalancedParens:
		return "UnbalancedParens"
	case UnterminatedString:
		return "UnterminatedString"
	case UnescapedNewlineInString:
		return "UnescapedNewlineInString"
	default:
		return "ParseError"
	}
}

func (e *ParseError) Error() string {
	loc := e.File
	if loc == "" {
		loc = "<input>"
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %s", loc, e.Line, e.Col, e.Kind, e.Detail)
	}
	return fmt.Sprintf("%s: offset %d: %s: %s", loc, e.Offset, e.Kind, e.Detail)
}
