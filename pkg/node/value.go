package node

import (
	"fmt"
	"math/big"
	"strings"
)

// Kind identifies which of the four Value variants is populated.
type Kind int

const (
	// KindAtom is an unquoted identifier drawn from the keyword set.
	KindAtom Kind = iota
	// KindInt is a signed integer literal.
	KindInt
	// KindDecimal is a fixed-precision decimal literal.
	KindDecimal
	// KindString is a quoted, escaped unicode string.
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindAtom:
		return "atom"
	case KindInt:
		return "int"
	case KindDecimal:
		return "decimal"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is exactly one of {atom, signed-integer, fixed-precision decimal,
// unicode-string}, per the data model in spec §3.
//
// Decimal values preserve their original written text (Text) so that
// printing never collapses or re-renders their precision; Rat is kept
// alongside for numeric comparisons during diffing.
type Value struct {
	Kind Kind
	Text string   // atom name, or verbatim source text for Int/Decimal
	Str  string   // decoded string contents, KindString only
	Int  int64    // KindInt only
	Rat  *big.Rat // KindDecimal only, parsed from Text for comparisons
}

// Atom constructs an atom value.
func Atom(name string) Value { return Value{Kind: KindAtom, Text: name} }

// Int constructs an integer value, rendering it back using strconv rules
// (verbatim, as printed by the printer).
func Int(v int64) Value { return Value{Kind: KindInt, Text: fmt.Sprintf("%d", v), Int: v} }

// String constructs a string value from its decoded contents.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Decimal constructs a decimal value, preserving the exact source text.
func Decimal(text string) (Value, error) {
	r, ok := new(big.Rat).SetString(text)
	if !ok {
		return Value{}, fmt.Errorf("sexp: invalid decimal literal %q", text)
	}
	return Value{Kind: KindDecimal, Text: text, Rat: r}, nil
}

// IsAtom reports whether v is an atom, optionally matching against one of
// the given names. IsAtom(nil) (no names) just checks the Kind.
func (v Value) IsAtom(names ...string) bool {
	if v.Kind != KindAtom {
		return false
	}
	if len(names) == 0 {
		return true
	}
	for _, n := range names {
		if v.Text == n {
			return true
		}
	}
	return false
}

// Equal reports structural equality between two values: same kind and
// same content. Decimal equality compares on the preserved source text,
// not numeric value, since "1.0" and "1.00" are distinct source forms per
// spec §3 ("decimal distinction is load-bearing").
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindAtom:
		return v.Text == o.Text
	case KindInt:
		return v.Int == o.Int
	case KindDecimal:
		return v.Text == o.Text
	case KindString:
		return v.Str == o.Str
	}
	return false
}

// String renders v the way the printer would emit it as a standalone
// token (no surrounding whitespace/wrap policy applied).
func (v Value) String() string {
	switch v.Kind {
	case KindAtom:
		return v.Text
	case KindInt:
		return v.Text
	case KindDecimal:
		return v.Text
	case KindString:
		return quoteString(v.Str)
	}
	return ""
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
