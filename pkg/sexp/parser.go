package sexp

import "github.com/openschematic/schemdiff/pkg/node"

// Promoter is implemented by a registry that wants to classify every
// node as it is closed by the parser (spec §4.4 "parser calls
// promote(raw-node)"). Parse is agnostic to what Promote actually does;
// passing a nil Promoter parses into plain, unclassified nodes.
type Promoter interface {
	Promote(n *node.Node) *node.Node
}

// Parse tokenizes and parses a complete source file into a single root
// node (spec §4.1). The root node is always untyped: its Data() is the
// list of top-level statements. promoter, if non-nil, is invoked once
// per closed node (innermost first) so that registry dispatch happens
// exactly once during parsing (spec §9 "perform the promotion exactly
// once in the parser").
func Parse(src []byte, file string, promoter Promoter) (*node.Node, error) {
	l := newLexer(string(src), file)

	type frame struct {
		items []node.Item
	}
	stack := []frame{{}}

	for {
		tok := l.next()
		if tok == nil {
			break
		}
		switch tok.code {
		case tError:
			return nil, &ParseError{
				File:   file,
				Offset: tok.offset,
				Line:   tok.line,
				Col:    tok.col,
				Kind:   tok.errKind,
				Detail: tok.text,
			}
		case tokenCode(openParen):
			stack = append(stack, frame{})
		case tokenCode(closeParen):
			if len(stack) < 2 {
				return nil, &ParseError{
					File:   file,
					Offset: tok.offset,
					Line:   tok.line,
					Col:    tok.col,
					Kind:   UnbalancedParens,
					Detail: "unexpected closing paren",
				}
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			n := node.New(top.items)
			if promoter != nil {
				n = promoter.Promote(n)
			}
			parent := &stack[len(stack)-1]
			parent.items = append(parent.items, node.NodeItem(n))
		case tString:
			top := &stack[len(stack)-1]
			top.items = append(top.items, node.ValueItem(stringValue(tok.text)))
		case tInt:
			top := &stack[len(stack)-1]
			v, err := intValue(tok.text)
			if err != nil {
				return nil, &ParseError{File: file, Offset: tok.offset, Line: tok.line, Col: tok.col, Kind: UnbalancedParens, Detail: err.Error()}
			}
			top.items = append(top.items, node.ValueItem(v))
		case tDecimal:
			top := &stack[len(stack)-1]
			v, err := node.Decimal(tok.text)
			if err != nil {
				return nil, &ParseError{File: file, Offset: tok.offset, Line: tok.line, Col: tok.col, Kind: UnbalancedParens, Detail: err.Error()}
			}
			top.items = append(top.items, node.ValueItem(v))
		case tAtom:
			top := &stack[len(stack)-1]
			top.items = append(top.items, node.ValueItem(node.Atom(tok.text)))
		}
	}

	if len(stack) != 1 {
		return nil, &ParseError{File: file, Kind: UnbalancedParens, Detail: "unbalanced parentheses: file ended with an open list"}
	}
	return node.New(stack[0].items), nil
}

func stringValue(decoded string) node.Value { return node.String(decoded) }

func intValue(text string) (node.Value, error) {
	var neg bool
	s := text
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	var v int64
	for i := 0; i < len(s); i++ {
		v = v*10 + int64(s[i]-'0')
	}
	if neg {
		v = -v
	}
	return node.Value{Kind: node.KindInt, Text: text, Int: v}, nil
}
