package sexp

import "testing"

// collectTokens drains a lexer to completion, the same loop Parse uses,
// so a state function that forgets to return between emits hangs this
// test exactly as it would hang Parse.
func collectTokens(t *testing.T, src string) []*token {
	t.Helper()
	l := newLexer(src, "")
	var out []*token
	for {
		tok := l.next()
		if tok == nil {
			return out
		}
		out = append(out, tok)
		if tok.code == tError {
			return out
		}
	}
}

// TestLexThreeConsecutiveClosingParensDoesNotDeadlock is a direct,
// package-internal regression test for the lexGround bug: a run of
// three or more closing parens in one state-function invocation used to
// block forever on the items channel's third send. Parse itself only
// proves this indirectly; this test exercises the lexer's own token
// stream.
func TestLexThreeConsecutiveClosingParensDoesNotDeadlock(t *testing.T) {
	toks := collectTokens(t, `(a(b)(c)))`)
	var codes []tokenCode
	for _, tok := range toks {
		codes = append(codes, tok.code)
	}
	want := []tokenCode{
		tokenCode(openParen), tAtom,
		tokenCode(openParen), tAtom, tokenCode(closeParen),
		tokenCode(openParen), tAtom, tokenCode(closeParen),
		tokenCode(closeParen), tokenCode(closeParen),
	}
	if len(codes) != len(want) {
		t.Fatalf("got %d tokens %v, want %d tokens %v", len(codes), codes, len(want), want)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, codes[i], want[i])
		}
	}
}

// TestLexLongRunOfBareClosingParens pushes well past the items channel's
// capacity of two with nothing but delimiters, guarding against any
// off-by-one in the fix.
func TestLexLongRunOfBareClosingParens(t *testing.T) {
	src := "((((((((()))))))))"
	toks := collectTokens(t, src)
	if len(toks) != len(src) {
		t.Fatalf("got %d tokens, want %d (one per paren)", len(toks), len(src))
	}
	for _, tok := range toks {
		if tok.code != tokenCode(openParen) && tok.code != tokenCode(closeParen) {
			t.Fatalf("unexpected token code %v", tok.code)
		}
	}
}

func TestLexAtomStringIntDecimal(t *testing.T) {
	toks := collectTokens(t, `bare "quoted" 42 -1.5`)
	wantCodes := []tokenCode{tAtom, tString, tInt, tDecimal}
	if len(toks) != len(wantCodes) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(wantCodes))
	}
	for i, tok := range toks {
		if tok.code != wantCodes[i] {
			t.Fatalf("token %d: got code %v, want %v", i, tok.code, wantCodes[i])
		}
	}
	if toks[1].text != "quoted" {
		t.Fatalf("string token text = %q, want %q", toks[1].text, "quoted")
	}
}

func TestLexUnterminatedStringEmitsError(t *testing.T) {
	toks := collectTokens(t, `"never closed`)
	if len(toks) != 1 || toks[0].code != tError {
		t.Fatalf("got %v, want a single tError token", toks)
	}
	if toks[0].errKind != UnterminatedString {
		t.Fatalf("errKind = %v, want UnterminatedString", toks[0].errKind)
	}
}
