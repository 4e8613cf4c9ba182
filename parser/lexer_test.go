package parser

import "testing"

func TestLexerKeywordsAndRegisters(t *testing.T) {
	toks := NewLexer("move r0 int 5", "test.mg").TokenizeAll()
	want := []TokenType{TokenKeyword, TokenRegister, TokenTypeName, TokenInt, TokenEOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: type = %s, want %s", i, toks[i].Type, tt)
		}
	}
	if toks[1].Register != 0 {
		t.Errorf("register = %d, want 0", toks[1].Register)
	}
	if toks[3].Int != 5 {
		t.Errorf("int = %d, want 5", toks[3].Int)
	}
}

func TestLexerPlaceholderSkipped(t *testing.T) {
	toks := NewLexer("plch return", "test.mg").TokenizeAll()
	if len(toks) != 2 {
		t.Fatalf("got %d tokens, want 2 (return, EOF): %+v", len(toks), toks)
	}
	if toks[0].Type != TokenKeyword || toks[0].Literal != "return" {
		t.Errorf("token 0 = %+v, want keyword 'return'", toks[0])
	}
}

func TestLexerFloat(t *testing.T) {
	toks := NewLexer("float 3.25", "test.mg").TokenizeAll()
	if toks[0].Type != TokenTypeName || toks[1].Type != TokenFloat {
		t.Fatalf("got %+v", toks)
	}
	if toks[1].Float != 3.25 {
		t.Errorf("float = %v, want 3.25", toks[1].Float)
	}
}

func TestLexerString(t *testing.T) {
	toks := NewLexer(`string "hello\nworld\u{0041}"`, "test.mg").TokenizeAll()
	if toks[1].Type != TokenString {
		t.Fatalf("got %+v", toks[1])
	}
	want := "hello\nworldA"
	if toks[1].Str != want {
		t.Errorf("string = %q, want %q", toks[1].Str, want)
	}
}

func TestLexerBooleans(t *testing.T) {
	toks := NewLexer("bool true", "test.mg").TokenizeAll()
	if toks[1].Type != TokenBool || !toks[1].Bool {
		t.Errorf("got %+v, want Bool(true)", toks[1])
	}
}

func TestLexerComment(t *testing.T) {
	toks := NewLexer("-- a comment\nreturn", "test.mg").TokenizeAll()
	if len(toks) != 2 || toks[0].Type != TokenKeyword {
		t.Fatalf("comment not skipped: %+v", toks)
	}
}

func TestLexerUnrecognizedCharacter(t *testing.T) {
	l := NewLexer("return $", "test.mg")
	l.TokenizeAll()
	if !l.Errors().HasErrors() {
		t.Fatalf("expected a lexical error for '$'")
	}
}

func TestLexerRegisterOutOfRange(t *testing.T) {
	l := NewLexer("move r16 int 5", "test.mg")
	toks := l.TokenizeAll()
	if !l.Errors().HasErrors() {
		t.Fatalf("expected a lexical error for r16, got none: %+v", toks)
	}
	for _, kind := range []ErrorKind{ErrorInvalidRegister} {
		found := false
		for _, e := range l.Errors().Errors {
			if e.Kind == kind {
				found = true
			}
		}
		if !found {
			t.Errorf("expected an ErrorInvalidRegister error, got %+v", l.Errors().Errors)
		}
	}
	for _, tok := range toks {
		if tok.Type == TokenIdentifier && tok.Literal == "r16" {
			t.Errorf("r16 should not fall back to an identifier token: %+v", toks)
		}
	}
}
