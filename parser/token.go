package parser

import "fmt"

// TokenType identifies the lexical class of a Token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenRegister
	TokenKeyword
	TokenIdentifier
	TokenTypeName // int, float, string, bool, class, function, None
	TokenInt
	TokenFloat
	TokenString
	TokenBool
	TokenComma
)

var tokenTypeNames = map[TokenType]string{
	TokenEOF:        "EOF",
	TokenRegister:   "REGISTER",
	TokenKeyword:    "KEYWORD",
	TokenIdentifier: "IDENTIFIER",
	TokenTypeName:   "TYPE",
	TokenInt:        "INT",
	TokenFloat:      "FLOAT",
	TokenString:     "STRING",
	TokenBool:       "BOOL",
	TokenComma:      "COMMA",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// mnemonics is the fixed set of instruction keywords recognized by the
// tokenizer. An identifier matching one of these becomes a Keyword token
// instead of an Identifier token.
var mnemonics = map[string]bool{
	"move": true, "movebetween": true, "moveargument": true, "moveasargument": true,
	"add": true, "sub": true, "mul": true, "div": true, "rem": true, "pow": true,
	"or": true, "xor": true, "and": true, "not": true,
	"lt": true, "le": true, "gt": true, "ge": true, "eq": true, "ne": true,
	"return": true, "setvariable": true, "movfromvariable": true, "throwfrom": true,
	"definelabel": true, "jumpunc": true, "jumpc": true, "call": true,
	"definefnlabel": true, "endfunction": true,
	"stdoutwrite": true, "stdoutwritedebugged": true, "stdoutflush": true,
	"stderrwrite": true, "stderrwritedebugged": true, "stderrflush": true,
	"bufferedstdinread": true,
}

var typeNames = map[string]bool{
	"int": true, "float": true, "string": true, "bool": true, "class": true, "function": true, "None": true,
}

// Token is one lexical unit. Only the fields relevant to Type are
// populated; the rest are zero.
type Token struct {
	Type TokenType
	Pos  Position

	// Literal carries Keyword/Identifier/TypeName text verbatim.
	Literal string

	Register int
	Int      int32
	Float    float64
	Str      string
	Bool     bool

	// Length is the token's source width. Diagnostic messages report only
	// the token's starting line and column; they do not include a span.
	Length int
}

func (t Token) String() string {
	switch t.Type {
	case TokenRegister:
		return fmt.Sprintf("r%d", t.Register)
	case TokenInt:
		return fmt.Sprintf("%d", t.Int)
	case TokenFloat:
		return fmt.Sprintf("%g", t.Float)
	case TokenString:
		return fmt.Sprintf("%q", t.Str)
	case TokenBool:
		return fmt.Sprintf("%t", t.Bool)
	case TokenComma:
		return ","
	case TokenEOF:
		return "EOF"
	default:
		return t.Literal
	}
}
