package parser

import (
	"fmt"

	"github.com/mirage-lang/mirage/value"
)

// Parser consumes a flat token stream and produces the instruction
// sequence of a single function body. A Mirage source file is just a
// sequence of keyword-led instructions; there is no separate statement or
// expression grammar above that.
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a Parser over an already-tokenized source.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse consumes the whole token stream and returns the decoded
// instruction sequence, or the first error encountered.
func (p *Parser) Parse() ([]value.Instruction, error) {
	var instructions []value.Instruction
	for {
		tok, ok := p.peek()
		if !ok || tok.Type == TokenEOF {
			break
		}
		p.pos++

		if tok.Type != TokenKeyword {
			return nil, p.errorf(tok, "invalid position for token %s", tok)
		}

		inst, err := p.parseInstruction(tok)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, inst)
	}
	return instructions, nil
}

func (p *Parser) parseInstruction(tok Token) (value.Instruction, error) {
	switch tok.Literal {
	case "move":
		reg, err := p.parseReg()
		if err != nil {
			return value.Instruction{}, err
		}
		val, err := p.parseValue()
		if err != nil {
			return value.Instruction{}, err
		}
		return value.Instruction{Kind: value.Move, Reg1: reg, Value: val}, nil

	case "movebetween":
		a, err := p.parseReg()
		if err != nil {
			return value.Instruction{}, err
		}
		b, err := p.parseReg()
		if err != nil {
			return value.Instruction{}, err
		}
		return value.Instruction{Kind: value.MoveBetween, Reg1: a, Reg2: b}, nil

	case "moveargument":
		name, err := p.parseString()
		if err != nil {
			return value.Instruction{}, err
		}
		reg, err := p.parseReg()
		if err != nil {
			return value.Instruction{}, err
		}
		return value.Instruction{Kind: value.MoveArgument, Name: name, Reg1: reg}, nil

	case "moveasargument":
		reg, err := p.parseReg()
		if err != nil {
			return value.Instruction{}, err
		}
		return value.Instruction{Kind: value.MoveAsArgument, Reg1: reg}, nil

	case "add", "sub", "mul", "div", "rem", "pow", "or", "xor", "and", "lt", "le", "gt", "ge", "eq", "ne":
		return p.parseTriop(tok.Literal)

	case "not":
		src, err := p.parseReg()
		if err != nil {
			return value.Instruction{}, err
		}
		dst, err := p.parseReg()
		if err != nil {
			return value.Instruction{}, err
		}
		return value.Instruction{Kind: value.Not, Reg1: src, Reg2: dst}, nil

	case "return":
		return value.Instruction{Kind: value.Return}, nil

	case "setvariable":
		reg, err := p.parseReg()
		if err != nil {
			return value.Instruction{}, err
		}
		name, err := p.parseIdentifier()
		if err != nil {
			return value.Instruction{}, err
		}
		return value.Instruction{Kind: value.SetVariable, Reg1: reg, Name: name}, nil

	case "movfromvariable":
		name, err := p.parseIdentifier()
		if err != nil {
			return value.Instruction{}, err
		}
		reg, err := p.parseReg()
		if err != nil {
			return value.Instruction{}, err
		}
		return value.Instruction{Kind: value.MovFromVariable, Name: name, Reg1: reg}, nil

	case "throwfrom":
		a, err := p.parseReg()
		if err != nil {
			return value.Instruction{}, err
		}
		b, err := p.parseReg()
		if err != nil {
			return value.Instruction{}, err
		}
		return value.Instruction{Kind: value.ThrowFrom, Reg1: a, Reg2: b}, nil

	case "definelabel":
		name, err := p.parseIdentifier()
		if err != nil {
			return value.Instruction{}, err
		}
		return value.Instruction{Kind: value.DefineLabel, Name: name}, nil

	case "jumpunc":
		name, err := p.parseIdentifier()
		if err != nil {
			return value.Instruction{}, err
		}
		return value.Instruction{Kind: value.JumpUnconditional, Name: name}, nil

	case "jumpc":
		reg, err := p.parseReg()
		if err != nil {
			return value.Instruction{}, err
		}
		name, err := p.parseIdentifier()
		if err != nil {
			return value.Instruction{}, err
		}
		return value.Instruction{Kind: value.JumpConditional, Reg1: reg, Name: name}, nil

	case "call":
		name, err := p.parseIdentifier()
		if err != nil {
			return value.Instruction{}, err
		}
		return value.Instruction{Kind: value.Call, Name: name}, nil

	case "definefnlabel":
		return p.parseDefineFnLabel()

	case "endfunction":
		return value.Instruction{Kind: value.EndFunction}, nil

	case "stdoutwrite":
		reg, err := p.parseReg()
		if err != nil {
			return value.Instruction{}, err
		}
		return value.Instruction{Kind: value.StdoutWrite, Reg1: reg}, nil

	case "stdoutwritedebugged":
		reg, err := p.parseReg()
		if err != nil {
			return value.Instruction{}, err
		}
		return value.Instruction{Kind: value.StdoutWriteDebugged, Reg1: reg}, nil

	case "stdoutflush":
		return value.Instruction{Kind: value.StdoutFlush}, nil

	case "stderrwrite":
		reg, err := p.parseReg()
		if err != nil {
			return value.Instruction{}, err
		}
		return value.Instruction{Kind: value.StderrWrite, Reg1: reg}, nil

	case "stderrwritedebugged":
		reg, err := p.parseReg()
		if err != nil {
			return value.Instruction{}, err
		}
		return value.Instruction{Kind: value.StderrWriteDebugged, Reg1: reg}, nil

	case "stderrflush":
		return value.Instruction{Kind: value.StderrFlush}, nil

	case "bufferedstdinread":
		reg, err := p.parseReg()
		if err != nil {
			return value.Instruction{}, err
		}
		return value.Instruction{Kind: value.BufferedStdinRead, Reg1: reg}, nil

	default:
		return value.Instruction{}, p.errorf(tok, "invalid keyword '%s'", tok.Literal)
	}
}

var triopKinds = map[string]value.Kind{
	"add": value.Add, "sub": value.Sub, "mul": value.Mul, "div": value.Div,
	"rem": value.Rem, "pow": value.Pow, "or": value.Or, "xor": value.Xor,
	"and": value.And, "lt": value.Lt, "le": value.Le, "gt": value.Gt, "ge": value.Ge,
	"eq": value.Eq, "ne": value.Ne,
}

func (p *Parser) parseTriop(mnemonic string) (value.Instruction, error) {
	op1, err := p.parseReg()
	if err != nil {
		return value.Instruction{}, err
	}
	op2, err := p.parseReg()
	if err != nil {
		return value.Instruction{}, err
	}
	dst, err := p.parseReg()
	if err != nil {
		return value.Instruction{}, err
	}
	return value.Instruction{Kind: triopKinds[mnemonic], Reg1: op1, Reg2: op2, Reg3: dst}, nil
}

// parseDefineFnLabel reproduces the source language's declared-arity
// quirk verbatim: the integer operand counts the function name itself as
// one of its own arguments, so only len-1 identifiers follow it.
func (p *Parser) parseDefineFnLabel() (value.Instruction, error) {
	name, err := p.parseIdentifier()
	if err != nil {
		return value.Instruction{}, err
	}
	n, err := p.parseInt()
	if err != nil {
		return value.Instruction{}, err
	}
	var names []string
	if n != 0 {
		for i := int32(0); i < n-1; i++ {
			arg, err := p.parseIdentifier()
			if err != nil {
				return value.Instruction{}, err
			}
			names = append(names, arg)
		}
	}
	ret, err := p.parseTypeName()
	if err != nil {
		return value.Instruction{}, err
	}
	return value.Instruction{Kind: value.DefineFnLabel, Name: name, Names: names, ReturnType: ret}, nil
}

func (p *Parser) parseValue() (value.MiValue, error) {
	tok, err := p.advance()
	if err != nil {
		return value.MiValue{}, err
	}
	if tok.Type != TokenTypeName {
		return value.MiValue{}, p.errorf(tok, "expected a value keyword, found %s", tok)
	}
	switch tok.Literal {
	case "None":
		return value.None(), nil
	case "int":
		n, err := p.parseInt()
		if err != nil {
			return value.MiValue{}, err
		}
		return value.NewInt(n), nil
	case "float":
		f, err := p.parseFloat()
		if err != nil {
			return value.MiValue{}, err
		}
		return value.NewFloat(f), nil
	case "string":
		s, err := p.parseString()
		if err != nil {
			return value.MiValue{}, err
		}
		return value.NewString(s), nil
	case "bool":
		b, err := p.parseBool()
		if err != nil {
			return value.MiValue{}, err
		}
		return value.NewBool(b), nil
	default:
		return value.MiValue{}, p.errorf(tok, "invalid value keyword '%s'", tok.Literal)
	}
}

func (p *Parser) parseTypeName() (value.MiType, error) {
	tok, err := p.advance()
	if err != nil {
		return value.TypeNone, err
	}
	if tok.Type != TokenTypeName {
		return value.TypeNone, p.errorf(tok, "expected type token, found %s", tok)
	}
	switch tok.Literal {
	case "None":
		return value.TypeNone, nil
	case "int":
		return value.TypeInt, nil
	case "float":
		return value.TypeFloat, nil
	case "string":
		return value.TypeString, nil
	case "bool":
		return value.TypeBool, nil
	case "class":
		return value.TypeClass, nil
	case "function":
		return value.TypeFunction, nil
	default:
		return value.TypeNone, p.errorf(tok, "unrecognized type '%s'", tok.Literal)
	}
}

func (p *Parser) parseReg() (byte, error) {
	tok, err := p.advance()
	if err != nil {
		return 0, err
	}
	if tok.Type != TokenRegister {
		return 0, p.errorf(tok, "unexpected token %s, expected a register", tok)
	}
	return byte(tok.Register), nil
}

func (p *Parser) parseIdentifier() (string, error) {
	tok, err := p.advance()
	if err != nil {
		return "", err
	}
	if tok.Type != TokenIdentifier {
		return "", p.errorf(tok, "expected an identifier, found %s", tok)
	}
	return tok.Literal, nil
}

func (p *Parser) parseInt() (int32, error) {
	tok, err := p.advance()
	if err != nil {
		return 0, err
	}
	if tok.Type != TokenInt {
		return 0, p.errorf(tok, "unexpected token %s, expected an int", tok)
	}
	return tok.Int, nil
}

func (p *Parser) parseFloat() (float64, error) {
	tok, err := p.advance()
	if err != nil {
		return 0, err
	}
	if tok.Type != TokenFloat {
		return 0, p.errorf(tok, "unexpected token %s, expected a float", tok)
	}
	return tok.Float, nil
}

func (p *Parser) parseString() (string, error) {
	tok, err := p.advance()
	if err != nil {
		return "", err
	}
	if tok.Type != TokenString {
		return "", p.errorf(tok, "unexpected token %s, expected a string", tok)
	}
	return tok.Str, nil
}

func (p *Parser) parseBool() (bool, error) {
	tok, err := p.advance()
	if err != nil {
		return false, err
	}
	if tok.Type != TokenBool {
		return false, p.errorf(tok, "unexpected token %s, expected a bool", tok)
	}
	return tok.Bool, nil
}

func (p *Parser) peek() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *Parser) advance() (Token, error) {
	tok, ok := p.peek()
	if !ok {
		return Token{}, p.eofError()
	}
	p.pos++
	return tok, nil
}

func (p *Parser) eofError() error {
	var pos Position
	if p.pos > 0 && p.pos-1 < len(p.tokens) {
		pos = p.tokens[p.pos-1].Pos
	}
	return NewError(pos, ErrorUnexpectedEOF, "unexpected end of tokens")
}

func (p *Parser) errorf(tok Token, format string, args ...interface{}) error {
	return NewError(tok.Pos, ErrorUnexpectedToken, fmt.Sprintf(format, args...))
}
