package value

import (
	"fmt"
	"strings"
)

// Kind identifies one Mirage opcode.
type Kind uint8

const (
	Move Kind = iota
	MoveBetween
	MoveArgument
	MoveAsArgument
	Add
	Sub
	Mul
	Div
	Rem
	Pow
	Or
	Xor
	And
	Not
	Lt
	Le
	Gt
	Ge
	Eq
	Ne
	Return
	SetVariable
	MovFromVariable
	ThrowFrom
	DefineLabel
	JumpUnconditional
	JumpConditional
	Call
	DefineFnLabel
	EndFunction
	StdoutWrite
	StdoutWriteDebugged
	StdoutFlush
	StderrWrite
	StderrWriteDebugged
	StderrFlush
	BufferedStdinRead
)

var kindNames = map[Kind]string{
	Move:                "move",
	MoveBetween:         "movebetween",
	MoveArgument:        "moveargument",
	MoveAsArgument:      "moveasargument",
	Add:                 "add",
	Sub:                 "sub",
	Mul:                 "mul",
	Div:                 "div",
	Rem:                 "rem",
	Pow:                 "pow",
	Or:                  "or",
	Xor:                 "xor",
	And:                 "and",
	Not:                 "not",
	Lt:                  "lt",
	Le:                  "le",
	Gt:                  "gt",
	Ge:                  "ge",
	Eq:                  "eq",
	Ne:                  "ne",
	Return:              "return",
	SetVariable:         "setvariable",
	MovFromVariable:     "movfromvariable",
	ThrowFrom:           "throwfrom",
	DefineLabel:         "definelabel",
	JumpUnconditional:   "jumpunconditional",
	JumpConditional:     "jumpconditional",
	Call:                "call",
	DefineFnLabel:       "definefnlabel",
	EndFunction:         "endfunction",
	StdoutWrite:         "stdoutwrite",
	StdoutWriteDebugged: "stdoutwritedebugged",
	StdoutFlush:         "stdoutflush",
	StderrWrite:         "stderrwrite",
	StderrWriteDebugged: "stderrwritedebugged",
	StderrFlush:         "stderrflush",
	BufferedStdinRead:   "bufferedstdinread",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Instruction is one decoded unit of a function's body. Not every field is
// meaningful for every Kind; see the field comments below for which
// operands each Kind reads.
type Instruction struct {
	Kind Kind

	// Reg1/Reg2/Reg3 are register indices (0-15); their role depends on Kind:
	//   Move:                Reg1 = destination
	//   MoveBetween:         Reg1 = source, Reg2 = destination
	//   MoveArgument:        Reg1 = destination register
	//   MoveAsArgument:      Reg1 = source register to push
	//   Add/Sub/.../Ge/Eq/Ne: Reg1, Reg2 = operands, Reg3 = destination
	//   Not:                 Reg1 = source, Reg2 = destination
	//   SetVariable:         Reg1 = source register
	//   MovFromVariable:     Reg1 = destination register
	//   ThrowFrom:           Reg1 = kind register, Reg2 = message register
	//   JumpConditional:     Reg1 = condition register
	//   Stdout/StderrWrite*, BufferedStdinRead: Reg1 = source/destination register
	Reg1, Reg2, Reg3 byte

	// Name carries the single identifier operand: an argument name
	// (MoveArgument), a variable name (SetVariable/MovFromVariable),
	// a label (DefineLabel/Jump*), or a function name (Call/DefineFnLabel).
	Name string

	// Names carries DefineFnLabel's declared parameter name list.
	Names []string

	// ReturnType carries DefineFnLabel's declared return type.
	ReturnType MiType

	// Value carries Move's literal operand.
	Value MiValue
}

// String renders a disassembly-style line for tracing and error context.
func (in Instruction) String() string {
	switch in.Kind {
	case Move:
		return fmt.Sprintf("move r%d, %s", in.Reg1, in.Value.DebugString())
	case MoveBetween:
		return fmt.Sprintf("movebetween r%d, r%d", in.Reg1, in.Reg2)
	case MoveArgument:
		return fmt.Sprintf("moveargument r%d", in.Reg1)
	case MoveAsArgument:
		return fmt.Sprintf("moveasargument r%d", in.Reg1)
	case Not:
		return fmt.Sprintf("%s r%d, r%d", in.Kind, in.Reg1, in.Reg2)
	case Add, Sub, Mul, Div, Rem, Pow, Or, Xor, And, Lt, Le, Gt, Ge, Eq, Ne:
		return fmt.Sprintf("%s r%d, r%d, r%d", in.Kind, in.Reg1, in.Reg2, in.Reg3)
	case Return, EndFunction, StdoutFlush, StderrFlush:
		return in.Kind.String()
	case SetVariable:
		return fmt.Sprintf("setvariable r%d, %s", in.Reg1, in.Name)
	case MovFromVariable:
		return fmt.Sprintf("movfromvariable %s, r%d", in.Name, in.Reg1)
	case ThrowFrom:
		return fmt.Sprintf("throwfrom r%d, r%d", in.Reg1, in.Reg2)
	case DefineLabel:
		return fmt.Sprintf("definelabel %s", in.Name)
	case JumpUnconditional:
		return fmt.Sprintf("jumpunconditional %s", in.Name)
	case JumpConditional:
		return fmt.Sprintf("jumpconditional r%d, %s", in.Reg1, in.Name)
	case Call:
		return fmt.Sprintf("call %s", in.Name)
	case DefineFnLabel:
		return fmt.Sprintf("definefnlabel %s(%s): %s", in.Name, strings.Join(in.Names, ", "), in.ReturnType)
	case StdoutWrite, StdoutWriteDebugged, StderrWrite, StderrWriteDebugged, BufferedStdinRead:
		return fmt.Sprintf("%s r%d", in.Kind, in.Reg1)
	default:
		return "<unknown instruction>"
	}
}

// EncodeInstructions serializes a whole instruction stream: a 4-byte count
// followed by each instruction's wire form in order.
func EncodeInstructions(instructions []Instruction) []byte {
	b := appendUint32(nil, uint32(len(instructions)))
	for _, in := range instructions {
		b = appendInstruction(b, in)
	}
	return b
}

// DecodeInstructions is the inverse of EncodeInstructions. It reports how
// many bytes of data it consumed so callers embedding an instruction stream
// inside a larger record (see the image package) can continue decoding
// whatever follows.
func DecodeInstructions(data []byte) (instructions []Instruction, consumed int, err error) {
	r := &byteReader{data: data}
	count, err := r.readUint32()
	if err != nil {
		return nil, 0, err
	}
	instructions = make([]Instruction, 0, count)
	for i := uint32(0); i < count; i++ {
		in, err := r.readInstruction()
		if err != nil {
			return nil, 0, err
		}
		instructions = append(instructions, in)
	}
	return instructions, r.pos, nil
}

// appendInstruction writes one instruction to its wire form: a kind byte
// followed by whichever fixed fields that kind uses.
func appendInstruction(b []byte, in Instruction) []byte {
	b = append(b, byte(in.Kind))
	switch in.Kind {
	case Move:
		b = append(b, in.Reg1)
		b = appendValue(b, in.Value)
	case MoveBetween:
		b = append(b, in.Reg1, in.Reg2)
	case MoveArgument:
		b = append(b, in.Reg1)
		b = appendLenString(b, in.Name)
	case MoveAsArgument:
		b = append(b, in.Reg1)
	case Not:
		b = append(b, in.Reg1, in.Reg2)
	case Add, Sub, Mul, Div, Rem, Pow, Or, Xor, And, Lt, Le, Gt, Ge, Eq, Ne:
		b = append(b, in.Reg1, in.Reg2, in.Reg3)
	case Return, EndFunction, StdoutFlush, StderrFlush:
		// no operands
	case SetVariable:
		b = append(b, in.Reg1)
		b = appendLenString(b, in.Name)
	case MovFromVariable:
		b = append(b, in.Reg1)
		b = appendLenString(b, in.Name)
	case ThrowFrom:
		b = append(b, in.Reg1, in.Reg2)
	case DefineLabel, JumpUnconditional, Call:
		b = appendLenString(b, in.Name)
	case JumpConditional:
		b = append(b, in.Reg1)
		b = appendLenString(b, in.Name)
	case DefineFnLabel:
		b = appendLenString(b, in.Name)
		b = appendUint32(b, uint32(len(in.Names)))
		for _, n := range in.Names {
			b = appendLenString(b, n)
		}
		b = append(b, byte(in.ReturnType))
	case StdoutWrite, StdoutWriteDebugged, StderrWrite, StderrWriteDebugged, BufferedStdinRead:
		b = append(b, in.Reg1)
	}
	return b
}

// readInstruction is the inverse of appendInstruction.
func (r *byteReader) readInstruction() (Instruction, error) {
	kindByte, err := r.readByte()
	if err != nil {
		return Instruction{}, err
	}
	in := Instruction{Kind: Kind(kindByte)}
	switch in.Kind {
	case Move:
		if in.Reg1, err = r.readByte(); err != nil {
			return Instruction{}, err
		}
		if in.Value, err = r.readValue(); err != nil {
			return Instruction{}, err
		}
	case MoveBetween:
		if in.Reg1, err = r.readByte(); err != nil {
			return Instruction{}, err
		}
		if in.Reg2, err = r.readByte(); err != nil {
			return Instruction{}, err
		}
	case MoveArgument:
		if in.Reg1, err = r.readByte(); err != nil {
			return Instruction{}, err
		}
		if in.Name, err = r.readLenString(); err != nil {
			return Instruction{}, err
		}
	case MoveAsArgument:
		if in.Reg1, err = r.readByte(); err != nil {
			return Instruction{}, err
		}
	case Not:
		if in.Reg1, err = r.readByte(); err != nil {
			return Instruction{}, err
		}
		if in.Reg2, err = r.readByte(); err != nil {
			return Instruction{}, err
		}
	case Add, Sub, Mul, Div, Rem, Pow, Or, Xor, And, Lt, Le, Gt, Ge, Eq, Ne:
		if in.Reg1, err = r.readByte(); err != nil {
			return Instruction{}, err
		}
		if in.Reg2, err = r.readByte(); err != nil {
			return Instruction{}, err
		}
		if in.Reg3, err = r.readByte(); err != nil {
			return Instruction{}, err
		}
	case Return, EndFunction, StdoutFlush, StderrFlush:
		// no operands
	case SetVariable, MovFromVariable:
		if in.Reg1, err = r.readByte(); err != nil {
			return Instruction{}, err
		}
		if in.Name, err = r.readLenString(); err != nil {
			return Instruction{}, err
		}
	case ThrowFrom:
		if in.Reg1, err = r.readByte(); err != nil {
			return Instruction{}, err
		}
		if in.Reg2, err = r.readByte(); err != nil {
			return Instruction{}, err
		}
	case DefineLabel, JumpUnconditional, Call:
		if in.Name, err = r.readLenString(); err != nil {
			return Instruction{}, err
		}
	case JumpConditional:
		if in.Reg1, err = r.readByte(); err != nil {
			return Instruction{}, err
		}
		if in.Name, err = r.readLenString(); err != nil {
			return Instruction{}, err
		}
	case DefineFnLabel:
		if in.Name, err = r.readLenString(); err != nil {
			return Instruction{}, err
		}
		count, err := r.readUint32()
		if err != nil {
			return Instruction{}, err
		}
		in.Names = make([]string, 0, count)
		for i := uint32(0); i < count; i++ {
			n, err := r.readLenString()
			if err != nil {
				return Instruction{}, err
			}
			in.Names = append(in.Names, n)
		}
		retByte, err := r.readByte()
		if err != nil {
			return Instruction{}, err
		}
		in.ReturnType = MiType(retByte)
	case StdoutWrite, StdoutWriteDebugged, StderrWrite, StderrWriteDebugged, BufferedStdinRead:
		if in.Reg1, err = r.readByte(); err != nil {
			return Instruction{}, err
		}
	default:
		return Instruction{}, fmt.Errorf("value: unknown instruction kind %d", kindByte)
	}
	return in, nil
}
