package value

import (
	"fmt"
	"strings"
)

// FunctionKind discriminates the two ways a Function value can be backed.
type FunctionKind uint8

const (
	// FunctionBuiltin identifies a function by index into a host-side
	// registry. The current instruction set never looks this registry up;
	// the value model only needs to store and render the index.
	FunctionBuiltin FunctionKind = iota
	// FunctionDefined carries a full user-defined function body.
	FunctionDefined
)

// FunctionParam is one named, typed parameter of a defined function.
type FunctionParam struct {
	Name string
	Type MiType
}

// MiFunction is a user-defined function: name, typed parameters, declared
// return type, and its instruction body.
type MiFunction struct {
	Name         string
	Parameters   []FunctionParam
	ReturnType   MiType
	Instructions []Instruction
}

// Function is the opaque payload of a Function-variant value.
type Function struct {
	Kind         FunctionKind
	BuiltinIndex uint32
	Defined      MiFunction
}

// String renders the user-visible form used by MiValue.String.
func (f Function) String() string {
	if f.Kind == FunctionBuiltin {
		return fmt.Sprintf("<builtin function at index=%d>", f.BuiltinIndex)
	}
	return formatFunction(f.Defined)
}

func formatFunction(fn MiFunction) string {
	parts := make([]string, len(fn.Parameters))
	for i, p := range fn.Parameters {
		parts[i] = strings.ToLower(p.Type.String())
	}
	return fmt.Sprintf("fun %s(%s): %s", fn.Name, strings.Join(parts, ", "), fn.ReturnType)
}

// EncodeFunction serializes a Function to its opaque wire form.
func EncodeFunction(f Function) []byte {
	b := []byte{byte(f.Kind)}
	if f.Kind == FunctionBuiltin {
		return appendUint32(b, f.BuiltinIndex)
	}
	b = appendLenString(b, f.Defined.Name)
	b = appendUint32(b, uint32(len(f.Defined.Parameters)))
	for _, p := range f.Defined.Parameters {
		b = appendLenString(b, p.Name)
		b = append(b, byte(p.Type))
	}
	b = append(b, byte(f.Defined.ReturnType))
	b = appendUint32(b, uint32(len(f.Defined.Instructions)))
	for _, inst := range f.Defined.Instructions {
		b = appendInstruction(b, inst)
	}
	return b
}

// DecodeFunction is the inverse of EncodeFunction.
func DecodeFunction(data []byte) (Function, error) {
	r := &byteReader{data: data}
	kindByte, err := r.readByte()
	if err != nil {
		return Function{}, err
	}
	kind := FunctionKind(kindByte)
	if kind == FunctionBuiltin {
		idx, err := r.readUint32()
		if err != nil {
			return Function{}, err
		}
		return Function{Kind: FunctionBuiltin, BuiltinIndex: idx}, nil
	}

	name, err := r.readLenString()
	if err != nil {
		return Function{}, err
	}
	paramCount, err := r.readUint32()
	if err != nil {
		return Function{}, err
	}
	params := make([]FunctionParam, 0, paramCount)
	for i := uint32(0); i < paramCount; i++ {
		pname, err := r.readLenString()
		if err != nil {
			return Function{}, err
		}
		ptypeByte, err := r.readByte()
		if err != nil {
			return Function{}, err
		}
		params = append(params, FunctionParam{Name: pname, Type: MiType(ptypeByte)})
	}
	retByte, err := r.readByte()
	if err != nil {
		return Function{}, err
	}
	instCount, err := r.readUint32()
	if err != nil {
		return Function{}, err
	}
	instructions := make([]Instruction, 0, instCount)
	for i := uint32(0); i < instCount; i++ {
		inst, err := r.readInstruction()
		if err != nil {
			return Function{}, err
		}
		instructions = append(instructions, inst)
	}
	return Function{
		Kind: FunctionDefined,
		Defined: MiFunction{
			Name:         name,
			Parameters:   params,
			ReturnType:   MiType(retByte),
			Instructions: instructions,
		},
	}, nil
}
