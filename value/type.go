// Package value implements the Mirage typed value model: tagged,
// byte-encoded values (MiType/MiValue), the opaque Class and Function
// payloads carried alongside them, and the Instruction union that the
// parser produces and the vm package executes.
//
// These four concerns live in one package, not four, because they are
// mutually referential the way the original implementation's modules
// were: a Function value embeds an instruction stream, an Instruction
// embeds the values it moves, and a Class embeds the values of its
// properties. Splitting them across packages would force an import
// cycle; here they simply share a namespace.
package value

// MiType tags the payload carried by a MiValue.
type MiType uint8

const (
	TypeNone MiType = iota
	TypeInt
	TypeFloat
	TypeString
	TypeBool
	TypeClass
	TypeFunction
)

// IsNumeric reports whether arithmetic operators accept this type.
func (t MiType) IsNumeric() bool {
	return t == TypeInt || t == TypeFloat
}

func (t MiType) String() string {
	switch t {
	case TypeNone:
		return "None"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeBool:
		return "bool"
	case TypeClass:
		return "class"
	case TypeFunction:
		return "function"
	default:
		return "unknown"
	}
}
