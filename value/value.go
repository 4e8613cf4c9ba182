package value

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

// MiValue is a tagged, byte-encoded value. Equality is structural on
// (Bytes, Variant); two values of different Variant are never equal even
// when their payload happens to overlap (Int(1) != Float(1.0)).
type MiValue struct {
	Bytes   []byte
	Variant MiType
}

// None is the canonical empty value.
func None() MiValue {
	return MiValue{Bytes: nil, Variant: TypeNone}
}

// NewInt encodes a 4-byte little-endian two's-complement Int value.
func NewInt(i int32) MiValue {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(i))
	return MiValue{Bytes: b, Variant: TypeInt}
}

// NewFloat encodes an 8-byte little-endian IEEE-754 binary64 Float value.
func NewFloat(f float64) MiValue {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, math.Float64bits(f))
	return MiValue{Bytes: b, Variant: TypeFloat}
}

// NewBool encodes a canonical single-byte Bool (1 = true, 0 = false).
func NewBool(b bool) MiValue {
	if b {
		return MiValue{Bytes: []byte{1}, Variant: TypeBool}
	}
	return MiValue{Bytes: []byte{0}, Variant: TypeBool}
}

// NewString encodes the self-delimiting String form: an 8-byte
// little-endian length prefix followed by the raw UTF-8 bytes.
func NewString(s string) MiValue {
	raw := []byte(s)
	b := make([]byte, 8+len(raw))
	binary.LittleEndian.PutUint64(b[0:8], uint64(len(raw)))
	copy(b[8:], raw)
	return MiValue{Bytes: b, Variant: TypeString}
}

// NewClass serializes a Class record into an opaque Class-variant value.
func NewClass(c Class) MiValue {
	return MiValue{Bytes: EncodeClass(c), Variant: TypeClass}
}

// NewFunction serializes a Function record into an opaque Function-variant value.
func NewFunction(f Function) MiValue {
	return MiValue{Bytes: EncodeFunction(f), Variant: TypeFunction}
}

// AsInt decodes an Int payload. The caller must have already checked Variant.
func (v MiValue) AsInt() int32 {
	return int32(binary.LittleEndian.Uint32(v.Bytes))
}

// AsFloat decodes a Float payload. The caller must have already checked Variant.
func (v MiValue) AsFloat() float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(v.Bytes))
}

// AsBool decodes a Bool payload: any non-zero first byte is true.
func (v MiValue) AsBool() bool {
	return len(v.Bytes) > 0 && v.Bytes[0] != 0
}

// AsString decodes a canonical (8-byte length prefix) String payload.
func (v MiValue) AsString() string {
	if len(v.Bytes) < 8 {
		return ""
	}
	n := binary.LittleEndian.Uint64(v.Bytes[0:8])
	end := 8 + n
	if end > uint64(len(v.Bytes)) {
		end = uint64(len(v.Bytes))
	}
	return string(v.Bytes[8:end])
}

// AsClass decodes an opaque Class payload.
func (v MiValue) AsClass() (Class, error) {
	return DecodeClass(v.Bytes)
}

// AsFunction decodes an opaque Function payload.
func (v MiValue) AsFunction() (Function, error) {
	return DecodeFunction(v.Bytes)
}

// Equal implements the structural equality spec.md requires for Eq/Ne:
// same byte payload AND same variant.
func (v MiValue) Equal(other MiValue) bool {
	if v.Variant != other.Variant {
		return false
	}
	if len(v.Bytes) != len(other.Bytes) {
		return false
	}
	for i := range v.Bytes {
		if v.Bytes[i] != other.Bytes[i] {
			return false
		}
	}
	return true
}

// String renders the user-visible form (to_string in spec.md §4.7).
func (v MiValue) String() string {
	switch v.Variant {
	case TypeNone:
		return "None"
	case TypeBool:
		if v.AsBool() {
			return "true"
		}
		return "false"
	case TypeInt:
		return fmt.Sprintf("%d", v.AsInt())
	case TypeFloat:
		return formatFloat(v.AsFloat())
	case TypeString:
		return v.AsString()
	case TypeFunction:
		fn, err := v.AsFunction()
		if err != nil {
			return "<function: decode error>"
		}
		return fn.String()
	case TypeClass:
		cl, err := v.AsClass()
		if err != nil {
			return "<class: decode error>"
		}
		return cl.String()
	default:
		return "<unknown>"
	}
}

// DebugString renders the debugged form (to_string_debugged in spec.md
// §4.7): strings are quoted, classes are expanded field by field.
func (v MiValue) DebugString() string {
	switch v.Variant {
	case TypeString:
		return fmt.Sprintf("%q", v.AsString())
	case TypeClass:
		cl, err := v.AsClass()
		if err != nil {
			return "<class: decode error>"
		}
		return cl.DebugString()
	default:
		return v.String()
	}
}

// formatFloat matches the platform's default formatter: shortest
// round-trippable decimal, with a trailing ".0"-free integer form when
// the value has no fractional part but not via truncation, i.e. 2.0
// prints as "2".
func formatFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "inf"
	}
	if math.IsInf(f, -1) {
		return "-inf"
	}
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
