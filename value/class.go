package value

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// ClassProperty is one entry of a Class's ordered property mapping.
type ClassProperty struct {
	Name  string
	Value MiValue
}

// Class is the opaque object record carried by Class-variant values. No
// instruction in the current set constructs one; the runtime only needs
// to store, serialize, and render it.
type Class struct {
	Name       string
	Properties []ClassProperty
}

// String renders the summary form used by to_string: "<class at id>".
// There is no heap in this VM, so the "pointer" is a stable hash of the
// class's own encoding rather than a real address.
func (c Class) String() string {
	return fmt.Sprintf("<class at %#x>", classIdentity(c))
}

// DebugString renders the expanded form used by to_string_debugged.
func (c Class) DebugString() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s {\n", c.Name)
	for _, p := range c.Properties {
		fmt.Fprintf(&b, "   %s: %s,\n", p.Name, p.Value.DebugString())
	}
	b.WriteString("}")
	return b.String()
}

func classIdentity(c Class) uint64 {
	h := uint64(1469598103934665603) // FNV offset basis
	for _, by := range EncodeClass(c) {
		h ^= uint64(by)
		h *= 1099511628211 // FNV prime
	}
	return h
}

// EncodeClass serializes a Class to its opaque wire form: name, then a
// count-prefixed sequence of (name, value) properties.
func EncodeClass(c Class) []byte {
	var b []byte
	b = appendLenString(b, c.Name)
	b = appendUint32(b, uint32(len(c.Properties)))
	for _, p := range c.Properties {
		b = appendLenString(b, p.Name)
		b = appendValue(b, p.Value)
	}
	return b
}

// DecodeClass is the inverse of EncodeClass.
func DecodeClass(data []byte) (Class, error) {
	r := &byteReader{data: data}
	name, err := r.readLenString()
	if err != nil {
		return Class{}, err
	}
	count, err := r.readUint32()
	if err != nil {
		return Class{}, err
	}
	props := make([]ClassProperty, 0, count)
	for i := uint32(0); i < count; i++ {
		pname, err := r.readLenString()
		if err != nil {
			return Class{}, err
		}
		pval, err := r.readValue()
		if err != nil {
			return Class{}, err
		}
		props = append(props, ClassProperty{Name: pname, Value: pval})
	}
	return Class{Name: name, Properties: props}, nil
}

func appendUint32(b []byte, n uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], n)
	return append(b, tmp[:]...)
}

func appendLenString(b []byte, s string) []byte {
	b = appendUint32(b, uint32(len(s)))
	return append(b, s...)
}
