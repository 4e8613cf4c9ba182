// Package image implements the serialized program artifact that `build`
// emits and `run` consumes: a bijective binary codec over Metadata, built
// on the same hand-rolled length-prefixed primitives the value package uses
// for its opaque Class/Function/Instruction payloads, so the whole image
// format stays self-delimiting end to end rather than switching encodings
// partway through.
package image

import (
	"time"

	"github.com/mirage-lang/mirage/value"
)

// CompiledVersion is the Mirage toolchain version string embedded in every
// image build produces, so a mismatched run can report which compiler it
// came from.
const CompiledVersion = "1.0.0"

// Metadata is the on-disk program image: the assembled instruction stream
// plus everything build carried over from the manifest and the build
// environment. The core treats it as an opaque record; only decode∘encode
// being the identity on Metadata matters.
type Metadata struct {
	Package            string
	Version            string
	HasVersion         bool
	Timestamp          time.Time
	Author             string
	HasAuthor          bool
	Debug              bool
	Instructions       []value.Instruction
	SourceCode         string
	HasSourceCode      bool
	Description        string
	License            string
	HasLicense         bool
	TotalInstructions  int
	CompiledVersion    string
}

// Encode serializes m to its binary wire form.
func Encode(m Metadata) []byte {
	var b []byte
	b = appendLenString(b, m.Package)
	b = appendOptionalString(b, m.Version, m.HasVersion)
	b = appendInt64(b, m.Timestamp.Unix())
	b = appendUint32(b, uint32(m.Timestamp.Nanosecond()))
	b = appendOptionalString(b, m.Author, m.HasAuthor)
	b = appendBool(b, m.Debug)
	b = append(b, value.EncodeInstructions(m.Instructions)...)
	b = appendOptionalString(b, m.SourceCode, m.HasSourceCode)
	b = appendLenString(b, m.Description)
	b = appendOptionalString(b, m.License, m.HasLicense)
	b = appendUint32(b, uint32(m.TotalInstructions))
	b = appendLenString(b, m.CompiledVersion)
	return b
}

// Decode is the inverse of Encode.
func Decode(data []byte) (Metadata, error) {
	r := &reader{data: data}
	var m Metadata
	var err error

	if m.Package, err = r.readLenString(); err != nil {
		return Metadata{}, err
	}
	if m.Version, m.HasVersion, err = r.readOptionalString(); err != nil {
		return Metadata{}, err
	}
	unix, err := r.readInt64()
	if err != nil {
		return Metadata{}, err
	}
	nsec, err := r.readUint32()
	if err != nil {
		return Metadata{}, err
	}
	m.Timestamp = time.Unix(unix, int64(nsec)).UTC()
	if m.Author, m.HasAuthor, err = r.readOptionalString(); err != nil {
		return Metadata{}, err
	}
	if m.Debug, err = r.readBool(); err != nil {
		return Metadata{}, err
	}

	instructions, consumed, err := value.DecodeInstructions(r.data[r.pos:])
	if err != nil {
		return Metadata{}, err
	}
	m.Instructions = instructions
	r.pos += consumed

	if m.SourceCode, m.HasSourceCode, err = r.readOptionalString(); err != nil {
		return Metadata{}, err
	}
	if m.Description, err = r.readLenString(); err != nil {
		return Metadata{}, err
	}
	if m.License, m.HasLicense, err = r.readOptionalString(); err != nil {
		return Metadata{}, err
	}
	total, err := r.readUint32()
	if err != nil {
		return Metadata{}, err
	}
	m.TotalInstructions = int(total)
	if m.CompiledVersion, err = r.readLenString(); err != nil {
		return Metadata{}, err
	}

	return m, nil
}
