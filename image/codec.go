package image

import (
	"encoding/binary"
	"errors"
)

var errTruncated = errors.New("image: truncated encoding")

// reader is a cursor over a byte slice, mirroring the value package's
// byteReader so the image codec stays self-delimiting without reaching
// into value's unexported internals.
type reader struct {
	data []byte
	pos  int
}

func (r *reader) readByte() (byte, error) {
	if r.pos+1 > len(r.data) {
		return 0, errTruncated
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) readBool() (bool, error) {
	b, err := r.readByte()
	return b != 0, err
}

func (r *reader) readUint32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, errTruncated
	}
	n := binary.LittleEndian.Uint32(r.data[r.pos : r.pos+4])
	r.pos += 4
	return n, nil
}

func (r *reader) readInt64() (int64, error) {
	if r.pos+8 > len(r.data) {
		return 0, errTruncated
	}
	n := int64(binary.LittleEndian.Uint64(r.data[r.pos : r.pos+8]))
	r.pos += 8
	return n, nil
}

func (r *reader) readLenString() (string, error) {
	n, err := r.readUint32()
	if err != nil {
		return "", err
	}
	if r.pos+int(n) > len(r.data) {
		return "", errTruncated
	}
	s := string(r.data[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}

// readOptionalString reads a presence byte followed by a length-prefixed
// string only when present, the wire analogue of an Option<String>.
func (r *reader) readOptionalString() (s string, present bool, err error) {
	present, err = r.readBool()
	if err != nil || !present {
		return "", present, err
	}
	s, err = r.readLenString()
	return s, true, err
}

func appendUint32(b []byte, n uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], n)
	return append(b, buf[:]...)
}

func appendInt64(b []byte, n int64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(n))
	return append(b, buf[:]...)
}

func appendBool(b []byte, v bool) []byte {
	if v {
		return append(b, 1)
	}
	return append(b, 0)
}

func appendLenString(b []byte, s string) []byte {
	b = appendUint32(b, uint32(len(s)))
	return append(b, s...)
}

func appendOptionalString(b []byte, s string, present bool) []byte {
	if !present {
		return append(b, 0)
	}
	b = append(b, 1)
	return appendLenString(b, s)
}
