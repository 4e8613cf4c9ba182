package value

import (
	"encoding/binary"
	"errors"
)

// byteReader is a small cursor over a byte slice shared by the opaque
// Class/Function/Instruction codecs in this package. It never panics on
// malformed input; every read can fail with an error instead.
type byteReader struct {
	data []byte
	pos  int
}

var errTruncated = errors.New("value: truncated encoding")

func (r *byteReader) readUint32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, errTruncated
	}
	n := binary.LittleEndian.Uint32(r.data[r.pos : r.pos+4])
	r.pos += 4
	return n, nil
}

func (r *byteReader) readUint64() (uint64, error) {
	if r.pos+8 > len(r.data) {
		return 0, errTruncated
	}
	n := binary.LittleEndian.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return n, nil
}

func (r *byteReader) readByte() (byte, error) {
	if r.pos+1 > len(r.data) {
		return 0, errTruncated
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *byteReader) readBytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, errTruncated
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *byteReader) readLenString() (string, error) {
	n, err := r.readUint32()
	if err != nil {
		return "", err
	}
	b, err := r.readBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// appendValue writes a self-delimiting MiValue: variant tag, 4-byte
// payload length, then the raw payload bytes.
func appendValue(b []byte, v MiValue) []byte {
	b = append(b, byte(v.Variant))
	b = appendUint32(b, uint32(len(v.Bytes)))
	return append(b, v.Bytes...)
}

func (r *byteReader) readValue() (MiValue, error) {
	tag, err := r.readByte()
	if err != nil {
		return MiValue{}, err
	}
	n, err := r.readUint32()
	if err != nil {
		return MiValue{}, err
	}
	payload, err := r.readBytes(int(n))
	if err != nil {
		return MiValue{}, err
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)
	return MiValue{Bytes: cp, Variant: MiType(tag)}, nil
}
