package bcs

import (
	"encoding/binary"
	"math"

	"github.com/holiman/uint256"
	"github.com/iov-one/suprasig/errors"
)

// Marshaler is implemented by all types that can write their own canonical
// representation.
type Marshaler interface {
	MarshalBCS(*Serializer)
}

// Serializer accumulates canonical bytes. The first failure is kept and all
// following writes are ignored, so that a structure can be written without
// checking every field and the result is inspected once using Err.
type Serializer struct {
	buf []byte
	err error
}

// NewSerializer returns an empty serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Output returns the bytes written so far.
func (s *Serializer) Output() []byte {
	return s.buf
}

// Err returns the first error that occurred while writing.
func (s *Serializer) Err() error {
	return s.err
}

// SetError records an error. Only the first recorded error is kept.
func (s *Serializer) SetError(err error) {
	if s.err == nil && err != nil {
		s.err = err
	}
}

func (s *Serializer) U8(v uint8) {
	if s.err != nil {
		return
	}
	s.buf = append(s.buf, v)
}

func (s *Serializer) U16(v uint16) {
	if s.err != nil {
		return
	}
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	s.buf = append(s.buf, b[:]...)
}

func (s *Serializer) U32(v uint32) {
	if s.err != nil {
		return
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	s.buf = append(s.buf, b[:]...)
}

func (s *Serializer) U64(v uint64) {
	if s.err != nil {
		return
	}
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	s.buf = append(s.buf, b[:]...)
}

// U128 writes the lower 128 bits of given value. Values that do not fit in
// 128 bits are rejected with ErrOverflow. A nil value is written as zero.
func (s *Serializer) U128(v *uint256.Int) {
	if v == nil {
		v = new(uint256.Int)
	}
	if v.BitLen() > 128 {
		s.SetError(errors.Wrapf(errors.ErrOverflow, "%d bits value as u128", v.BitLen()))
		return
	}
	s.U64(v[0])
	s.U64(v[1])
}

// U256 writes given value using 32 bytes. A nil value is written as zero.
func (s *Serializer) U256(v *uint256.Int) {
	if v == nil {
		v = new(uint256.Int)
	}
	for _, limb := range v {
		s.U64(limb)
	}
}

func (s *Serializer) Bool(v bool) {
	if v {
		s.U8(1)
	} else {
		s.U8(0)
	}
}

// Uleb128 writes given value as unsigned LEB128. This is how lengths and
// variant tags are encoded.
func (s *Serializer) Uleb128(v uint32) {
	if s.err != nil {
		return
	}
	for v >= 0x80 {
		s.buf = append(s.buf, byte(v&0x7f)|0x80)
		v >>= 7
	}
	s.buf = append(s.buf, byte(v))
}

// Len writes a length prefix.
func (s *Serializer) Len(n int) {
	if n < 0 || uint64(n) > math.MaxUint32 {
		s.SetError(errors.Wrapf(errors.ErrOverflow, "length %d", n))
		return
	}
	s.Uleb128(uint32(n))
}

// Bytes writes a length prefixed byte array.
func (s *Serializer) Bytes(b []byte) {
	s.Len(len(b))
	s.FixedBytes(b)
}

// FixedBytes writes given bytes as they are, without a length prefix. Use
// it for values with a length known to both sides, for example addresses.
func (s *Serializer) FixedBytes(b []byte) {
	if s.err != nil {
		return
	}
	s.buf = append(s.buf, b...)
}

// Str writes a length prefixed UTF-8 string.
func (s *Serializer) Str(v string) {
	s.Bytes([]byte(v))
}

// Struct writes given value using its own encoding.
func (s *Serializer) Struct(v Marshaler) {
	if s.err != nil {
		return
	}
	v.MarshalBCS(s)
}

// Sequence writes the length prefix of a sequence of n elements and then
// calls each for every element index.
func (s *Serializer) Sequence(n int, each func(i int)) {
	s.Len(n)
	for i := 0; i < n && s.err == nil; i++ {
		each(i)
	}
}

// Marshal returns the canonical representation of given value.
func Marshal(v Marshaler) ([]byte, error) {
	s := NewSerializer()
	s.Struct(v)
	if err := s.Err(); err != nil {
		return nil, err
	}
	return s.Output(), nil
}

// MustMarshal is like Marshal, but panics on failure. Use it only with values
// that cannot fail to serialize.
func MustMarshal(v Marshaler) []byte {
	b, err := Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
