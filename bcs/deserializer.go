package bcs

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/holiman/uint256"
	"github.com/iov-one/suprasig/errors"
)

// maxUlebBytes is the longest LEB128 encoding of a 32 bit value.
const maxUlebBytes = 5

// Unmarshaler is implemented by all types that can read their own canonical
// representation.
type Unmarshaler interface {
	UnmarshalBCS(*Deserializer) error
}

// Deserializer reads canonical values from a byte buffer. Every read that
// would go past the end of the buffer fails with ErrMalformedEncoding.
type Deserializer struct {
	buf []byte
	off int
}

// NewDeserializer returns a deserializer reading given bytes.
func NewDeserializer(b []byte) *Deserializer {
	return &Deserializer{buf: b}
}

// Remaining returns the number of bytes not yet consumed.
func (d *Deserializer) Remaining() int {
	return len(d.buf) - d.off
}

func (d *Deserializer) read(n int) ([]byte, error) {
	if n < 0 || n > d.Remaining() {
		return nil, errors.Wrapf(errors.ErrMalformedEncoding,
			"want %d bytes, %d remaining", n, d.Remaining())
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *Deserializer) U8() (uint8, error) {
	b, err := d.read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Deserializer) U16() (uint16, error) {
	b, err := d.read(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (d *Deserializer) U32() (uint32, error) {
	b, err := d.read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *Deserializer) U64() (uint64, error) {
	b, err := d.read(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (d *Deserializer) U128() (*uint256.Int, error) {
	b, err := d.read(16)
	if err != nil {
		return nil, err
	}
	var v uint256.Int
	v[0] = binary.LittleEndian.Uint64(b[:8])
	v[1] = binary.LittleEndian.Uint64(b[8:])
	return &v, nil
}

func (d *Deserializer) U256() (*uint256.Int, error) {
	b, err := d.read(32)
	if err != nil {
		return nil, err
	}
	var v uint256.Int
	for i := range v {
		v[i] = binary.LittleEndian.Uint64(b[i*8 : i*8+8])
	}
	return &v, nil
}

// Bool reads a single byte that must be either 0 or 1.
func (d *Deserializer) Bool() (bool, error) {
	b, err := d.U8()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errors.Wrapf(errors.ErrMalformedEncoding, "bool value %d", b)
	}
}

// Uleb128 reads an unsigned LEB128 value. Values greater than
// math.MaxUint32 or encoded using more than 5 bytes are malformed.
func (d *Deserializer) Uleb128() (uint32, error) {
	var v uint64
	for shift, n := uint(0), 0; ; shift, n = shift+7, n+1 {
		if n == maxUlebBytes {
			return 0, errors.Wrap(errors.ErrMalformedEncoding, "uleb128 too long")
		}
		b, err := d.U8()
		if err != nil {
			return 0, err
		}
		v |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			if b == 0 && n > 0 {
				return 0, errors.Wrap(errors.ErrMalformedEncoding, "non canonical uleb128")
			}
			break
		}
	}
	if v > math.MaxUint32 {
		return 0, errors.Wrapf(errors.ErrMalformedEncoding, "uleb128 value %d overflows u32", v)
	}
	return uint32(v), nil
}

// Len reads a length prefix and ensures that at least that many bytes are
// left in the buffer. Every element of a sequence takes at least one byte,
// so this also protects sequence readers from allocating for a length that
// cannot be satisfied.
func (d *Deserializer) Len() (int, error) {
	n, err := d.Uleb128()
	if err != nil {
		return 0, err
	}
	if uint64(n) > uint64(d.Remaining()) {
		return 0, errors.Wrapf(errors.ErrMalformedEncoding,
			"declared length %d exceeds %d remaining bytes", n, d.Remaining())
	}
	return int(n), nil
}

// Bytes reads a length prefixed byte array. Returned slice is a copy.
func (d *Deserializer) Bytes() ([]byte, error) {
	n, err := d.Len()
	if err != nil {
		return nil, err
	}
	return d.FixedBytes(n)
}

// FixedBytes reads exactly n bytes. Returned slice is a copy.
func (d *Deserializer) FixedBytes(n int) ([]byte, error) {
	b, err := d.read(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// Str reads a length prefixed UTF-8 string.
func (d *Deserializer) Str() (string, error) {
	b, err := d.Bytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.Wrap(errors.ErrMalformedEncoding, "string is not valid utf-8")
	}
	return string(b), nil
}

// Struct reads given value using its own decoding.
func (d *Deserializer) Struct(v Unmarshaler) error {
	return v.UnmarshalBCS(d)
}

// Sequence reads a sequence length prefix and calls each for every element
// index. The first error returned by each stops the iteration.
func (d *Deserializer) Sequence(each func(i int) error) error {
	n, err := d.Len()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := each(i); err != nil {
			return err
		}
	}
	return nil
}

// Unmarshal decodes given bytes into v. All bytes must be consumed.
func Unmarshal(b []byte, v Unmarshaler) error {
	d := NewDeserializer(b)
	if err := d.Struct(v); err != nil {
		return err
	}
	if n := d.Remaining(); n != 0 {
		return errors.Wrapf(errors.ErrMalformedEncoding, "%d trailing bytes", n)
	}
	return nil
}
