package bcs

import (
	"reflect"
	"strconv"

	"github.com/holiman/uint256"
	"github.com/iov-one/suprasig/errors"
)

// Encoder writes a single value. Encoders are paired with values to build
// transaction arguments whose canonical form is decided by the caller, the
// same way a Move function signature decides how its arguments are read.
//
// An encoder must fail with ErrType when given a value it does not support.
type Encoder func(s *Serializer, v interface{}) error

// Encode returns the canonical representation of v written with enc.
func Encode(enc Encoder, v interface{}) ([]byte, error) {
	s := NewSerializer()
	if err := enc(s, v); err != nil {
		return nil, err
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return s.Output(), nil
}

func typeErr(want string, got interface{}) error {
	return errors.Wrapf(errors.ErrType, "want %s, got %T", want, got)
}

// EncodeU8 accepts uint8.
func EncodeU8(s *Serializer, v interface{}) error {
	n, ok := v.(uint8)
	if !ok {
		return typeErr("uint8", v)
	}
	s.U8(n)
	return nil
}

// EncodeU16 accepts uint16.
func EncodeU16(s *Serializer, v interface{}) error {
	n, ok := v.(uint16)
	if !ok {
		return typeErr("uint16", v)
	}
	s.U16(n)
	return nil
}

// EncodeU32 accepts uint32.
func EncodeU32(s *Serializer, v interface{}) error {
	n, ok := v.(uint32)
	if !ok {
		return typeErr("uint32", v)
	}
	s.U32(n)
	return nil
}

// EncodeU64 accepts uint64.
func EncodeU64(s *Serializer, v interface{}) error {
	n, ok := v.(uint64)
	if !ok {
		return typeErr("uint64", v)
	}
	s.U64(n)
	return nil
}

// EncodeU128 accepts *uint256.Int and uint64.
func EncodeU128(s *Serializer, v interface{}) error {
	switch n := v.(type) {
	case *uint256.Int:
		s.U128(n)
	case uint64:
		s.U128(uint256.NewInt(n))
	default:
		return typeErr("*uint256.Int", v)
	}
	return s.Err()
}

// EncodeU256 accepts *uint256.Int and uint64.
func EncodeU256(s *Serializer, v interface{}) error {
	switch n := v.(type) {
	case *uint256.Int:
		s.U256(n)
	case uint64:
		s.U256(uint256.NewInt(n))
	default:
		return typeErr("*uint256.Int", v)
	}
	return nil
}

// EncodeBool accepts bool.
func EncodeBool(s *Serializer, v interface{}) error {
	b, ok := v.(bool)
	if !ok {
		return typeErr("bool", v)
	}
	s.Bool(b)
	return nil
}

// EncodeStr accepts string.
func EncodeStr(s *Serializer, v interface{}) error {
	str, ok := v.(string)
	if !ok {
		return typeErr("string", v)
	}
	s.Str(str)
	return nil
}

// EncodeBytes accepts []byte and writes it length prefixed.
func EncodeBytes(s *Serializer, v interface{}) error {
	b, ok := v.([]byte)
	if !ok {
		return typeErr("[]byte", v)
	}
	s.Bytes(b)
	return nil
}

// EncodeStruct accepts any Marshaler, for example an address.
func EncodeStruct(s *Serializer, v interface{}) error {
	m, ok := v.(Marshaler)
	if !ok {
		return typeErr("bcs.Marshaler", v)
	}
	s.Struct(m)
	return s.Err()
}

// SequenceOf returns an encoder for a slice of values, each written with
// given element encoder. Any slice type is accepted, for example
// []suprasig.Address or []string.
func SequenceOf(elem Encoder) Encoder {
	return func(s *Serializer, v interface{}) error {
		items, err := toSlice(v)
		if err != nil {
			return err
		}
		s.Len(len(items))
		for i, item := range items {
			if err := elem(s, item); err != nil {
				return errors.Field(strconv.Itoa(i), err, "sequence element")
			}
		}
		return s.Err()
	}
}

func toSlice(v interface{}) ([]interface{}, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, typeErr("slice", v)
	}
	items := make([]interface{}, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, nil
}
