package bcs

import (
	"encoding/hex"
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/iov-one/suprasig/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializerPrimitives(t *testing.T) {
	cases := map[string]struct {
		write   func(*Serializer)
		wantHex string
	}{
		"u8": {
			write:   func(s *Serializer) { s.U8(0xab) },
			wantHex: "ab",
		},
		"u16 little endian": {
			write:   func(s *Serializer) { s.U16(0x0102) },
			wantHex: "0201",
		},
		"u32 little endian": {
			write:   func(s *Serializer) { s.U32(0x01020304) },
			wantHex: "04030201",
		},
		"u64 little endian": {
			write:   func(s *Serializer) { s.U64(5) },
			wantHex: "0500000000000000",
		},
		"u128 above u64": {
			write:   func(s *Serializer) { s.U128(new(uint256.Int).Lsh(uint256.NewInt(1), 64)) },
			wantHex: "00000000000000000100000000000000",
		},
		"u128 nil is zero": {
			write:   func(s *Serializer) { s.U128(nil) },
			wantHex: "00000000000000000000000000000000",
		},
		"u256 one": {
			write:   func(s *Serializer) { s.U256(uint256.NewInt(1)) },
			wantHex: "0100000000000000000000000000000000000000000000000000000000000000",
		},
		"bool true": {
			write:   func(s *Serializer) { s.Bool(true) },
			wantHex: "01",
		},
		"bool false": {
			write:   func(s *Serializer) { s.Bool(false) },
			wantHex: "00",
		},
		"string is length prefixed": {
			write:   func(s *Serializer) { s.Str("abc") },
			wantHex: "03616263",
		},
		"empty bytes": {
			write:   func(s *Serializer) { s.Bytes(nil) },
			wantHex: "00",
		},
		"fixed bytes carry no prefix": {
			write:   func(s *Serializer) { s.FixedBytes([]byte{1, 2}) },
			wantHex: "0102",
		},
		"sequence of u16": {
			write: func(s *Serializer) {
				vals := []uint16{1, 2}
				s.Sequence(len(vals), func(i int) { s.U16(vals[i]) })
			},
			wantHex: "0201000200",
		},
		"uleb128 two bytes": {
			write:   func(s *Serializer) { s.Uleb128(128) },
			wantHex: "8001",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			s := NewSerializer()
			tc.write(s)
			require.NoError(t, s.Err())
			assert.Equal(t, tc.wantHex, hex.EncodeToString(s.Output()))
		})
	}
}

func TestSerializerU128Overflow(t *testing.T) {
	s := NewSerializer()
	s.U128(new(uint256.Int).Lsh(uint256.NewInt(1), 128))
	assert.True(t, errors.ErrOverflow.Is(s.Err()))

	// Once failed, the serializer ignores all following writes.
	s.U8(1)
	assert.Empty(t, s.Output())
}

func TestDeserializerRoundTrip(t *testing.T) {
	big := new(uint256.Int).Lsh(uint256.NewInt(0xdead), 200)

	s := NewSerializer()
	s.U8(7)
	s.U16(math.MaxUint16)
	s.U32(math.MaxUint32)
	s.U64(math.MaxUint64)
	s.U128(uint256.NewInt(42))
	s.U256(big)
	s.Bool(true)
	s.Str("supra")
	s.Bytes([]byte{0xca, 0xfe})
	s.Uleb128(300)
	require.NoError(t, s.Err())

	d := NewDeserializer(s.Output())
	u8, err := d.U8()
	require.NoError(t, err)
	assert.Equal(t, uint8(7), u8)
	u16, err := d.U16()
	require.NoError(t, err)
	assert.Equal(t, uint16(math.MaxUint16), u16)
	u32, err := d.U32()
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), u32)
	u64, err := d.U64()
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), u64)
	u128, err := d.U128()
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(42), u128)
	u256, err := d.U256()
	require.NoError(t, err)
	assert.Equal(t, big, u256)
	b, err := d.Bool()
	require.NoError(t, err)
	assert.True(t, b)
	str, err := d.Str()
	require.NoError(t, err)
	assert.Equal(t, "supra", str)
	raw, err := d.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xca, 0xfe}, raw)
	n, err := d.Uleb128()
	require.NoError(t, err)
	assert.Equal(t, uint32(300), n)
	assert.Equal(t, 0, d.Remaining())
}

func TestDeserializerMalformed(t *testing.T) {
	cases := map[string]struct {
		hex  string
		read func(*Deserializer) error
	}{
		"truncated u64": {
			hex:  "01020304",
			read: func(d *Deserializer) error { _, err := d.U64(); return err },
		},
		"empty input": {
			hex:  "",
			read: func(d *Deserializer) error { _, err := d.U8(); return err },
		},
		"bool out of range": {
			hex:  "02",
			read: func(d *Deserializer) error { _, err := d.Bool(); return err },
		},
		"length exceeds remaining bytes": {
			hex:  "056162",
			read: func(d *Deserializer) error { _, err := d.Bytes(); return err },
		},
		"sequence length exceeds remaining bytes": {
			hex: "ff01",
			read: func(d *Deserializer) error {
				return d.Sequence(func(int) error { _, err := d.U8(); return err })
			},
		},
		"invalid utf-8 string": {
			hex:  "02c328",
			read: func(d *Deserializer) error { _, err := d.Str(); return err },
		},
		"truncated u128": {
			hex:  "00000000000000000000",
			read: func(d *Deserializer) error { _, err := d.U128(); return err },
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			raw, err := hex.DecodeString(tc.hex)
			require.NoError(t, err)
			err = tc.read(NewDeserializer(raw))
			if !errors.ErrMalformedEncoding.Is(err) {
				t.Fatalf("want malformed encoding error, got %+v", err)
			}
		})
	}
}

type pair struct {
	Name  string
	Value uint64
}

func (p pair) MarshalBCS(s *Serializer) {
	s.Str(p.Name)
	s.U64(p.Value)
}

func (p *pair) UnmarshalBCS(d *Deserializer) error {
	name, err := d.Str()
	if err != nil {
		return err
	}
	value, err := d.U64()
	if err != nil {
		return err
	}
	p.Name, p.Value = name, value
	return nil
}

func TestMarshalUnmarshal(t *testing.T) {
	raw, err := Marshal(pair{Name: "a", Value: 1})
	require.NoError(t, err)
	assert.Equal(t, "01610100000000000000", hex.EncodeToString(raw))

	var got pair
	require.NoError(t, Unmarshal(raw, &got))
	assert.Equal(t, pair{Name: "a", Value: 1}, got)

	err = Unmarshal(append(raw, 0), &got)
	assert.True(t, errors.ErrMalformedEncoding.Is(err))
}

func TestEncoders(t *testing.T) {
	cases := map[string]struct {
		enc     Encoder
		value   interface{}
		wantHex string
		wantErr *errors.Error
	}{
		"u64": {
			enc:     EncodeU64,
			value:   uint64(10),
			wantHex: "0a00000000000000",
		},
		"u64 refuses int": {
			enc:     EncodeU64,
			value:   10,
			wantErr: errors.ErrType,
		},
		"u128 from uint64": {
			enc:     EncodeU128,
			value:   uint64(1),
			wantHex: "01000000000000000000000000000000",
		},
		"bool": {
			enc:     EncodeBool,
			value:   true,
			wantHex: "01",
		},
		"bytes": {
			enc:     EncodeBytes,
			value:   []byte{0xff},
			wantHex: "01ff",
		},
		"struct": {
			enc:     EncodeStruct,
			value:   pair{Name: "b", Value: 2},
			wantHex: "01620200000000000000",
		},
		"struct refuses plain value": {
			enc:     EncodeStruct,
			value:   "not a struct",
			wantErr: errors.ErrType,
		},
		"sequence of strings": {
			enc:     SequenceOf(EncodeStr),
			value:   []string{"a", "b"},
			wantHex: "0201610162",
		},
		"empty sequence": {
			enc:     SequenceOf(EncodeStruct),
			value:   []pair{},
			wantHex: "00",
		},
		"sequence of byte arrays": {
			enc:     SequenceOf(EncodeBytes),
			value:   [][]byte{{1}, {}},
			wantHex: "02010100",
		},
		"sequence refuses scalar": {
			enc:     SequenceOf(EncodeU8),
			value:   uint8(1),
			wantErr: errors.ErrType,
		},
		"sequence element of wrong type": {
			enc:     SequenceOf(EncodeU8),
			value:   []int{1},
			wantErr: errors.ErrType,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			raw, err := Encode(tc.enc, tc.value)
			if tc.wantErr != nil {
				if !tc.wantErr.Is(err) {
					t.Fatalf("want %q error, got %+v", tc.wantErr, err)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantHex, hex.EncodeToString(raw))
		})
	}
}
