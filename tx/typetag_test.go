package tx

import (
	"strings"
	"testing"

	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/bcs"
	"github.com/iov-one/suprasig/errors"
	"github.com/iov-one/suprasig/suprasigtest/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTypeTag(t *testing.T) {
	coin := StructTag{Address: suprasig.CoreAddress, Module: "supra_coin", Name: "SupraCoin"}

	cases := map[string]struct {
		input   string
		want    TypeTag
		wantStr string
	}{
		"primitive": {
			input:   "u64",
			want:    U64Tag,
			wantStr: "u64",
		},
		"vector": {
			input:   "vector<u8>",
			want:    VectorTag{Elem: U8Tag},
			wantStr: "vector<u8>",
		},
		"struct": {
			input:   "0x1::supra_coin::SupraCoin",
			want:    coin,
			wantStr: "0x1::supra_coin::SupraCoin",
		},
		"generic struct with a long address": {
			input: "0x0000000000000000000000000000000000000000000000000000000000000001::coin::CoinStore<0x1::supra_coin::SupraCoin>",
			want: StructTag{
				Address:  suprasig.CoreAddress,
				Module:   "coin",
				Name:     "CoinStore",
				TypeArgs: []TypeTag{coin},
			},
			wantStr: "0x1::coin::CoinStore<0x1::supra_coin::SupraCoin>",
		},
		"several type arguments with spaces": {
			input: "0x1::pair::Pair<u8, vector<address>>",
			want: StructTag{
				Address:  suprasig.CoreAddress,
				Module:   "pair",
				Name:     "Pair",
				TypeArgs: []TypeTag{U8Tag, VectorTag{Elem: AddressTag}},
			},
			wantStr: "0x1::pair::Pair<u8, vector<address>>",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseTypeTag(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantStr, got.String())

			raw, err := bcs.Marshal(got)
			require.NoError(t, err)
			decoded, err := UnmarshalTypeTag(bcs.NewDeserializer(raw))
			require.NoError(t, err)
			assert.Equal(t, tc.want, decoded)
		})
	}
}

func TestParseTypeTagErrors(t *testing.T) {
	deep := strings.Repeat("vector<", 10) + "u8" + strings.Repeat(">", 10)
	for _, input := range []string{"", "u7", "vector<u8", "vector", "0x1::coin", "0x1::coin::", "u8 u8", "0x1::a::B<u8", deep} {
		_, err := ParseTypeTag(input)
		assert.IsErr(t, errors.ErrInput, err)
	}
}

func TestTypeTagEncoding(t *testing.T) {
	cases := map[string]struct {
		tag  TypeTag
		want []byte
	}{
		"u16 has tag 8":   {tag: U16Tag, want: []byte{8}},
		"u256 has tag 10": {tag: U256Tag, want: []byte{10}},
		"vector of bool":  {tag: VectorTag{Elem: BoolTag}, want: []byte{6, 0}},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := bcs.Marshal(tc.tag)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := UnmarshalTypeTag(bcs.NewDeserializer([]byte{11}))
	assert.IsErr(t, errors.ErrMalformedEncoding, err)
}
