package suprasig

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/suprasig/bcs"
	"github.com/iov-one/suprasig/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recipientHex = "0xb8922417130785087f9c7926e76542531b703693fdc74c9386b65cf4427f4e80"

func TestParseAddress(t *testing.T) {
	cases := map[string]struct {
		input   string
		relaxed bool
		want    string
		wantErr *errors.Error
	}{
		"full length with prefix": {
			input: recipientHex,
			want:  recipientHex,
		},
		"full length without prefix": {
			input: recipientHex[2:],
			want:  recipientHex,
		},
		"short form requires relaxed parsing": {
			input:   "0x1",
			wantErr: errors.ErrInput,
		},
		"short form is left padded": {
			input:   "0x1",
			relaxed: true,
			want:    "0x0000000000000000000000000000000000000000000000000000000000000001",
		},
		"bare short form": {
			input:   "1",
			relaxed: true,
			want:    "0x0000000000000000000000000000000000000000000000000000000000000001",
		},
		"too long": {
			input:   recipientHex + "00",
			relaxed: true,
			wantErr: errors.ErrInput,
		},
		"empty": {
			input:   "0x",
			relaxed: true,
			wantErr: errors.ErrInput,
		},
		"not hex": {
			input:   "0xzz",
			relaxed: true,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parse := ParseAddress
			if tc.relaxed {
				parse = ParseAddressRelaxed
			}
			got, err := parse(tc.input)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got.String())
			}
		})
	}
}

func TestAddressShortString(t *testing.T) {
	assert.Equal(t, "0x1", CoreAddress.ShortString())
	assert.Equal(t, "0x0", Address{}.ShortString())
	assert.Equal(t, recipientHex, MustParseAddress(recipientHex).ShortString())
}

func TestAddressJSON(t *testing.T) {
	addr := MustParseAddress(recipientHex)
	raw, err := json.Marshal(addr)
	require.NoError(t, err)
	assert.Equal(t, `"`+recipientHex+`"`, string(raw))

	var got Address
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, addr, got)

	require.NoError(t, json.Unmarshal([]byte(`"0x1"`), &got))
	assert.Equal(t, CoreAddress, got)

	err = json.Unmarshal([]byte(`12`), &got)
	assert.Error(t, err)
}

func TestAddressBCS(t *testing.T) {
	addr := MustParseAddress(recipientHex)
	raw, err := bcs.Marshal(addr)
	require.NoError(t, err)
	assert.Equal(t, addr[:], raw)

	var got Address
	require.NoError(t, bcs.Unmarshal(raw, &got))
	assert.Equal(t, addr, got)

	err = bcs.Unmarshal(raw[:31], &got)
	assert.True(t, errors.ErrMalformedEncoding.Is(err))

	s := bcs.NewSerializer()
	MarshalAddresses(s, []Address{addr, CoreAddress})
	require.NoError(t, s.Err())
	assert.Len(t, s.Output(), 1+2*AddressLength)

	addrs, err := UnmarshalAddresses(bcs.NewDeserializer(s.Output()))
	require.NoError(t, err)
	assert.Equal(t, []Address{addr, CoreAddress}, addrs)
}
