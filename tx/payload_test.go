package tx

import (
	"bytes"
	"testing"

	"github.com/holiman/uint256"
	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/bcs"
	"github.com/iov-one/suprasig/errors"
	"github.com/iov-one/suprasig/suprasigtest/assert"
	"github.com/stretchr/testify/require"
)

func transferCall(t testing.TB, to suprasig.Address, amount uint64) *EntryFunction {
	t.Helper()
	ef, err := NewEntryFunction(CoreModule("supra_account"), "transfer", nil,
		Argument{Value: to, Encoder: bcs.EncodeStruct},
		Argument{Value: amount, Encoder: bcs.EncodeU64},
	)
	require.NoError(t, err)
	return ef
}

func TestEntryFunctionEncoding(t *testing.T) {
	to := suprasig.MustParseAddress("0x2")
	ef := transferCall(t, to, 10)

	var want []byte
	want = append(want, 0x02) // entry function variant
	want = append(want, suprasig.CoreAddress[:]...)
	want = append(want, 13)
	want = append(want, "supra_account"...)
	want = append(want, 8)
	want = append(want, "transfer"...)
	want = append(want, 0) // no type arguments
	want = append(want, 2) // two arguments
	want = append(want, 32)
	want = append(want, to[:]...)
	want = append(want, 8, 10, 0, 0, 0, 0, 0, 0, 0)

	got, err := EncodePayload(ef)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPayloadRoundTrip(t *testing.T) {
	to := suprasig.MustParseAddress("0x2")
	multisigAddr := suprasig.MustParseAddress("0xabcdef")

	cases := map[string]Payload{
		"entry function": transferCall(t, to, 10),
		"entry function with type arguments": &EntryFunction{
			Module:   CoreModule("coin"),
			Function: "transfer",
			TypeArgs: []TypeTag{StructTag{Address: suprasig.CoreAddress, Module: "supra_coin", Name: "SupraCoin"}},
			Args:     [][]byte{to[:], {1, 0, 0, 0, 0, 0, 0, 0}},
		},
		"multisig with payload":    NewMultisig(multisigAddr, transferCall(t, to, 7)),
		"multisig without payload": NewMultisig(multisigAddr, nil),
		"script": &Script{
			Code:     []byte{0xa1, 0x1c, 0xeb, 0x0b},
			TypeArgs: []TypeTag{U64Tag, VectorTag{Elem: U8Tag}},
			Args: []ScriptArgument{
				{Type: ScriptArgU8, Value: uint8(1)},
				{Type: ScriptArgU16, Value: uint16(2)},
				{Type: ScriptArgU32, Value: uint32(3)},
				{Type: ScriptArgU64, Value: uint64(4)},
				U128Arg(uint256.NewInt(5)),
				{Type: ScriptArgU256, Value: uint256.NewInt(6)},
				{Type: ScriptArgAddress, Value: to},
				{Type: ScriptArgU8Vector, Value: []byte("abc")},
				{Type: ScriptArgBool, Value: true},
			},
		},
	}

	for testName, p := range cases {
		t.Run(testName, func(t *testing.T) {
			raw, err := EncodePayload(p)
			require.NoError(t, err)
			decoded, err := DecodePayload(raw)
			require.NoError(t, err)
			assert.Equal(t, p.Variant(), decoded.Variant())

			again, err := EncodePayload(decoded)
			require.NoError(t, err)
			assert.Equal(t, raw, again)
		})
	}
}

func TestDecodePayloadErrors(t *testing.T) {
	valid, err := EncodePayload(NewMultisig(suprasig.MustParseAddress("0x5"), transferCall(t, suprasig.CoreAddress, 1)))
	require.NoError(t, err)

	// Tag byte of the inner payload follows the outer tag, the address and
	// the presence flag.
	innerTag := 1 + suprasig.AddressLength + 1
	withInnerTag := append([]byte(nil), valid...)
	withInnerTag[innerTag] = 1

	cases := map[string]struct {
		raw     []byte
		wantErr *errors.Error
	}{
		"tag 7 is not a payload": {
			raw:     []byte{7, 0, 0},
			wantErr: errors.ErrUnknownPayloadVariant,
		},
		"tag 1 is no longer supported": {
			raw:     []byte{1},
			wantErr: errors.ErrUnknownPayloadVariant,
		},
		"inner multisig tag other than an entry function": {
			raw:     withInnerTag,
			wantErr: errors.ErrUnsupportedInnerPayload,
		},
		"trailing bytes": {
			raw:     append(append([]byte(nil), valid...), 0),
			wantErr: errors.ErrMalformedEncoding,
		},
		"truncated": {
			raw:     valid[:len(valid)-3],
			wantErr: errors.ErrMalformedEncoding,
		},
		"empty": {
			raw:     nil,
			wantErr: errors.ErrMalformedEncoding,
		},
		"module address cut short": {
			raw:     append([]byte{2}, bytes.Repeat([]byte{0xff}, 3)...),
			wantErr: errors.ErrMalformedEncoding,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := DecodePayload(tc.raw)
			assert.IsErr(t, tc.wantErr, err)
		})
	}
}

func TestNewEntryFunctionErrors(t *testing.T) {
	_, err := NewEntryFunction(CoreModule("supra_account"), "transfer", nil,
		Argument{Value: "not an address", Encoder: bcs.EncodeStruct},
	)
	assert.FieldError(t, err, "Args.0", errors.ErrType)

	_, err = NewEntryFunction(CoreModule("supra_account"), "transfer", nil,
		Argument{Value: uint64(1)},
	)
	assert.FieldError(t, err, "Args.0", errors.ErrEmpty)

	_, err = NewEntryFunction(ModuleID{Address: suprasig.CoreAddress}, "", nil)
	assert.FieldError(t, err, "Module.Name", errors.ErrEmpty)
	assert.FieldError(t, err, "Function", errors.ErrEmpty)
}

func TestModuleID(t *testing.T) {
	m, err := ParseModuleID("0x1::multisig_account")
	require.NoError(t, err)
	assert.Equal(t, CoreModule("multisig_account"), m)
	assert.Equal(t, "0x1::multisig_account", m.String())

	for _, bad := range []string{"", "0x1", "0x1::", "zz::coin", "0x1::a::b"} {
		_, err := ParseModuleID(bad)
		assert.IsErr(t, errors.ErrInput, err)
	}
}

func TestMultisigPayloadPresenceFlag(t *testing.T) {
	addr := suprasig.MustParseAddress("0x5")
	raw, err := EncodePayload(NewMultisig(addr, nil))
	require.NoError(t, err)

	want := append([]byte{3}, addr[:]...)
	want = append(want, 0)
	assert.Equal(t, want, raw)
}

func TestMultisigTransactionPayloadNeedsEntryFunction(t *testing.T) {
	_, err := bcs.Marshal(&MultisigTransactionPayload{})
	assert.IsErr(t, errors.ErrEmpty, err)
}
