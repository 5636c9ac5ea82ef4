package crypto

import (
	"bytes"
	"testing"

	"github.com/iov-one/suprasig/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEd25519Signing(t *testing.T) {
	private, err := GenerateKey()
	require.NoError(t, err)
	public := private.PublicKey()

	msg := []byte("foobar")
	msg2 := []byte("dingbooms")

	sig, err := private.Sign(msg)
	require.NoError(t, err)
	sig2, err := private.Sign(msg2)
	require.NoError(t, err)

	if bytes.Equal(sig, sig2) {
		t.Fatal("different messages produce the same signature")
	}

	if !public.Verify(msg, sig) {
		t.Fatal("cannot verify a message signed with this public key")
	}
	if !public.Verify(msg2, sig2) {
		t.Fatal("cannot verify a message signed with this public key")
	}

	if public.Verify(msg, sig2) {
		t.Fatal("verified message signature of the wrong message")
	}
	if public.Verify(msg2, sig) {
		t.Fatal("verified message signature of the wrong message")
	}

	if public.Verify(msg, Signature{}) {
		t.Fatal("verified an empty signature of a message")
	}
	if public.Verify(msg, nil) {
		t.Fatal("verified a nil signature of a message")
	}
	var empty PublicKey
	if empty.Verify(msg, sig) {
		t.Fatal("empty public key must not pass verification")
	}
}

func TestPrivateKeyFromSeed(t *testing.T) {
	cases := map[string]struct {
		seed    []byte
		wantPub []byte
		wantErr *errors.Error
	}{
		"success 1": {
			seed:    bytes.Repeat([]byte{0}, 32),
			wantPub: []byte{59, 106, 39, 188, 206, 182, 164, 45, 98, 163, 168, 208, 42, 111, 13, 115, 101, 50, 21, 119, 29, 226, 67, 166, 58, 192, 72, 161, 139, 89, 218, 41},
		},
		"success 2": {
			seed:    bytes.Repeat([]byte{31}, 32),
			wantPub: []byte{67, 4, 107, 254, 64, 146, 179, 233, 73, 148, 234, 218, 21, 220, 194, 13, 138, 170, 7, 182, 88, 253, 57, 84, 235, 142, 14, 251, 139, 220, 165, 222},
		},
		"failure no seed": {
			seed:    nil,
			wantErr: errors.ErrInput,
		},
		"failure wrong seed size (n<32)": {
			seed:    []byte{0},
			wantErr: errors.ErrInput,
		},
		"failure wrong seed size (n>32)": {
			seed:    bytes.Repeat([]byte{0}, 33),
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			key, err := PrivateKeyFromSeed(tc.seed)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			assert.Equal(t, PublicKey(tc.wantPub), key.PublicKey())
			assert.Equal(t, tc.seed, key.Seed())
		})
	}
}

func TestParsePrivateKey(t *testing.T) {
	key, err := ParsePrivateKey("0x1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f1f")
	require.NoError(t, err)
	assert.Equal(t, "0x43046bfe4092b3e94994eada15dcc20d8aaa07b658fd3954eb8e0efb8bdca5de", key.PublicKey().String())

	_, err = ParsePrivateKey("0x1f")
	assert.True(t, errors.ErrInput.Is(err))
	_, err = ParsePrivateKey("not hex")
	assert.True(t, errors.ErrInput.Is(err))
}

func TestEmptyPrivateKeySign(t *testing.T) {
	var emptyKey PrivateKey
	if sig, err := emptyKey.Sign([]byte("foo bar")); err == nil {
		t.Fatalf("want an error, got %q", sig)
	}
}

func TestSha3(t *testing.T) {
	// SHA3-256 of the empty string.
	assert.Equal(t,
		"0xa7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a",
		Signature(Sha3()).String())
	assert.Equal(t, Sha3([]byte("ab")), Sha3([]byte("a"), []byte("b")))
}

func TestAuthenticationKeyAddresses(t *testing.T) {
	key, err := PrivateKeyFromSeed(bytes.Repeat([]byte{1}, 32))
	require.NoError(t, err)
	pub := key.PublicKey()

	assert.Equal(t, Ed25519Address(pub), key.Address())
	assert.Equal(t, Sha3(pub, []byte{0x00}), key.Address().Bytes())

	m, err := NewMultiPublicKey([]PublicKey{pub}, 1)
	require.NoError(t, err)
	assert.Equal(t, Sha3(m.Bytes(), []byte{0x01}), m.Address().Bytes())
	assert.NotEqual(t, key.Address(), m.Address())
}
