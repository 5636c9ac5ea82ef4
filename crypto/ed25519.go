package crypto

import (
	"bytes"

	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/errors"
	"golang.org/x/crypto/ed25519"
)

const (
	// SeedLength is the length of a private key seed. Keys enter the
	// system as raw seeds.
	SeedLength = ed25519.SeedSize
	// PublicKeyLength is the length of a single ed25519 public key.
	PublicKeyLength = ed25519.PublicKeySize
	// SignatureLength is the length of a single ed25519 signature.
	SignatureLength = ed25519.SignatureSize
)

// PublicKey is an ed25519 public key.
type PublicKey []byte

// Signature is an ed25519 signature.
type Signature []byte

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (Signature, error)
	PublicKey() PublicKey
}

// Validate returns an error if this is not a well formed ed25519 public key.
func (p PublicKey) Validate() error {
	if len(p) != PublicKeyLength {
		return errors.Wrapf(errors.ErrInput, "public key must be %d bytes, got %d", PublicKeyLength, len(p))
	}
	return nil
}

// Verify verifies the signature was created with this message and public key
func (p PublicKey) Verify(message []byte, sig Signature) bool {
	if len(p) != PublicKeyLength || len(sig) != SignatureLength {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p), message, sig)
}

// Equals checks if two public keys are the same.
func (p PublicKey) Equals(o PublicKey) bool {
	return bytes.Equal(p, o)
}

// Address returns the account address authenticated by this key.
func (p PublicKey) Address() suprasig.Address {
	return Ed25519Address(p)
}

func (p PublicKey) String() string {
	return suprasig.EncodeHex(p)
}

// Validate returns an error if this is not a well formed ed25519 signature.
func (s Signature) Validate() error {
	if len(s) != SignatureLength {
		return errors.Wrapf(errors.ErrInput, "signature must be %d bytes, got %d", SignatureLength, len(s))
	}
	return nil
}

func (s Signature) String() string {
	return suprasig.EncodeHex(s)
}

// PrivateKey is an ed25519 private key.
type PrivateKey struct {
	key ed25519.PrivateKey
}

var _ Signer = (*PrivateKey)(nil)

// GenerateKey returns a random new private key.
func GenerateKey() (*PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, errors.Wrap(err, "generate ed25519 key")
	}
	return &PrivateKey{key: priv}, nil
}

// PrivateKeyFromSeed will deterministically generate a private key from a
// given 32 bytes seed.
func PrivateKeyFromSeed(seed []byte) (*PrivateKey, error) {
	if len(seed) != SeedLength {
		return nil, errors.Wrapf(errors.ErrInput, "seed must be %d bytes, got %d", SeedLength, len(seed))
	}
	return &PrivateKey{key: ed25519.NewKeyFromSeed(seed)}, nil
}

// ParsePrivateKey decodes a hex encoded seed. The 0x prefix is optional.
func ParsePrivateKey(s string) (*PrivateKey, error) {
	seed, err := suprasig.DecodeHex(s)
	if err != nil {
		return nil, errors.Wrap(err, "private key")
	}
	return PrivateKeyFromSeed(seed)
}

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) (Signature, error) {
	if p == nil || len(p.key) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrState, "empty private key")
	}
	return ed25519.Sign(p.key, message), nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() PublicKey {
	pub := p.key.Public().(ed25519.PublicKey)
	return PublicKey(pub)
}

// Seed returns a copy of the 32 bytes seed this key was created from.
func (p *PrivateKey) Seed() []byte {
	return append([]byte(nil), p.key.Seed()...)
}

// Address returns the account address authenticated by this key.
func (p *PrivateKey) Address() suprasig.Address {
	return p.PublicKey().Address()
}
