package tx

import (
	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/bcs"
	"github.com/iov-one/suprasig/crypto"
	"github.com/iov-one/suprasig/errors"
)

// Authenticator variant tags.
const (
	Ed25519Variant      uint32 = 0
	MultiEd25519Variant uint32 = 1
)

// Authenticator proves that a transaction was approved by the owner of the
// sender account. It is a closed set, implemented by *Ed25519Authenticator
// and *MultiEd25519Authenticator.
type Authenticator interface {
	bcs.Marshaler

	// Variant returns the tag written in front of the authenticator.
	Variant() uint32
	// Address returns the account address the authenticating key controls.
	Address() suprasig.Address
	// Verify checks the signature against given signing message. The
	// ledger does the authoritative verification, this is for tests and
	// diagnostics.
	Verify(message []byte) bool
}

var (
	_ Authenticator = (*Ed25519Authenticator)(nil)
	_ Authenticator = (*MultiEd25519Authenticator)(nil)
)

// Ed25519Authenticator is a single key signature.
type Ed25519Authenticator struct {
	PublicKey crypto.PublicKey
	Signature crypto.Signature
}

// NewEd25519Authenticator returns a single key authenticator.
func NewEd25519Authenticator(pub crypto.PublicKey, sig crypto.Signature) (*Ed25519Authenticator, error) {
	var errs error
	errs = errors.AppendField(errs, "PublicKey", pub.Validate())
	errs = errors.AppendField(errs, "Signature", sig.Validate())
	if errs != nil {
		return nil, errs
	}
	return &Ed25519Authenticator{PublicKey: pub, Signature: sig}, nil
}

// Variant implements Authenticator.
func (*Ed25519Authenticator) Variant() uint32 {
	return Ed25519Variant
}

// Address implements Authenticator.
func (a *Ed25519Authenticator) Address() suprasig.Address {
	return a.PublicKey.Address()
}

// Verify implements Authenticator.
func (a *Ed25519Authenticator) Verify(message []byte) bool {
	return a.PublicKey.Verify(message, a.Signature)
}

func (a *Ed25519Authenticator) MarshalBCS(s *bcs.Serializer) {
	s.Bytes(a.PublicKey)
	s.Bytes(a.Signature)
}

func (a *Ed25519Authenticator) UnmarshalBCS(d *bcs.Deserializer) error {
	pub, err := d.Bytes()
	if err != nil {
		return errors.Wrap(err, "public key")
	}
	sig, err := d.Bytes()
	if err != nil {
		return errors.Wrap(err, "signature")
	}
	a.PublicKey, a.Signature = pub, sig
	return nil
}

// MultiEd25519Authenticator is a K of N signature.
type MultiEd25519Authenticator struct {
	PublicKey *crypto.MultiPublicKey
	Signature *crypto.MultiSignature
}

// NewMultiEd25519Authenticator returns a K of N authenticator. The threshold
// is not enforced here, see CheckThreshold.
func NewMultiEd25519Authenticator(pub *crypto.MultiPublicKey, sig *crypto.MultiSignature) (*MultiEd25519Authenticator, error) {
	if pub == nil {
		return nil, errors.Field("PublicKey", errors.ErrEmpty, "multi public key")
	}
	if sig == nil {
		return nil, errors.Field("Signature", errors.ErrEmpty, "multi signature")
	}
	if err := pub.Validate(); err != nil {
		return nil, errors.Field("PublicKey", err, "multi public key")
	}
	for i, s := range sig.Signatures {
		if int(s.Index) >= len(pub.Keys) {
			return nil, errors.Field("Signature", errors.ErrInput,
				"signature %d created by key %d of %d keys", i, s.Index, len(pub.Keys))
		}
	}
	return &MultiEd25519Authenticator{PublicKey: pub, Signature: sig}, nil
}

// Variant implements Authenticator.
func (*MultiEd25519Authenticator) Variant() uint32 {
	return MultiEd25519Variant
}

// Address implements Authenticator.
func (a *MultiEd25519Authenticator) Address() suprasig.Address {
	return a.PublicKey.Address()
}

// Verify implements Authenticator.
func (a *MultiEd25519Authenticator) Verify(message []byte) bool {
	return a.PublicKey.Verify(message, a.Signature)
}

func (a *MultiEd25519Authenticator) MarshalBCS(s *bcs.Serializer) {
	s.Bytes(a.PublicKey.Bytes())
	s.Bytes(a.Signature.Bytes())
}

func (a *MultiEd25519Authenticator) UnmarshalBCS(d *bcs.Deserializer) error {
	rawPub, err := d.Bytes()
	if err != nil {
		return errors.Wrap(err, "multi public key")
	}
	rawSig, err := d.Bytes()
	if err != nil {
		return errors.Wrap(err, "multi signature")
	}
	if a.PublicKey, err = crypto.ParseMultiPublicKey(rawPub); err != nil {
		return err
	}
	if a.Signature, err = crypto.ParseMultiSignature(rawSig); err != nil {
		return err
	}
	return nil
}

// MarshalAuthenticator writes the variant tag followed by the authenticator.
func MarshalAuthenticator(s *bcs.Serializer, a Authenticator) {
	if a == nil {
		s.SetError(errors.Wrap(errors.ErrEmpty, "authenticator"))
		return
	}
	s.Uleb128(a.Variant())
	s.Struct(a)
}

// UnmarshalAuthenticator reads a tagged authenticator.
func UnmarshalAuthenticator(d *bcs.Deserializer) (Authenticator, error) {
	variant, err := d.Uleb128()
	if err != nil {
		return nil, errors.Wrap(err, "authenticator variant")
	}
	switch variant {
	case Ed25519Variant:
		var a Ed25519Authenticator
		if err := d.Struct(&a); err != nil {
			return nil, err
		}
		return &a, nil
	case MultiEd25519Variant:
		var a MultiEd25519Authenticator
		if err := d.Struct(&a); err != nil {
			return nil, err
		}
		return &a, nil
	default:
		return nil, errors.Wrapf(errors.ErrMalformedEncoding, "unknown authenticator variant %d", variant)
	}
}

// CheckThreshold returns ErrInsufficientSignatures if fewer distinct keys
// signed than the threshold requires.
//
// The threshold is on-chain state that can change after it was read, so the
// result is a warning for the caller. The ledger decides.
func CheckThreshold(sig *crypto.MultiSignature, threshold uint8) error {
	n := sig.Signers()
	if n < int(threshold) {
		return errors.Wrapf(errors.ErrInsufficientSignatures, "%d of %d required signatures", n, threshold)
	}
	return nil
}
