package tx

import (
	"github.com/iov-one/suprasig/bcs"
	"github.com/iov-one/suprasig/crypto"
	"github.com/iov-one/suprasig/errors"
)

// SignedTransaction is a raw transaction with its authenticator, ready to be
// submitted.
type SignedTransaction struct {
	Raw           *RawTransaction
	Authenticator Authenticator
}

// SignSingle signs a transaction with a single key. The key must control
// the sender account for the ledger to accept it.
func SignSingle(raw *RawTransaction, signer crypto.Signer) (*SignedTransaction, error) {
	msg, err := raw.SigningMessage()
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(msg)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	auth, err := NewEd25519Authenticator(signer.PublicKey(), sig)
	if err != nil {
		return nil, err
	}
	return &SignedTransaction{Raw: raw, Authenticator: auth}, nil
}

// SignIndexed returns a signature created with the key at given index of a
// multi public key.
func SignIndexed(raw *RawTransaction, index uint8, signer crypto.Signer) (crypto.IndexedSignature, error) {
	msg, err := raw.SigningMessage()
	if err != nil {
		return crypto.IndexedSignature{}, err
	}
	sig, err := signer.Sign(msg)
	if err != nil {
		return crypto.IndexedSignature{}, errors.Wrap(err, "sign")
	}
	return crypto.IndexedSignature{Index: index, Signature: sig}, nil
}

// NewMultiEd25519Transaction aggregates collected signatures and returns an
// authenticated transaction. Call it once, after all signatures were
// collected.
func NewMultiEd25519Transaction(raw *RawTransaction, pub *crypto.MultiPublicKey, sigs []crypto.IndexedSignature) (*SignedTransaction, error) {
	ms, err := crypto.Aggregate(sigs)
	if err != nil {
		return nil, errors.Wrap(err, "aggregate")
	}
	auth, err := NewMultiEd25519Authenticator(pub, ms)
	if err != nil {
		return nil, err
	}
	return &SignedTransaction{Raw: raw, Authenticator: auth}, nil
}

// Verify checks the authenticator against the signing message. The ledger
// does the authoritative verification, this is for tests and diagnostics.
func (t *SignedTransaction) Verify() bool {
	if t.Raw == nil || t.Authenticator == nil {
		return false
	}
	msg, err := t.Raw.SigningMessage()
	if err != nil {
		return false
	}
	return t.Authenticator.Verify(msg)
}

// MarshalBCS writes the transaction followed by the tagged authenticator.
func (t *SignedTransaction) MarshalBCS(s *bcs.Serializer) {
	if t.Raw == nil {
		s.SetError(errors.Wrap(errors.ErrEmpty, "raw transaction"))
		return
	}
	s.Struct(t.Raw)
	MarshalAuthenticator(s, t.Authenticator)
}

func (t *SignedTransaction) UnmarshalBCS(d *bcs.Deserializer) error {
	var raw RawTransaction
	if err := d.Struct(&raw); err != nil {
		return err
	}
	auth, err := UnmarshalAuthenticator(d)
	if err != nil {
		return err
	}
	t.Raw, t.Authenticator = &raw, auth
	return nil
}
