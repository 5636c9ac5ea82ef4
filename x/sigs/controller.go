package sigs

import (
	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/crypto"
	"github.com/iov-one/suprasig/errors"
	"github.com/iov-one/suprasig/tx"
)

// Signer is a key that signed a transaction. Index is the position of the
// key within the multi key of the sender, zero for a single key sender.
type Signer struct {
	Index     uint8
	PublicKey crypto.PublicKey
}

// Report describes who signed a transaction.
type Report struct {
	Signers []Signer
	// Threshold is the number of signatures the sender requires.
	Threshold uint8
	// Missing lists key indexes of a multi key that did not sign.
	Missing []uint8
	// KeyAddress is the address derived from the signing key. It differs
	// from the sender only if the sender rotated its key.
	KeyAddress suprasig.Address

	// multi is the verified multi signature, nil for a single key sender.
	multi *crypto.MultiSignature
}

// Enough returns ErrInsufficientSignatures when fewer distinct keys signed
// than the threshold requires.
func (r *Report) Enough() error {
	if r.multi == nil {
		// A verified single key signature is all a single key sender needs.
		return nil
	}
	return tx.CheckThreshold(r.multi, r.Threshold)
}

// VerifyTxSignatures checks all the signatures of the transaction, which
// must have at least one.
//
// It returns the list of keys that signed, or an error naming the first
// invalid signature.
func VerifyTxSignatures(t *tx.SignedTransaction) (*Report, error) {
	if t == nil || t.Raw == nil || t.Authenticator == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "signed transaction")
	}
	msg, err := t.Raw.SigningMessage()
	if err != nil {
		return nil, err
	}

	var report *Report
	switch auth := t.Authenticator.(type) {
	case *tx.Ed25519Authenticator:
		if err := VerifySignature(auth.PublicKey, msg, auth.Signature); err != nil {
			return nil, err
		}
		report = &Report{
			Signers:   []Signer{{PublicKey: auth.PublicKey}},
			Threshold: 1,
		}
	case *tx.MultiEd25519Authenticator:
		if report, err = verifyMulti(auth, msg); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Wrapf(errors.ErrType, "authenticator %T", t.Authenticator)
	}
	report.KeyAddress = t.Authenticator.Address()
	return report, nil
}

func verifyMulti(auth *tx.MultiEd25519Authenticator, msg []byte) (*Report, error) {
	if auth.PublicKey == nil || auth.Signature == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "multi key authenticator")
	}
	if len(auth.Signature.Signatures) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "no signatures")
	}
	report := Report{Threshold: auth.PublicKey.Threshold, multi: auth.Signature}
	signed := make(map[uint8]bool, len(auth.Signature.Signatures))
	for i, s := range auth.Signature.Signatures {
		if i > 0 && s.Index <= auth.Signature.Signatures[i-1].Index {
			return nil, errors.Wrapf(errors.ErrUnauthorized, "signature %d of key %d is not in key index order", i, s.Index)
		}
		if int(s.Index) >= len(auth.PublicKey.Keys) {
			return nil, errors.Wrapf(errors.ErrInput, "signature %d of key %d, only %d keys", i, s.Index, len(auth.PublicKey.Keys))
		}
		key := auth.PublicKey.Keys[s.Index]
		if err := VerifySignature(key, msg, s.Signature); err != nil {
			return nil, errors.Wrapf(err, "key %d", s.Index)
		}
		report.Signers = append(report.Signers, Signer{Index: s.Index, PublicKey: key})
		signed[s.Index] = true
	}
	for i := range auth.PublicKey.Keys {
		if !signed[uint8(i)] {
			report.Missing = append(report.Missing, uint8(i))
		}
	}
	return &report, nil
}

// VerifySignature checks one signature against the signing message.
func VerifySignature(pub crypto.PublicKey, msg []byte, sig crypto.Signature) error {
	if err := pub.Validate(); err != nil {
		return errors.Wrap(err, "public key")
	}
	if err := sig.Validate(); err != nil {
		return errors.Wrap(err, "signature")
	}
	if !pub.Verify(msg, sig) {
		return errors.Wrapf(errors.ErrUnauthorized, "invalid signature of %s", pub)
	}
	return nil
}
