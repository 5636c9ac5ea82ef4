package tx

import (
	"sort"

	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/bcs"
	"github.com/iov-one/suprasig/crypto"
	"github.com/iov-one/suprasig/errors"
)

// Stage is the progress of a single submission attempt.
type Stage uint8

const (
	// Built means no signature was collected yet.
	Built Stage = iota
	// Signed means some signatures were collected, but not enough to
	// satisfy the threshold of the multi key.
	Signed
	// Authenticated means the collected signatures can be turned into an
	// authenticator the ledger would accept.
	Authenticated
)

func (s Stage) String() string {
	switch s {
	case Built:
		return "built"
	case Signed:
		return "signed"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// envelopeVersion is written in front of every encoded envelope.
const envelopeVersion uint8 = 1

// Envelope carries a raw transaction through a signing pipeline. Each signer
// adds a signature, the last step turns the collected signatures into an
// authenticated transaction.
//
// An envelope is either signed by a single key, in which case PublicKey is
// set and there is one signature, or by members of a multi key. The multi
// key can be attached before or after the signatures are collected.
type Envelope struct {
	Raw *RawTransaction
	// MultiKey is set when the sender is a K of N account.
	MultiKey *crypto.MultiPublicKey
	// PublicKey is the key of a single signer.
	PublicKey crypto.PublicKey
	// Signatures are kept in the order they were collected.
	Signatures []crypto.IndexedSignature
}

// NewEnvelope returns an envelope for given transaction.
func NewEnvelope(raw *RawTransaction) *Envelope {
	return &Envelope{Raw: raw}
}

// WithMultiKey attaches the multi key of the sender. All collected
// signatures must have been created by the keys they claim.
func (e *Envelope) WithMultiKey(mpk *crypto.MultiPublicKey) error {
	if len(e.PublicKey) != 0 {
		return errors.Wrap(errors.ErrState, "envelope signed by a single key")
	}
	if err := mpk.Validate(); err != nil {
		return err
	}
	msg, err := e.Raw.SigningMessage()
	if err != nil {
		return err
	}
	for i, s := range e.Signatures {
		if int(s.Index) >= len(mpk.Keys) || !mpk.Keys[s.Index].Verify(msg, s.Signature) {
			return errors.Wrapf(errors.ErrUnauthorized, "signature %d does not match key %d", i, s.Index)
		}
	}
	e.MultiKey = mpk
	return nil
}

// Sign adds a signature of given signer. With a multi key attached, the
// signer's index is looked up in it. Without one the envelope becomes a
// single signer envelope.
func (e *Envelope) Sign(signer crypto.Signer) error {
	if e.MultiKey != nil {
		index, ok := e.MultiKey.Index(signer.PublicKey())
		if !ok {
			return errors.Wrapf(errors.ErrUnauthorized, "key %s is not part of the multi key", signer.PublicKey())
		}
		return e.SignAt(index, signer)
	}
	if len(e.Signatures) != 0 {
		return errors.Wrap(errors.ErrDuplicate, "envelope already signed")
	}
	sig, err := SignIndexed(e.Raw, 0, signer)
	if err != nil {
		return err
	}
	e.PublicKey = signer.PublicKey()
	e.Signatures = []crypto.IndexedSignature{sig}
	return nil
}

// SignAt adds a signature created by the multi key member at given index.
func (e *Envelope) SignAt(index uint8, signer crypto.Signer) error {
	if e.MultiKey != nil {
		if int(index) >= len(e.MultiKey.Keys) || !e.MultiKey.Keys[index].Equals(signer.PublicKey()) {
			return errors.Wrapf(errors.ErrUnauthorized, "key %s is not at index %d", signer.PublicKey(), index)
		}
	}
	if err := e.canAdd(index); err != nil {
		return err
	}
	sig, err := SignIndexed(e.Raw, index, signer)
	if err != nil {
		return err
	}
	e.Signatures = append(e.Signatures, sig)
	return nil
}

// AddSignature adds a signature created elsewhere by the multi key member at
// its index. With a multi key attached the signature must be valid for the
// key at that index.
func (e *Envelope) AddSignature(sig crypto.IndexedSignature) error {
	if err := e.canAdd(sig.Index); err != nil {
		return err
	}
	if e.MultiKey != nil {
		msg, err := e.Raw.SigningMessage()
		if err != nil {
			return err
		}
		if int(sig.Index) >= len(e.MultiKey.Keys) || !e.MultiKey.Keys[sig.Index].Verify(msg, sig.Signature) {
			return errors.Wrapf(errors.ErrUnauthorized, "signature does not match key %d", sig.Index)
		}
	}
	e.Signatures = append(e.Signatures, sig)
	return nil
}

func (e *Envelope) canAdd(index uint8) error {
	if len(e.PublicKey) != 0 {
		return errors.Wrap(errors.ErrState, "envelope signed by a single key")
	}
	if index >= crypto.MaxKeys {
		return errors.Wrapf(errors.ErrInput, "index %d", index)
	}
	for _, s := range e.Signatures {
		if s.Index == index {
			return errors.Wrapf(errors.ErrDuplicate, "index %d already signed", index)
		}
	}
	return nil
}

// Signers returns the number of distinct keys that signed.
func (e *Envelope) Signers() int {
	ms := crypto.MultiSignature{Signatures: e.Signatures}
	return ms.Signers()
}

// Stage returns how far this attempt has progressed.
func (e *Envelope) Stage() Stage {
	switch {
	case len(e.Signatures) == 0:
		return Built
	case len(e.PublicKey) != 0:
		return Authenticated
	case e.MultiKey == nil:
		return Signed
	case e.Signers() < int(e.MultiKey.Threshold):
		return Signed
	default:
		return Authenticated
	}
}

// Authenticate aggregates the collected signatures in key index order.
// Below threshold signatures are aggregated anyway, use CheckThreshold to
// warn about it.
func (e *Envelope) Authenticate() (*SignedTransaction, error) {
	if e.Raw == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "raw transaction")
	}
	if len(e.Signatures) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "no signatures")
	}
	if len(e.PublicKey) != 0 {
		auth, err := NewEd25519Authenticator(e.PublicKey, e.Signatures[0].Signature)
		if err != nil {
			return nil, err
		}
		return &SignedTransaction{Raw: e.Raw, Authenticator: auth}, nil
	}
	if e.MultiKey == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "multi key required to aggregate indexed signatures")
	}
	// Signatures are collected in any order, but the ledger attributes them
	// to the bitmap bits in ascending order.
	sigs := append([]crypto.IndexedSignature(nil), e.Signatures...)
	sort.SliceStable(sigs, func(i, j int) bool { return sigs[i].Index < sigs[j].Index })
	return NewMultiEd25519Transaction(e.Raw, e.MultiKey, sigs)
}

// SignerIndexes returns the collected signature indexes in ascending order.
func (e *Envelope) SignerIndexes() []uint8 {
	out := make([]uint8, len(e.Signatures))
	for i, s := range e.Signatures {
		out[i] = s.Index
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (e *Envelope) MarshalBCS(s *bcs.Serializer) {
	if e.Raw == nil {
		s.SetError(errors.Wrap(errors.ErrEmpty, "raw transaction"))
		return
	}
	s.U8(envelopeVersion)
	s.Struct(e.Raw)
	s.U8(uint8(e.Raw.Context))
	suprasig.MarshalAddresses(s, e.Raw.SecondarySigners)

	s.Bool(e.MultiKey != nil)
	if e.MultiKey != nil {
		s.Bytes(e.MultiKey.Bytes())
	}
	s.Bool(len(e.PublicKey) != 0)
	if len(e.PublicKey) != 0 {
		s.Bytes(e.PublicKey)
	}
	s.Sequence(len(e.Signatures), func(i int) {
		s.U8(e.Signatures[i].Index)
		s.Bytes(e.Signatures[i].Signature)
	})
}

func (e *Envelope) UnmarshalBCS(d *bcs.Deserializer) error {
	version, err := d.U8()
	if err != nil {
		return errors.Wrap(err, "envelope version")
	}
	if version != envelopeVersion {
		return errors.Wrapf(errors.ErrMalformedEncoding, "envelope version %d", version)
	}
	raw := &RawTransaction{}
	if err := d.Struct(raw); err != nil {
		return err
	}
	ctx, err := d.U8()
	if err != nil {
		return errors.Wrap(err, "signing context")
	}
	raw.Context = SigningContext(ctx)
	if raw.Context != Single && raw.Context != MultiAgent {
		return errors.Wrapf(errors.ErrMalformedEncoding, "signing context %d", ctx)
	}
	if raw.SecondarySigners, err = suprasig.UnmarshalAddresses(d); err != nil {
		return errors.Wrap(err, "secondary signers")
	}

	var mpk *crypto.MultiPublicKey
	hasMulti, err := d.Bool()
	if err != nil {
		return errors.Wrap(err, "multi key flag")
	}
	if hasMulti {
		b, err := d.Bytes()
		if err != nil {
			return errors.Wrap(err, "multi key")
		}
		if mpk, err = crypto.ParseMultiPublicKey(b); err != nil {
			return err
		}
	}

	var pub crypto.PublicKey
	hasPub, err := d.Bool()
	if err != nil {
		return errors.Wrap(err, "public key flag")
	}
	if hasPub {
		if pub, err = d.Bytes(); err != nil {
			return errors.Wrap(err, "public key")
		}
	}

	var (
		sigs []crypto.IndexedSignature
		seen = make(map[uint8]bool)
	)
	err = d.Sequence(func(i int) error {
		index, err := d.U8()
		if err != nil {
			return errors.Wrapf(err, "signature %d index", i)
		}
		if index >= crypto.MaxKeys {
			return errors.Wrapf(errors.ErrMalformedEncoding, "signature %d index %d", i, index)
		}
		if seen[index] {
			return errors.Wrapf(errors.ErrDuplicate, "signature %d repeats key index %d", i, index)
		}
		seen[index] = true
		sig, err := d.Bytes()
		if err != nil {
			return errors.Wrapf(err, "signature %d", i)
		}
		sigs = append(sigs, crypto.IndexedSignature{Index: index, Signature: sig})
		return nil
	})
	if err != nil {
		return err
	}

	*e = Envelope{Raw: raw, MultiKey: mpk, PublicKey: pub, Signatures: sigs}
	return nil
}
