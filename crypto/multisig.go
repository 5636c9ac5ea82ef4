package crypto

import (
	"encoding/binary"
	"math/bits"
	"strconv"

	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/errors"
)

const (
	// MaxKeys is the maximum number of keys in a multi public key and the
	// maximum number of signatures in a multi signature.
	MaxKeys = 32
	// BitmapLength is the length of the signers bitmap.
	BitmapLength = 4
)

// MultiPublicKey is a K of N key. The order of the keys matters, because a
// signature is attributed to a key by its index.
type MultiPublicKey struct {
	Keys      []PublicKey
	Threshold uint8
}

// NewMultiPublicKey returns a validated multi public key.
func NewMultiPublicKey(keys []PublicKey, threshold uint8) (*MultiPublicKey, error) {
	m := &MultiPublicKey{Keys: keys, Threshold: threshold}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate returns an error if this key cannot be used by the ledger.
func (m *MultiPublicKey) Validate() error {
	var errs error
	switch n := len(m.Keys); {
	case n == 0:
		errs = errors.AppendField(errs, "Keys", errors.ErrEmpty)
	case n > MaxKeys:
		errs = errors.AppendField(errs, "Keys", errors.Wrapf(errors.ErrInput, "%d keys, max %d", n, MaxKeys))
	}
	for i, k := range m.Keys {
		errs = errors.AppendField(errs, "Keys."+strconv.Itoa(i), k.Validate())
	}
	if m.Threshold == 0 || int(m.Threshold) > len(m.Keys) {
		errs = errors.AppendField(errs, "Threshold",
			errors.Wrapf(errors.ErrInput, "threshold %d of %d keys", m.Threshold, len(m.Keys)))
	}
	return errs
}

// Bytes returns all keys concatenated followed by the threshold byte. This
// is the representation hashed into the account address and submitted with
// a multi signature authenticator.
func (m *MultiPublicKey) Bytes() []byte {
	b := make([]byte, 0, len(m.Keys)*PublicKeyLength+1)
	for _, k := range m.Keys {
		b = append(b, k...)
	}
	return append(b, m.Threshold)
}

// ParseMultiPublicKey is the inverse of MultiPublicKey.Bytes.
func ParseMultiPublicKey(b []byte) (*MultiPublicKey, error) {
	if len(b) == 0 || (len(b)-1)%PublicKeyLength != 0 {
		return nil, errors.Wrapf(errors.ErrMalformedEncoding, "multi public key of %d bytes", len(b))
	}
	n := (len(b) - 1) / PublicKeyLength
	keys := make([]PublicKey, n)
	for i := range keys {
		keys[i] = append(PublicKey(nil), b[i*PublicKeyLength:(i+1)*PublicKeyLength]...)
	}
	return NewMultiPublicKey(keys, b[len(b)-1])
}

// Address returns the account address authenticated by this key.
func (m *MultiPublicKey) Address() suprasig.Address {
	return MultiEd25519Address(m)
}

// Index returns the position of given key.
func (m *MultiPublicKey) Index(pub PublicKey) (uint8, bool) {
	for i, k := range m.Keys {
		if k.Equals(pub) {
			return uint8(i), true
		}
	}
	return 0, false
}

// Verify returns true if at least threshold distinct keys signed and each
// signature is valid for the key at its index.
//
// The serialized form does not carry the indexes, only the bitmap, so the
// ledger pairs signatures with the set bits in ascending key index order.
// Signatures in any other order, or repeating a key, do not verify.
//
// The ledger performs the authoritative verification. This is meant for
// tests and diagnostics.
func (m *MultiPublicKey) Verify(message []byte, ms *MultiSignature) bool {
	if ms == nil || len(ms.Signatures) == 0 || !ms.Ordered() {
		return false
	}
	if ms.Signers() < int(m.Threshold) {
		return false
	}
	for _, s := range ms.Signatures {
		if int(s.Index) >= len(m.Keys) {
			return false
		}
		if !m.Keys[s.Index].Verify(message, s.Signature) {
			return false
		}
	}
	return true
}

// IndexedSignature is a signature created by the key at Index of a multi
// public key.
type IndexedSignature struct {
	Index     uint8
	Signature Signature
}

// MultiSignature is a set of signatures created by distinct keys of a multi
// public key.
//
// Signatures keep the order they were aggregated in. Bytes concatenates them
// in that order and does not sort them by key index.
type MultiSignature struct {
	Signatures []IndexedSignature
}

// Aggregate combines signatures collected in any order into a multi
// signature. Each key index must be in range and used at most once.
func Aggregate(sigs []IndexedSignature) (*MultiSignature, error) {
	var errs error
	if len(sigs) == 0 {
		errs = errors.AppendField(errs, "Signatures", errors.ErrEmpty)
	}
	var seen uint32
	for i, s := range sigs {
		field := "Signatures." + strconv.Itoa(i)
		if s.Index >= MaxKeys {
			errs = errors.AppendField(errs, field+".Index",
				errors.Wrapf(errors.ErrInput, "key index %d out of range", s.Index))
			continue
		}
		if seen&bit(s.Index) != 0 {
			errs = errors.AppendField(errs, field+".Index",
				errors.Wrapf(errors.ErrDuplicate, "key index %d", s.Index))
		}
		seen |= bit(s.Index)
		errs = errors.AppendField(errs, field+".Signature", s.Signature.Validate())
	}
	if errs != nil {
		return nil, errs
	}
	out := make([]IndexedSignature, len(sigs))
	copy(out, sigs)
	return &MultiSignature{Signatures: out}, nil
}

// bit returns the bitmap bit of the key at given index. Index 0 is the most
// significant bit of the first byte.
func bit(index uint8) uint32 {
	return 1 << (31 - uint32(index))
}

func (ms *MultiSignature) bitmap() uint32 {
	var v uint32
	for _, s := range ms.Signatures {
		if s.Index < MaxKeys {
			v |= bit(s.Index)
		}
	}
	return v
}

// Bitmap returns the 4 bytes, big endian signers bitmap.
func (ms *MultiSignature) Bitmap() [BitmapLength]byte {
	var b [BitmapLength]byte
	binary.BigEndian.PutUint32(b[:], ms.bitmap())
	return b
}

// Signers returns the number of distinct keys that signed. A key repeated
// in the signatures is counted once.
func (ms *MultiSignature) Signers() int {
	if ms == nil {
		return 0
	}
	return bits.OnesCount32(ms.bitmap())
}

// Ordered returns true if the signatures are in strictly ascending key index
// order, which is the order the serialized form is read back in.
func (ms *MultiSignature) Ordered() bool {
	for i := 1; i < len(ms.Signatures); i++ {
		if ms.Signatures[i].Index <= ms.Signatures[i-1].Index {
			return false
		}
	}
	return true
}

// Bytes returns all signatures in aggregation order followed by the bitmap.
func (ms *MultiSignature) Bytes() []byte {
	b := make([]byte, 0, len(ms.Signatures)*SignatureLength+BitmapLength)
	for _, s := range ms.Signatures {
		b = append(b, s.Signature...)
	}
	bitmap := ms.Bitmap()
	return append(b, bitmap[:]...)
}

// Indexes returns the key indexes in aggregation order.
func (ms *MultiSignature) Indexes() []uint8 {
	idx := make([]uint8, len(ms.Signatures))
	for i, s := range ms.Signatures {
		idx[i] = s.Index
	}
	return idx
}

// ParseMultiSignature is the inverse of MultiSignature.Bytes. The bytes do
// not carry the aggregation order, so signatures are attributed to the set
// bitmap bits in ascending key index order. This is the order the ledger
// verifier reads them in.
func ParseMultiSignature(b []byte) (*MultiSignature, error) {
	if len(b) < BitmapLength || (len(b)-BitmapLength)%SignatureLength != 0 {
		return nil, errors.Wrapf(errors.ErrMalformedEncoding, "multi signature of %d bytes", len(b))
	}
	n := (len(b) - BitmapLength) / SignatureLength
	bitmap := binary.BigEndian.Uint32(b[len(b)-BitmapLength:])

	var sigs []IndexedSignature
	for i := uint8(0); i < MaxKeys; i++ {
		if bitmap&bit(i) == 0 {
			continue
		}
		k := len(sigs)
		if k == n {
			return nil, errors.Wrap(errors.ErrMalformedEncoding, "bitmap has more bits set than signatures")
		}
		sig := append(Signature(nil), b[k*SignatureLength:(k+1)*SignatureLength]...)
		sigs = append(sigs, IndexedSignature{Index: i, Signature: sig})
	}
	if len(sigs) != n {
		return nil, errors.Wrapf(errors.ErrMalformedEncoding, "%d signatures, %d bitmap bits", n, len(sigs))
	}
	return &MultiSignature{Signatures: sigs}, nil
}
