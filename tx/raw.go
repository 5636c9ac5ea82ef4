package tx

import (
	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/bcs"
	"github.com/iov-one/suprasig/crypto"
	"github.com/iov-one/suprasig/errors"
)

// SigningContext selects the domain separator of a signing message. It is
// not part of the encoded transaction.
type SigningContext uint8

const (
	// Single is the context of a transaction signed by its sender only.
	Single SigningContext = iota
	// MultiAgent is the context of a transaction that is signed by the
	// sender and a set of secondary signers.
	MultiAgent
)

// Domain separators. A signature created for one message kind is never valid
// for another.
const (
	RawTransactionSalt         = "SUPRA::RawTransaction"
	RawTransactionWithDataSalt = "SUPRA::RawTransactionWithData"
)

func (c SigningContext) String() string {
	switch c {
	case Single:
		return "single"
	case MultiAgent:
		return "multi-agent"
	default:
		return "unknown"
	}
}

// Prehash returns the hashed domain separator of given signing context.
func Prehash(c SigningContext) []byte {
	switch c {
	case MultiAgent:
		return crypto.Sha3([]byte(RawTransactionWithDataSalt))
	default:
		return crypto.Sha3([]byte(RawTransactionSalt))
	}
}

// RawTransaction is a transaction before it is authenticated. Values are
// meant to be built once per submission attempt and not modified after
// signing.
type RawTransaction struct {
	Sender                  suprasig.Address
	SequenceNumber          uint64
	Payload                 Payload
	MaxGasAmount            uint64
	GasUnitPrice            uint64
	ExpirationTimestampSecs uint64
	ChainID                 uint8

	// Context decides which domain separator and which message is signed.
	Context SigningContext
	// SecondarySigners are the additional signers of a multi agent
	// transaction.
	SecondarySigners []suprasig.Address
}

// WithSecondarySigners returns a copy of this transaction that is signed
// in the multi agent context.
func (raw *RawTransaction) WithSecondarySigners(signers ...suprasig.Address) *RawTransaction {
	cp := *raw
	cp.Context = MultiAgent
	cp.SecondarySigners = append([]suprasig.Address(nil), signers...)
	return &cp
}

// Validate returns an error if the transaction cannot be signed.
func (raw *RawTransaction) Validate() error {
	var errs error
	if raw.Payload == nil {
		errs = errors.AppendField(errs, "Payload", errors.ErrEmpty)
	}
	if raw.ChainID == 0 {
		errs = errors.AppendField(errs, "ChainID", errors.ErrChainIDUnavailable)
	}
	if raw.Context != Single && raw.Context != MultiAgent {
		errs = errors.AppendField(errs, "Context", errors.Wrapf(errors.ErrInput, "context %d", raw.Context))
	}
	return errs
}

func (raw *RawTransaction) MarshalBCS(s *bcs.Serializer) {
	s.Struct(raw.Sender)
	s.U64(raw.SequenceNumber)
	MarshalPayload(s, raw.Payload)
	s.U64(raw.MaxGasAmount)
	s.U64(raw.GasUnitPrice)
	s.U64(raw.ExpirationTimestampSecs)
	s.U8(raw.ChainID)
}

// UnmarshalBCS reads the encoded fields. The signing context is not encoded
// and is left unchanged.
func (raw *RawTransaction) UnmarshalBCS(d *bcs.Deserializer) error {
	if err := d.Struct(&raw.Sender); err != nil {
		return errors.Wrap(err, "sender")
	}
	var err error
	if raw.SequenceNumber, err = d.U64(); err != nil {
		return errors.Wrap(err, "sequence number")
	}
	if raw.Payload, err = UnmarshalPayload(d); err != nil {
		return err
	}
	if raw.MaxGasAmount, err = d.U64(); err != nil {
		return errors.Wrap(err, "max gas amount")
	}
	if raw.GasUnitPrice, err = d.U64(); err != nil {
		return errors.Wrap(err, "gas unit price")
	}
	if raw.ExpirationTimestampSecs, err = d.U64(); err != nil {
		return errors.Wrap(err, "expiration")
	}
	if raw.ChainID, err = d.U8(); err != nil {
		return errors.Wrap(err, "chain id")
	}
	return nil
}

// Prehash returns the hashed domain separator of this transaction's
// signing context.
func (raw *RawTransaction) Prehash() []byte {
	return Prehash(raw.Context)
}

// SigningMessage returns the bytes signers sign: the prehash followed by
// the canonical encoding of the signed structure. In the multi agent context
// the signed structure is the MultiAgentRawTransaction.
func (raw *RawTransaction) SigningMessage() ([]byte, error) {
	var body bcs.Marshaler = raw
	switch raw.Context {
	case Single:
	case MultiAgent:
		body = &MultiAgentRawTransaction{Raw: raw, SecondarySigners: raw.SecondarySigners}
	default:
		return nil, errors.Wrapf(errors.ErrInput, "signing context %d", raw.Context)
	}
	encoded, err := bcs.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "encode transaction")
	}
	return append(raw.Prehash(), encoded...), nil
}

// multiAgentVariant is the only variant of a raw transaction with data.
const multiAgentVariant uint32 = 0

// MultiAgentRawTransaction is the structure signed by all signers of a
// multi agent transaction.
type MultiAgentRawTransaction struct {
	Raw              *RawTransaction
	SecondarySigners []suprasig.Address
}

func (m *MultiAgentRawTransaction) MarshalBCS(s *bcs.Serializer) {
	s.Uleb128(multiAgentVariant)
	s.Struct(m.Raw)
	suprasig.MarshalAddresses(s, m.SecondarySigners)
}

func (m *MultiAgentRawTransaction) UnmarshalBCS(d *bcs.Deserializer) error {
	variant, err := d.Uleb128()
	if err != nil {
		return errors.Wrap(err, "raw transaction with data variant")
	}
	if variant != multiAgentVariant {
		return errors.Wrapf(errors.ErrMalformedEncoding, "raw transaction with data variant %d", variant)
	}
	raw := &RawTransaction{Context: MultiAgent}
	if err := d.Struct(raw); err != nil {
		return err
	}
	if m.SecondarySigners, err = suprasig.UnmarshalAddresses(d); err != nil {
		return errors.Wrap(err, "secondary signers")
	}
	raw.SecondarySigners = m.SecondarySigners
	m.Raw = raw
	return nil
}
