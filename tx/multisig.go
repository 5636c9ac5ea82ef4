package tx

import (
	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/bcs"
	"github.com/iov-one/suprasig/errors"
)

// multisigEntryFunction is the only supported inner payload variant.
const multisigEntryFunction uint32 = 0

// MultisigTransactionPayload is the call a multisig account executes once
// its owners approved it. Only entry function calls are supported.
type MultisigTransactionPayload struct {
	EntryFunction *EntryFunction
}

func (p *MultisigTransactionPayload) MarshalBCS(s *bcs.Serializer) {
	if p.EntryFunction == nil {
		s.SetError(errors.Wrap(errors.ErrEmpty, "multisig entry function"))
		return
	}
	s.Uleb128(multisigEntryFunction)
	s.Struct(p.EntryFunction)
}

// UnmarshalBCS fails with ErrUnsupportedInnerPayload for any inner variant
// other than an entry function call.
func (p *MultisigTransactionPayload) UnmarshalBCS(d *bcs.Deserializer) error {
	variant, err := d.Uleb128()
	if err != nil {
		return errors.Wrap(err, "multisig payload variant")
	}
	if variant != multisigEntryFunction {
		return errors.Wrapf(errors.ErrUnsupportedInnerPayload, "tag %d", variant)
	}
	var ef EntryFunction
	if err := d.Struct(&ef); err != nil {
		return err
	}
	p.EntryFunction = &ef
	return nil
}

// Multisig executes a call on behalf of a multisig account. Without an inner
// payload the ledger executes the call whose hash was approved on chain.
type Multisig struct {
	Address suprasig.Address
	Payload *MultisigTransactionPayload
}

// NewMultisig returns a multisig payload calling ef. ef can be nil.
func NewMultisig(addr suprasig.Address, ef *EntryFunction) *Multisig {
	m := &Multisig{Address: addr}
	if ef != nil {
		m.Payload = &MultisigTransactionPayload{EntryFunction: ef}
	}
	return m
}

// Variant implements Payload.
func (*Multisig) Variant() uint32 {
	return MultisigVariant
}

func (m *Multisig) MarshalBCS(s *bcs.Serializer) {
	s.Struct(m.Address)
	s.Bool(m.Payload != nil)
	if m.Payload != nil {
		s.Struct(m.Payload)
	}
}

func (m *Multisig) UnmarshalBCS(d *bcs.Deserializer) error {
	if err := d.Struct(&m.Address); err != nil {
		return errors.Wrap(err, "multisig address")
	}
	present, err := d.Bool()
	if err != nil {
		return errors.Wrap(err, "multisig payload flag")
	}
	m.Payload = nil
	if !present {
		return nil
	}
	var p MultisigTransactionPayload
	if err := d.Struct(&p); err != nil {
		return err
	}
	m.Payload = &p
	return nil
}
