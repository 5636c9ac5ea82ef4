package tx

import (
	"github.com/iov-one/suprasig/bcs"
	"github.com/iov-one/suprasig/errors"
)

// Payload variant tags. Tag 1 was used by a payload kind that is no longer
// supported and must not be reused.
const (
	ScriptVariant        uint32 = 0
	EntryFunctionVariant uint32 = 2
	MultisigVariant      uint32 = 3
)

// Payload is what a transaction executes. It is a closed set, implemented by
// *Script, *EntryFunction and *Multisig.
//
// MarshalBCS of a payload writes the variant body only. Use MarshalPayload
// to write the tagged form.
type Payload interface {
	bcs.Marshaler

	// Variant returns the tag written in front of the payload.
	Variant() uint32
}

var (
	_ Payload = (*Script)(nil)
	_ Payload = (*EntryFunction)(nil)
	_ Payload = (*Multisig)(nil)
)

// MarshalPayload writes the variant tag followed by the payload.
func MarshalPayload(s *bcs.Serializer, p Payload) {
	if p == nil {
		s.SetError(errors.Wrap(errors.ErrEmpty, "payload"))
		return
	}
	s.Uleb128(p.Variant())
	s.Struct(p)
}

// UnmarshalPayload reads a tagged payload. Tags other than Script,
// EntryFunction and Multisig fail with ErrUnknownPayloadVariant.
func UnmarshalPayload(d *bcs.Deserializer) (Payload, error) {
	variant, err := d.Uleb128()
	if err != nil {
		return nil, errors.Wrap(err, "payload variant")
	}
	var p interface {
		Payload
		bcs.Unmarshaler
	}
	switch variant {
	case ScriptVariant:
		p = &Script{}
	case EntryFunctionVariant:
		p = &EntryFunction{}
	case MultisigVariant:
		p = &Multisig{}
	default:
		return nil, errors.Wrapf(errors.ErrUnknownPayloadVariant, "tag %d", variant)
	}
	if err := d.Struct(p); err != nil {
		return nil, err
	}
	return p, nil
}

// EncodePayload returns the canonical, tagged representation of a payload.
func EncodePayload(p Payload) ([]byte, error) {
	s := bcs.NewSerializer()
	MarshalPayload(s, p)
	if err := s.Err(); err != nil {
		return nil, err
	}
	return s.Output(), nil
}

// DecodePayload is the inverse of EncodePayload. All bytes must be consumed.
func DecodePayload(b []byte) (Payload, error) {
	d := bcs.NewDeserializer(b)
	p, err := UnmarshalPayload(d)
	if err != nil {
		return nil, err
	}
	if n := d.Remaining(); n != 0 {
		return nil, errors.Wrapf(errors.ErrMalformedEncoding, "%d trailing bytes", n)
	}
	return p, nil
}
