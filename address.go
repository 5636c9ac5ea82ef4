package suprasig

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/iov-one/suprasig/bcs"
	"github.com/iov-one/suprasig/errors"
)

// AddressLength is the length of all account addresses.
const AddressLength = 32

// Address identifies an account. It is either derived from an authentication
// key or from a resource account seed.
type Address [AddressLength]byte

// CoreAddress is the address of the framework modules, usually written as 0x1.
var CoreAddress = Address{AddressLength - 1: 0x01}

// ParseAddress decodes a full length hex address. The 0x prefix is optional.
func ParseAddress(s string) (Address, error) {
	var a Address
	raw := strings.TrimPrefix(s, "0x")
	if len(raw) != 2*AddressLength {
		return a, errors.Wrapf(errors.ErrInput, "address %q must have %d hex digits", s, 2*AddressLength)
	}
	if _, err := hex.Decode(a[:], []byte(raw)); err != nil {
		return a, errors.Wrapf(errors.ErrInput, "address %q: %s", s, err)
	}
	return a, nil
}

// ParseAddressRelaxed decodes a hex address that might be shorter than the
// full length, for example 0x1. Missing leading digits are zeros.
func ParseAddressRelaxed(s string) (Address, error) {
	raw := strings.TrimPrefix(s, "0x")
	if len(raw) == 0 || len(raw) > 2*AddressLength {
		return Address{}, errors.Wrapf(errors.ErrInput, "address %q: invalid length", s)
	}
	return ParseAddress(strings.Repeat("0", 2*AddressLength-len(raw)) + raw)
}

// MustParseAddress is like ParseAddressRelaxed but panics on failure. Use it
// only for constants.
func MustParseAddress(s string) Address {
	a, err := ParseAddressRelaxed(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Equals checks if two addresses are the same
func (a Address) Equals(b Address) bool {
	return a == b
}

// IsZero returns true if this is the zero address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Bytes returns a copy of the address bytes.
func (a Address) Bytes() []byte {
	return append([]byte(nil), a[:]...)
}

// String returns the 0x prefixed, full length, lowercase hex representation.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// ShortString returns the hex representation without leading zeros, the
// way framework module addresses are usually written (0x1).
func (a Address) ShortString() string {
	s := strings.TrimLeft(hex.EncodeToString(a[:]), "0")
	if s == "" {
		s = "0"
	}
	return "0x" + s
}

// Compare returns an integer comparing two addresses lexicographically.
func (a Address) Compare(b Address) int {
	return bytes.Compare(a[:], b[:])
}

// MarshalJSON provides a hex representation for JSON,
// to override the standard array of numbers encoding
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts full and short hex addresses, with or without the
// 0x prefix.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	addr, err := ParseAddressRelaxed(enc)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// MarshalBCS writes the address as 32 raw bytes.
func (a Address) MarshalBCS(s *bcs.Serializer) {
	s.FixedBytes(a[:])
}

// UnmarshalBCS reads 32 raw bytes.
func (a *Address) UnmarshalBCS(d *bcs.Deserializer) error {
	b, err := d.FixedBytes(AddressLength)
	if err != nil {
		return errors.Wrap(err, "address")
	}
	copy(a[:], b)
	return nil
}

// MarshalAddresses writes a sequence of addresses.
func MarshalAddresses(s *bcs.Serializer, addrs []Address) {
	s.Sequence(len(addrs), func(i int) { s.Struct(addrs[i]) })
}

// UnmarshalAddresses reads a sequence of addresses.
func UnmarshalAddresses(d *bcs.Deserializer) ([]Address, error) {
	var addrs []Address
	err := d.Sequence(func(int) error {
		var a Address
		if err := d.Struct(&a); err != nil {
			return err
		}
		addrs = append(addrs, a)
		return nil
	})
	return addrs, err
}

// Set implements flag.Value interface. It accepts full and short hex
// addresses.
func (a *Address) Set(raw string) error {
	addr, err := ParseAddressRelaxed(raw)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
