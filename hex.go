package suprasig

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/iov-one/suprasig/errors"
)

// HexBytes is a byte array that is represented in JSON as a 0x prefixed,
// lowercase hex string. Keys, signatures and hashes use it.
type HexBytes []byte

// MarshalJSON provides a hex representation for JSON,
// to override the standard base64 []byte encoding
func (h HexBytes) MarshalJSON() ([]byte, error) {
	return marshalHex(h, true)
}

// UnmarshalJSON accepts hex with or without the 0x prefix.
func (h *HexBytes) UnmarshalJSON(raw []byte) error {
	var b []byte
	if err := unmarshalHex(&b, raw); err != nil {
		return err
	}
	*h = b
	return nil
}

func (h HexBytes) String() string {
	return EncodeHex(h)
}

// EncodeHex returns the 0x prefixed, lowercase hex representation.
func EncodeHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// DecodeHex decodes a hex string. The 0x prefix is optional.
func DecodeHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid hex: %s", err)
	}
	return b, nil
}

func unmarshalHex(dst *[]byte, src []byte) (err error) {
	var s string
	err = json.Unmarshal(src, &s)
	if err != nil {
		return errors.Wrap(err, "parse string")
	}
	// and interpret that string as hex
	*dst, err = DecodeHex(s)
	return err
}

func marshalHex(bytes []byte, prefixed bool) ([]byte, error) {
	s := hex.EncodeToString(bytes)
	if prefixed {
		s = "0x" + s
	}
	return json.Marshal(s)
}

// PlainHexBytes is like HexBytes but is represented in JSON without the 0x
// prefix. Multi key authenticators are submitted this way.
type PlainHexBytes []byte

// MarshalJSON provides a hex representation for JSON without a prefix.
func (h PlainHexBytes) MarshalJSON() ([]byte, error) {
	return marshalHex(h, false)
}

// UnmarshalJSON accepts hex with or without the 0x prefix.
func (h *PlainHexBytes) UnmarshalJSON(raw []byte) error {
	var b []byte
	if err := unmarshalHex(&b, raw); err != nil {
		return err
	}
	*h = b
	return nil
}
