package suprasigtest

import (
	"bytes"

	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/crypto"
)

// NewKey returns a random private key.
func NewKey() *crypto.PrivateKey {
	key, err := crypto.GenerateKey()
	if err != nil {
		panic(err)
	}
	return key
}

// SeedKey returns a private key created from a seed filled with given byte.
// The same byte always produces the same key.
func SeedKey(b byte) *crypto.PrivateKey {
	key, err := crypto.PrivateKeyFromSeed(bytes.Repeat([]byte{b}, crypto.SeedLength))
	if err != nil {
		panic(err)
	}
	return key
}

// SeedKeys returns n deterministic keys, created from seeds filled with
// 1, 2 and so on.
func SeedKeys(n int) []*crypto.PrivateKey {
	keys := make([]*crypto.PrivateKey, n)
	for i := range keys {
		keys[i] = SeedKey(byte(i + 1))
	}
	return keys
}

// MultiKey returns a multi public key of given keys.
func MultiKey(threshold uint8, keys ...*crypto.PrivateKey) *crypto.MultiPublicKey {
	pubs := make([]crypto.PublicKey, len(keys))
	for i, k := range keys {
		pubs[i] = k.PublicKey()
	}
	mpk, err := crypto.NewMultiPublicKey(pubs, threshold)
	if err != nil {
		panic(err)
	}
	return mpk
}

// NewAddress returns an address that is different for every byte.
func NewAddress(b byte) suprasig.Address {
	var a suprasig.Address
	for i := range a {
		a[i] = b
	}
	return a
}
