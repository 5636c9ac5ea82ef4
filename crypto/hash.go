package crypto

import (
	"github.com/iov-one/suprasig"
	"golang.org/x/crypto/sha3"
)

// Authentication key schemes. The scheme byte is appended to the hashed
// material so that keys of different kinds never derive the same address.
const (
	Ed25519Scheme         byte = 0x00
	MultiEd25519Scheme    byte = 0x01
	ResourceAccountScheme byte = 0xFF
)

// HashLength is the length of a SHA3-256 digest.
const HashLength = 32

// Sha3 returns the SHA3-256 digest of all given chunks concatenated.
func Sha3(chunks ...[]byte) []byte {
	h := sha3.New256()
	for _, c := range chunks {
		_, _ = h.Write(c)
	}
	return h.Sum(nil)
}

func hashAddress(chunks ...[]byte) suprasig.Address {
	var a suprasig.Address
	copy(a[:], Sha3(chunks...))
	return a
}

// ResourceAccountAddress derives the address of an account created by owner
// using given seed. Same owner and seed always derive the same address, so
// the address is known before the account exists.
func ResourceAccountAddress(owner suprasig.Address, seed []byte) suprasig.Address {
	return hashAddress(owner[:], seed, []byte{ResourceAccountScheme})
}

// Ed25519Address returns the address authenticated by a single key.
func Ed25519Address(pub PublicKey) suprasig.Address {
	return hashAddress(pub, []byte{Ed25519Scheme})
}

// MultiEd25519Address returns the address authenticated by a K of N key.
func MultiEd25519Address(m *MultiPublicKey) suprasig.Address {
	return hashAddress(m.Bytes(), []byte{MultiEd25519Scheme})
}
