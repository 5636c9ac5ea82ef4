package multisig

import (
	"encoding/binary"

	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/bcs"
	"github.com/iov-one/suprasig/crypto"
	"github.com/iov-one/suprasig/errors"
	"github.com/iov-one/suprasig/tx"
)

// accountSeedDomain prefixes the seed of every multisig account.
const accountSeedDomain = "supra_framework::multisig_account"

// AccountSeed returns the resource account seed of a multisig account
// created with given creator sequence number.
func AccountSeed(seq uint64) []byte {
	seed := make([]byte, len(accountSeedDomain)+8)
	copy(seed, accountSeedDomain)
	binary.LittleEndian.PutUint64(seed[len(accountSeedDomain):], seq)
	return seed
}

// AccountAddress returns the address of the multisig account created by
// owner when its sequence number was seq.
func AccountAddress(owner suprasig.Address, seq uint64) suprasig.Address {
	return crypto.ResourceAccountAddress(owner, AccountSeed(seq))
}

// ProposalHash returns the hash owners approve when a call is proposed by
// its hash only. The same call must be submitted for execution.
func ProposalHash(ef *tx.EntryFunction) ([]byte, error) {
	if ef == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "entry function")
	}
	raw, err := bcs.Marshal(&tx.MultisigTransactionPayload{EntryFunction: ef})
	if err != nil {
		return nil, errors.Wrap(err, "serialize payload")
	}
	return crypto.Sha3(raw), nil
}
