package cash

import (
	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/bcs"
	"github.com/iov-one/suprasig/errors"
	"github.com/iov-one/suprasig/tx"
)

// Module is the framework module sending coins between accounts.
var Module = tx.CoreModule("supra_account")

// NativeCoin is the type of the native coin.
var NativeCoin = tx.StructTag{Address: suprasig.CoreAddress, Module: "supra_coin", Name: "SupraCoin"}

// Gas limits that are enough for a native coin transfer.
const (
	ExistingAccountMaxGas uint64 = 10
	NewAccountMaxGas      uint64 = 1020
)

// TransferMaxGas returns the gas limit of a transfer to an account that
// exists or not.
func TransferMaxGas(recipientExists bool) uint64 {
	if recipientExists {
		return ExistingAccountMaxGas
	}
	return NewAccountMaxGas
}

// Transfer returns a call sending amount of the native coin to given
// recipient.
func Transfer(to suprasig.Address, amount uint64) (*tx.EntryFunction, error) {
	if err := validateTransfer(to, amount); err != nil {
		return nil, err
	}
	return tx.NewEntryFunction(Module, "transfer", nil,
		tx.Argument{Value: to, Encoder: bcs.EncodeStruct},
		tx.Argument{Value: amount, Encoder: bcs.EncodeU64},
	)
}

// TransferCoins returns a call sending amount of any coin type.
func TransferCoins(coin tx.StructTag, to suprasig.Address, amount uint64) (*tx.EntryFunction, error) {
	if coin.Module == "" || coin.Name == "" {
		return nil, errors.Field("Coin", errors.ErrEmpty, "coin type")
	}
	if err := validateTransfer(to, amount); err != nil {
		return nil, err
	}
	return tx.NewEntryFunction(Module, "transfer_coins", []tx.TypeTag{coin},
		tx.Argument{Value: to, Encoder: bcs.EncodeStruct},
		tx.Argument{Value: amount, Encoder: bcs.EncodeU64},
	)
}

func validateTransfer(to suprasig.Address, amount uint64) error {
	var errs error
	if to.IsZero() {
		errs = errors.AppendField(errs, "To", errors.ErrEmpty)
	}
	if amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrInput, "non positive amount"))
	}
	return errs
}
