package cash

import (
	"testing"

	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/errors"
	"github.com/iov-one/suprasig/suprasigtest"
	"github.com/iov-one/suprasig/suprasigtest/assert"
	"github.com/iov-one/suprasig/tx"
	"github.com/stretchr/testify/require"
)

func TestTransfer(t *testing.T) {
	to := suprasigtest.NewAddress(0x22)
	ef, err := Transfer(to, 20)
	require.NoError(t, err)

	assert.Equal(t, "0x1::supra_account::transfer", ef.FullName())
	assert.Equal(t, 0, len(ef.TypeArgs))
	assert.Equal(t, [][]byte{to[:], {20, 0, 0, 0, 0, 0, 0, 0}}, ef.Args)
}

func TestTransferValidation(t *testing.T) {
	cases := map[string]struct {
		to         suprasig.Address
		amount     uint64
		wantTo     *errors.Error
		wantAmount *errors.Error
	}{
		"valid": {
			to:     suprasigtest.NewAddress(1),
			amount: 1,
		},
		"zero recipient": {
			amount: 1,
			wantTo: errors.ErrEmpty,
		},
		"zero amount": {
			to:         suprasigtest.NewAddress(1),
			wantAmount: errors.ErrInput,
		},
		"nothing set": {
			wantTo:     errors.ErrEmpty,
			wantAmount: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := Transfer(tc.to, tc.amount)
			assert.FieldError(t, err, "To", tc.wantTo)
			assert.FieldError(t, err, "Amount", tc.wantAmount)
		})
	}
}

func TestTransferCoins(t *testing.T) {
	to := suprasigtest.NewAddress(0x22)
	ef, err := TransferCoins(NativeCoin, to, 3)
	require.NoError(t, err)
	assert.Equal(t, "0x1::supra_account::transfer_coins", ef.FullName())
	assert.Equal(t, []tx.TypeTag{NativeCoin}, ef.TypeArgs)

	_, err = TransferCoins(tx.StructTag{}, to, 3)
	assert.FieldError(t, err, "Coin", errors.ErrEmpty)
}

func TestTransferMaxGas(t *testing.T) {
	assert.Equal(t, uint64(10), TransferMaxGas(true))
	assert.Equal(t, uint64(1020), TransferMaxGas(false))
}

func TestCoinStoreType(t *testing.T) {
	assert.Equal(t, "0x1::coin::CoinStore<0x1::supra_coin::SupraCoin>", CoinStoreType(NativeCoin))
}
