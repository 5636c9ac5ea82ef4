package cash

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/errors"
	"github.com/iov-one/suprasig/suprasigtest"
	"github.com/iov-one/suprasig/suprasigtest/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type readerMock struct {
	mock.Mock
}

func (m *readerMock) AccountExists(ctx context.Context, addr suprasig.Address) (bool, error) {
	args := m.Called(addr)
	return args.Bool(0), args.Error(1)
}

func (m *readerMock) Resource(ctx context.Context, addr suprasig.Address, resourceType string) (json.RawMessage, error) {
	args := m.Called(addr, resourceType)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

func TestControllerBalance(t *testing.T) {
	rich := suprasigtest.NewAddress(1)
	empty := suprasigtest.NewAddress(2)
	missing := suprasigtest.NewAddress(3)
	broken := suprasigtest.NewAddress(4)
	store := "0x1::coin::CoinStore<0x1::supra_coin::SupraCoin>"

	r := &readerMock{}
	r.On("AccountExists", rich).Return(true, nil)
	r.On("AccountExists", empty).Return(true, nil)
	r.On("AccountExists", missing).Return(false, nil)
	r.On("AccountExists", broken).Return(false, errors.Wrap(errors.ErrNetwork, "connection refused"))
	r.On("Resource", rich, store).Return(json.RawMessage(`{"coin": {"value": "123456789"}, "frozen": false}`), nil)
	r.On("Resource", empty, store).Return(nil, errors.ErrNotFound)

	c := NewController(r)
	cases := map[string]struct {
		addr    suprasig.Address
		want    uint64
		wantErr *errors.Error
	}{
		"account with coins":         {addr: rich, want: 123456789},
		"account without coin store": {addr: empty, want: 0},
		"account does not exist":     {addr: missing, want: 0},
		"node unavailable":           {addr: broken, wantErr: errors.ErrNetwork},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := c.Balance(context.Background(), tc.addr)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			assert.Equal(t, tc.want, got)
		})
	}
	r.AssertNotCalled(t, "Resource", missing, store)
}

func TestControllerTransfer(t *testing.T) {
	known := suprasigtest.NewAddress(1)
	fresh := suprasigtest.NewAddress(2)

	r := &readerMock{}
	r.On("AccountExists", known).Return(true, nil)
	r.On("AccountExists", fresh).Return(false, nil)
	c := NewController(r)

	ef, gas, err := c.Transfer(context.Background(), known, 5)
	require.NoError(t, err)
	assert.Equal(t, "transfer", ef.Function)
	assert.Equal(t, ExistingAccountMaxGas, gas)

	_, gas, err = c.Transfer(context.Background(), fresh, 5)
	require.NoError(t, err)
	assert.Equal(t, NewAccountMaxGas, gas)

	_, _, err = c.Transfer(context.Background(), fresh, 0)
	assert.IsErr(t, errors.ErrInput, err)
}
