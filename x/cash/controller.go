package cash

import (
	"context"
	"encoding/json"

	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/errors"
	"github.com/iov-one/suprasig/tx"
)

// Reader gives access to the account state.
type Reader interface {
	AccountExists(ctx context.Context, addr suprasig.Address) (bool, error)
	// Resource returns the resource of given type stored under the
	// account, or ErrNotFound.
	Resource(ctx context.Context, addr suprasig.Address, resourceType string) (json.RawMessage, error)
}

// CoinStoreType returns the type of the resource holding coins of given
// type.
func CoinStoreType(coin tx.StructTag) string {
	store := tx.StructTag{
		Address:  suprasig.CoreAddress,
		Module:   "coin",
		Name:     "CoinStore",
		TypeArgs: []tx.TypeTag{coin},
	}
	return store.String()
}

type coinStore struct {
	Coin struct {
		Value suprasig.U64 `json:"value"`
	} `json:"coin"`
}

// Controller reads balances and prepares transfers.
type Controller struct {
	r Reader
}

// NewController returns a controller reading the state through r.
func NewController(r Reader) *Controller {
	return &Controller{r: r}
}

// Balance returns the native coin balance of the account. An account that
// does not exist holds nothing.
func (c *Controller) Balance(ctx context.Context, addr suprasig.Address) (uint64, error) {
	return c.CoinBalance(ctx, NativeCoin, addr)
}

// CoinBalance returns the balance of given coin type.
func (c *Controller) CoinBalance(ctx context.Context, coin tx.StructTag, addr suprasig.Address) (uint64, error) {
	exists, err := c.r.AccountExists(ctx, addr)
	if err != nil {
		return 0, errors.Wrap(err, "account")
	}
	if !exists {
		return 0, nil
	}
	raw, err := c.r.Resource(ctx, addr, CoinStoreType(coin))
	switch {
	case errors.ErrNotFound.Is(err):
		return 0, nil
	case err != nil:
		return 0, errors.Wrap(err, "coin store")
	}
	var store coinStore
	if err := json.Unmarshal(raw, &store); err != nil {
		return 0, errors.Wrapf(errors.ErrInput, "coin store: %s", err)
	}
	return uint64(store.Coin.Value), nil
}

// Transfer returns the transfer call together with the gas limit it needs,
// which depends on whether the recipient exists.
func (c *Controller) Transfer(ctx context.Context, to suprasig.Address, amount uint64) (*tx.EntryFunction, uint64, error) {
	ef, err := Transfer(to, amount)
	if err != nil {
		return nil, 0, err
	}
	exists, err := c.r.AccountExists(ctx, to)
	if err != nil {
		return nil, 0, errors.Wrap(err, "recipient")
	}
	return ef, TransferMaxGas(exists), nil
}
