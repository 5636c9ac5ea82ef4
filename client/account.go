package client

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/errors"
)

// Account is the on chain state of an account.
type Account struct {
	SequenceNumber    suprasig.U64 `json:"sequence_number"`
	AuthenticationKey string       `json:"authentication_key"`
}

// Account returns the account stored under given address. ErrNotFound is
// returned if it does not exist.
func (c *Client) Account(ctx context.Context, addr suprasig.Address) (*Account, error) {
	var acc Account
	if err := c.get(ctx, "/rpc/v1/accounts/"+addr.String(), &acc); err != nil {
		return nil, errors.Wrapf(err, "account %s", addr)
	}
	return &acc, nil
}

// SequenceNumber returns the sequence number the next transaction of given
// account must use.
func (c *Client) SequenceNumber(ctx context.Context, addr suprasig.Address) (uint64, error) {
	acc, err := c.Account(ctx, addr)
	if err != nil {
		return 0, err
	}
	return uint64(acc.SequenceNumber), nil
}

// AccountExists returns true if given account exists.
func (c *Client) AccountExists(ctx context.Context, addr suprasig.Address) (bool, error) {
	switch _, err := c.Account(ctx, addr); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

type resultResponse struct {
	Result []json.RawMessage `json:"result"`
}

// Resource returns the resource of given type stored under the account.
// ErrNotFound is returned if the account holds no such resource.
func (c *Client) Resource(ctx context.Context, addr suprasig.Address, resourceType string) (json.RawMessage, error) {
	var resp resultResponse
	path := "/rpc/v1/accounts/" + addr.String() + "/resources/" + url.PathEscape(resourceType)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, errors.Wrapf(err, "resource %s", resourceType)
	}
	if len(resp.Result) == 0 || string(resp.Result[0]) == "null" {
		return nil, errors.Wrapf(errors.ErrNotFound, "resource %s", resourceType)
	}
	return resp.Result[0], nil
}

type faucetResponse struct {
	Accepted string `json:"Accepted"`
}

// Faucet requests test coins for given account and returns the hash of the
// transaction that sends them. Only test networks provide a faucet.
func (c *Client) Faucet(ctx context.Context, addr suprasig.Address) (string, error) {
	var resp faucetResponse
	if err := c.get(ctx, "/rpc/v1/wallet/faucet/"+addr.String(), &resp); err != nil {
		return "", errors.Wrap(err, "faucet")
	}
	if resp.Accepted == "" {
		return "", errors.Wrap(errors.ErrState, "faucet request not accepted")
	}
	return resp.Accepted, nil
}
