package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/client/clienttest"
	"github.com/iov-one/suprasig/errors"
	"github.com/iov-one/suprasig/suprasigtest"
	"github.com/iov-one/suprasig/suprasigtest/assert"
	"github.com/iov-one/suprasig/tx"
	"github.com/iov-one/suprasig/x/cash"
	"github.com/iov-one/suprasig/x/multisig"
	"github.com/stretchr/testify/require"
)

var (
	_ tx.ChainIDSource = (*Client)(nil)
	_ SequenceSource   = (*Client)(nil)
	_ Submitter        = (*Client)(nil)
	_ multisig.Viewer  = (*Client)(nil)
	_ cash.Reader      = (*Client)(nil)
)

func TestChainID(t *testing.T) {
	node := clienttest.NewNode(t, 6)
	c := NewClient(node.URL() + "/")

	id, err := c.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint8(6), id)
	assert.Equal(t, []string{"GET /rpc/v1/transactions/chain_id"}, node.Requests())
}

func TestAccount(t *testing.T) {
	node := clienttest.NewNode(t, 6)
	known := suprasigtest.NewAddress(1)
	node.SetAccount(known, 42, 1000)
	c := NewClient(node.URL())
	ctx := context.Background()

	seq, err := c.SequenceNumber(ctx, known)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), seq)

	exists, err := c.AccountExists(ctx, known)
	require.NoError(t, err)
	assert.Equal(t, true, exists)

	unknown := suprasigtest.NewAddress(2)
	_, err = c.Account(ctx, unknown)
	assert.IsErr(t, errors.ErrNotFound, err)
	exists, err = c.AccountExists(ctx, unknown)
	require.NoError(t, err)
	assert.Equal(t, false, exists)
}

func TestResourceAndBalance(t *testing.T) {
	node := clienttest.NewNode(t, 6)
	rich := suprasigtest.NewAddress(1)
	node.SetAccount(rich, 0, 123456789)
	c := NewClient(node.URL())
	ctx := context.Background()

	balance, err := cash.NewController(c).Balance(ctx, rich)
	require.NoError(t, err)
	assert.Equal(t, uint64(123456789), balance)

	balance, err = cash.NewController(c).Balance(ctx, suprasigtest.NewAddress(2))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), balance)

	_, err = c.Resource(ctx, rich, "0x1::coin::CoinStore<0x1::other::Coin>")
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestSubmitAndWait(t *testing.T) {
	node := clienttest.NewNode(t, 6)
	key := suprasigtest.SeedKey(1)
	node.SetAccount(key.Address(), 3, 1000)
	c := NewClient(node.URL(), WithPollInterval(time.Millisecond, 5*time.Millisecond))
	ctx := context.Background()

	ef, err := cash.Transfer(suprasigtest.NewAddress(0x22), 10)
	require.NoError(t, err)
	seq, err := NewNonce(c, key.Address()).Next(ctx)
	require.NoError(t, err)
	raw, err := tx.NewBuilder(key.Address(), seq, ef).
		WithChainIDSource(c).
		Build(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint8(6), raw.ChainID)

	signed, err := tx.SignSingle(raw, key)
	require.NoError(t, err)

	status, err := c.Simulate(ctx, signed)
	require.NoError(t, err)
	assert.Equal(t, ExecutedSuccessfully, status)

	hash, err := c.SimulateAndSubmit(ctx, signed)
	require.NoError(t, err)
	assert.Equal(t, clienttest.TxHash(signed), hash)
	assert.Equal(t, uint64(4), node.SequenceNumber(key.Address()))

	node.DelayTx(hash, 2)
	res, err := c.WaitForTx(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, true, res.Succeeded())
	assert.Equal(t, StatusSuccess, res.Describe())

	// The same transaction cannot be executed twice.
	status, err = c.Simulate(ctx, signed)
	require.NoError(t, err)
	assert.Equal(t, "SEQUENCE_NUMBER_TOO_OLD", status)
	_, err = c.Submit(ctx, signed)
	assert.IsErr(t, errors.ErrNetwork, err)
}

func TestTxStatus(t *testing.T) {
	node := clienttest.NewNode(t, 6)
	node.SetTx("0xfail", StatusFail, "MOVE_ABORT(0x1::coin, 65542)")
	node.SetTx("0xproposal", StatusSuccess, ExecutedSuccessfully, tx.Event{
		Type: multisig.CreateTransactionEventType,
		Data: []byte(`{"sequence_number": "3"}`),
	})
	c := NewClient(node.URL())
	ctx := context.Background()

	res, err := c.TxStatus(ctx, "0xfail")
	require.NoError(t, err)
	assert.Equal(t, true, res.Done())
	assert.Equal(t, false, res.Succeeded())
	assert.Equal(t, "MOVE_ABORT(0x1::coin, 65542)", res.Describe())

	res, err = c.TxStatus(ctx, "0xproposal")
	require.NoError(t, err)
	seq, err := multisig.ProposalSequence(res.Events())
	require.NoError(t, err)
	assert.Equal(t, uint64(3), seq)

	_, err = c.TxStatus(ctx, "0xunknown")
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestWaitForTxContextDone(t *testing.T) {
	node := clienttest.NewNode(t, 6)
	c := NewClient(node.URL(), WithPollInterval(time.Millisecond, 2*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.WaitForTx(ctx, "0xnever")
	assert.IsErr(t, errors.ErrExpired, err)
}

func TestView(t *testing.T) {
	node := clienttest.NewNode(t, 6)
	account := multisig.AccountAddress(suprasigtest.NewAddress(0x11), 1)
	node.SetView("0x1::multisig_account::num_signatures_required", []string{account.String()}, `["2"]`)
	c := NewClient(node.URL())

	n, err := multisig.NumSignaturesRequired(context.Background(), c, account)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)

	_, err = multisig.NextSequence(context.Background(), c, account)
	assert.IsErr(t, errors.ErrNetwork, err)
}

func TestFaucet(t *testing.T) {
	node := clienttest.NewNode(t, 6)
	c := NewClient(node.URL())
	addr := suprasigtest.NewAddress(7)

	hash, err := c.Faucet(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, 66, len(hash))

	balance, err := cash.NewController(c).Balance(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(clienttest.FaucetAmount), balance)
}

func TestBlock(t *testing.T) {
	node := clienttest.NewNode(t, 6)
	c := NewClient(node.URL())
	ctx := context.Background()

	_, err := c.Block(ctx, 1, true)
	assert.IsErr(t, errors.ErrNotFound, err)

	hash, err := c.Faucet(ctx, suprasigtest.NewAddress(7))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), node.Height())

	b, err := c.Block(ctx, 1, true)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), uint64(b.Header.Height))
	assert.Equal(t, clienttest.BlockHash(1), b.Header.Hash)
	assert.Equal(t, []BlockTx{{Hash: hash}}, b.Transactions)

	b, err = c.Block(ctx, 1, false)
	require.NoError(t, err)
	assert.Equal(t, 0, len(b.Transactions))
}

func TestBadResponses(t *testing.T) {
	var agent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.UserAgent()
		switch r.URL.Path {
		case "/rpc/v1/transactions/chain_id":
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		case "/rpc/v1/wallet/faucet/" + suprasigtest.NewAddress(1).String():
			_, _ = io.WriteString(w, `{"Rejected": "rate limited"}`)
		case "/rpc/v1/block/height/7":
			_, _ = io.WriteString(w, `{"header": {"height": 7, "hash": "0xab", "view": {"round": "12"}}}`)
		default:
			_, _ = io.WriteString(w, `not json`)
		}
	}))
	defer srv.Close()
	c := NewClient(srv.URL)
	ctx := context.Background()

	_, err := c.ChainID(ctx)
	assert.IsErr(t, errors.ErrNetwork, err)
	assert.Equal(t, suprasig.UserAgent(), agent)

	_, err = c.Faucet(ctx, suprasigtest.NewAddress(1))
	assert.IsErr(t, errors.ErrState, err)

	_, err = c.Account(ctx, suprasigtest.NewAddress(1))
	assert.IsErr(t, errors.ErrInput, err)

	b, err := c.Block(ctx, 7, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), uint64(b.Header.View.Round))
	assert.Equal(t, uint64(7), uint64(b.Header.Height))
}

func TestNetworkURL(t *testing.T) {
	u, err := NetworkURL("testnet")
	require.NoError(t, err)
	assert.Equal(t, TestnetURL, u)
	_, err = NetworkURL("devnet")
	assert.IsErr(t, errors.ErrInput, err)
}
