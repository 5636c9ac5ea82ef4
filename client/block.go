package client

import (
	"context"
	"strconv"

	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/errors"
)

// BlockHeader describes a finalized block.
type BlockHeader struct {
	Height suprasig.U64 `json:"height"`
	Hash   string       `json:"hash"`
	View   struct {
		Round suprasig.U64 `json:"round"`
	} `json:"view"`
}

// BlockTx is a transaction included in a block.
type BlockTx struct {
	Hash string `json:"hash"`
}

// Block is a finalized block. Transactions are only set when they were
// requested.
type Block struct {
	Header       BlockHeader `json:"header"`
	Transactions []BlockTx   `json:"transactions"`
}

// Block returns the block at given height.
func (c *Client) Block(ctx context.Context, height uint64, withTxs bool) (*Block, error) {
	path := "/rpc/v1/block/height/" + strconv.FormatUint(height, 10) +
		"?with_finalized_transactions=" + strconv.FormatBool(withTxs)
	var b Block
	if err := c.get(ctx, path, &b); err != nil {
		return nil, errors.Wrapf(err, "block %d", height)
	}
	return &b, nil
}
