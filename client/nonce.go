package client

import (
	"context"
	"sync"

	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/errors"
)

// SequenceSource provides the sequence number the next transaction of an
// account must use.
type SequenceSource interface {
	SequenceNumber(ctx context.Context, addr suprasig.Address) (uint64, error)
}

// Nonce has a source/address pair, queries for the sequence number and
// caches it locally to quickly sign.
type Nonce struct {
	mutex  sync.Mutex
	src    SequenceSource
	addr   suprasig.Address
	next   uint64
	loaded bool
}

// NewNonce creates a nonce for a source / address pair.
// Call Query to force a query, Next to use cache if possible.
func NewNonce(src SequenceSource, addr suprasig.Address) *Nonce {
	return &Nonce{src: src, addr: addr}
}

// Query always asks the source for the next sequence number and resets the
// cache to it. An account that does not exist yet starts at zero.
func (n *Nonce) Query(ctx context.Context) (uint64, error) {
	seq, err := n.src.SequenceNumber(ctx, n.addr)
	switch {
	case errors.ErrNotFound.Is(err):
		seq = 0
	case err != nil:
		return 0, err
	}
	n.mutex.Lock()
	n.next = seq
	n.loaded = true
	n.mutex.Unlock()
	return seq, nil
}

// Next returns the sequence number to use and reserves it. Only the first
// call queries the source. Afterwards each call increments by one, assuming
// every returned number was used. This is designed for cases where you
// want to rapidly generate many transactions without querying the ledger
// each time.
func (n *Nonce) Next(ctx context.Context) (uint64, error) {
	n.mutex.Lock()
	loaded := n.loaded
	n.mutex.Unlock()
	if !loaded {
		if _, err := n.Query(ctx); err != nil {
			return 0, err
		}
	}

	n.mutex.Lock()
	defer n.mutex.Unlock()
	seq := n.next
	n.next++
	return seq, nil
}
