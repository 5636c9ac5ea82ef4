package tx

import (
	"context"
	"time"

	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/errors"
)

const (
	// DefaultMaxGasAmount is used when no max gas amount is set.
	DefaultMaxGasAmount uint64 = 500000
	// DefaultGasUnitPrice is used when no gas unit price is set.
	DefaultGasUnitPrice uint64 = 100
	// DefaultExpiration is how long a transaction stays valid when no
	// expiration time is set.
	DefaultExpiration = 300 * time.Second
)

// ChainIDSource provides the id of the chain a transaction is built for.
type ChainIDSource interface {
	ChainID(ctx context.Context) (uint8, error)
}

// Builder creates raw transactions. Zero value fields are filled with
// defaults when the transaction is built, except the chain id. A chain id is
// either set explicitly or provided by the ChainIDs source. It is never
// guessed, because a transaction built for the wrong chain could be replayed
// on another one.
type Builder struct {
	Sender         suprasig.Address
	SequenceNumber uint64
	Payload        Payload
	MaxGasAmount   uint64
	GasUnitPrice   uint64
	// Expiration is the absolute time after which the transaction is
	// rejected.
	Expiration suprasig.UnixTime
	ChainID    uint8

	// ChainIDs is consulted only when ChainID is zero.
	ChainIDs ChainIDSource
	// Now returns the current time. It defaults to time.Now.
	Now func() time.Time
}

// NewBuilder returns a builder for a transaction of given sender.
func NewBuilder(sender suprasig.Address, seq uint64, payload Payload) *Builder {
	return &Builder{
		Sender:         sender,
		SequenceNumber: seq,
		Payload:        payload,
	}
}

// WithMaxGas sets the max gas amount.
func (b *Builder) WithMaxGas(amount uint64) *Builder {
	b.MaxGasAmount = amount
	return b
}

// WithGasUnitPrice sets the gas unit price.
func (b *Builder) WithGasUnitPrice(price uint64) *Builder {
	b.GasUnitPrice = price
	return b
}

// WithExpiration sets the absolute expiration time.
func (b *Builder) WithExpiration(t suprasig.UnixTime) *Builder {
	b.Expiration = t
	return b
}

// WithChainID sets the chain id explicitly.
func (b *Builder) WithChainID(id uint8) *Builder {
	b.ChainID = id
	return b
}

// WithChainIDSource sets the source consulted when no chain id is set.
func (b *Builder) WithChainIDSource(src ChainIDSource) *Builder {
	b.ChainIDs = src
	return b
}

// Build returns a raw transaction in the single signer context.
func (b *Builder) Build(ctx context.Context) (*RawTransaction, error) {
	if b.Payload == nil {
		return nil, errors.Field("Payload", errors.ErrEmpty, "transaction payload")
	}

	chainID := b.ChainID
	if chainID == 0 {
		if b.ChainIDs == nil {
			return nil, errors.Wrap(errors.ErrChainIDUnavailable, "no chain id and no chain id source")
		}
		id, err := b.ChainIDs.ChainID(ctx)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrChainIDUnavailable, "chain id source: %s", err)
		}
		if id == 0 {
			return nil, errors.Wrap(errors.ErrChainIDUnavailable, "chain id source returned zero")
		}
		chainID = id
	}

	maxGas := b.MaxGasAmount
	if maxGas == 0 {
		maxGas = DefaultMaxGasAmount
	}
	price := b.GasUnitPrice
	if price == 0 {
		price = DefaultGasUnitPrice
	}
	expiration := b.Expiration
	if expiration.IsZero() {
		now := time.Now
		if b.Now != nil {
			now = b.Now
		}
		expiration = suprasig.AsUnixTime(now()).Add(DefaultExpiration)
	}
	if err := expiration.Validate(); err != nil {
		return nil, errors.Field("Expiration", err, "expiration time")
	}

	return &RawTransaction{
		Sender:                  b.Sender,
		SequenceNumber:          b.SequenceNumber,
		Payload:                 b.Payload,
		MaxGasAmount:            maxGas,
		GasUnitPrice:            price,
		ExpirationTimestampSecs: expiration.Seconds(),
		ChainID:                 chainID,
		Context:                 Single,
	}, nil
}
