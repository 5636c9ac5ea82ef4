package client

import (
	"context"

	"github.com/iov-one/suprasig/crypto"
	"github.com/iov-one/suprasig/errors"
	"github.com/iov-one/suprasig/tx"
	"golang.org/x/sync/errgroup"
)

// IndexedSigner is a member of a multi key that can sign locally.
type IndexedSigner struct {
	Index  uint8
	Signer crypto.Signer
}

// SignAll signs the transaction with all signers, at most workers at a
// time. Signatures are returned in the order of signers. Signing stops at
// the first failure.
func SignAll(ctx context.Context, raw *tx.RawTransaction, signers []IndexedSigner, workers int) ([]crypto.IndexedSignature, error) {
	if workers < 1 {
		workers = 1
	}
	msg, err := raw.SigningMessage()
	if err != nil {
		return nil, err
	}

	sigs := make([]crypto.IndexedSignature, len(signers))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, s := range signers {
		i, s := i, s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sig, err := s.Signer.Sign(msg)
			if err != nil {
				return errors.Wrapf(err, "signer %d", s.Index)
			}
			sigs[i] = crypto.IndexedSignature{Index: s.Index, Signature: sig}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sigs, nil
}
