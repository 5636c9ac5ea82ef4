package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iov-one/suprasig/bcs"
	"github.com/iov-one/suprasig/crypto"
	"github.com/iov-one/suprasig/tx"
)

// writeEnvelope serializes the envelope. First bytes written contain the
// information how much space the envelope takes, so that envelopes can be
// streamed.
func writeEnvelope(w io.Writer, e *tx.Envelope) (int, error) {
	b, err := bcs.Marshal(e)
	if err != nil {
		return 0, err
	}

	var size [envelopeHeaderSize]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(b)))

	if n, err := w.Write(size[:]); err != nil {
		return n, err
	}
	if n, err := w.Write(b); err != nil {
		return n + envelopeHeaderSize, err
	}
	return envelopeHeaderSize + len(b), nil
}

func readEnvelope(r io.Reader) (*tx.Envelope, int, error) {
	// When serialized using writeEnvelope function, first bytes contain
	// information about the actual size of the envelope.
	var size [envelopeHeaderSize]byte
	if n, err := io.ReadFull(r, size[:]); err != nil {
		return nil, n, err
	}
	msgSize := binary.BigEndian.Uint32(size[:])
	if msgSize > maxEnvelopeSize {
		return nil, envelopeHeaderSize, fmt.Errorf("envelope of %d bytes is too big", msgSize)
	}
	raw := make([]byte, msgSize)
	if n, err := io.ReadFull(r, raw); err != nil {
		return nil, n + envelopeHeaderSize, err
	}

	var e tx.Envelope
	if err := bcs.Unmarshal(raw, &e); err != nil {
		return nil, int(msgSize + envelopeHeaderSize), err
	}
	return &e, int(msgSize + envelopeHeaderSize), nil
}

const (
	envelopeHeaderSize = 4
	maxEnvelopeSize    = 1 << 20
)

// defaultKeyPath is where keygen writes and other commands read the private
// key from, unless told otherwise.
func defaultKeyPath() string {
	return env("SUPRACLI_PRIV_KEY", filepath.Join(os.Getenv("HOME"), ".supra.priv.key"))
}

// decodePrivateKey reads a hex encoded ed25519 seed from a file.
func decodePrivateKey(path string) (*crypto.PrivateKey, error) {
	key, err := crypto.LoadPrivateKey(path)
	if err != nil {
		return nil, fmt.Errorf("cannot load private key: %s", err)
	}
	return key, nil
}
