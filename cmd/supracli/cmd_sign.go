package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iov-one/suprasig/client"
	"github.com/iov-one/suprasig/crypto"
	"github.com/iov-one/suprasig/tx"
)

func cmdSign(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Sign given transaction with a single key. This is reading a transaction from
standard input, adds a signature and writes back to standard output the signed
transaction. Use multisign for K of N accounts.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file that transaction should be signed with. You can use SUPRACLI_PRIV_KEY environment variable to set it.")
	)
	fl.Parse(args)

	key, err := decodePrivateKey(*keyPathFl)
	if err != nil {
		return err
	}
	envelope, _, err := readEnvelope(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction: %s", err)
	}
	if envelope.MultiKey != nil {
		return fmt.Errorf("transaction sender is a multi key account, use multisign")
	}
	if err := envelope.Sign(key); err != nil {
		return fmt.Errorf("cannot sign transaction: %s", err)
	}
	_, err = writeEnvelope(output, envelope)
	return err
}

func cmdMultisign(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Add signatures of multi key members to the transaction read from standard
input. When the multi key is attached (see with-multisig-key) the index of
each signing key is looked up, otherwise a single key with its index must be
provided.

Repeat -key to sign with several keys at once. Signing runs in parallel, at
most -workers keys at a time.

Signatures can be added in any order. Each key can sign only once.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathsFl = flStrings(fl, "key",
			"Path to a private key file that transaction should be signed with. Can be repeated. You can use SUPRACLI_PRIV_KEY environment variable to set a single key.")
		indexFl   = fl.Int("index", -1, "Index of the signing key within the multi key. Only with a single key.")
		workersFl = fl.Int("workers", 4, "Maximum number of keys signing at the same time.")
	)
	fl.Parse(args)

	paths := *keyPathsFl
	if len(paths) == 0 {
		paths = []string{defaultKeyPath()}
	}
	keys := make([]*crypto.PrivateKey, len(paths))
	for i, path := range paths {
		key, err := decodePrivateKey(path)
		if err != nil {
			return err
		}
		keys[i] = key
	}
	envelope, _, err := readEnvelope(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction: %s", err)
	}

	switch {
	case *indexFl >= crypto.MaxKeys:
		return fmt.Errorf("index must be lower than %d", crypto.MaxKeys)
	case *indexFl >= 0 && len(keys) != 1:
		return fmt.Errorf("index can be used only with a single key")
	case *indexFl >= 0:
		if err := envelope.SignAt(uint8(*indexFl), keys[0]); err != nil {
			return fmt.Errorf("cannot sign transaction: %s", err)
		}
	case envelope.MultiKey != nil:
		if err := signAll(envelope, keys, *workersFl); err != nil {
			return fmt.Errorf("cannot sign transaction: %s", err)
		}
	default:
		return fmt.Errorf("multi key is not attached, signing key index is required")
	}
	fmt.Fprintf(os.Stderr, "%s: %d signatures\n", envelope.Stage(), envelope.Signers())
	_, err = writeEnvelope(output, envelope)
	return err
}

// signAll signs the envelope with all keys, each at its index in the
// attached multi key.
func signAll(envelope *tx.Envelope, keys []*crypto.PrivateKey, workers int) error {
	signers := make([]client.IndexedSigner, len(keys))
	for i, key := range keys {
		index, ok := envelope.MultiKey.Index(key.PublicKey())
		if !ok {
			return fmt.Errorf("key %s is not part of the multi key", key.PublicKey())
		}
		signers[i] = client.IndexedSigner{Index: index, Signer: key}
	}
	sigs, err := client.SignAll(context.Background(), envelope.Raw, signers, workers)
	if err != nil {
		return err
	}
	for _, sig := range sigs {
		if err := envelope.AddSignature(sig); err != nil {
			return err
		}
	}
	return nil
}
