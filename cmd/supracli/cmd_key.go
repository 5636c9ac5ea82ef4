package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/client"
	"github.com/iov-one/suprasig/crypto"
	"github.com/iov-one/suprasig/x/multisig"
)

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new private key.

When successful a new file containing the hex encoded ed25519 seed is created
and the address of the key is printed. This command fails if the private key
file already exists.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file. You can use SUPRACLI_PRIV_KEY environment variable to set it.")
	)
	fl.Parse(args)

	key, err := crypto.GenerateKey()
	if err != nil {
		return fmt.Errorf("cannot generate ed25519 key: %s", err)
	}
	// Do not allow to overwrite already existing private key. User must
	// manually delete it first to ensure we do not delete such crucial
	// data by an accident (bad command usage).
	if err := crypto.SavePrivateKey(key, *keyPathFl, false); err != nil {
		return fmt.Errorf("cannot save private key: %s", err)
	}
	_, err = fmt.Fprintln(output, key.Address())
	return err
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the account address associated with your private key.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file. You can use SUPRACLI_PRIV_KEY environment variable to set it.")
		pubFl = fl.Bool("pub", false, "Print the public key instead of the address.")
	)
	fl.Parse(args)

	key, err := decodePrivateKey(*keyPathFl)
	if err != nil {
		return err
	}
	if *pubFl {
		_, err = fmt.Fprintln(output, key.PublicKey())
	} else {
		_, err = fmt.Fprintln(output, key.Address())
	}
	return err
}

func cmdMultisigKey(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the address of a K of N account, authenticated by a multi ed25519
key. Public keys are given as arguments, in the order defining their indexes.

  $ supracli multisig-key -threshold 2 0xa1.. 0xb2.. 0xc3..
`)
		fl.PrintDefaults()
	}
	var (
		thresholdFl = fl.Uint("threshold", 0, "Number of signatures required. Must be greater than 0.")
		bytesFl     = fl.Bool("bytes", false, "Print the hex encoded multi public key as well.")
	)
	fl.Parse(args)

	mpk, err := parseMultiKey(*thresholdFl, fl.Args())
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(output, mpk.Address()); err != nil {
		return err
	}
	if *bytesFl {
		_, err = fmt.Fprintln(output, suprasig.EncodeHex(mpk.Bytes()))
	}
	return err
}

// parseMultiKey returns a multi key of hex encoded public keys.
func parseMultiKey(threshold uint, hexKeys []string) (*crypto.MultiPublicKey, error) {
	if threshold == 0 || threshold > crypto.MaxKeys {
		return nil, fmt.Errorf("threshold must be between 1 and %d", crypto.MaxKeys)
	}
	keys := make([]crypto.PublicKey, len(hexKeys))
	for i, h := range hexKeys {
		b, err := suprasig.DecodeHex(h)
		if err != nil {
			return nil, fmt.Errorf("public key #%d: %s", i, err)
		}
		keys[i] = crypto.PublicKey(b)
	}
	mpk, err := crypto.NewMultiPublicKey(keys, uint8(threshold))
	if err != nil {
		return nil, fmt.Errorf("invalid multi key: %s", err)
	}
	return mpk, nil
}

func cmdMultisigAddr(input io.Reader, output io.Writer, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the address of the multisig account the owner creates with the
transaction using given sequence number. By default the next sequence number
of the owner is queried, which gives the address of the account the next
create-multisig transaction of the owner creates.
`)
		fl.PrintDefaults()
	}
	var (
		ownerFl = flAddress(fl, "owner", "", "Address of the account creating the multisig account.")
		seqFl   = fl.Int64("seq", -1, "Sequence number of the creating transaction.")
		nodeFl  = flNode(fl, cfg)
	)
	fl.Parse(args)

	if ownerFl.IsZero() {
		return fmt.Errorf("owner address is required")
	}
	seq := uint64(*seqFl)
	if *seqFl < 0 {
		c, err := nodeFl.client()
		if err != nil {
			return err
		}
		if seq, err = client.NewNonce(c, *ownerFl).Query(context.Background()); err != nil {
			return fmt.Errorf("cannot get the owner sequence number: %s", err)
		}
	}
	_, err = fmt.Fprintln(output, multisig.AccountAddress(*ownerFl, seq))
	return err
}
