package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/iov-one/suprasig/errors"
	"github.com/iov-one/suprasig/tx"
	"github.com/iov-one/suprasig/x/multisig"
	"github.com/iov-one/suprasig/x/sigs"
)

// authenticate turns an envelope into a transaction the node accepts and
// checks its signatures. Too few signatures are reported as a warning, the
// node is the one rejecting such a transaction.
func authenticate(envelope *tx.Envelope) (*tx.SignedTransaction, error) {
	signed, err := envelope.Authenticate()
	if err != nil {
		return nil, fmt.Errorf("cannot authenticate transaction: %s", err)
	}
	report, err := sigs.VerifyTxSignatures(signed)
	if err != nil {
		return nil, fmt.Errorf("invalid signature: %s", err)
	}
	if err := report.Enough(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %s, missing key indexes %v\n", err, report.Missing)
	}
	if report.KeyAddress != signed.Raw.Sender {
		fmt.Fprintf(os.Stderr, "warning: signing key belongs to %s, not the sender %s (rotated key?)\n", report.KeyAddress, signed.Raw.Sender)
	}
	return signed, nil
}

func cmdSimulate(input io.Reader, output io.Writer, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read a signed transaction from standard input and execute it on the node
without committing. The status reported by the virtual machine is printed.
`)
		fl.PrintDefaults()
	}
	var (
		nodeFl = flNode(fl, cfg)
	)
	fl.Parse(args)

	envelope, _, err := readEnvelope(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction: %s", err)
	}
	signed, err := authenticate(envelope)
	if err != nil {
		return err
	}
	c, err := nodeFl.client()
	if err != nil {
		return err
	}
	status, err := c.Simulate(context.Background(), signed)
	if err != nil {
		return fmt.Errorf("cannot simulate transaction: %s", err)
	}
	_, err = fmt.Fprintln(output, status)
	return err
}

func cmdSubmit(input io.Reader, output io.Writer, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read a signed transaction from standard input, aggregate collected signatures
and submit it. The transaction hash is printed.

When waiting for the result, the final status is printed as well. If the
transaction created a multisig proposal, its sequence number is printed.
`)
		fl.PrintDefaults()
	}
	var (
		nodeFl    = flNode(fl, cfg)
		waitFl    = fl.Bool("wait", false, "Wait until the transaction is executed.")
		timeoutFl = fl.Duration("timeout", 2*time.Minute, "How long to wait for the transaction.")
		skipSimFl = fl.Bool("no-simulate", false, "Do not simulate the transaction before submitting it.")
	)
	fl.Parse(args)

	envelope, _, err := readEnvelope(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction: %s", err)
	}
	signed, err := authenticate(envelope)
	if err != nil {
		return err
	}
	c, err := nodeFl.client()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFl)
	defer cancel()

	var hash string
	if *skipSimFl {
		hash, err = c.Submit(ctx, signed)
	} else {
		hash, err = c.SimulateAndSubmit(ctx, signed)
	}
	if err != nil {
		return fmt.Errorf("cannot submit transaction: %s", err)
	}
	fmt.Fprintln(output, hash)
	if !*waitFl {
		return nil
	}

	res, err := c.WaitForTx(ctx, hash)
	if err != nil {
		return fmt.Errorf("cannot get transaction result: %s", err)
	}
	fmt.Fprintln(output, res.Describe())
	if !res.Succeeded() {
		return fmt.Errorf("transaction %s: %s", hash, res.Describe())
	}
	switch seq, err := multisig.ProposalSequence(res.Events()); {
	case err == nil:
		fmt.Fprintf(output, "proposal: %d\n", seq)
	case !errors.ErrNotFound.Is(err):
		return fmt.Errorf("cannot read proposal event: %s", err)
	}
	return nil
}
