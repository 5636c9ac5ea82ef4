package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"time"
)

func cmdFaucet(input io.Reader, output io.Writer, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Request test coins from the node faucet for an account. Only test networks
run a faucet. The faucet transaction hash is printed.
`)
		fl.PrintDefaults()
	}
	var (
		addrFl    = flAddress(fl, "addr", "", "Address of the account to fund.")
		waitFl    = fl.Bool("wait", false, "Wait until the faucet transaction is executed.")
		timeoutFl = fl.Duration("timeout", 2*time.Minute, "How long to wait for the faucet transaction.")
		nodeFl    = flNode(fl, cfg)
	)
	fl.Parse(args)

	c, err := nodeFl.client()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFl)
	defer cancel()

	hash, err := c.Faucet(ctx, *addrFl)
	if err != nil {
		return fmt.Errorf("cannot request coins: %s", err)
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
	return nil
}

func cmdBlock(input io.Reader, output io.Writer, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the finalized block at given height in JSON format.
`)
		fl.PrintDefaults()
	}
	var (
		heightFl = fl.Uint64("height", 0, "Height of the block.")
		txsFl    = fl.Bool("txs", false, "Include hashes of the block transactions.")
		nodeFl   = flNode(fl, cfg)
	)
	fl.Parse(args)

	c, err := nodeFl.client()
	if err != nil {
		return err
	}
	b, err := c.Block(context.Background(), *heightFl, *txsFl)
	if err != nil {
		return fmt.Errorf("cannot get block: %s", err)
	}
	raw, err := json.MarshalIndent(b, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot serialize block: %s", err)
	}
	_, err = fmt.Fprintln(output, string(raw))
	return err
}
