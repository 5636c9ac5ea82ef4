package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/suprasig/x/cash"
)

func cmdTransfer(input io.Reader, output io.Writer, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction transferring native coins to another account.

Unless -max-gas is given, the gas limit depends on whether the recipient
account exists, because creating an account costs more.
`)
		fl.PrintDefaults()
	}
	var (
		toFl     = flAddress(fl, "to", "", "Address of the recipient.")
		amount  cash.Amount
		buildFl = flBuild(fl, cfg)
	)
	fl.Var(&amount, "amount", `Amount of coins, either in the smallest unit ("1000") or with the ticker ("1.5 SUPRA").`)
	fl.Parse(args)

	ctx := context.Background()
	ef, err := cash.Transfer(*toFl, uint64(amount))
	if err != nil {
		return fmt.Errorf("invalid transfer: %s", err)
	}
	maxGas := *buildFl.maxGas
	if maxGas == 0 {
		c, err := buildFl.node.client()
		if err != nil {
			return err
		}
		if _, maxGas, err = cash.NewController(c).Transfer(ctx, *toFl, uint64(amount)); err != nil {
			return fmt.Errorf("cannot check the recipient: %s", err)
		}
	}

	envelope, err := buildFl.build(ctx, ef, maxGas)
	if err != nil {
		return err
	}
	_, err = writeEnvelope(output, envelope)
	return err
}

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the native coin balance of an account. An account that does not
exist has no coins.
`)
		fl.PrintDefaults()
	}
	var (
		addrFl  = flAddress(fl, "addr", "", "Address of the account.")
		humanFl = fl.Bool("human", false, "Print the balance with the ticker instead of the smallest unit.")
		nodeFl  = flNode(fl, cfg)
	)
	fl.Parse(args)

	c, err := nodeFl.client()
	if err != nil {
		return err
	}
	balance, err := cash.NewController(c).Balance(context.Background(), *addrFl)
	if err != nil {
		return fmt.Errorf("cannot get balance: %s", err)
	}
	if *humanFl {
		_, err = fmt.Fprintln(output, cash.Amount(balance))
	} else {
		_, err = fmt.Fprintln(output, balance)
	}
	return err
}
