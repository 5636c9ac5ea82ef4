package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/crypto"
	"github.com/iov-one/suprasig/tx"
)

type envelopeView struct {
	Stage       string                `json:"stage"`
	Transaction *tx.RawTransaction    `json:"transaction"`
	Hash        string                `json:"signing_message_hash"`
	MultiKey    *multiKeyView         `json:"multi_key,omitempty"`
	PublicKey   string                `json:"public_key,omitempty"`
	Signers     []uint8               `json:"signers"`
	Signed      *tx.SignedTransaction `json:"signed,omitempty"`
}

type multiKeyView struct {
	Address   suprasig.Address `json:"address"`
	Keys      []string         `json:"keys"`
	Threshold uint8            `json:"threshold"`
}

func cmdView(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Decode and display transaction summary. This command is helpful when receiving
a binary representation of a transaction. Before signing you should check what
kind of operation you are authorizing.
`)
		fl.PrintDefaults()
	}
	fl.Parse(args)

	envelope, _, err := readEnvelope(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction: %s", err)
	}
	msg, err := envelope.Raw.SigningMessage()
	if err != nil {
		return fmt.Errorf("cannot create signing message: %s", err)
	}

	v := envelopeView{
		Stage:       envelope.Stage().String(),
		Transaction: envelope.Raw,
		Hash:        suprasig.EncodeHex(crypto.Sha3(msg)),
		Signers:     envelope.SignerIndexes(),
	}
	if len(envelope.PublicKey) != 0 {
		v.PublicKey = envelope.PublicKey.String()
	}
	if mpk := envelope.MultiKey; mpk != nil {
		v.MultiKey = &multiKeyView{Address: mpk.Address(), Threshold: mpk.Threshold}
		for _, k := range mpk.Keys {
			v.MultiKey.Keys = append(v.MultiKey.Keys, k.String())
		}
	}
	if envelope.Stage() == tx.Authenticated {
		if v.Signed, err = envelope.Authenticate(); err != nil {
			return fmt.Errorf("cannot authenticate transaction: %s", err)
		}
	}

	pretty, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = fmt.Fprintln(output, string(pretty))
	return err
}
