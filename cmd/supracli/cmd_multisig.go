package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/tx"
	"github.com/iov-one/suprasig/x/multisig"
)

func cmdCreateMultisig(input io.Reader, output io.Writer, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction creating a multisig account. The sender becomes an owner,
addresses given as arguments are the additional owners.

The address of the created account is derived from the sender address and the
sequence number of this transaction. It is written to standard error.
`)
		fl.PrintDefaults()
	}
	var (
		thresholdFl = fl.Uint64("threshold", 0, "Number of approvals required to execute a proposal.")
		timeoutFl   = fl.Uint64("timeout", 3600, "Number of seconds after which a proposal expires.")
		metadataFl  = fl.String("metadata", "", "Comma separated key=value pairs stored with the account.")
		buildFl     = flBuild(fl, cfg)
	)
	fl.Parse(args)

	owners := make([]suprasig.Address, 0, fl.NArg())
	for i, raw := range fl.Args() {
		addr, err := suprasig.ParseAddressRelaxed(raw)
		if err != nil {
			return fmt.Errorf("owner #%d: %s", i, err)
		}
		owners = append(owners, addr)
	}
	create := multisig.CreateAccount{
		AdditionalOwners: owners,
		Threshold:        *thresholdFl,
		Timeout:          *timeoutFl,
	}
	if *metadataFl != "" {
		for _, pair := range strings.Split(*metadataFl, ",") {
			kv := strings.SplitN(pair, "=", 2)
			if len(kv) != 2 {
				return fmt.Errorf("invalid metadata %q, key=value expected", pair)
			}
			create.MetadataKeys = append(create.MetadataKeys, kv[0])
			create.MetadataValues = append(create.MetadataValues, []byte(kv[1]))
		}
	}
	ef, err := create.EntryFunction()
	if err != nil {
		return fmt.Errorf("invalid multisig account: %s", err)
	}

	envelope, err := buildFl.build(context.Background(), ef, 0)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "multisig account: %s\n",
		multisig.AccountAddress(envelope.Raw.Sender, envelope.Raw.SequenceNumber))
	_, err = writeEnvelope(output, envelope)
	return err
}

// readEntryFunction reads an envelope and returns the entry function it
// carries.
func readEntryFunction(input io.Reader) (*tx.Envelope, *tx.EntryFunction, error) {
	envelope, _, err := readEnvelope(input)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read input transaction: %s", err)
	}
	ef, ok := envelope.Raw.Payload.(*tx.EntryFunction)
	if !ok {
		return nil, nil, fmt.Errorf("payload %T is not an entry function", envelope.Raw.Payload)
	}
	return envelope, ef, nil
}

func cmdPropose(input io.Reader, output io.Writer, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read a transaction from the input and create a transaction proposing its entry
function to the multisig account. By default the account is the sender of the
input transaction.

By default only the hash of the call is stored on chain and the call must be
provided in full again when executed (see as-multisig).

  $ supracli transfer -from <multisig> -seq 0 -chain-id 6 -to 0x8a.. -amount 10 \
      | supracli propose -from <owner> \
      | supracli sign -key owner.key \
      | supracli submit -wait
`)
		fl.PrintDefaults()
	}
	var (
		accountFl = flAddress(fl, "account", "", "Address of the multisig account. Defaults to the input transaction sender.")
		fullFl    = fl.Bool("full", false, "Store the whole call on chain instead of its hash.")
		buildFl   = flBuild(fl, cfg)
	)
	fl.Parse(args)

	in, ef, err := readEntryFunction(input)
	if err != nil {
		return err
	}
	account := *accountFl
	if account.IsZero() {
		account = in.Raw.Sender
	}

	var proposal *tx.EntryFunction
	if *fullFl {
		proposal, err = multisig.CreateTransaction(account, ef)
	} else {
		proposal, err = multisig.ProposeByHash(account, ef)
	}
	if err != nil {
		return fmt.Errorf("cannot create proposal: %s", err)
	}

	envelope, err := buildFl.build(context.Background(), proposal, 0)
	if err != nil {
		return err
	}
	_, err = writeEnvelope(output, envelope)
	return err
}

func cmdVote(input io.Reader, output io.Writer, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction approving or rejecting a proposal of a multisig account.
`)
		fl.PrintDefaults()
	}
	var (
		accountFl  = flAddress(fl, "account", "", "Address of the multisig account.")
		proposalFl = fl.Uint64("proposal", 0, "Sequence number of the proposal.")
		rejectFl   = fl.Bool("reject", false, "Reject the proposal instead of approving it.")
		buildFl    = flBuild(fl, cfg)
	)
	fl.Parse(args)

	if accountFl.IsZero() {
		return fmt.Errorf("multisig account address is required")
	}
	if *proposalFl == 0 {
		return fmt.Errorf("proposal sequence number is required")
	}
	var ef *tx.EntryFunction
	if *rejectFl {
		ef, err = multisig.Reject(*accountFl, *proposalFl)
	} else {
		ef, err = multisig.Approve(*accountFl, *proposalFl)
	}
	if err != nil {
		return fmt.Errorf("cannot create vote: %s", err)
	}

	envelope, err := buildFl.build(context.Background(), ef, 0)
	if err != nil {
		return err
	}
	_, err = writeEnvelope(output, envelope)
	return err
}

func cmdAsMultisig(input io.Reader, output io.Writer, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read a transaction from the input and create a transaction executing its entry
function on behalf of the multisig account. The oldest pending proposal of the
account must be approved and match the call.
`)
		fl.PrintDefaults()
	}
	var (
		accountFl = flAddress(fl, "account", "", "Address of the multisig account. Defaults to the input transaction sender.")
		buildFl   = flBuild(fl, cfg)
	)
	fl.Parse(args)

	in, ef, err := readEntryFunction(input)
	if err != nil {
		return err
	}
	account := *accountFl
	if account.IsZero() {
		account = in.Raw.Sender
	}

	envelope, err := buildFl.build(context.Background(), multisig.Execute(account, ef), 0)
	if err != nil {
		return err
	}
	_, err = writeEnvelope(output, envelope)
	return err
}

func cmdExecuteRejected(input io.Reader, output io.Writer, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction removing the oldest proposal of the multisig account,
after it collected enough rejections.
`)
		fl.PrintDefaults()
	}
	var (
		accountFl = flAddress(fl, "account", "", "Address of the multisig account.")
		buildFl   = flBuild(fl, cfg)
	)
	fl.Parse(args)

	ef, err := multisig.ExecuteRejected(*accountFl)
	if err != nil {
		return fmt.Errorf("cannot create transaction: %s", err)
	}
	envelope, err := buildFl.build(context.Background(), ef, 0)
	if err != nil {
		return err
	}
	_, err = writeEnvelope(output, envelope)
	return err
}

func cmdWithMultisigKey(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read a transaction from the input and attach the multi ed25519 key of its
sender. Public keys are given as arguments, in the order defining their
indexes. Signatures collected so far must match the keys.
`)
		fl.PrintDefaults()
	}
	var (
		thresholdFl = fl.Uint("threshold", 0, "Number of signatures required. Must be greater than 0.")
	)
	fl.Parse(args)

	mpk, err := parseMultiKey(*thresholdFl, fl.Args())
	if err != nil {
		return err
	}
	envelope, _, err := readEnvelope(input)
	if err != nil {
		return fmt.Errorf("cannot read input transaction: %s", err)
	}
	if err := envelope.WithMultiKey(mpk); err != nil {
		return fmt.Errorf("cannot attach multi key: %s", err)
	}
	if addr := mpk.Address(); addr != envelope.Raw.Sender {
		// The authentication key of an account can be rotated, so this
		// is not necessarily a mistake.
		fmt.Fprintf(os.Stderr, "warning: multi key address %s is not the sender %s\n", addr, envelope.Raw.Sender)
	}
	_, err = writeEnvelope(output, envelope)
	return err
}

func cmdProposalHash(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read a transaction from the input and print out the hash a proposal of its
entry function is stored under.
`)
		fl.PrintDefaults()
	}
	fl.Parse(args)

	_, ef, err := readEntryFunction(input)
	if err != nil {
		return err
	}
	hash, err := multisig.ProposalHash(ef)
	if err != nil {
		return fmt.Errorf("cannot hash proposal: %s", err)
	}
	_, err = fmt.Fprintln(output, suprasig.EncodeHex(hash))
	return err
}

func cmdMultisigStatus(input io.Reader, output io.Writer, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the owners of a multisig account and the votes on its oldest pending
proposal.
`)
		fl.PrintDefaults()
	}
	var (
		accountFl = flAddress(fl, "account", "", "Address of the multisig account.")
		nodeFl    = flNode(fl, cfg)
	)
	fl.Parse(args)

	c, err := nodeFl.client()
	if err != nil {
		return err
	}
	st, err := multisig.AccountStatus(context.Background(), c, *accountFl)
	if err != nil {
		return fmt.Errorf("cannot get account status: %s", err)
	}

	fmt.Fprintf(output, "threshold: %d of %d\n", st.Threshold, len(st.Owners))
	fmt.Fprintf(output, "last resolved: %d\n", st.LastResolved)
	fmt.Fprintf(output, "next proposal: %d\n", st.Next)
	if st.Pending == 0 {
		_, err = fmt.Fprintln(output, "pending: none")
		return err
	}
	fmt.Fprintf(output, "pending: %d executable: %t\n", st.Pending, st.Executable)
	for _, o := range st.Owners {
		vote := st.Votes[o]
		switch {
		case !vote.Voted:
			fmt.Fprintf(output, "  %s not voted\n", o)
		case vote.Approved:
			fmt.Fprintf(output, "  %s approved\n", o)
		default:
			fmt.Fprintf(output, "  %s rejected\n", o)
		}
	}
	return nil
}
