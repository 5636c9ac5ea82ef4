package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/suprasig"
)

// commands is a register of all available commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// When a cmd function is called it is given stdin, stdout and command line
// arguments except the program name and this command name. It is the
// responsibility of the command function to parse the arguments. Use
// os.Stderr to write error messages.
//
// Transactions travel between commands as a binary encoded envelope: the raw
// transaction together with all signatures collected so far. A unix pipe
// can be used to construct a pipeline. For example a transfer from a 2 of 3
// account is built, signed by two owners and submitted:
//
//   $ supracli transfer -from 0x5f.. -to 0x8a.. -amount 1000 \
//       | supracli with-multisig-key -threshold 2 0xa1.. 0xb2.. 0xc3.. \
//       | supracli multisign -key owner1.key \
//       | supracli multisign -key owner2.key \
//       | supracli submit -wait
//
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"as-multisig":       cmdAsMultisig,
	"balance":           cmdBalance,
	"block":             cmdBlock,
	"create-multisig":   cmdCreateMultisig,
	"execute-rejected":  cmdExecuteRejected,
	"faucet":            cmdFaucet,
	"keyaddr":           cmdKeyaddr,
	"keygen":            cmdKeygen,
	"multisig-addr":     cmdMultisigAddr,
	"multisig-key":      cmdMultisigKey,
	"multisig-status":   cmdMultisigStatus,
	"multisign":         cmdMultisign,
	"proposal-hash":     cmdProposalHash,
	"propose":           cmdPropose,
	"sign":              cmdSign,
	"simulate":          cmdSimulate,
	"submit":            cmdSubmit,
	"transfer":          cmdTransfer,
	"version":           cmdVersion,
	"view":              cmdView,
	"vote":              cmdVote,
	"with-multisig-key": cmdWithMultisigKey,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s is a command line client for building and signing Supra transactions.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	// Skip two first arguments. Second argument is the command name that
	// we just consumed.
	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	_, err := fmt.Fprintln(out, suprasig.Version())
	return err
}
