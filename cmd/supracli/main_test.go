package main

import (
	"bytes"
	"io"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/crypto"
	"github.com/iov-one/suprasig/tx"
)

type command func(io.Reader, io.Writer, []string) error

// run executes the command with given input and returns its output. The test
// fails if the command fails.
func run(t testing.TB, cmd command, input []byte, args ...string) []byte {
	t.Helper()
	var out bytes.Buffer
	if err := cmd(bytes.NewReader(input), &out, args); err != nil {
		t.Fatalf("command %v failed: %s", args, err)
	}
	return out.Bytes()
}

// isolate makes sure no configuration of the host is used.
func isolate(t testing.TB) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SUPRACLI_CONFIG", "")
}

// keyFile writes the key to a new file and returns its path.
func keyFile(t testing.TB, key *crypto.PrivateKey) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "priv.key")
	if err := ioutil.WriteFile(path, []byte(suprasig.EncodeHex(key.Seed())+"\n"), 0600); err != nil {
		t.Fatalf("cannot write key: %s", err)
	}
	return path
}

func mustReadEnvelope(t testing.TB, raw []byte) *tx.Envelope {
	t.Helper()
	e, n, err := readEnvelope(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("cannot read envelope: %s", err)
	}
	if n != len(raw) {
		t.Fatalf("read %d out of %d bytes", n, len(raw))
	}
	return e
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{
		"keygen", "keyaddr", "multisig-key", "multisig-addr", "transfer",
		"create-multisig", "propose", "vote", "as-multisig",
		"execute-rejected", "with-multisig-key", "sign", "multisign",
		"view", "simulate", "submit", "proposal-hash", "version",
		"multisig-status", "balance", "faucet", "block",
	} {
		if _, ok := commands[name]; !ok {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestVersion(t *testing.T) {
	out := run(t, cmdVersion, nil)
	if got, want := string(out), suprasig.Version()+"\n"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}
