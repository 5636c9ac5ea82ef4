package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iov-one/suprasig/client"
	"github.com/iov-one/suprasig/client/clienttest"
	"github.com/iov-one/suprasig/suprasigtest"
	"github.com/iov-one/suprasig/suprasigtest/assert"
)

func TestFaucet(t *testing.T) {
	isolate(t)
	node := clienttest.NewNode(t, 6)
	addr := suprasigtest.NewAddress(0x33)

	out := strings.Split(strings.TrimSpace(string(run(t, cmdFaucet, nil,
		"-rpc", node.URL(), "-addr", addr.String(), "-wait"))), "\n")
	assert.Equal(t, 2, len(out))
	assert.Equal(t, 66, len(out[0]))
	assert.Equal(t, client.StatusSuccess, out[1])

	balance := run(t, cmdBalance, nil, "-rpc", node.URL(), "-addr", addr.String())
	assert.Equal(t, "500000000\n", string(balance))
	assert.Equal(t, "5 SUPRA\n", string(run(t, cmdBalance, nil, "-rpc", node.URL(), "-addr", addr.String(), "-human")))
}

func TestBlock(t *testing.T) {
	isolate(t)
	node := clienttest.NewNode(t, 6)

	var out bytes.Buffer
	if err := cmdBlock(nil, &out, []string{"-rpc", node.URL(), "-height", "1"}); err == nil {
		t.Fatal("block must not exist before any transaction")
	}

	hash := strings.TrimSpace(string(run(t, cmdFaucet, nil, "-rpc", node.URL(), "-addr", suprasigtest.NewAddress(1).String())))

	var b client.Block
	if err := json.Unmarshal(run(t, cmdBlock, nil, "-rpc", node.URL(), "-height", "1", "-txs"), &b); err != nil {
		t.Fatalf("cannot decode block: %s", err)
	}
	assert.Equal(t, uint64(1), uint64(b.Header.Height))
	assert.Equal(t, clienttest.BlockHash(1), b.Header.Hash)
	assert.Equal(t, []client.BlockTx{{Hash: hash}}, b.Transactions)

	b = client.Block{}
	if err := json.Unmarshal(run(t, cmdBlock, nil, "-rpc", node.URL(), "-height", "1"), &b); err != nil {
		t.Fatalf("cannot decode block: %s", err)
	}
	assert.Equal(t, 0, len(b.Transactions))
}
