/*
Package clienttest provides an in memory ledger node serving the RPC
interface over HTTP, for testing code that talks to a node.
*/
package clienttest

import (
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/bcs"
	"github.com/iov-one/suprasig/crypto"
	"github.com/iov-one/suprasig/tx"
)

// Node is a fake ledger node. It keeps accounts with their sequence numbers
// and balances, verifies submitted transactions and records them.
//
// Submitted transactions are not executed, their status is Success when the
// signatures and the sequence number are valid. Use SetTx to describe the
// outcome of a transaction in more detail.
type Node struct {
	ChainID uint8

	mu        sync.Mutex
	accounts  map[suprasig.Address]*account
	txs       map[string]*txRecord
	views     map[string]json.RawMessage
	submitted []*tx.SignedTransaction
	requests  []string
	// blocks holds the transaction hashes of each block, block at height h
	// is at h-1. Every executed transaction gets its own block.
	blocks [][]string
	// pending counts how many status checks of a transaction report it as
	// unknown before it is found.
	pending map[string]int

	srv *httptest.Server
}

type account struct {
	seq     uint64
	balance uint64
}

type txRecord struct {
	status   string
	vmStatus string
	events   []tx.Event
}

// NewNode starts a node that is stopped when the test ends.
func NewNode(t testing.TB, chainID uint8) *Node {
	t.Helper()
	n := &Node{
		ChainID:  chainID,
		accounts: make(map[suprasig.Address]*account),
		txs:      make(map[string]*txRecord),
		views:    make(map[string]json.RawMessage),
		pending:  make(map[string]int),
	}
	n.srv = httptest.NewServer(n)
	t.Cleanup(n.srv.Close)
	return n
}

// URL returns the base URL of the node.
func (n *Node) URL() string {
	return n.srv.URL
}

// SetAccount creates or updates an account.
func (n *Node) SetAccount(addr suprasig.Address, seq, balance uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.accounts[addr] = &account{seq: seq, balance: balance}
}

// SequenceNumber returns the current sequence number of an account.
func (n *Node) SequenceNumber(addr suprasig.Address) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	if acc, ok := n.accounts[addr]; ok {
		return acc.seq
	}
	return 0
}

// SetView sets the values returned by a view function called with given
// arguments.
func (n *Node) SetView(function string, args []string, result string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.views[viewKey(function, args)] = json.RawMessage(result)
}

func viewKey(function string, args []string) string {
	return strings.Join(append([]string{function}, args...), " ")
}

// SetTx sets the status of a transaction.
func (n *Node) SetTx(hash, status, vmStatus string, events ...tx.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.txs[hash] = &txRecord{status: status, vmStatus: vmStatus, events: events}
}

// DelayTx makes the transaction unknown for the next checks status checks.
func (n *Node) DelayTx(hash string, checks int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending[hash] = checks
}

// Submitted returns all accepted transactions.
func (n *Node) Submitted() []*tx.SignedTransaction {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*tx.SignedTransaction(nil), n.submitted...)
}

// Requests returns the method and path of all served requests.
func (n *Node) Requests() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.requests...)
}

// TxHash returns the hash the node assigns to a transaction.
func TxHash(t *tx.SignedTransaction) string {
	raw, err := bcs.Marshal(t)
	if err != nil {
		return ""
	}
	return suprasig.EncodeHex(crypto.Sha3(raw))
}

func (n *Node) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.requests = append(n.requests, r.Method+" "+r.URL.Path)

	path := strings.TrimPrefix(r.URL.Path, "/rpc/v1/")
	chunks := strings.Split(path, "/")
	switch {
	case r.Method == "GET" && path == "transactions/chain_id":
		writeJSON(w, n.ChainID)
	case r.Method == "POST" && path == "transactions/simulate":
		n.simulate(w, r)
	case r.Method == "POST" && path == "transactions/submit":
		n.submit(w, r)
	case r.Method == "GET" && len(chunks) == 2 && chunks[0] == "transactions":
		n.txStatus(w, chunks[1])
	case r.Method == "GET" && len(chunks) == 2 && chunks[0] == "accounts":
		n.account(w, chunks[1])
	case r.Method == "GET" && len(chunks) == 4 && chunks[0] == "accounts" && chunks[2] == "resources":
		n.resource(w, chunks[1], chunks[3])
	case r.Method == "GET" && len(chunks) == 3 && chunks[0] == "wallet" && chunks[1] == "faucet":
		n.faucet(w, chunks[2])
	case r.Method == "POST" && path == "view":
		n.view(w, r)
	case r.Method == "GET" && len(chunks) == 3 && chunks[0] == "block" && chunks[1] == "height":
		n.block(w, chunks[2], r.URL.Query().Get("with_finalized_transactions") == "true")
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func readSigned(r *http.Request) (*tx.SignedTransaction, error) {
	b, err := ioutil.ReadAll(io.LimitReader(r.Body, 1e6))
	if err != nil {
		return nil, err
	}
	var t tx.SignedTransaction
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// check returns the status the virtual machine would report.
func (n *Node) check(t *tx.SignedTransaction) string {
	if t.Raw.ChainID != n.ChainID {
		return "BAD_CHAIN_ID"
	}
	if !t.Verify() {
		return "INVALID_SIGNATURE"
	}
	var seq uint64
	if acc, ok := n.accounts[t.Raw.Sender]; ok {
		seq = acc.seq
	}
	switch {
	case t.Raw.SequenceNumber < seq:
		return "SEQUENCE_NUMBER_TOO_OLD"
	case t.Raw.SequenceNumber > seq:
		return "SEQUENCE_NUMBER_TOO_NEW"
	}
	return "Executed successfully"
}

func (n *Node) simulate(w http.ResponseWriter, r *http.Request) {
	t, err := readSigned(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]interface{}{
		"output": map[string]interface{}{
			"Move": map[string]interface{}{"vm_status": n.check(t)},
		},
	})
}

func (n *Node) submit(w http.ResponseWriter, r *http.Request) {
	t, err := readSigned(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if status := n.check(t); status != "Executed successfully" {
		http.Error(w, status, http.StatusBadRequest)
		return
	}
	acc, ok := n.accounts[t.Raw.Sender]
	if !ok {
		acc = &account{}
		n.accounts[t.Raw.Sender] = acc
	}
	acc.seq++
	n.submitted = append(n.submitted, t)

	hash := TxHash(t)
	if _, ok := n.txs[hash]; !ok {
		n.txs[hash] = &txRecord{status: "Success", vmStatus: "Executed successfully"}
	}
	n.blocks = append(n.blocks, []string{hash})
	writeJSON(w, hash)
}

func (n *Node) txStatus(w http.ResponseWriter, hash string) {
	if n.pending[hash] > 0 {
		n.pending[hash]--
		writeJSON(w, nil)
		return
	}
	rec, ok := n.txs[hash]
	if !ok {
		writeJSON(w, nil)
		return
	}
	events := rec.events
	if events == nil {
		events = []tx.Event{}
	}
	writeJSON(w, map[string]interface{}{
		"hash":   hash,
		"status": rec.status,
		"output": map[string]interface{}{
			"Move": map[string]interface{}{
				"vm_status": rec.vmStatus,
				"events":    events,
			},
		},
	})
}

func (n *Node) lookup(w http.ResponseWriter, rawAddr string) (*account, bool) {
	addr, err := suprasig.ParseAddressRelaxed(rawAddr)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	acc, ok := n.accounts[addr]
	if !ok {
		writeJSON(w, nil)
		return nil, false
	}
	return acc, true
}

func (n *Node) account(w http.ResponseWriter, rawAddr string) {
	acc, ok := n.lookup(w, rawAddr)
	if !ok {
		return
	}
	writeJSON(w, map[string]interface{}{
		"sequence_number": acc.seq,
	})
}

const coinStore = "0x1::coin::CoinStore<0x1::supra_coin::SupraCoin>"

func (n *Node) resource(w http.ResponseWriter, rawAddr, rawType string) {
	acc, ok := n.lookup(w, rawAddr)
	if !ok {
		return
	}
	resourceType, err := url.PathUnescape(rawType)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if resourceType != coinStore {
		writeJSON(w, map[string]interface{}{"result": []interface{}{nil}})
		return
	}
	writeJSON(w, map[string]interface{}{
		"result": []interface{}{
			map[string]interface{}{
				"coin":   map[string]interface{}{"value": suprasig.U64(acc.balance)},
				"frozen": false,
			},
		},
	})
}

// FaucetAmount is the amount the faucet sends.
const FaucetAmount = 500000000

func (n *Node) faucet(w http.ResponseWriter, rawAddr string) {
	addr, err := suprasig.ParseAddressRelaxed(rawAddr)
	if err != nil {
		writeJSON(w, map[string]string{"Error": err.Error()})
		return
	}
	acc, ok := n.accounts[addr]
	if !ok {
		acc = &account{}
		n.accounts[addr] = acc
	}
	acc.balance += FaucetAmount
	hash := suprasig.EncodeHex(crypto.Sha3([]byte("faucet"), addr[:], []byte{byte(acc.balance / FaucetAmount)}))
	n.txs[hash] = &txRecord{status: "Success", vmStatus: "Executed successfully"}
	n.blocks = append(n.blocks, []string{hash})
	writeJSON(w, map[string]string{"Accepted": hash})
}

// Height returns the height of the latest block.
func (n *Node) Height() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return uint64(len(n.blocks))
}

// BlockHash returns the hash the node assigns to the block at given height.
func BlockHash(height uint64) string {
	return suprasig.EncodeHex(crypto.Sha3([]byte("block"), []byte(strconv.FormatUint(height, 10))))
}

func (n *Node) block(w http.ResponseWriter, rawHeight string, withTxs bool) {
	height, err := strconv.ParseUint(rawHeight, 10, 64)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if height == 0 || height > uint64(len(n.blocks)) {
		writeJSON(w, nil)
		return
	}
	block := map[string]interface{}{
		"header": map[string]interface{}{
			"height": height,
			"hash":   BlockHash(height),
			"view":   map[string]interface{}{"round": suprasig.U64(height)},
		},
	}
	if withTxs {
		var txs []map[string]string
		for _, hash := range n.blocks[height-1] {
			txs = append(txs, map[string]string{"hash": hash})
		}
		block["transactions"] = txs
	}
	writeJSON(w, block)
}

func (n *Node) view(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Function      string   `json:"function"`
		TypeArguments []string `json:"type_arguments"`
		Arguments     []string `json:"arguments"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 1e6)).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, ok := n.views[viewKey(req.Function, req.Arguments)]
	if !ok {
		http.Error(w, "unknown view function "+req.Function, http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]interface{}{"result": res})
}
