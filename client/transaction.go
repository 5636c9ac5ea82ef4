package client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/iov-one/suprasig/errors"
	"github.com/iov-one/suprasig/tx"
	"github.com/jpillora/backoff"
)

// Transaction statuses reported by the node.
const (
	StatusSuccess = "Success"
	StatusFail    = "Fail"
	StatusInvalid = "Invalid"
	StatusPending = "Pending"
)

// ExecutedSuccessfully is the virtual machine status of a call that did not
// abort.
const ExecutedSuccessfully = "Executed successfully"

type moveOutput struct {
	VMStatus string     `json:"vm_status"`
	Events   []tx.Event `json:"events"`
}

type output struct {
	Move *moveOutput `json:"Move"`
}

// Simulate executes the transaction without committing it and returns the
// status the virtual machine reported.
func (c *Client) Simulate(ctx context.Context, t *tx.SignedTransaction) (string, error) {
	var resp struct {
		Output output `json:"output"`
	}
	if err := c.post(ctx, "/rpc/v1/transactions/simulate", t, &resp); err != nil {
		return "", errors.Wrap(err, "simulate")
	}
	if resp.Output.Move == nil {
		return "", errors.Wrap(errors.ErrInput, "simulation without output")
	}
	c.logger.Info("transaction simulated", "status", resp.Output.Move.VMStatus)
	return resp.Output.Move.VMStatus, nil
}

// Submitter accepts signed transactions for execution.
type Submitter interface {
	Submit(ctx context.Context, t *tx.SignedTransaction) (string, error)
}

// Submit sends the transaction to the node and returns its hash.
func (c *Client) Submit(ctx context.Context, t *tx.SignedTransaction) (string, error) {
	var hash string
	if err := c.post(ctx, "/rpc/v1/transactions/submit", t, &hash); err != nil {
		return "", errors.Wrap(err, "submit")
	}
	c.logger.Info("transaction submitted", "hash", hash)
	return hash, nil
}

// SimulateAndSubmit simulates the transaction, logs the result and submits
// it. The ledger decides whether it executes, a failed simulation does not
// stop the submission.
func (c *Client) SimulateAndSubmit(ctx context.Context, t *tx.SignedTransaction) (string, error) {
	status, err := c.Simulate(ctx, t)
	if err != nil {
		return "", err
	}
	if status != ExecutedSuccessfully {
		c.logger.Error("simulation did not succeed", "status", status)
	}
	return c.Submit(ctx, t)
}

// TxResult is the state of a submitted transaction.
type TxResult struct {
	Hash   string `json:"hash"`
	Status string `json:"status"`
	Output output `json:"output"`
}

// Done returns true if the transaction will not change its status anymore.
func (r *TxResult) Done() bool {
	switch r.Status {
	case StatusSuccess, StatusFail, StatusInvalid:
		return true
	default:
		return false
	}
}

// Succeeded returns true if the transaction was executed successfully.
func (r *TxResult) Succeeded() bool {
	return r.Status == StatusSuccess
}

// Describe returns the status, or the reason of the failure when the
// transaction failed.
func (r *TxResult) Describe() string {
	if r.Status == StatusFail && r.Output.Move != nil {
		return r.Output.Move.VMStatus
	}
	return r.Status
}

// Events returns the events emitted by the transaction.
func (r *TxResult) Events() []tx.Event {
	if r.Output.Move == nil {
		return nil
	}
	return r.Output.Move.Events
}

// TxStatus returns the state of the transaction with given hash.
// ErrNotFound is returned if the node does not know it yet.
func (c *Client) TxStatus(ctx context.Context, hash string) (*TxResult, error) {
	var res TxResult
	if err := c.get(ctx, "/rpc/v1/transactions/"+hash, &res); err != nil {
		return nil, errors.Wrapf(err, "transaction %s", hash)
	}
	if res.Hash == "" {
		res.Hash = hash
	}
	return &res, nil
}

// WaitForTx polls the transaction status until it is final or the context
// is done. Waits between checks grow exponentially.
func (c *Client) WaitForTx(ctx context.Context, hash string) (*TxResult, error) {
	b := &backoff.Backoff{
		Min:    c.pollMin,
		Max:    c.pollMax,
		Factor: 2,
	}
	for {
		res, err := c.TxStatus(ctx, hash)
		switch {
		case err == nil && res.Done():
			c.logger.Info("transaction finalized", "hash", hash, "status", res.Describe())
			return res, nil
		case err == nil:
			c.logger.Debug("transaction pending", "hash", hash, "status", res.Status)
		case errors.ErrNotFound.Is(err):
			c.logger.Debug("transaction not found yet", "hash", hash)
		default:
			return nil, err
		}

		timer := time.NewTimer(b.Duration())
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, errors.Wrapf(errors.ErrExpired, "wait for %s: %s", hash, ctx.Err())
		case <-timer.C:
		}
	}
}

type viewRequest struct {
	Function      string   `json:"function"`
	TypeArguments []string `json:"type_arguments"`
	Arguments     []string `json:"arguments"`
}

// View calls a view function of a published module. Function is the full
// <address>::<module>::<function> name. Each returned value is kept in its
// JSON form.
func (c *Client) View(ctx context.Context, function string, typeArgs, args []string) ([]json.RawMessage, error) {
	req := viewRequest{
		Function:      function,
		TypeArguments: typeArgs,
		Arguments:     args,
	}
	if req.TypeArguments == nil {
		req.TypeArguments = []string{}
	}
	if req.Arguments == nil {
		req.Arguments = []string{}
	}
	var resp resultResponse
	if err := c.post(ctx, "/rpc/v1/view", req, &resp); err != nil {
		return nil, errors.Wrapf(err, "view %s", function)
	}
	return resp.Result, nil
}
