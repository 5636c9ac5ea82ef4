/*
Package client talks to a ledger node over its HTTP RPC interface.

Client implements the collaborators the transaction builder needs, such as
the chain id and account sequence sources, and submits authenticated
transactions:

	c := client.NewClient("https://rpc-testnet.supra.com", client.WithLogger(logger))
	seq, err := c.SequenceNumber(ctx, sender)
	...
	hash, err := c.Submit(ctx, signed)
	res, err := c.WaitForTx(ctx, hash)

Nonce caches the sequence number of an account so that several
transactions can be built without asking the node each time. SignAll
collects signatures of many local keys concurrently.
*/
package client
