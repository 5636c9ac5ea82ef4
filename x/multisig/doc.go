/*
Package multisig works with on chain multisig accounts of the
multisig_account framework module.

A multisig account is created by one of its owners. Its address is derived
from the creator's address and the creator's sequence number at creation
time, so it is known before the account exists:

	addr := multisig.AccountAddress(creator, seq)

A call executed on behalf of the account is first proposed by one of the
owners, either in full or by its hash (see ProposalHash). Owners vote on the
proposal and, once enough of them approved, any owner can submit a
transaction with a Multisig payload that executes it. Rejected proposals
are removed with ExecuteRejected.

Entry function builders in this package return calls that are signed and
submitted like any other transaction. View queries read the account state
through a Viewer, usually the RPC client.
*/
package multisig
