/*
Package tx builds transactions for the Supra ledger.

A transaction starts as a Payload (an entry function call, a script or a call
executed on behalf of a multisig account). The Builder wraps it in a
RawTransaction with sender, sequence number, gas settings, expiration and
chain id. Signers sign the SigningMessage, which is the domain separated
prehash followed by the canonical encoding of the transaction. Collected
signatures become an Authenticator and together with the raw transaction a
SignedTransaction that is submitted in its JSON form.

Envelope carries a transaction and the signatures collected so far between
the steps of a signing pipeline.
*/
package tx
