/*
Package sigs checks the signatures of a transaction the way the ledger
would, before it is submitted.

The ledger rejects a transaction as a whole and does not say which
signature was wrong. VerifyTxSignatures reports every key that signed and
fails on the first invalid signature, naming it. For K of N senders it also
reports the signatures are written in key index order, since the ledger
attributes them to the bitmap bits in ascending order.
*/
package sigs
