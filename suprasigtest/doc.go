/*
Package suprasigtest provides helpers for testing code that builds and signs
transactions: deterministic keys and an in memory RPC node.
*/
package suprasigtest
