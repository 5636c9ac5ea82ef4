/*
Package bcs implements the canonical binary encoding used by the ledger for
transactions, payloads and authenticators.

The encoding is deterministic and not self describing. Fixed width integers
are written little endian, lengths and variant tags are written as unsigned
LEB128, strings and byte arrays are prefixed with their length and structures
are the concatenation of their fields in declaration order. Both sides must
agree on the schema, so a decoder that reads more or fewer bytes than were
written is broken, and Unmarshal refuses input with trailing bytes.

Types that know how to encode themselves implement Marshaler and
Unmarshaler. Values that are encoded by the caller, such as entry function
arguments, use an Encoder.
*/
package bcs
