/*

Package suprasig defines the core types shared by all packages that build,
sign and submit transactions: account addresses, UNIX time and hex helpers.

Look into the bcs package for the canonical encoding, the tx package for the
transaction model and the crypto package for keys, multi signatures and
authentication key derivation.

*/

package suprasig
