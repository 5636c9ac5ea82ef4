/*
Package cash moves the native coin between accounts.

Transfers are calls of the supra_account framework module. Sending to an
account that does not exist yet creates it, which costs more gas, so
Controller.Transfer looks the recipient up and returns the gas limit
matching the call.
*/
package cash
