/*
Package errors implements custom error interfaces for suprasig.

The idea is to reuse as many errors from this package as possible and define
custom package errors only when absolutely necessary. Every error returned by
the encoding, signing and client packages wraps one of the root errors
declared here, so that a caller can test for the kind of failure without
parsing messages:

	if errors.ErrMalformedEncoding.Is(err) {
		// reject the input, never retry
	}

If you want to register a custom error - use Register(code, description).
For reusing errors - use ErrXyz.New and ErrXyz.Newf, or Wrap and Wrapf.

There is also support for stacktraces. Please ensure you create the custom
error using ErrXyz.New("...") or errors.Wrap(err, "...") at the point of
creation to ensure we attach a stacktrace. If you wrap multiple times, we only
record the first wrap with the stacktrace. (And don't do this as a global
`var ErrFoo = errors.ErrInput.New("foo")` or you will get a useless
stacktrace).
*/
package errors
