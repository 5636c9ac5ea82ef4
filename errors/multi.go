package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no errors or only nil values are given, nil is returned.
//
// If only one non nil error is given, it is returned unchanged.
//
// Multi errors are flattened, so that appending a multi error to another
// produces a single, flat multi error.
func Append(errs ...error) error {
	var res multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if m, ok := e.(multiErr); ok {
			res = append(res, m...)
		} else {
			res = append(res, e)
		}
	}
	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

// multiErr is a list of errors that is an error itself.
type multiErr []error

func (errs multiErr) Error() string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	points := make([]string, len(errs))
	for i, err := range errs {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s\n", len(errs), strings.Join(points, "\n\t"))
}

// Unpack returns the list of contained errors.
func (errs multiErr) Unpack() []error {
	return errs
}

// unpacker is implemented by errors that contain a set of other errors.
type unpacker interface {
	Unpack() []error
}

var (
	_ error    = multiErr(nil)
	_ unpacker = multiErr(nil)
)
