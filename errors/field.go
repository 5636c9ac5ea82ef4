package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field attaches the name of an invalid field to err, so that validation of
// a transaction can report all of its invalid fields at once. It returns nil
// if err is nil. A stack trace is recorded unless err already carries one.
//
// Name fields the way the Go structure does, with a dot separating nested
// fields and the element position for sequences. For example Sender,
// Payload.Function, Args.1 or Signatures.2.Index.
func Field(name string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{parent: err, field: name, desc: description}
}

// AppendField adds the field error, if any, to the errors collected so far.
func AppendField(errorsOrNil error, name string, fieldErrOrNil error) error {
	return Append(errorsOrNil, Field(name, fieldErrOrNil, ""))
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (err *fieldError) Error() string {
	if err.desc == "" {
		return err.field + ": " + err.parent.Error()
	}
	return err.field + ": " + err.desc + ": " + err.parent.Error()
}

func (err *fieldError) Cause() error {
	return err.parent
}

func (err *fieldError) Field() string {
	return err.field
}

// FieldErrors returns the errors created for the named field. All errors
// collected with Append are searched, including the errors nested in other
// field errors. A matching field error is returned as a whole.
func FieldErrors(err error, name string) []error {
	if isNilErr(err) {
		return nil
	}
	if f, ok := err.(fielder); ok && f.Field() == name {
		return []error{err}
	}
	switch e := err.(type) {
	case unpacker:
		var found []error
		for _, child := range e.Unpack() {
			found = append(found, FieldErrors(child, name)...)
		}
		return found
	case causer:
		return FieldErrors(e.Cause(), name)
	}
	return nil
}

type fielder interface {
	Field() string
}
