/*
Package assert provides the few assertions that are repeated in the tests of
encoding and signing code. Prefer testify for everything else.
*/
package assert

import (
	"encoding/hex"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/iov-one/suprasig/errors"
)

// Tester is the part of testing.TB the value assertions need.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails the test if given value is not nil.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		// %+v prints the stack trace of an error.
		t.Fatalf("want nil, got %+v", value)
	}
}

// isNil also treats a nil pointer or slice stored in the interface as nil.
func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// Equal fails the test if two values are not equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Hex fails the test if given bytes are not represented by the hex string.
// The 0x prefix and spaces in want are ignored, so that long vectors can be
// grouped for readability.
func Hex(t Tester, want string, got []byte) {
	t.Helper()
	want = strings.ReplaceAll(strings.TrimPrefix(want, "0x"), " ", "")
	if g := hex.EncodeToString(got); g != strings.ToLower(want) {
		t.Fatalf("bytes not equal \nwant %s\n got %s", want, g)
	}
}

// Panics fails the test if fn returns without panicking, for example when a
// Must helper is given an invalid value.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	fn()
}

// FieldError fails the test unless the validation error holds exactly one
// error for the named field and that error is of the wanted kind. A nil want
// checks that the field is valid.
//
//	_, err := cash.Transfer(suprasig.Address{}, 10)
//	assert.FieldError(t, err, "To", errors.ErrEmpty)
func FieldError(t testing.TB, err error, fieldName string, want *errors.Error) {
	t.Helper()

	errs := errors.FieldErrors(err, fieldName)
	switch {
	case want == nil && len(errs) == 0:
		return
	case want == nil:
		t.Fatalf("field %s: want no error, got %s", fieldName, listErrors(errs))
	case len(errs) == 0:
		t.Fatalf("field %s: want %q error, got none in %+v", fieldName, want, err)
	case len(errs) > 1:
		t.Fatalf("field %s: want a single %q error, got %s", fieldName, want, listErrors(errs))
	case !want.Is(errs[0]):
		t.Fatalf("field %s: want %q error, got %q", fieldName, want, errs[0])
	}
}

func listErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = strconv.Quote(e.Error())
	}
	return strconv.Itoa(len(errs)) + " errors: " + strings.Join(msgs, ", ")
}

// IsErr fails the test unless got is of the kind of want, which is usually
// one of the registered errors, for example errors.ErrInsufficientSignatures.
// The full got error with its stack trace is printed on failure.
func IsErr(t testing.TB, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if kind, ok := want.(interface{ Is(error) bool }); ok && kind.Is(got) {
		return
	}
	t.Fatalf("want %q error, got %+v", want, got)
}
