package assert

import (
	"testing"

	"github.com/iov-one/suprasig/errors"
)

func TestIsErr(t *testing.T) {
	cases := map[string]struct {
		ErrWant  error
		ErrGot   error
		WantFail bool
	}{
		"same error": {
			ErrWant:  errors.ErrEmpty,
			ErrGot:   errors.ErrEmpty,
			WantFail: false,
		},
		"compared to nil": {
			ErrWant:  nil,
			ErrGot:   errors.ErrEmpty,
			WantFail: true,
		},
		"both nil": {
			ErrWant:  nil,
			ErrGot:   nil,
			WantFail: false,
		},
		"wrapped": {
			ErrWant:  errors.ErrMalformedEncoding,
			ErrGot:   errors.Wrap(errors.ErrMalformedEncoding, "test"),
			WantFail: false,
		},
		"different root": {
			ErrWant:  errors.ErrUnknownPayloadVariant,
			ErrGot:   errors.Wrap(errors.ErrMalformedEncoding, "test"),
			WantFail: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			mock := &tmock{TB: t}
			IsErr(mock, tc.ErrWant, tc.ErrGot)
			failed := mock.failcalls > 0
			if tc.WantFail != failed {
				t.Fatalf("unexpected failed call state: %d failures", mock.failcalls)
			}
		})
	}
}

func TestFieldErrors(t *testing.T) {
	cases := map[string]struct {
		Err      error
		Name     string
		WantErr  *errors.Error
		WantFail bool
	}{
		"ensure a single error exists and is found": {
			Err:      errors.Field("Threshold", errors.ErrInput, "threshold too high"),
			Name:     "Threshold",
			WantErr:  errors.ErrInput,
			WantFail: false,
		},
		"use nil to ensure no error was found": {
			Err:      errors.Field("Threshold", errors.ErrInput, "threshold too high"),
			Name:     "Keys",
			WantErr:  nil,
			WantFail: false,
		},
		"use nil to fail when an error was found but was not expected": {
			Err:      errors.Field("Threshold", errors.ErrInput, "threshold too high"),
			Name:     "Threshold",
			WantErr:  nil,
			WantFail: true,
		},
		"more than one error for a single field is not allowed, even if it is the same error type": {
			Err: errors.Append(
				errors.Field("Keys", errors.ErrInput, "first"),
				errors.Field("Keys", errors.ErrInput, "second"),
			),
			Name:     "Keys",
			WantErr:  errors.ErrInput,
			WantFail: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			mock := &tmock{TB: t}
			FieldError(mock, tc.Err, tc.Name, tc.WantErr)
			failed := mock.failcalls > 0
			if tc.WantFail != failed {
				t.Fatalf("unexpected failed call state: %d failures", mock.failcalls)
			}
		})
	}
}

func TestNil(t *testing.T) {
	mock := &tmock{TB: t}
	var sig []byte
	Nil(mock, nil)
	Nil(mock, sig)
	Nil(mock, (*errors.Error)(nil))
	if mock.failcalls != 0 {
		t.Fatalf("nil values must not fail, got %d failures", mock.failcalls)
	}
	Nil(mock, 0)
	Nil(mock, errors.ErrEmpty)
	if mock.failcalls != 2 {
		t.Fatalf("non nil values must fail, got %d failures", mock.failcalls)
	}
}

func TestHex(t *testing.T) {
	mock := &tmock{TB: t}
	Hex(mock, "0xA0 00 00 00", []byte{0xa0, 0, 0, 0})
	if mock.failcalls != 0 {
		t.Fatal("matching bytes must not fail")
	}
	Hex(mock, "00000001", []byte{0xa0, 0, 0, 0})
	if mock.failcalls != 1 {
		t.Fatal("different bytes must fail")
	}
}

// tmock mocks testing.TB and only counts failure calls. It ignores all other
// input.
type tmock struct {
	testing.TB
	failcalls int
}

func (t *tmock) Error(args ...interface{}) {
	t.TB.Log(args...)
	t.failcalls++
}

func (t *tmock) Errorf(s string, args ...interface{}) {
	t.TB.Logf(s, args...)
	t.failcalls++
}

func (t *tmock) Fatal(args ...interface{}) {
	t.TB.Log(args...)
	t.failcalls++
}

func (t *tmock) Fatalf(s string, args ...interface{}) {
	t.TB.Logf(s, args...)
	t.failcalls++
}
