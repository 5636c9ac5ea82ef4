package suprasig

import (
	"encoding/json"
	"strconv"

	"github.com/iov-one/suprasig/errors"
)

// U64 is an unsigned 64 bit number represented in JSON as a decimal string,
// the way the RPC node returns Move u64 values. Decoding accepts a plain
// number as well.
type U64 uint64

func (n U64) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(n), 10))
}

func (n *U64) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var num uint64
		if err := json.Unmarshal(raw, &num); err != nil {
			return errors.Wrapf(errors.ErrInput, "not an unsigned number: %s", raw)
		}
		*n = U64(num)
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "not an unsigned number: %q", s)
	}
	*n = U64(v)
	return nil
}
