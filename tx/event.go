package tx

import (
	"encoding/json"

	"github.com/iov-one/suprasig/errors"
)

// Event is emitted by an executed transaction. Data is kept in its JSON form
// because its shape depends on the event type.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// FindEvent returns the data of the first event of given type, decoded into
// dest. ErrNotFound is returned if no event of that type was emitted.
func FindEvent(events []Event, eventType string, dest interface{}) error {
	for _, e := range events {
		if e.Type != eventType {
			continue
		}
		if err := json.Unmarshal(e.Data, dest); err != nil {
			return errors.Wrapf(errors.ErrInput, "event %s: %s", eventType, err)
		}
		return nil
	}
	return errors.Wrapf(errors.ErrNotFound, "no %s event", eventType)
}
