package store

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

var jsonNull = []byte("null")

// marshalCollection encodes a collection for storage. encoding/json sorts
// map keys, so the same collection always yields the same bytes.
func marshalCollection(key string, value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal %s", key)
	}
	return data, nil
}

// unmarshalCollection decodes a stored payload into dst. A literal JSON null
// is reported as absent (false) rather than decoded into a nil collection.
func unmarshalCollection(key string, payload []byte, dst any) (bool, error) {
	if len(bytes.TrimSpace(payload)) == 0 || bytes.Equal(bytes.TrimSpace(payload), jsonNull) {
		return false, nil
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return false, &CorruptStateError{Key: key, Err: err}
	}
	return true, nil
}
