package repo

import (
	"encoding/json"
	"errors"
)

// ErrVersionConflict is returned by versioned saves when the row changed
// between the read and the write. Callers should re-read and retry.
var ErrVersionConflict = errors.New("version conflict")

// marshalList encodes v as JSONB input, writing "[]" for nil slices so the
// column never holds SQL NULL or JSON null.
func marshalList(v interface{}) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return []byte("[]"), nil
	}
	return b, nil
}

// unmarshalInto decodes a JSONB column into dst, tolerating empty values.
func unmarshalInto(raw []byte, dst interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
