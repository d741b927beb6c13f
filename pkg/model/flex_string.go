package model

import (
	"bytes"
	"encoding/json"
)

// FlexString accepts any JSON value. Strings are kept as-is, numbers and
// booleans keep their literal text, null leaves it empty, and objects or
// arrays are kept as compact JSON.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}

	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return err
	}
	*s = FlexString(compact.String())
	return nil
}

func (s FlexString) String() string {
	return string(s)
}
