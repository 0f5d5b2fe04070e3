package btpower

import (
	"encoding/json"
	"fmt"
	"time"
)

// Duration wraps time.Duration so config structs can round-trip through
// JSON as either a human string ("3s", "500ms") or a bare nanosecond
// count, the same flexibility the teacher's Duration field type gives
// BuilderDefaults.RequestInterval.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		*d = Duration(v)
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("duration: %w", err)
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("duration: unsupported JSON value %T", raw)
	}
	return nil
}
