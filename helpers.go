package openmotics

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// truncatePreview returns a truncated string for error messages and logs.
func truncatePreview(data []byte) string {
	s := string(data)
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}

// clampPercent limits a dimmer/position value to the 0-100 range the API
// accepts.
func clampPercent(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

// copyMap returns a shallow copy of a record map. The models use it to fan
// a flat record out into its nested sub-objects.
func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// decodeRecord decodes a (possibly merged) record map into a typed record.
// The json tag names double as the map keys, and JSON's float64 numbers
// are weakly converted into the record's integer fields.
func decodeRecord(m map[string]any, v any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           v,
	})
	if err != nil {
		return fmt.Errorf("openmotics: failed to build record decoder: %w", err)
	}
	if err := dec.Decode(m); err != nil {
		return fmt.Errorf("openmotics: failed to decode record: %w", err)
	}
	return nil
}

// asFloat extracts a numeric map value. JSON decoding produces float64,
// but merged gateway maps may also carry native ints.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// recordID extracts the numeric id of a record map, or -1 when missing.
func recordID(m map[string]any) int {
	if n, ok := asFloat(m["id"]); ok {
		return int(n)
	}
	return -1
}

// indexByID indexes record maps by their numeric id.
func indexByID(records []map[string]any) map[int]map[string]any {
	out := make(map[int]map[string]any, len(records))
	for _, r := range records {
		if id := recordID(r); id >= 0 {
			out[id] = r
		}
	}
	return out
}

// mergeStatus overlays the fields of a status record onto a configuration
// record, so the merged map looks like the flat objects the API returns
// elsewhere.
func mergeStatus(dst, status map[string]any) {
	for k, v := range status {
		if k == "id" {
			continue
		}
		dst[k] = v
	}
}
