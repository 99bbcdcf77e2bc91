package buzzoola

import (
	"encoding/json"

	"github.com/buzzoola/hbrtb/hb"
)

// overlay copies the given values onto target by field name. Values already set on
// target are replaced by the ones in values; fields missing from values are kept.
func overlay(target any, values hb.RawParams) error {
	if len(values) == 0 {
		return nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}

// withDefaults returns values completed with the defaults it does not set itself.
func withDefaults(values hb.RawParams, defaults map[string]json.RawMessage) hb.RawParams {
	merged := make(hb.RawParams, len(values)+len(defaults))
	for key, value := range defaults {
		merged[key] = value
	}
	for key, value := range values {
		merged[key] = value
	}
	return merged
}
