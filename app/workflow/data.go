package workflow

import "encoding/json"

// MergeData overlays updates onto existing instance data. Existing keys are
// kept unless the update carries the same key; the result is always a valid
// JSON object.
func MergeData(existing, updates json.RawMessage) (json.RawMessage, error) {
	base := map[string]interface{}{}
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &base); err != nil {
			return nil, err
		}
	}
	if len(updates) > 0 {
		overlay := map[string]interface{}{}
		if err := json.Unmarshal(updates, &overlay); err != nil {
			return nil, err
		}
		for k, v := range overlay {
			base[k] = v
		}
	}
	return json.Marshal(base)
}

// DataKey reads one top-level key out of an instance's data document.
// ok is false when the key is absent.
func DataKey(data json.RawMessage, key string) (interface{}, bool) {
	doc := map[string]interface{}{}
	if len(data) == 0 {
		return nil, false
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false
	}
	v, ok := doc[key]
	return v, ok
}
