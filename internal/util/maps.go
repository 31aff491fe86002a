package util

import "encoding/json"

// CopyMap returns a shallow copy of m. A nil map copies to an empty map.
func CopyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// MergeMaps overlays each map in overlays onto base, later maps winning.
// The inputs are not modified.
func MergeMaps(base map[string]any, overlays ...map[string]any) map[string]any {
	out := CopyMap(base)
	for _, overlay := range overlays {
		for k, v := range overlay {
			out[k] = v
		}
	}
	return out
}

// DeepCopyValue clones an arbitrary JSON-compatible value through a
// marshal/unmarshal round trip. Values that fail to marshal are returned
// unchanged.
func DeepCopyValue(v any) any {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}
