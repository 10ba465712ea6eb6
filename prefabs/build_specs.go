package prefabs

import "gopkg.in/yaml.v3"

// DecodeComponentSpec re-decodes a loosely typed yaml value into T. A nil
// value decodes as an empty mapping so that types with defaulting
// UnmarshalYAML methods still fill their defaults.
func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		raw = map[string]any{}
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}
