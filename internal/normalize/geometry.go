package normalize

import "encoding/json"

// Geometry turns a raw field value into a geometry object or nil when the
// record has no usable geometry. Strings are strictly JSON-parsed; a parse
// failure or a value without a "type" discriminator means nil. The geometry
// content itself is passed through unvalidated, malformed coordinates are the
// map renderer's problem.
func Geometry(v any) any {
	switch geom := v.(type) {
	case string:
		var parsed any
		if err := json.Unmarshal([]byte(geom), &parsed); err != nil {
			return nil
		}
		return Geometry(parsed)

	case map[string]any:
		if t, ok := geom["type"].(string); ok && t != "" {
			return geom
		}
	}

	return nil
}
