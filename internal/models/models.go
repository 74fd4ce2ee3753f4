package models

// Record is one row fetched from the upstream table. Fields values keep the
// arbitrary shapes the API returns: lookups and rollups may be arrays, nested
// arrays or JSON-encoded strings.
type Record struct {
	Fields      map[string]any `json:"fields"`
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime,omitempty"`
}

type Feature struct {
	Geometry   any            `json:"geometry"`
	Properties map[string]any `json:"properties"`
	Type       string         `json:"type"`
}

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

func NewFeatureCollection(features []Feature) *FeatureCollection {
	return &FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
