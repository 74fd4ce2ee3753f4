package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeometry(t *testing.T) {
	polygon := map[string]any{
		"type":        "Polygon",
		"coordinates": []any{[]any{[]any{0.0, 0.0}, []any{1.0, 0.0}, []any{0.0, 0.0}}},
	}

	tests := []struct {
		in   any
		want any
		name string
	}{
		{
			name: "object passes through",
			in:   polygon,
			want: polygon,
		},
		{
			name: "json string is parsed",
			in:   `{"type":"Point","coordinates":[1,2]}`,
			want: map[string]any{"type": "Point", "coordinates": []any{1.0, 2.0}},
		},
		{
			name: "unparseable string",
			in:   "not json",
			want: nil,
		},
		{
			name: "object without type tag",
			in:   map[string]any{"coordinates": []any{1.0, 2.0}},
			want: nil,
		},
		{
			name: "malformed coordinates still pass",
			in:   `{"type":"Polygon","coordinates":"oops"}`,
			want: map[string]any{"type": "Polygon", "coordinates": "oops"},
		},
		{
			name: "absent",
			in:   nil,
			want: nil,
		},
		{
			name: "number",
			in:   42.0,
			want: nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Geometry(tt.in))
		})
	}
}
