package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manifest struct {
	Name    string            `json:"name"`
	Nulls   int               `json:"nulls"`
	Delta   float64           `json:"delta"`
	Labels  map[string]string `json:"labels,omitempty"`
	Kinds   []string          `json:"kinds"`
	Created int64             `json:"created"`
}

func TestByName(t *testing.T) {
	tests := []struct {
		name string
		want Codec
		ok   bool
	}{
		{"json", JSON{}, true},
		{"go-json", GoJSON{}, true},
		{"msgpack", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := ByName(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, c)
		})
	}
}

func TestCodecs(t *testing.T) {
	in := manifest{
		Name:    "run-7",
		Nulls:   3,
		Delta:   0.1,
		Labels:  map[string]string{"field": "dipole"},
		Kinds:   []string{"improper", "spiral"},
		Created: 1760745600,
	}

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Marshal(in)
			require.NoError(t, err)

			var out manifest
			require.NoError(t, c.Unmarshal(data, &out))
			assert.Equal(t, in, out)

			// Both codecs speak plain JSON.
			var cross manifest
			require.NoError(t, JSON{}.Unmarshal(data, &cross))
			assert.Equal(t, in, cross)
		})
	}
}

func TestDefault(t *testing.T) {
	assert.Equal(t, "go-json", Default.Name())
}
