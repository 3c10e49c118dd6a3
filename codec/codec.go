// Package codec selects the encoding of snapshot manifests.
//
// Manifests record the name of the codec that wrote them, so a store can pick
// the matching codec with ByName when reading.
package codec

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case JSON{}.Name():
		return JSON{}, true
	case GoJSON{}.Name():
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Default is the codec used for new manifests.
var Default Codec = GoJSON{}
