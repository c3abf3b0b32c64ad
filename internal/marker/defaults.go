package marker

import _ "embed"

//go:embed markers.yaml
var defaultMarkers []byte

// Default loads the embedded taxonomy shipped with the binary. Callers that
// want their own marker file use LoadFile instead.
func Default() (*MarkerSet, error) {
	return Load(defaultMarkers)
}
