package referenceframe

import (
	// for embedding model file.
	_ "embed"
)

// DefaultModelName is the name of the embedded arm model.
const DefaultModelName = "kuka-rx160"

//go:embed kuka_rx160.json
var rx160JSON []byte

// DefaultModel returns the embedded RX160 model.
func DefaultModel() (*Model, error) {
	return UnmarshalModelJSON(rx160JSON, "")
}

// DefaultModelJSON returns a copy of the embedded model file.
func DefaultModelJSON() []byte {
	return append([]byte(nil), rx160JSON...)
}
