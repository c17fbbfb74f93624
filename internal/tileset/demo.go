package tileset

import (
	_ "embed"
	"fmt"
)

//go:embed demo.yaml
var demoConfig []byte

// Demo returns the built-in road network tileset. Every combination of road
// and empty edges has a tile, so it never runs into a contradiction.
func Demo() *Tileset {
	ts, err := Parse(demoConfig)
	if err != nil {
		panic(fmt.Sprintf("tileset: embedded demo is invalid: %v", err))
	}
	return ts
}
