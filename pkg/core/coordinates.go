// pkg/core/coordinates.go
package core

import "fmt"

// Coordinates is a player position as the game stores it: three 4-byte floats.
type Coordinates struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", c.X, c.Y, c.Z)
}
