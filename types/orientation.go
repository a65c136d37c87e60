package types

import "fmt"

// Orientation selects the output frame shape and the footage search filter.
type Orientation string

const (
	Landscape Orientation = "landscape"
	Portrait  Orientation = "portrait"
)

// TargetDimensions returns the minimum acceptable footage dimensions and
// the output frame size for this orientation.
func (o Orientation) TargetDimensions() (width, height int) {
	if o == Landscape {
		return 1920, 1080
	}
	return 1080, 1920
}

// Validate checks the orientation value from config.
func (o Orientation) Validate() error {
	switch o {
	case Landscape, Portrait:
		return nil
	}
	return fmt.Errorf("invalid orientation %q (want %q or %q)", o, Landscape, Portrait)
}
