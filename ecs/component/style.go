package component

import "image/color"

// BodyStyle controls how the debug drawer outlines a body. A nil Color uses
// the drawer's default for the body's state.
type BodyStyle struct {
	Color  color.Color
	Hidden bool
}

var BodyStyleComponent = NewComponent[BodyStyle]()
