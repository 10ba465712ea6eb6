package physics

import "errors"

var (
	ErrInvalidShape   = errors.New("physics: invalid shape")
	ErrConcave        = errors.New("physics: vertices are not convex")
	ErrInvalidOptions = errors.New("physics: invalid options")
	ErrInvalidValue   = errors.New("physics: invalid value")
	ErrPartInUse      = errors.New("physics: part already belongs to a body")
	ErrUnsupported    = errors.New("physics: unsupported object")
	ErrNoAnchor       = errors.New("physics: constraint needs at least one body")
)
