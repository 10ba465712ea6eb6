package plugins

import (
	"fmt"

	"github.com/milk9111/impulse/geom"
	"github.com/milk9111/impulse/physics"
)

// Wrap moves a dynamic body that has fully left Bounds to the opposite side.
// Velocity is kept.
type Wrap struct {
	Bounds geom.Bounds
}

func NewWrap(bounds geom.Bounds) (*Wrap, error) {
	if !(geom.Width(bounds) > 0) || !(geom.Height(bounds) > 0) {
		return nil, fmt.Errorf("%w: wrap bounds %v", physics.ErrInvalidOptions, bounds)
	}
	return &Wrap{Bounds: bounds}, nil
}

func (w *Wrap) Name() string { return "wrap" }

func (w *Wrap) Apply(_ *physics.Engine, bodies []*physics.Body, _ float64) {
	for _, b := range bodies {
		if b.IsStatic() {
			continue
		}
		if pos, ok := w.wrapped(b); ok {
			b.SetPosition(pos, false)
		}
	}
}

func (w *Wrap) wrapped(b *physics.Body) (geom.Vector, bool) {
	bb, pos := b.Bounds(), b.Position()
	out, moved := pos, false
	switch {
	case bb.L > w.Bounds.R:
		out.X = w.Bounds.L - (bb.R - pos.X)
		moved = true
	case bb.R < w.Bounds.L:
		out.X = w.Bounds.R - (bb.L - pos.X)
		moved = true
	}
	switch {
	case bb.B > w.Bounds.T:
		out.Y = w.Bounds.B - (bb.T - pos.Y)
		moved = true
	case bb.T < w.Bounds.B:
		out.Y = w.Bounds.T - (bb.B - pos.Y)
		moved = true
	}
	return out, moved
}
