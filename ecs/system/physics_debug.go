package system

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/impulse/ecs"
	"github.com/milk9111/impulse/ecs/component"
	"github.com/milk9111/impulse/geom"
	"github.com/milk9111/impulse/physics"
	"golang.org/x/image/colornames"
)

const debugDotSize = 4

// DebugOptions selects what DrawPhysicsDebug draws on top of body outlines.
type DebugOptions struct {
	Bounds      bool
	Contacts    bool
	Constraints bool
	Velocity    bool
	// Offset and Zoom map world to screen: screen = (world - Offset) * Zoom.
	Offset geom.Vector
	Zoom   float64
}

// DrawPhysicsDebug outlines every body of the system's engine. Entities
// with a BodyStyle choose their own colour or hide.
func DrawPhysicsDebug(ps *PhysicsSystem, w *ecs.World, screen *ebiten.Image, opts DebugOptions) {
	if ps == nil || ps.engine == nil || screen == nil {
		return
	}
	if opts.Zoom <= 0 {
		opts.Zoom = 1
	}
	d := &physicsDebugDrawer{screen: screen, offset: opts.Offset, zoom: opts.Zoom}

	for _, b := range ps.engine.World().AllBodies() {
		clr := bodyColor(b)
		if e, ok := ps.EntityOf(b); ok && w != nil {
			if style, ok := ecs.Get(w, e, component.BodyStyleComponent); ok {
				if style.Hidden {
					continue
				}
				if style.Color != nil && !b.IsSleeping() {
					clr = style.Color
				}
			}
		}
		d.drawBody(b, clr)
		if opts.Bounds {
			d.drawBounds(b.Bounds(), colornames.Dimgray)
		}
		if opts.Velocity {
			pos := b.Position()
			d.drawLine(pos, pos.Add(b.Velocity().Mult(4)), colornames.Cornflowerblue)
		}
	}

	if opts.Constraints {
		for _, c := range ps.engine.World().AllConstraints() {
			d.drawLine(c.PointAWorld(), c.PointBWorld(), colornames.Orange)
		}
	}
	if opts.Contacts {
		for _, p := range ps.engine.Pairs().List() {
			if !p.IsActive {
				continue
			}
			for _, c := range p.ActiveContacts {
				d.drawDot(c.Point(), colornames.Red)
			}
			if len(p.ActiveContacts) > 0 && p.Collision != nil {
				from := p.ActiveContacts[0].Point()
				d.drawLine(from, from.Add(p.Collision.Normal.Mult(8)), colornames.Yellow)
			}
		}
	}
}

func bodyColor(b *physics.Body) color.Color {
	switch {
	case b.IsSensor:
		return colornames.Gold
	case b.IsStatic():
		return colornames.Gray
	case b.IsSleeping():
		return colornames.Slategray
	}
	return colornames.Limegreen
}

type physicsDebugDrawer struct {
	screen *ebiten.Image
	offset geom.Vector
	zoom   float64
}

// drawBody outlines each convex part, leaving out edges shared between
// parts of a compound.
func (d *physicsDebugDrawer) drawBody(b *physics.Body, clr color.Color) {
	parts := b.Parts()
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for _, part := range parts {
		vs := part.Vertices()
		for i, v := range vs {
			if v.IsInternal {
				continue
			}
			next := vs[(i+1)%len(vs)]
			d.drawLine(v.Point(), next.Point(), clr)
		}
	}
	if b.CircleRadius > 0 {
		pos, angle := b.Position(), b.Angle()
		tip := geom.Vector{X: math.Cos(angle), Y: math.Sin(angle)}.Mult(b.CircleRadius)
		d.drawLine(pos, pos.Add(tip), clr)
	}
}

func (d *physicsDebugDrawer) drawBounds(bb geom.Bounds, clr color.Color) {
	tl, br := geom.Min(bb), geom.Max(bb)
	tr, bl := geom.Vector{X: br.X, Y: tl.Y}, geom.Vector{X: tl.X, Y: br.Y}
	d.drawLine(tl, tr, clr)
	d.drawLine(tr, br, clr)
	d.drawLine(br, bl, clr)
	d.drawLine(bl, tl, clr)
}

func (d *physicsDebugDrawer) drawDot(pos geom.Vector, clr color.Color) {
	half := debugDotSize / 2.0 / d.zoom
	d.drawLine(geom.Vector{X: pos.X - half, Y: pos.Y}, geom.Vector{X: pos.X + half, Y: pos.Y}, clr)
	d.drawLine(geom.Vector{X: pos.X, Y: pos.Y - half}, geom.Vector{X: pos.X, Y: pos.Y + half}, clr)
}

func (d *physicsDebugDrawer) drawLine(a, b geom.Vector, clr color.Color) {
	x1, y1 := d.toScreen(a)
	x2, y2 := d.toScreen(b)
	ebitenutil.DrawLine(d.screen, x1, y1, x2, y2, clr)
}

func (d *physicsDebugDrawer) toScreen(v geom.Vector) (float64, float64) {
	return (v.X - d.offset.X) * d.zoom, (v.Y - d.offset.Y) * d.zoom
}
