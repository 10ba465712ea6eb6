// Package composites builds common arrangements of bodies and constraints.
package composites

import (
	"fmt"
	"math"

	"github.com/milk9111/impulse/geom"
	"github.com/milk9111/impulse/physics"
	"github.com/milk9111/impulse/physics/bodies"
)

// BodyFactory makes the body for one grid cell. last is the previously
// placed body, if any, and i counts the bodies placed so far. Returning a
// nil body leaves the cell empty.
type BodyFactory func(x, y float64, column, row int, last *physics.Body, i int) (*physics.Body, error)

// Stack lays bodies out in a grid starting at (x, y). Each body is placed
// by its bounds so that rows and columns touch, separated by the gaps.
func Stack(x, y float64, columns, rows int, columnGap, rowGap float64, factory BodyFactory) (*physics.Composite, error) {
	if columns < 0 || rows < 0 {
		return nil, fmt.Errorf("%w: stack %dx%d", physics.ErrInvalidOptions, columns, rows)
	}
	stack := physics.NewComposite("Stack")
	cx, cy := x, y
	var last *physics.Body
	i := 0
	for row := 0; row < rows; row++ {
		maxHeight := 0.0
		for column := 0; column < columns; column++ {
			body, err := factory(cx, cy, column, row, last, i)
			if err != nil {
				return nil, fmt.Errorf("stack cell %d,%d: %w", column, row, err)
			}
			if body == nil {
				cx += columnGap
				continue
			}
			bounds := body.Bounds()
			maxHeight = math.Max(maxHeight, geom.Height(bounds))
			body.Translate(geom.Vector{X: geom.Width(bounds) * 0.5, Y: geom.Height(bounds) * 0.5}, false)
			cx = body.Bounds().R + columnGap
			if err := stack.Add(body); err != nil {
				return nil, err
			}
			last = body
			i++
		}
		cy += maxHeight + rowGap
		cx = x
	}
	return stack, nil
}

// Pyramid is a stack whose rows shrink by one body on each side going up.
func Pyramid(x, y float64, columns, rows int, columnGap, rowGap float64, factory BodyFactory) (*physics.Composite, error) {
	actualRows := min(rows, (columns+1)/2)
	return Stack(x, y, columns, rows, columnGap, rowGap, func(cx, cy float64, column, row int, last *physics.Body, i int) (*physics.Body, error) {
		if row > actualRows {
			return nil, nil
		}
		row = actualRows - row
		if column < row || column > columns-1-row {
			return nil, nil
		}
		lastWidth := 0.0
		if last != nil {
			lastWidth = geom.Width(last.Bounds())
		}
		if i == 1 {
			shift := -1
			if columns%2 == 1 {
				shift = 1
			}
			last.Translate(geom.Vector{X: float64(column+shift) * lastWidth}, false)
		}
		xOffset := 0.0
		if last != nil {
			xOffset = float64(column) * lastWidth
		}
		return factory(x+xOffset+float64(column)*columnGap, cy, column, row, last, i)
	})
}

// Chain links consecutive bodies of c with constraints. Anchor offsets are
// fractions of each body's bounds size. opts supplies stiffness, damping and
// the like; its bodies and points are overwritten.
func Chain(c *physics.Composite, xOffsetA, yOffsetA, xOffsetB, yOffsetB float64, opts physics.ConstraintOptions) error {
	bs := c.Bodies()
	for i := 1; i < len(bs); i++ {
		a, b := bs[i-1], bs[i]
		o := opts
		o.BodyA = a
		o.PointA = geom.Vector{X: geom.Width(a.Bounds()) * xOffsetA, Y: geom.Height(a.Bounds()) * yOffsetA}
		o.BodyB = b
		o.PointB = geom.Vector{X: geom.Width(b.Bounds()) * xOffsetB, Y: geom.Height(b.Bounds()) * yOffsetB}
		con, err := physics.NewConstraint(o)
		if err != nil {
			return fmt.Errorf("chain link %d: %w", i, err)
		}
		if err := c.Add(con); err != nil {
			return err
		}
	}
	c.Label += " Chain"
	return nil
}

// Mesh links the bodies of c, laid out row by row, to their right and lower
// neighbours. With crossBrace the diagonals are linked too.
func Mesh(c *physics.Composite, columns, rows int, crossBrace bool, opts physics.ConstraintOptions) error {
	bs := c.Bodies()
	if columns*rows > len(bs) {
		return fmt.Errorf("%w: mesh %dx%d needs %d bodies, have %d", physics.ErrInvalidOptions, columns, rows, columns*rows, len(bs))
	}
	link := func(a, b *physics.Body) error {
		o := opts
		o.BodyA, o.BodyB = a, b
		con, err := physics.NewConstraint(o)
		if err != nil {
			return err
		}
		return c.Add(con)
	}
	at := func(col, row int) *physics.Body { return bs[col+row*columns] }

	for row := 0; row < rows; row++ {
		for col := 1; col < columns; col++ {
			if err := link(at(col-1, row), at(col, row)); err != nil {
				return err
			}
		}
		if row == 0 {
			continue
		}
		for col := 0; col < columns; col++ {
			if err := link(at(col, row-1), at(col, row)); err != nil {
				return err
			}
			if crossBrace && col > 0 {
				if err := link(at(col-1, row-1), at(col, row)); err != nil {
					return err
				}
			}
			if crossBrace && col < columns-1 {
				if err := link(at(col+1, row-1), at(col, row)); err != nil {
					return err
				}
			}
		}
	}
	c.Label += " Mesh"
	return nil
}

// NewtonsCradle hangs number frictionless, perfectly elastic balls of
// radius size from pins at height y, length below.
func NewtonsCradle(x, y float64, number int, size, length float64) (*physics.Composite, error) {
	cradle := physics.NewComposite("Newtons Cradle")
	const separation = 1.9
	for i := 0; i < number; i++ {
		o := physics.DefaultBodyOptions()
		o.Inertia = math.Inf(1)
		o.Restitution = 1
		o.Friction = 0
		o.FrictionAir = 0.0001
		o.Slop = 1
		bx := x + float64(i)*size*separation
		ball, err := bodies.Circle(bx, y+length, size, &o, 0)
		if err != nil {
			return nil, err
		}
		pin, err := physics.NewConstraint(physics.ConstraintOptions{
			PointA: geom.Vector{X: bx, Y: y},
			BodyB:  ball,
		})
		if err != nil {
			return nil, err
		}
		if err := cradle.Add(ball, pin); err != nil {
			return nil, err
		}
	}
	return cradle, nil
}
