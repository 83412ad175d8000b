// Package plane provides the render pipeline's owning 2-D sample buffer,
// with row access and rectangular sub-views, mirroring the teacher
// repository's in-memory ImageData but specialized to a single, statically
// typed sample type per buffer rather than a decoded image.Image.
package plane

import (
	"fmt"

	rpErrors "github.com/jxlgo/renderpipeline/errors"
	"github.com/jxlgo/renderpipeline/sampletype"
)

// Size is a (width, height) pair in samples.
type Size struct {
	X, Y int
}

// Point is a (column, row) coordinate.
type Point struct {
	X, Y int
}

// Plane is an owning rectangular array of samples of a single sample type.
// Row length always equals Size().X and row count always equals Size().Y.
type Plane[T sampletype.Sample] struct {
	rows [][]T
	size Size
}

// New allocates a zero-filled Plane of the given size.
func New[T sampletype.Sample](size Size) (*Plane[T], error) {
	if size.X < 0 || size.Y < 0 {
		return nil, rpErrors.Wrap(rpErrors.CategoryMemory, "plane.new",
			fmt.Errorf("negative size %v", size))
	}
	rows, err := allocRows[T](size)
	if err != nil {
		return nil, err
	}
	return &Plane[T]{rows: rows, size: size}, nil
}

func allocRows[T sampletype.Sample](size Size) (rows [][]T, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows = nil
			err = rpErrors.Wrap(rpErrors.CategoryMemory, "plane.new", rpErrors.ErrOutOfMemory)
		}
	}()
	rows = make([][]T, size.Y)
	for y := range rows {
		rows[y] = make([]T, size.X)
	}
	return rows, nil
}

// Size returns the plane's (width, height).
func (p *Plane[T]) Size() Size { return p.size }

// Row returns a mutable view of row y. Panics if y is out of range, matching
// the teacher's convention of bounds-panicking direct accessors and
// reserving recoverable errors for the rect-view API.
func (p *Plane[T]) Row(y int) []T { return p.rows[y] }

// AsRect returns a read-only view of the whole plane.
func (p *Plane[T]) AsRect() Rect[T] { return Rect[T]{rows: p.rows, size: p.size} }

// AsRectMut returns a mutable view of the whole plane.
func (p *Plane[T]) AsRectMut() RectMut[T] { return RectMut[T]{rows: p.rows, size: p.size} }

// ToImage returns a deep copy of the plane.
func (p *Plane[T]) ToImage() (*Plane[T], error) {
	return p.AsRect().ToImage()
}

// Rect is a read-only rectangular view into a Plane, addressed relative to
// its own origin.
type Rect[T sampletype.Sample] struct {
	rows   [][]T
	origin Point
	size   Size
}

// Size returns the view's (width, height).
func (r Rect[T]) Size() Size { return r.size }

// Row returns a read-only slice of row y (relative to the view's origin),
// spanning exactly the view's width.
func (r Rect[T]) Row(y int) []T {
	row := r.rows[r.origin.Y+y]
	return row[r.origin.X : r.origin.X+r.size.X]
}

// Rect returns a sub-view of this view, at offset origin and of size size,
// relative to this view. Fails with OutOfBounds if the requested window
// escapes this view.
func (r Rect[T]) Rect(origin Point, size Size) (Rect[T], error) {
	if !within(origin, size, r.size) {
		return Rect[T]{}, rpErrors.Wrap(rpErrors.CategoryBounds, "rect.rect", rpErrors.ErrOutOfBounds)
	}
	return Rect[T]{
		rows:   r.rows,
		origin: Point{X: r.origin.X + origin.X, Y: r.origin.Y + origin.Y},
		size:   size,
	}, nil
}

// ToImage returns a deep copy of the view as an owning Plane.
func (r Rect[T]) ToImage() (*Plane[T], error) {
	out, err := New[T](r.size)
	if err != nil {
		return nil, err
	}
	for y := 0; y < r.size.Y; y++ {
		copy(out.Row(y), r.Row(y))
	}
	return out, nil
}

// CheckEqual reports whether two views hold bitwise-equal samples
// (used by tests to assert round-trip/identity properties).
func (r Rect[T]) CheckEqual(other Rect[T]) bool {
	if r.size != other.size {
		return false
	}
	for y := 0; y < r.size.Y; y++ {
		a, b := r.Row(y), other.Row(y)
		for x := range a {
			if a[x] != b[x] {
				return false
			}
		}
	}
	return true
}

// RectMut is a mutable rectangular view into a Plane, addressed relative to
// its own origin. Aliasing is not prevented: AsRect returns a read-only
// view over the same samples, and several views may cover one Plane.
type RectMut[T sampletype.Sample] struct {
	rows   [][]T
	origin Point
	size   Size
}

// Size returns the view's (width, height).
func (r RectMut[T]) Size() Size { return r.size }

// Row returns a mutable slice of row y (relative to the view's origin),
// spanning exactly the view's width.
func (r RectMut[T]) Row(y int) []T {
	row := r.rows[r.origin.Y+y]
	return row[r.origin.X : r.origin.X+r.size.X]
}

// AsRect downgrades this view to a read-only Rect over the same samples.
func (r RectMut[T]) AsRect() Rect[T] {
	return Rect[T]{rows: r.rows, origin: r.origin, size: r.size}
}

// Rect returns a mutable sub-view of this view. Fails with OutOfBounds if
// the requested window escapes this view.
func (r RectMut[T]) Rect(origin Point, size Size) (RectMut[T], error) {
	if !within(origin, size, r.size) {
		return RectMut[T]{}, rpErrors.Wrap(rpErrors.CategoryBounds, "rect.rect", rpErrors.ErrOutOfBounds)
	}
	return RectMut[T]{
		rows:   r.rows,
		origin: Point{X: r.origin.X + origin.X, Y: r.origin.Y + origin.Y},
		size:   size,
	}, nil
}

// CopyFromSlice copies src into row y (relative to the view's origin). src
// must have exactly the view's width.
func (r RectMut[T]) CopyFromSlice(y int, src []T) {
	copy(r.Row(y), src)
}

func within(origin Point, size Size, parent Size) bool {
	if origin.X < 0 || origin.Y < 0 || size.X < 0 || size.Y < 0 {
		return false
	}
	return origin.X+size.X <= parent.X && origin.Y+size.Y <= parent.Y
}
