// Package point provides the small 2D integer geometry types shared by
// the raw image buffer and both decompressors.
package point

import "fmt"

// Point is an integer 2D coordinate or extent, depending on context
// (origin vs dimension).
type Point struct {
	X, Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Add returns p+o component-wise.
func (p Point) Add(o Point) Point {
	return Point{p.X + o.X, p.Y + o.Y}
}

// Sub returns p-o component-wise.
func (p Point) Sub(o Point) Point {
	return Point{p.X - o.X, p.Y - o.Y}
}

// Area treats p as a dimension and returns its pixel area.
func (p Point) Area() int {
	return p.X * p.Y
}

// Rectangle is an axis-aligned integer rectangle given by its top-left
// position and its dimension.
type Rectangle struct {
	Pos Point
	Dim Point
}

func (r Rectangle) String() string {
	return fmt.Sprintf("%v+%v", r.Pos, r.Dim)
}

// Contains reports whether r fully contains o.
func (r Rectangle) Contains(o Rectangle) bool {
	return o.Pos.X >= r.Pos.X && o.Pos.Y >= r.Pos.Y &&
		o.Pos.X+o.Dim.X <= r.Pos.X+r.Dim.X &&
		o.Pos.Y+o.Dim.Y <= r.Pos.Y+r.Dim.Y
}

// ContainsPoint reports whether p lies within r.
func (r Rectangle) ContainsPoint(p Point) bool {
	return p.X >= r.Pos.X && p.Y >= r.Pos.Y &&
		p.X < r.Pos.X+r.Dim.X && p.Y < r.Pos.Y+r.Dim.Y
}

// IsThisInside is an alias kept for readability at call sites that read
// like the original RawSpeed "isThisInside" checks.
func (r Rectangle) IsThisInside(outer Rectangle) bool {
	return outer.Contains(r)
}

// Empty reports whether r has zero area.
func (r Rectangle) Empty() bool {
	return r.Dim.X <= 0 || r.Dim.Y <= 0
}
