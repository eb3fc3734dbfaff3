// Package geometry provides the small value types shared by the
// transform, graphics, tilemap, and sorter packages: world-space
// vectors, screen-space rectangles, and tile-grid coordinates.
package geometry

import "math"

// Vector3 is a world-space position or displacement, in world units.
type Vector3 struct {
	X float64
	Y float64
	Z float64
}

// Add returns the component-wise sum of v and other.
func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Sub returns the component-wise difference v - other.
func (v Vector3) Sub(other Vector3) Vector3 {
	return Vector3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Scale returns v with every component multiplied by factor.
func (v Vector3) Scale(factor float64) Vector3 {
	return Vector3{X: v.X * factor, Y: v.Y * factor, Z: v.Z * factor}
}

// Length returns the Euclidean length of v.
func (v Vector3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalized returns v scaled to unit length. The zero vector is
// returned unchanged.
func (v Vector3) Normalized() Vector3 {
	length := v.Length()
	if length == 0 {
		return v
	}
	return v.Scale(1 / length)
}

// Equals reports whether v and other are exactly equal.
func (v Vector3) Equals(other Vector3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

// FloatRect is an axis-aligned rectangle in screen space, with
// floating-point extents so it can represent interpolated frames.
type FloatRect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Intersects reports whether r and other overlap. Per the sorter's
// screen-bounds culling rule, edges that only touch do not count as
// overlapping: the comparisons use strict inequality.
func (r FloatRect) Intersects(other FloatRect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// BoundingBox is an axis-aligned box in world space, used both for
// collision volumes and for the sprite sorter's depth-ordering tests.
type BoundingBox struct {
	MinX float64
	MaxX float64
	MinY float64
	MaxY float64
	MinZ float64
	MaxZ float64
}

// Intersects reports whether b and other overlap on all three axes,
// using strict inequality on every axis. This mirrors the sprite
// sorter's "is behind" test: boxes that only touch along an axis are
// not considered overlapping there.
func (b BoundingBox) Intersects(other BoundingBox) bool {
	return b.MinX < other.MaxX && other.MinX < b.MaxX &&
		b.MinY < other.MaxY && other.MinY < b.MaxY &&
		b.MinZ < other.MaxZ && other.MinZ < b.MaxZ
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() Vector3 {
	return Vector3{
		X: (b.MinX + b.MaxX) / 2,
		Y: (b.MinY + b.MaxY) / 2,
		Z: (b.MinZ + b.MaxZ) / 2,
	}
}

// TilePosition addresses a single tile within a chunk-indexed map.
type TilePosition struct {
	X int
	Y int
	Z int
}

// TileExtent describes a rectangular volume of tile positions,
// inclusive of XLength/YLength/ZLength tiles starting at X, Y, Z.
type TileExtent struct {
	X       int
	Y       int
	Z       int
	XLength int
	YLength int
	ZLength int
}

// Contains reports whether pos falls within the extent.
func (e TileExtent) Contains(pos TilePosition) bool {
	return pos.X >= e.X && pos.X < e.X+e.XLength &&
		pos.Y >= e.Y && pos.Y < e.Y+e.YLength &&
		pos.Z >= e.Z && pos.Z < e.Z+e.ZLength
}

// Intersection returns the overlap of e and other. ok is false if the
// extents do not overlap on every axis, in which case the returned
// extent is the zero value.
func (e TileExtent) Intersection(other TileExtent) (result TileExtent, ok bool) {
	minX := maxInt(e.X, other.X)
	minY := maxInt(e.Y, other.Y)
	minZ := maxInt(e.Z, other.Z)
	maxX := minInt(e.X+e.XLength, other.X+other.XLength)
	maxY := minInt(e.Y+e.YLength, other.Y+other.YLength)
	maxZ := minInt(e.Z+e.ZLength, other.Z+other.ZLength)

	if minX >= maxX || minY >= maxY || minZ >= maxZ {
		return TileExtent{}, false
	}
	return TileExtent{
		X: minX, Y: minY, Z: minZ,
		XLength: maxX - minX,
		YLength: maxY - minY,
		ZLength: maxZ - minZ,
	}, true
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Lerp linearly interpolates between a and b by t, where t is
// typically in [0, 1] but is not clamped, matching the renderer's use
// of an unclamped alpha during the first simulated tick.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpVector3 linearly interpolates each component of a and b by t.
func LerpVector3(a, b Vector3, t float64) Vector3 {
	return Vector3{
		X: Lerp(a.X, b.X, t),
		Y: Lerp(a.Y, b.Y, t),
		Z: Lerp(a.Z, b.Z, t),
	}
}
