// Package camera adds the stateful pieces transforms.Camera leaves
// out: inter-tick interpolation and deriving which tiles a camera can
// see, both used once per render frame by the sorter and renderer.
package camera

import (
	"math"

	"github.com/opd-ai/isoforge/pkg/geometry"
	"github.com/opd-ai/isoforge/pkg/transforms"
)

// tileViewMargin pads the derived tile-view extent by this many tiles
// on every side of the X/Y plane, absorbing the diamond footprint of
// iso tiles and oversized sprites near the screen edge. The exact
// margin isn't recoverable from the filtered source; one tile is a
// conservative, documented choice (see DESIGN.md).
const tileViewMargin = 1

// Camera is a transforms.Camera plus the previous tick's position,
// letting the renderer interpolate smoothly between simulation ticks.
type Camera struct {
	transforms.Camera
	PreviousPosition geometry.Vector3
}

// Lerp returns a transforms.Camera with Position interpolated between
// PreviousPosition and Position by alpha, and ScreenTopLeft recentered
// on the lerped position so the rest of the frame's screen-space math
// sees a single consistent camera.
func (c Camera) Lerp(alpha float64) transforms.Camera {
	lerped := c.Camera
	lerped.Position = geometry.LerpVector3(c.PreviousPosition, c.Camera.Position, alpha)

	screenX, screenY := transforms.WorldToScreen(lerped.Position, lerped.Zoom)
	lerped.ScreenTopLeftX = screenX - lerped.Width/2
	lerped.ScreenTopLeftY = screenY - lerped.Height/2
	return lerped
}

// TileViewExtent derives the range of tile positions visible to cam by
// inverse-projecting the camera's screen rectangle into world space,
// converting to tile units, padding by tileViewMargin, and intersecting
// with mapExtent. The Z range always matches mapExtent's, since a
// camera's X/Y footprint doesn't imply anything about which Z layers
// are in view.
func TileViewExtent(cam transforms.Camera, mapExtent geometry.TileExtent) (geometry.TileExtent, bool) {
	corners := []struct{ sx, sy float64 }{
		{cam.ScreenTopLeftX, cam.ScreenTopLeftY},
		{cam.ScreenTopLeftX + cam.Width, cam.ScreenTopLeftY},
		{cam.ScreenTopLeftX, cam.ScreenTopLeftY + cam.Height},
		{cam.ScreenTopLeftX + cam.Width, cam.ScreenTopLeftY + cam.Height},
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		wx, wy := screenToWorld(c.sx, c.sy, cam.Zoom)
		minX, maxX = math.Min(minX, wx), math.Max(maxX, wx)
		minY, maxY = math.Min(minY, wy), math.Max(maxY, wy)
	}

	tileMinX := int(math.Floor(minX/transforms.TileWorldWidth)) - tileViewMargin
	tileMaxX := int(math.Ceil(maxX/transforms.TileWorldWidth)) + tileViewMargin
	tileMinY := int(math.Floor(minY/transforms.TileWorldWidth)) - tileViewMargin
	tileMaxY := int(math.Ceil(maxY/transforms.TileWorldWidth)) + tileViewMargin

	viewExtent := geometry.TileExtent{
		X:       tileMinX,
		Y:       tileMinY,
		Z:       mapExtent.Z,
		XLength: tileMaxX - tileMinX,
		YLength: tileMaxY - tileMinY,
		ZLength: mapExtent.ZLength,
	}
	return viewExtent.Intersection(mapExtent)
}

// screenToWorld inverts transforms.WorldToScreen for the Z=0 plane.
func screenToWorld(screenX, screenY, zoom float64) (worldX, worldY float64) {
	if zoom == 0 {
		return 0, 0
	}
	a := screenX / zoom
	b := 2 * screenY / zoom
	worldX = (a + b) / 2
	worldY = (b - a) / 2
	return worldX, worldY
}
