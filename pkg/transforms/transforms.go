// Package transforms holds the pure, stateless functions that map
// world-space points and tile positions into screen space given a
// camera and zoom level. Nothing here owns state or performs I/O.
package transforms

import "github.com/opd-ai/isoforge/pkg/geometry"

// TileWorldWidth is the width, in world units, of one tile along the
// X and Y axes. Chosen to match the 32-unit collision boxes used
// throughout worked examples of this engine.
const TileWorldWidth = 32.0

// ZScreenScale is the multiplier applied to world Z before it
// contributes to screen Y, giving the isometric "rise" of vertical
// displacement its characteristic shallower slope than the ground
// plane projection.
const ZScreenScale = 2.0

// Camera describes the view used to project world points to screen
// points: a world-space center, a top-left screen origin, a pixel
// extent, and a zoom factor.
type Camera struct {
	Position geometry.Vector3
	ScreenTopLeftX float64
	ScreenTopLeftY float64
	Width          float64
	Height         float64
	Zoom           float64
}

// ScreenRect returns the camera's screen-space viewport.
func (c Camera) ScreenRect() geometry.FloatRect {
	return geometry.FloatRect{X: c.ScreenTopLeftX, Y: c.ScreenTopLeftY, Width: c.Width, Height: c.Height}
}

// WorldToScreen projects a world-space point to an unclamped screen
// point at the given zoom, ignoring any camera offset. The isometric
// basis maps +X to the right-and-down, +Y to the left-and-down, and Z
// to straight up, scaled by ZScreenScale.
func WorldToScreen(point geometry.Vector3, zoom float64) (screenX, screenY float64) {
	screenX = (point.X - point.Y) * zoom
	screenY = (point.X+point.Y)/2*zoom - WorldZToScreenY(point.Z, zoom)
	return screenX, screenY
}

// WorldZToScreenY isolates the Z contribution to screen Y.
func WorldZToScreenY(z, zoom float64) float64 {
	return z * ZScreenScale * zoom
}

// SpriteRenderData is the subset of a graphic's render data the
// transforms need: its stage origin within the texture and the pixel
// size of its texture extent.
type SpriteRenderData struct {
	StageOriginX float64
	StageOriginY float64
	Width        float64
	Height       float64
}

// TileToScreenExtent projects a tile's origin to screen space and
// returns the screen-space rectangle the tile's sprite occupies,
// relative to the camera's top-left.
func TileToScreenExtent(tilePos geometry.TilePosition, tileOffset geometry.Vector3, render SpriteRenderData, camera Camera) geometry.FloatRect {
	worldPoint := geometry.Vector3{
		X: float64(tilePos.X)*TileWorldWidth + tileOffset.X,
		Y: float64(tilePos.Y)*TileWorldWidth + tileOffset.Y,
		Z: float64(tilePos.Z)*TileWorldWidth + tileOffset.Z,
	}
	screenX, screenY := WorldToScreen(worldPoint, camera.Zoom)
	return geometry.FloatRect{
		X:      screenX - render.StageOriginX*camera.Zoom - camera.ScreenTopLeftX,
		Y:      screenY - render.StageOriginY*camera.Zoom - camera.ScreenTopLeftY,
		Width:  render.Width * camera.Zoom,
		Height: render.Height * camera.Zoom,
	}
}

// EntityToScreenExtent projects an entity's world position to screen
// space, shifting by the entity-graphic-set's alignment offset so
// sprites of varying sizes within the same set stay anchored to the
// same world point, then anchoring the sprite's stage origin at the
// entity's collision-box bottom center.
func EntityToScreenExtent(position geometry.Vector3, collisionBottomCenter geometry.Vector3, renderAlignmentOffset geometry.Vector3, render SpriteRenderData, camera Camera) geometry.FloatRect {
	anchorWorld := position.Add(collisionBottomCenter).Add(renderAlignmentOffset)
	screenX, screenY := WorldToScreen(anchorWorld, camera.Zoom)
	return geometry.FloatRect{
		X:      screenX - render.StageOriginX*camera.Zoom - camera.ScreenTopLeftX,
		Y:      screenY - render.StageOriginY*camera.Zoom - camera.ScreenTopLeftY,
		Width:  render.Width * camera.Zoom,
		Height: render.Height * camera.Zoom,
	}
}

// ModelToWorldTile translates a model-space bounding box to the
// tile's world origin.
func ModelToWorldTile(modelBounds geometry.BoundingBox, tilePos geometry.TilePosition) geometry.BoundingBox {
	originX := float64(tilePos.X) * TileWorldWidth
	originY := float64(tilePos.Y) * TileWorldWidth
	originZ := float64(tilePos.Z) * TileWorldWidth
	return geometry.BoundingBox{
		MinX: modelBounds.MinX + originX,
		MaxX: modelBounds.MaxX + originX,
		MinY: modelBounds.MinY + originY,
		MaxY: modelBounds.MaxY + originY,
		MinZ: modelBounds.MinZ + originZ,
		MaxZ: modelBounds.MaxZ + originZ,
	}
}

// ModelToWorldEntity centers a model-space bounding box under an
// entity's world position.
func ModelToWorldEntity(modelBounds geometry.BoundingBox, position geometry.Vector3) geometry.BoundingBox {
	return geometry.BoundingBox{
		MinX: modelBounds.MinX + position.X,
		MaxX: modelBounds.MaxX + position.X,
		MinY: modelBounds.MinY + position.Y,
		MaxY: modelBounds.MaxY + position.Y,
		MinZ: modelBounds.MinZ + position.Z,
		MaxZ: modelBounds.MaxZ + position.Z,
	}
}
