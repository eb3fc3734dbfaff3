package entity

import (
	"github.com/opd-ai/isoforge/pkg/geometry"
	"github.com/opd-ai/isoforge/pkg/graphics"
)

// PhantomLayerType extends tilemap.LayerType with a "None" case
// meaning the phantom has no backing tile layer and should be pushed
// as a standalone entity-like sprite instead.
type PhantomLayerType int

const (
	PhantomNone PhantomLayerType = iota
	PhantomTerrain
	PhantomFloor
	PhantomWall
	PhantomObject
)

// Phantom is a transient sprite requested by the UI for hover
// previews and build-mode overlays. It may replace an existing tile
// layer (when LayerType is Terrain/Floor/Wall/Object) or stand alone
// (LayerType == PhantomNone, in which case Position/Direction apply
// instead of TilePosition/TileOffset).
type Phantom struct {
	LayerType    PhantomLayerType
	TilePosition geometry.TilePosition
	TileOffset   geometry.Vector3
	GraphicSetID uint32
	GraphicValue byte

	// Position and Direction are only meaningful for entity phantoms
	// (LayerType == PhantomNone); GraphicValue doubles as the
	// phantom's EntityGraphicType in that case.
	Position  geometry.Vector3
	Direction graphics.Direction
}

// ColorMod is a multiplicative color filter applied to a sprite at
// draw time.
type ColorMod struct {
	R, G, B, A byte
}

// DefaultColorMod is the fallback applied when no color mod is keyed
// to a sprite's world object id: opaque black. This looks wrong at a
// glance but matches the source exactly; do not "fix" it to white.
var DefaultColorMod = ColorMod{R: 0, G: 0, B: 0, A: 255}

// ColorModEntry pairs a color mod with the world object it targets.
type ColorModEntry struct {
	Target   WorldObjectID
	ColorMod ColorMod
}
