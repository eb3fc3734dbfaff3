// Package sorter implements the per-frame World Sprite Sorter: it
// gathers every visible tile layer, server-synced entity, phantom
// preview, and transient A/V entity, computes each one's screen
// placement and world-space bounding volume, and resolves draw order
// via a topological depth sort.
package sorter

import (
	"github.com/opd-ai/isoforge/pkg/entity"
	"github.com/opd-ai/isoforge/pkg/geometry"
	"github.com/opd-ai/isoforge/pkg/graphics"
	"github.com/opd-ai/isoforge/pkg/tilemap"
)

// GraphicLookup is the registry surface the sorter needs to resolve
// graphic ids into render data and sets.
type GraphicLookup interface {
	graphics.Lookup
	GetGraphic(id graphics.GraphicID) (graphics.GraphicRef, error)
	GetEntityGraphicSet(id uint32) (*graphics.EntityGraphicSet, error)
	GetTerrainSet(id uint32) (graphics.TerrainSet, error)
	GetFloorSet(id uint32) (graphics.FloorSet, error)
	GetWallSet(id uint32) (graphics.WallSet, error)
	GetObjectSet(id uint32) (graphics.ObjectSet, error)
	GetSpriteRenderData(spriteID uint32) (graphics.SpriteRenderData, error)
	GetRenderAlignmentOffset(setID uint32, graphicType graphics.EntityGraphicType, dir graphics.Direction) (geometry.Vector3, error)
}

// TileMapLookup is the subset of tilemap.Map the sorter walks each
// frame.
type TileMapLookup interface {
	Get(pos geometry.TilePosition) (*tilemap.Tile, bool)
	TileExtent() geometry.TileExtent
	TerrainHeightAt(pos geometry.TilePosition) float64
}

// EntityStore supplies the server-synced entities to gather this
// frame. The sorter borrows these for the frame only; it never
// mutates the store.
type EntityStore interface {
	AllEntities() []*entity.Entity
}

// AVEntityStore supplies the transient A/V entities to gather this
// frame.
type AVEntityStore interface {
	AllAVEntities() []*entity.AVEntity
}

// PhantomSource is the UI's per-frame phantom sprite and color mod
// publication. The sorter takes a copy and consumes entries from the
// copy as it matches them against tile and entity layers.
type PhantomSource interface {
	Phantoms() []entity.Phantom
	ColorMods() []entity.ColorModEntry
}

// SpriteSortInfo is one gathered, screen-placed sprite, carrying
// everything the depth sort and the renderer need.
type SpriteSortInfo struct {
	Sprite        graphics.Sprite
	WorldObjectID entity.WorldObjectID
	WorldBounds   geometry.BoundingBox
	ScreenExtent  geometry.FloatRect
	ColorMod      entity.ColorMod

	spritesBehind []int
	visited       bool
	depthValue    int
}

// VisualEffectRenderInfo is one screen-placed visual effect sprite,
// rendered on top of its owning entity.
type VisualEffectRenderInfo struct {
	SpriteNumericID uint32
	ScreenExtent    geometry.FloatRect
}

type entityEffectRange struct {
	entityID   entity.ID
	startIndex int
	count      int
}
