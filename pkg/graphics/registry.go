package graphics

import (
	"errors"
	"fmt"

	"github.com/opd-ai/isoforge/pkg/geometry"
	"github.com/opd-ai/isoforge/pkg/transforms"
)

// ErrNotFound is returned by registry lookups for unknown ids.
var ErrNotFound = errors.New("graphics: not found")

// SpriteRenderData is the per-sprite data the renderer and transforms
// need: a texture handle, its UV rectangle, and its stage origin.
type SpriteRenderData struct {
	TextureID     string
	TextureExtent geometry.FloatRect
	StageOrigin   geometry.Vector3
}

// GraphicData is the process-wide immutable registry of sprites,
// animations, and graphic sets. It is built once at startup from a
// resource manifest and never mutated afterward; every value returned
// from it is a copy or a non-owning reference valid for the program's
// lifetime.
type GraphicData struct {
	spritesByNumericID map[uint32]Sprite
	spritesByStringID  map[string]uint32
	animations         map[uint32]Animation
	boundingBoxes      map[uint32]geometry.BoundingBox

	terrainSets map[uint32]TerrainSet
	floorSets   map[uint32]FloorSet
	wallSets    map[uint32]WallSet
	objectSets  map[uint32]ObjectSet
	entitySets  map[uint32]*EntityGraphicSet

	nullSprite Sprite
}

// NewGraphicData builds an empty registry. Population happens via the
// Add* methods, normally driven by LoadManifest.
func NewGraphicData() *GraphicData {
	return &GraphicData{
		spritesByNumericID: make(map[uint32]Sprite),
		spritesByStringID:  make(map[string]uint32),
		animations:         make(map[uint32]Animation),
		boundingBoxes:      make(map[uint32]geometry.BoundingBox),
		terrainSets:        make(map[uint32]TerrainSet),
		floorSets:          make(map[uint32]FloorSet),
		wallSets:           make(map[uint32]WallSet),
		objectSets:         make(map[uint32]ObjectSet),
		entitySets:         make(map[uint32]*EntityGraphicSet),
		nullSprite:         Sprite{NumericID: 0, DisplayName: "null"},
	}
}

// AddSprite registers a sprite under both its numeric and string ids.
func (g *GraphicData) AddSprite(s Sprite) {
	g.spritesByNumericID[s.NumericID] = s
	if s.StringID != "" {
		g.spritesByStringID[s.StringID] = s.NumericID
	}
}

// AddAnimation registers an animation.
func (g *GraphicData) AddAnimation(a Animation) {
	g.animations[a.NumericID] = a
}

// AddBoundingBox registers a shared bounding box by numeric id, for
// sprites/animations that reference a shared box instead of a custom one.
func (g *GraphicData) AddBoundingBox(id uint32, box geometry.BoundingBox) {
	g.boundingBoxes[id] = box
}

// BoundingBoxByID resolves a shared bounding box id.
func (g *GraphicData) BoundingBoxByID(id uint32) (geometry.BoundingBox, bool) {
	box, ok := g.boundingBoxes[id]
	return box, ok
}

// AddTerrainSet registers a terrain graphic set.
func (g *GraphicData) AddTerrainSet(s TerrainSet) { g.terrainSets[s.NumericID] = s }

// AddFloorSet registers a floor graphic set.
func (g *GraphicData) AddFloorSet(s FloorSet) { g.floorSets[s.NumericID] = s }

// AddWallSet registers a wall graphic set.
func (g *GraphicData) AddWallSet(s WallSet) { g.wallSets[s.NumericID] = s }

// AddObjectSet registers an object graphic set.
func (g *GraphicData) AddObjectSet(s ObjectSet) { g.objectSets[s.NumericID] = s }

// AddEntitySet registers an entity graphic set. The caller must
// ensure IdleSouth is populated; LoadManifest enforces this.
func (g *GraphicData) AddEntitySet(s *EntityGraphicSet) { g.entitySets[s.NumericID] = s }

// GetSpriteByNumericID returns a sprite by numeric id.
func (g *GraphicData) GetSpriteByNumericID(id uint32) (Sprite, error) {
	if id == 0 {
		return g.nullSprite, nil
	}
	s, ok := g.spritesByNumericID[id]
	if !ok {
		return Sprite{}, fmt.Errorf("sprite %d: %w", id, ErrNotFound)
	}
	return s, nil
}

// GetSpriteByStringID returns a sprite by string id.
func (g *GraphicData) GetSpriteByStringID(stringID string) (Sprite, error) {
	numericID, ok := g.spritesByStringID[stringID]
	if !ok {
		return Sprite{}, fmt.Errorf("sprite %q: %w", stringID, ErrNotFound)
	}
	return g.GetSpriteByNumericID(numericID)
}

// SpriteByNumericID implements Lookup.
func (g *GraphicData) SpriteByNumericID(id uint32) (Sprite, bool) {
	s, err := g.GetSpriteByNumericID(id)
	return s, err == nil
}

// GetAnimation returns an animation by numeric id.
func (g *GraphicData) GetAnimation(id uint32) (Animation, error) {
	a, ok := g.animations[id]
	if !ok {
		return Animation{}, fmt.Errorf("animation %d: %w", id, ErrNotFound)
	}
	return a, nil
}

// AnimationByNumericID implements Lookup.
func (g *GraphicData) AnimationByNumericID(id uint32) (Animation, bool) {
	a, err := g.GetAnimation(id)
	return a, err == nil
}

// GetGraphic dispatches on id's top bit and returns a GraphicRef.
// NullGraphicID never resolves; callers should check for it first.
func (g *GraphicData) GetGraphic(id GraphicID) (GraphicRef, error) {
	if id == NullGraphicID {
		return GraphicRef{}, fmt.Errorf("null graphic id: %w", ErrNotFound)
	}
	if id.IsAnimationID() {
		a, err := g.GetAnimation(id.ToAnimationID())
		if err != nil {
			return GraphicRef{}, err
		}
		return NewAnimationGraphicRef(a), nil
	}
	s, err := g.GetSpriteByNumericID(id.ToSpriteID())
	if err != nil {
		return GraphicRef{}, err
	}
	return NewSpriteGraphicRef(s), nil
}

// GetEntityGraphicSet returns an entity graphic set by numeric id.
func (g *GraphicData) GetEntityGraphicSet(id uint32) (*EntityGraphicSet, error) {
	s, ok := g.entitySets[id]
	if !ok {
		return nil, fmt.Errorf("entity graphic set %d: %w", id, ErrNotFound)
	}
	return s, nil
}

// GetTerrainSet returns a terrain graphic set by numeric id.
func (g *GraphicData) GetTerrainSet(id uint32) (TerrainSet, error) {
	s, ok := g.terrainSets[id]
	if !ok {
		return TerrainSet{}, fmt.Errorf("terrain set %d: %w", id, ErrNotFound)
	}
	return s, nil
}

// GetFloorSet returns a floor graphic set by numeric id.
func (g *GraphicData) GetFloorSet(id uint32) (FloorSet, error) {
	s, ok := g.floorSets[id]
	if !ok {
		return FloorSet{}, fmt.Errorf("floor set %d: %w", id, ErrNotFound)
	}
	return s, nil
}

// GetWallSet returns a wall graphic set by numeric id.
func (g *GraphicData) GetWallSet(id uint32) (WallSet, error) {
	s, ok := g.wallSets[id]
	if !ok {
		return WallSet{}, fmt.Errorf("wall set %d: %w", id, ErrNotFound)
	}
	return s, nil
}

// GetObjectSet returns an object graphic set by numeric id.
func (g *GraphicData) GetObjectSet(id uint32) (ObjectSet, error) {
	s, ok := g.objectSets[id]
	if !ok {
		return ObjectSet{}, fmt.Errorf("object set %d: %w", id, ErrNotFound)
	}
	return s, nil
}

// GetSpriteRenderData returns the per-sprite render data (texture
// handle, UV rect, stage origin) for spriteID.
func (g *GraphicData) GetSpriteRenderData(spriteID uint32) (SpriteRenderData, error) {
	s, err := g.GetSpriteByNumericID(spriteID)
	if err != nil {
		return SpriteRenderData{}, err
	}
	return SpriteRenderData{
		TextureID:     s.TextureID,
		TextureExtent: s.TextureExtent,
		StageOrigin:   s.StageOrigin,
	}, nil
}

// RenderData converts a SpriteRenderData to the shape transforms.TileToScreenExtent expects.
func (d SpriteRenderData) RenderData() transforms.SpriteRenderData {
	return transforms.SpriteRenderData{
		StageOriginX: d.StageOrigin.X,
		StageOriginY: d.StageOrigin.Y,
		Width:        d.TextureExtent.Width,
		Height:       d.TextureExtent.Height,
	}
}

// GetRenderAlignmentOffset returns the precomputed alignment offset
// for (setID, graphicType, direction), used so sprites of different
// sizes within the same entity graphic set stay visually anchored.
func (g *GraphicData) GetRenderAlignmentOffset(setID uint32, graphicType EntityGraphicType, dir Direction) (geometry.Vector3, error) {
	set, err := g.GetEntityGraphicSet(setID)
	if err != nil {
		return geometry.Vector3{}, err
	}
	return set.AlignmentOffset(graphicType, dir), nil
}
