package graphics

import "github.com/opd-ai/isoforge/pkg/geometry"

// TerrainSet maps each of the 4 terrain heights to a graphic.
type TerrainSet struct {
	NumericID   uint32
	StringID    string
	DisplayName string
	Graphics    [TerrainHeightCount]GraphicID
}

// Get returns the graphic id for height, or NullGraphicID if out of range.
func (s TerrainSet) Get(height TerrainHeight) GraphicID {
	if height < 0 || height >= TerrainHeightCount {
		return NullGraphicID
	}
	return s.Graphics[height]
}

// FloorSet maps each of the 8 compass directions to a graphic.
type FloorSet struct {
	NumericID   uint32
	StringID    string
	DisplayName string
	Graphics    [DirectionCount]GraphicID
}

// Get returns the graphic id for dir, or NullGraphicID if out of range.
func (s FloorSet) Get(dir Direction) GraphicID {
	if dir < 0 || dir >= DirectionCount {
		return NullGraphicID
	}
	return s.Graphics[dir]
}

// WallSet maps each of the 4 wall types to a graphic.
type WallSet struct {
	NumericID   uint32
	StringID    string
	DisplayName string
	Graphics    [WallTypeCount]GraphicID
}

// Get returns the graphic id for wallType, or NullGraphicID if out of range.
func (s WallSet) Get(wallType WallType) GraphicID {
	if wallType < 0 || wallType >= WallTypeCount {
		return NullGraphicID
	}
	return s.Graphics[wallType]
}

// ObjectSet maps each of the 8 compass directions to a graphic.
type ObjectSet struct {
	NumericID   uint32
	StringID    string
	DisplayName string
	Graphics    [DirectionCount]GraphicID
}

// Get returns the graphic id for dir, or NullGraphicID if out of range.
func (s ObjectSet) Get(dir Direction) GraphicID {
	if dir < 0 || dir >= DirectionCount {
		return NullGraphicID
	}
	return s.Graphics[dir]
}

// EntityGraphicSet maps an entity-graphic-type to a graphic id. For
// the authored Idle/Run/Crouch/Jump families the direction is already
// baked into the type value (see ToDirection); project-defined types
// (>= ProjectGraphicTypeBase) are direction-agnostic single entries.
// The IdleSouth entry is always populated; this is enforced by the
// registry loader.
type EntityGraphicSet struct {
	NumericID       uint32
	StringID        string
	DisplayName     string
	byType          map[EntityGraphicType]GraphicID
	alignmentByType map[EntityGraphicType]geometry.Vector3
}

// NewEntityGraphicSet builds an empty set ready for population.
func NewEntityGraphicSet(numericID uint32, stringID, displayName string) *EntityGraphicSet {
	return &EntityGraphicSet{
		NumericID:       numericID,
		StringID:        stringID,
		DisplayName:     displayName,
		byType:          make(map[EntityGraphicType]GraphicID),
		alignmentByType: make(map[EntityGraphicType]geometry.Vector3),
	}
}

// Set assigns the graphic id for graphicType.
func (s *EntityGraphicSet) Set(graphicType EntityGraphicType, id GraphicID) {
	s.byType[graphicType] = id
}

// SetAlignmentOffset assigns the render alignment offset for graphicType.
func (s *EntityGraphicSet) SetAlignmentOffset(graphicType EntityGraphicType, offset geometry.Vector3) {
	s.alignmentByType[graphicType] = offset
}

// Has reports whether the set has a non-null graphic for graphicType.
func (s *EntityGraphicSet) Has(graphicType EntityGraphicType) bool {
	return s.byType[graphicType] != NullGraphicID
}

// Get returns the graphic id for graphicType, or NullGraphicID if absent.
func (s *EntityGraphicSet) Get(graphicType EntityGraphicType) GraphicID {
	return s.byType[graphicType]
}

// AlignmentOffset returns the render alignment offset for graphicType,
// or the zero vector if unset. dir is accepted to match the
// registry's external API shape but is ignored: the offset is keyed by
// graphicType alone.
func (s *EntityGraphicSet) AlignmentOffset(graphicType EntityGraphicType, dir Direction) geometry.Vector3 {
	_ = dir
	return s.alignmentByType[graphicType]
}

// CollisionModelBounds returns the bounds used for sort and collision
// purposes: always the IdleSouth graphic's model bounds, so that
// sprite-size changes during animation never reorder the sort.
func (s *EntityGraphicSet) CollisionModelBounds(lookup Lookup) geometry.BoundingBox {
	id := s.Get(GraphicTypeIdleSouth)
	ref, ok := resolveGraphicRef(lookup, id)
	if !ok {
		return geometry.BoundingBox{}
	}
	return ref.ModelBounds()
}

func resolveGraphicRef(lookup Lookup, id GraphicID) (GraphicRef, bool) {
	if id == NullGraphicID {
		return GraphicRef{}, false
	}
	if id.IsAnimationID() {
		anim, ok := lookup.AnimationByNumericID(id.ToAnimationID())
		if !ok {
			return GraphicRef{}, false
		}
		return NewAnimationGraphicRef(anim), true
	}
	sprite, ok := lookup.SpriteByNumericID(id.ToSpriteID())
	if !ok {
		return GraphicRef{}, false
	}
	return NewSpriteGraphicRef(sprite), true
}
