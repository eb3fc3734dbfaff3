package graphics

import "github.com/opd-ai/isoforge/pkg/geometry"

// Lookup resolves numeric sprite/animation ids to their loaded data.
// GraphicRef needs this to implement SpriteAtTime, since an animation
// reference must resolve the sprite its current frame points to.
type Lookup interface {
	SpriteByNumericID(id uint32) (Sprite, bool)
	AnimationByNumericID(id uint32) (Animation, bool)
}

// GraphicRef is a tagged union over a sprite or an animation
// reference, exposing the operations the sorter and renderer need
// without caring which kind backs it.
type GraphicRef struct {
	id          GraphicID
	displayName string
	modelBounds geometry.BoundingBox
	numericID   uint32
}

// NewSpriteGraphicRef builds a GraphicRef wrapping a sprite.
func NewSpriteGraphicRef(s Sprite) GraphicRef {
	return GraphicRef{
		id:          ToGraphicID(s.NumericID, false),
		displayName: s.DisplayName,
		modelBounds: s.ModelBounds,
		numericID:   s.NumericID,
	}
}

// NewAnimationGraphicRef builds a GraphicRef wrapping an animation.
func NewAnimationGraphicRef(a Animation) GraphicRef {
	return GraphicRef{
		id:          ToGraphicID(a.NumericID, true),
		displayName: a.DisplayName,
		modelBounds: a.ModelBounds,
		numericID:   a.NumericID,
	}
}

// GraphicID returns the tagged id for this reference.
func (g GraphicRef) GraphicID() GraphicID { return g.id }

// DisplayName returns the human-readable name.
func (g GraphicRef) DisplayName() string { return g.displayName }

// ModelBounds returns the model-space bounding box.
func (g GraphicRef) ModelBounds() geometry.BoundingBox { return g.modelBounds }

// IsAnimation reports whether this reference wraps an animation.
func (g GraphicRef) IsAnimation() bool { return g.id.IsAnimationID() }

// FirstSpriteID returns the numeric sprite id to show with no elapsed
// time: itself for a sprite reference, frame 0 for an animation.
func (g GraphicRef) FirstSpriteID(lookup Lookup) (uint32, bool) {
	if !g.IsAnimation() {
		return g.numericID, true
	}
	anim, ok := lookup.AnimationByNumericID(g.numericID)
	if !ok {
		return 0, false
	}
	return anim.SpriteIDAtTime(0)
}

// SpriteAtTime returns the sprite to display at animation time t: the
// wrapped sprite itself, or the animation's sprite at t.
func (g GraphicRef) SpriteAtTime(lookup Lookup, t float64) (Sprite, bool) {
	if !g.IsAnimation() {
		return lookup.SpriteByNumericID(g.numericID)
	}
	anim, ok := lookup.AnimationByNumericID(g.numericID)
	if !ok {
		return Sprite{}, false
	}
	spriteID, ok := anim.SpriteIDAtTime(t)
	if !ok {
		return Sprite{}, false
	}
	return lookup.SpriteByNumericID(spriteID)
}

// AnimationLengthS returns the wrapped animation's length, or 0 for a
// sprite reference.
func (g GraphicRef) AnimationLengthS(lookup Lookup) float64 {
	if !g.IsAnimation() {
		return 0
	}
	anim, ok := lookup.AnimationByNumericID(g.numericID)
	if !ok {
		return 0
	}
	return anim.LengthS()
}
