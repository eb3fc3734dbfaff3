// Package graphics implements the immutable graphic-data model:
// sprites, animations, tagged graphic references, and the four tile
// graphic set kinds plus the entity graphic set, along with the
// process-wide registry loaded from a resource manifest.
package graphics

import (
	"math"

	"github.com/opd-ai/isoforge/pkg/geometry"
)

// GraphicID is a 32-bit value whose top bit selects sprite (0) or
// animation (1); the remaining 31 bits are the numeric id within that
// kind. The zero value is NullGraphicID, meaning "skip this layer".
type GraphicID uint32

// NullGraphicID is reserved: any lookup returning it means the layer
// should be skipped entirely.
const NullGraphicID GraphicID = 0

const graphicIDTypeBit = GraphicID(1) << 31

// ToGraphicID packs a numeric sprite or animation id plus its type
// tag into a GraphicID.
func ToGraphicID(numericID uint32, isAnimation bool) GraphicID {
	id := GraphicID(numericID &^ uint32(graphicIDTypeBit))
	if isAnimation {
		id |= graphicIDTypeBit
	}
	return id
}

// IsSpriteID reports whether id refers to a sprite.
func (id GraphicID) IsSpriteID() bool {
	return id&graphicIDTypeBit == 0
}

// IsAnimationID reports whether id refers to an animation.
func (id GraphicID) IsAnimationID() bool {
	return !id.IsSpriteID()
}

// ToSpriteID returns the numeric sprite id encoded in id. Callers
// should check IsSpriteID first.
func (id GraphicID) ToSpriteID() uint32 {
	return uint32(id &^ graphicIDTypeBit)
}

// ToAnimationID returns the numeric animation id encoded in id.
// Callers should check IsAnimationID first.
func (id GraphicID) ToAnimationID() uint32 {
	return uint32(id &^ graphicIDTypeBit)
}

// Sprite is an immutable, loaded sprite: identity, a texture
// reference, the UV rectangle within that texture, and a model-space
// bounding box.
type Sprite struct {
	NumericID        uint32
	StringID         string
	DisplayName      string
	TextureID        string
	TextureExtent    geometry.FloatRect
	StageOrigin      geometry.Vector3
	CollisionEnabled bool
	ModelBounds      geometry.BoundingBox
	PremultiplyAlpha bool
}

// AnimationFrame maps a frame number to the sprite shown starting at
// that frame.
type AnimationFrame struct {
	FrameNumber int
	SpriteID    uint32
}

// Animation is an immutable, loaded animation: identity, playback
// rate, frame count, and an ordered sequence of keyed frames.
type Animation struct {
	NumericID   uint32
	StringID    string
	DisplayName string
	FPS         float64
	FrameCount  int
	Frames      []AnimationFrame
	ModelBounds geometry.BoundingBox
}

// LengthS returns the animation's total playback duration in seconds.
func (a Animation) LengthS() float64 {
	if a.FPS <= 0 {
		return 0
	}
	return float64(a.FrameCount) / a.FPS
}

// SpriteIDAtTime returns the numeric sprite id to display at
// animation time t (seconds), computed as
// frame = floor(t * fps) mod frameCount, then selecting the last
// keyed frame at or before that frame number.
func (a Animation) SpriteIDAtTime(t float64) (uint32, bool) {
	if a.FrameCount <= 0 || len(a.Frames) == 0 {
		return 0, false
	}
	frame := int(math.Floor(t*a.FPS)) % a.FrameCount
	if frame < 0 {
		frame += a.FrameCount
	}

	best, found := AnimationFrame{}, false
	for _, f := range a.Frames {
		if f.FrameNumber <= frame && (!found || f.FrameNumber > best.FrameNumber) {
			best = f
			found = true
		}
	}
	if !found {
		// No keyed frame at or before this point; wrap to the last
		// keyed frame (the frame list always starts at 0 in a valid
		// manifest, so this only triggers on malformed data).
		for _, f := range a.Frames {
			if !found || f.FrameNumber > best.FrameNumber {
				best = f
				found = true
			}
		}
	}
	return best.SpriteID, found
}

// Direction is one of the 8 compass directions used by Floor/Object
// graphic sets and entity rotation.
type Direction int

const (
	South Direction = iota
	SouthWest
	West
	NorthWest
	North
	NorthEast
	East
	SouthEast
	DirectionCount
)

// WallType selects which of the 4 wall graphics a Wall layer uses.
type WallType int

const (
	WallWest WallType = iota
	WallNorth
	WallNorthWestGapFill
	WallNorthEastGapFill
	WallTypeCount
)

// TerrainHeight is one of the 4 discrete terrain heights.
type TerrainHeight int

const (
	TerrainFlat TerrainHeight = iota
	TerrainOneThird
	TerrainTwoThirds
	TerrainFull
	TerrainHeightCount
)

// EntityGraphicType identifies an entity's current animation family
// and facing, or one of the project-defined types starting at 50.
// Values mirror the authored layout: Idle 1-8, Run 9-16, Crouch
// 17-24, Jump 25-32, each block ordered South..SouthEast matching
// Direction's iota order plus 1.
type EntityGraphicType int

const (
	GraphicTypeNotSet EntityGraphicType = 0

	GraphicTypeIdleSouth EntityGraphicType = iota
	GraphicTypeIdleSouthWest
	GraphicTypeIdleWest
	GraphicTypeIdleNorthWest
	GraphicTypeIdleNorth
	GraphicTypeIdleNorthEast
	GraphicTypeIdleEast
	GraphicTypeIdleSouthEast

	GraphicTypeRunSouth
	GraphicTypeRunSouthWest
	GraphicTypeRunWest
	GraphicTypeRunNorthWest
	GraphicTypeRunNorth
	GraphicTypeRunNorthEast
	GraphicTypeRunEast
	GraphicTypeRunSouthEast

	GraphicTypeCrouchSouth
	GraphicTypeCrouchSouthWest
	GraphicTypeCrouchWest
	GraphicTypeCrouchNorthWest
	GraphicTypeCrouchNorth
	GraphicTypeCrouchNorthEast
	GraphicTypeCrouchEast
	GraphicTypeCrouchSouthEast

	GraphicTypeJumpSouth
	GraphicTypeJumpSouthWest
	GraphicTypeJumpWest
	GraphicTypeJumpNorthWest
	GraphicTypeJumpNorth
	GraphicTypeJumpNorthEast
	GraphicTypeJumpEast
	GraphicTypeJumpSouthEast
)

// EntityGraphicTypeCount is the number of authored (non-project)
// entity graphic types: 4 families of 8 directions each.
const EntityGraphicTypeCount = GraphicTypeJumpSouthEast

// ProjectGraphicTypeBase is the first value available for
// project-defined entity graphic types.
const ProjectGraphicTypeBase EntityGraphicType = 50

// EntityGraphicFamily is Idle or Run, the two families the state
// machine chooses between based on movement input.
type EntityGraphicFamily int

const (
	FamilyIdle EntityGraphicFamily = iota
	FamilyRun
)

// ToDirection returns the compass direction encoded in an
// Idle/Run/Crouch/Jump graphic type.
func ToDirection(t EntityGraphicType) Direction {
	return Direction((int(t) - 1) % 8)
}

// ToRunGraphicType returns the Run-family type facing dir.
func ToRunGraphicType(dir Direction) EntityGraphicType {
	return GraphicTypeRunSouth + EntityGraphicType(dir)
}

// ToIdleGraphicType returns the Idle-family type facing dir.
func ToIdleGraphicType(dir Direction) EntityGraphicType {
	return GraphicTypeIdleSouth + EntityGraphicType(dir)
}
