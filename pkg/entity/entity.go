// Package entity defines the server-synced Entity and client-local
// A/V entity data model. The collaborator interfaces that read these
// types live with their consumers in pkg/sorter and pkg/avsystem.
package entity

import (
	"github.com/opd-ai/isoforge/pkg/geometry"
	"github.com/opd-ai/isoforge/pkg/graphics"
)

// ID identifies an entity within the World's entity store.
type ID uint32

// AVID identifies an A/V entity within the World's A/V entity store.
type AVID uint32

// Input is a bitmask of movement intents.
type Input uint8

const (
	InputUp Input = 1 << iota
	InputDown
	InputLeft
	InputRight
)

// IsMoving reports whether any movement bit is set.
func (i Input) IsMoving() bool { return i != 0 }

// ClientGraphicState is the client-only half of an entity's graphic
// state: which graphic type and direction are currently chosen, when
// the current animation started, and whether the next read must
// capture a fresh start time.
type ClientGraphicState struct {
	CurrentGraphicType graphics.EntityGraphicType
	CurrentDirection   graphics.Direction
	AnimationStartTime float64
	SetStartTime       bool
}

// Entity is a server-synced, drawable world object.
type Entity struct {
	ID ID

	Position         geometry.Vector3
	PreviousPosition geometry.Vector3
	HasPreviousPosition bool

	Input              Input
	Direction          graphics.Direction
	GraphicSetID       uint32
	ClientGraphicState ClientGraphicState

	AVEffects []VisualEffectState

	// CollisionBottomCenter and CollisionModelBounds are derived from
	// the entity's graphic set's IdleSouth graphic and cached here so
	// the sorter need not re-resolve the registry every frame.
	CollisionBottomCenter geometry.Vector3
	CollisionModelBounds  geometry.BoundingBox
}

// RenderPosition returns the entity's interpolated position for the
// current render frame: lerped from PreviousPosition to Position by
// alpha if a previous position is available, otherwise Position
// itself.
func (e *Entity) RenderPosition(alpha float64) geometry.Vector3 {
	if !e.HasPreviousPosition {
		return e.Position
	}
	return geometry.LerpVector3(e.PreviousPosition, e.Position, alpha)
}

// VisualEffectDefinition is an immutable, authored visual effect.
type VisualEffectDefinition struct {
	GraphicID graphics.GraphicID
	LoopMode  LoopMode
	LoopTime  float64
}

// LoopMode selects whether a visual effect plays once or repeats.
type LoopMode int

const (
	PlayOnce LoopMode = iota
	Loop
)

// VisualEffectState is a visual effect attached to an entity: a
// reference to its definition plus a start time (0 means not yet
// started).
type VisualEffectState struct {
	Definition VisualEffectDefinition
	StartTime  float64
}
