package entity

import (
	"github.com/opd-ai/isoforge/pkg/geometry"
	"github.com/opd-ai/isoforge/pkg/graphics"
)

// Behavior selects how an A/V entity phase moves and what it targets.
type Behavior int

const (
	MoveToEntity Behavior = iota
	MoveToPosition
	FollowEntityStartCaster
	FollowEntityStartTarget
	FollowDirection
	StaticPosition
	CurrentPosition
)

// Phase is one authored step of an A/V entity definition's sequence.
type Phase struct {
	GraphicSetID  uint32
	Behavior      Behavior
	MovementSpeed float64
	// DurationS is the phase's fixed duration in seconds, or -1 to
	// mean "until the current graphic's playback completes".
	DurationS float64
	// SoundID is the sound effect to play once when this phase
	// starts, or 0 for a silent phase.
	SoundID uint32
}

// Definition is an immutable, authored A/V entity definition.
type Definition struct {
	NumericID         uint32
	StartDistance     float64
	CanMoveVertically bool
	Phases            []Phase
}

// AVEntityState is the client-local bookkeeping that drives an A/V
// entity's phase machine, separate from its drawable Entity fields.
type AVEntityState struct {
	Definition        Definition
	TargetEntity      *ID
	TargetPosition    *geometry.Vector3
	CurrentPhaseIndex int
	PhaseStartTime    float64
	SetStartTime      bool
}

// Exhausted reports whether the phase machine has run past the last
// authored phase and the A/V entity should be destroyed.
func (s *AVEntityState) Exhausted() bool {
	return s.CurrentPhaseIndex >= len(s.Definition.Phases)
}

// CurrentPhase returns the phase the state machine is presently in.
// Callers must check Exhausted first.
func (s *AVEntityState) CurrentPhase() Phase {
	return s.Definition.Phases[s.CurrentPhaseIndex]
}

// AVEntity is a client-local, transient drawable entity driven by the
// A/V system's phase machine.
type AVEntity struct {
	ID AVID

	Position         geometry.Vector3
	PreviousPosition geometry.Vector3

	Direction          graphics.Direction
	GraphicSetID       uint32
	ClientGraphicState ClientGraphicState

	State AVEntityState
}
