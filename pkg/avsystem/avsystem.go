// Package avsystem implements the per-simulation-tick audio/visual
// subsystem: visual-effect expiry on entities, and the phased motion
// and animation state machine driving client-local A/V entities.
package avsystem

import (
	"github.com/opd-ai/isoforge/pkg/entity"
	"github.com/opd-ai/isoforge/pkg/entitygraphic"
	"github.com/opd-ai/isoforge/pkg/geometry"
	"github.com/opd-ai/isoforge/pkg/graphics"
	"github.com/opd-ai/isoforge/pkg/logging"
	"github.com/sirupsen/logrus"
)

// SimTickTimestepS is the fixed simulation tick length in seconds,
// matching the 30 Hz simulation rate.
const SimTickTimestepS = 1.0 / 30.0

// GraphicLookup resolves the registry data the phase machine needs:
// graphic sets and graphic refs by id, plus the sprite/animation
// resolution graphics.Lookup requires for GraphicRef methods like
// AnimationLengthS.
type GraphicLookup interface {
	graphics.Lookup
	GetGraphic(id graphics.GraphicID) (graphics.GraphicRef, error)
	GetEntityGraphicSet(id uint32) (*graphics.EntityGraphicSet, error)
}

// System runs the visual-effect and A/V entity tick logic described
// in the A/V System component.
type System struct {
	graphics GraphicLookup
	log      *logrus.Entry
}

// New builds a System backed by the given graphic registry.
func New(graphicLookup GraphicLookup, logger *logrus.Logger) *System {
	return &System{graphics: graphicLookup, log: logging.AVLogger(logger, 0)}
}

// ExpireVisualEffects removes visual effects from e whose lifetime has
// elapsed as of currentTime. Effects with StartTime == 0 have not yet
// been rendered and are left alone.
func (s *System) ExpireVisualEffects(e *entity.Entity, currentTime float64) {
	kept := e.AVEffects[:0]
	for _, effect := range e.AVEffects {
		if effect.StartTime == 0 {
			kept = append(kept, effect)
			continue
		}
		endTime := s.visualEffectEndTime(effect)
		if currentTime >= endTime {
			continue
		}
		kept = append(kept, effect)
	}
	e.AVEffects = kept
}

func (s *System) visualEffectEndTime(effect entity.VisualEffectState) float64 {
	def := effect.Definition
	if def.LoopMode == entity.PlayOnce {
		if ref, err := s.graphics.GetGraphic(def.GraphicID); err == nil && ref.IsAnimation() {
			return effect.StartTime + ref.AnimationLengthS(s.graphics)
		}
	}
	return effect.StartTime + def.LoopTime
}

// TargetResolver resolves a phase's target position given the current
// world state. It returns ok=false when the target has vanished (a
// deleted entity), signaling the A/V entity should be destroyed.
type TargetResolver interface {
	EntityPosition(id entity.ID) (geometry.Vector3, bool)
}

// TickResult reports what happened to one A/V entity during a tick.
type TickResult struct {
	Destroy bool
	// PhaseChanged is true when this tick advanced the A/V entity
	// into a new phase. Callers that schedule per-phase sound
	// playback should check this before inspecting the new phase's
	// SoundID.
	PhaseChanged bool
}

// TickAVEntity advances a single A/V entity by one simulation tick:
// phase completion, motion, and graphic recomputation, in that order.
func (s *System) TickAVEntity(av *entity.AVEntity, resolver TargetResolver, currentTime float64) TickResult {
	if av.State.Exhausted() {
		return TickResult{Destroy: true}
	}

	target, ok := s.resolveTarget(av, resolver, av.State.CurrentPhaseIndex == 0)
	if !ok {
		s.log.WithField("avEntityID", av.ID).Debug("av entity target vanished, destroying")
		return TickResult{Destroy: true}
	}

	phaseChanged := s.incrementPhaseIfNecessary(av, target, currentTime)
	if phaseChanged {
		if av.State.Exhausted() {
			return TickResult{Destroy: true}
		}
		target, ok = s.resolveTarget(av, resolver, false)
		if !ok {
			return TickResult{Destroy: true}
		}
	}

	s.advanceMotion(av, target)
	s.recomputeGraphic(av, target)

	return TickResult{PhaseChanged: phaseChanged}
}

func (s *System) resolveTarget(av *entity.AVEntity, resolver TargetResolver, isFirstPhase bool) (geometry.Vector3, bool) {
	phase := av.State.CurrentPhase()
	switch phase.Behavior {
	case entity.MoveToEntity, entity.FollowEntityStartCaster, entity.FollowEntityStartTarget:
		if av.State.TargetEntity == nil {
			return geometry.Vector3{}, false
		}
		return resolver.EntityPosition(*av.State.TargetEntity)
	case entity.MoveToPosition, entity.FollowDirection, entity.StaticPosition:
		if av.State.TargetPosition == nil {
			return geometry.Vector3{}, false
		}
		return *av.State.TargetPosition, true
	case entity.CurrentPosition:
		if !isFirstPhase {
			return av.Position, true
		}
		return geometry.Vector3{}, false
	default:
		return geometry.Vector3{}, false
	}
}

// incrementPhaseIfNecessary evaluates the time-elapsed and
// position-reached completion predicates for the current phase and
// advances currentPhaseIndex if either fires. It returns true if the
// phase advanced.
func (s *System) incrementPhaseIfNecessary(av *entity.AVEntity, target geometry.Vector3, currentTime float64) bool {
	phase := av.State.CurrentPhase()

	elapsed := s.timeElapsed(phase, av.State.PhaseStartTime, currentTime, av.GraphicSetID, av.ClientGraphicState.CurrentGraphicType)
	reached := positionReached(phase.Behavior, av.Position, target)

	if !elapsed && !reached {
		return false
	}

	previousSetID := phase.GraphicSetID
	av.State.CurrentPhaseIndex++
	if av.State.Exhausted() {
		return true
	}

	av.State.PhaseStartTime = currentTime
	av.State.SetStartTime = true
	if av.State.CurrentPhase().GraphicSetID != previousSetID {
		av.ClientGraphicState.SetStartTime = true
		av.ClientGraphicState.AnimationStartTime = currentTime
	}
	return true
}

// timeElapsed implements the duration-or-animation-length completion
// predicate. It applies only to the Follow/Static/CurrentPosition
// family of behaviors; MoveTo* behaviors rely on positionReached
// instead.
func (s *System) timeElapsed(phase entity.Phase, startTime, currentTime float64, graphicSetID uint32, currentGraphicType graphics.EntityGraphicType) bool {
	switch phase.Behavior {
	case entity.FollowEntityStartCaster, entity.FollowDirection, entity.FollowEntityStartTarget,
		entity.StaticPosition, entity.CurrentPosition:
	default:
		return false
	}

	if startTime == 0 {
		return false
	}

	if phase.DurationS != -1 {
		return currentTime >= startTime+phase.DurationS
	}

	set, err := s.graphics.GetEntityGraphicSet(graphicSetID)
	if err != nil {
		return true
	}
	graphicID := set.Get(currentGraphicType)
	ref, err := s.graphics.GetGraphic(graphicID)
	if err != nil {
		return true
	}
	if !ref.IsAnimation() {
		return true
	}

	// Subtract one tick's worth of time: the A/V entity is alive for
	// an extra tick after the phase increments.
	endTime := startTime + ref.AnimationLengthS(s.graphics) - SimTickTimestepS
	return currentTime >= endTime
}

// positionReached implements the exact-equality completion predicate
// for the position-based behaviors.
func positionReached(behavior entity.Behavior, position, target geometry.Vector3) bool {
	switch behavior {
	case entity.MoveToEntity, entity.MoveToPosition:
		return position.Equals(target)
	default:
		return false
	}
}

func (s *System) advanceMotion(av *entity.AVEntity, target geometry.Vector3) {
	phase := av.State.CurrentPhase()
	av.PreviousPosition = av.Position
	av.Position = moveTowards(av.Position, target, phase.MovementSpeed*SimTickTimestepS)
	if !av.State.Definition.CanMoveVertically {
		av.Position.Z = av.PreviousPosition.Z
	}
}

// moveTowards moves position along the unit vector toward target by
// step, clamping to exactly target if step meets or exceeds the
// remaining distance.
func moveTowards(position, target geometry.Vector3, step float64) geometry.Vector3 {
	delta := target.Sub(position)
	distance := delta.Length()
	if distance <= step || distance == 0 {
		return target
	}
	return position.Add(delta.Normalized().Scale(step))
}

func (s *System) recomputeGraphic(av *entity.AVEntity, target geometry.Vector3) {
	phase := av.State.CurrentPhase()

	direction := vectorToClosestDirection(target.Sub(av.Position))
	family := graphics.FamilyIdle
	switch phase.Behavior {
	case entity.MoveToEntity, entity.MoveToPosition, entity.FollowEntityStartCaster, entity.FollowDirection:
		family = graphics.FamilyRun
	default:
		direction = graphics.South
	}

	chosen := graphics.ToIdleGraphicType(direction)
	if set, err := s.graphics.GetEntityGraphicSet(phase.GraphicSetID); err == nil {
		lastDirection := entitygraphic.PreviousDirection(av.ClientGraphicState.CurrentGraphicType)
		chosen = entitygraphic.SelectGraphicType(set, family, direction, lastDirection)
	}

	if chosen != av.ClientGraphicState.CurrentGraphicType {
		av.ClientGraphicState.SetStartTime = true
	}
	av.ClientGraphicState.CurrentGraphicType = chosen
	av.ClientGraphicState.CurrentDirection = direction
	av.Direction = direction
}

// vectorToClosestDirection drops the Z axis, normalizes, rounds each
// component to {-1,0,1}, and maps the result to one of 8 compass
// directions, defaulting South on the zero vector.
func vectorToClosestDirection(v geometry.Vector3) graphics.Direction {
	flat := geometry.Vector3{X: v.X, Y: v.Y}.Normalized()
	x := roundToUnit(flat.X)
	y := roundToUnit(flat.Y)

	switch {
	case x == -1 && y == -1:
		return graphics.NorthWest
	case x == -1 && y == 0:
		return graphics.West
	case x == -1 && y == 1:
		return graphics.SouthWest
	case x == 0 && y == -1:
		return graphics.North
	case x == 0 && y == 1:
		return graphics.South
	case x == 1 && y == -1:
		return graphics.NorthEast
	case x == 1 && y == 0:
		return graphics.East
	case x == 1 && y == 1:
		return graphics.SouthEast
	default:
		return graphics.South
	}
}

func roundToUnit(v float64) int {
	switch {
	case v > 0.5:
		return 1
	case v < -0.5:
		return -1
	default:
		return 0
	}
}
