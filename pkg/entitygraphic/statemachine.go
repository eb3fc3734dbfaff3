// Package entitygraphic implements the per-tick Entity Graphic State
// machine: choosing an entity's current idle/run graphic type and
// facing, with a fallback ladder for graphic sets that don't author
// every direction.
package entitygraphic

import "github.com/opd-ai/isoforge/pkg/graphics"

// Extension is the project hook consulted before the built-in
// idle/run selection. Returning graphics.GraphicTypeNotSet defers to
// the built-in logic.
type Extension interface {
	GetUpdatedGraphicType(entityID uint32) graphics.EntityGraphicType
}

// Input is everything the state machine needs about one entity for a
// single tick's update. CurrentGraphicType doubles as the source of
// the "previously-displayed direction" the fallback ladder strafes
// against.
type Input struct {
	EntityID           uint32
	Moving             bool
	Direction          graphics.Direction
	CurrentGraphicType graphics.EntityGraphicType
}

// Result is the state machine's decision for a tick.
type Result struct {
	GraphicType  graphics.EntityGraphicType
	SetStartTime bool
}

// Update runs the state machine for one entity for one tick against
// set, the entity's graphic set.
func Update(set *graphics.EntityGraphicSet, ext Extension, in Input) Result {
	if ext != nil {
		if overridden := ext.GetUpdatedGraphicType(in.EntityID); overridden != graphics.GraphicTypeNotSet {
			return Result{
				GraphicType:  overridden,
				SetStartTime: overridden != in.CurrentGraphicType,
			}
		}
	}

	family := graphics.FamilyIdle
	if in.Moving {
		family = graphics.FamilyRun
	}

	chosen := SelectGraphicType(set, family, in.Direction, previousDirection(in.CurrentGraphicType))
	return Result{
		GraphicType:  chosen,
		SetStartTime: chosen != in.CurrentGraphicType,
	}
}

// PreviousDirection extracts the facing of the last displayed graphic
// type, for callers outside this package that need to feed
// SelectGraphicType the same "previously-displayed direction" this
// package derives internally.
func PreviousDirection(t graphics.EntityGraphicType) graphics.Direction {
	return previousDirection(t)
}

// previousDirection extracts the facing of the last displayed
// graphic. Types with no baked-in direction (NotSet, or a
// project-defined type) default to South.
func previousDirection(t graphics.EntityGraphicType) graphics.Direction {
	if t == graphics.GraphicTypeNotSet || t >= graphics.ProjectGraphicTypeBase {
		return graphics.South
	}
	return graphics.ToDirection(t)
}

func isOrdinal(dir graphics.Direction) bool {
	switch dir {
	case graphics.SouthWest, graphics.NorthWest, graphics.NorthEast, graphics.SouthEast:
		return true
	default:
		return false
	}
}

// adjacentCardinals returns the two cardinal directions adjacent to
// an ordinal direction.
func adjacentCardinals(dir graphics.Direction) (a, b graphics.Direction) {
	switch dir {
	case graphics.SouthWest:
		return graphics.South, graphics.West
	case graphics.NorthWest:
		return graphics.North, graphics.West
	case graphics.NorthEast:
		return graphics.North, graphics.East
	case graphics.SouthEast:
		return graphics.South, graphics.East
	default:
		return dir, dir
	}
}

// nearerCardinal returns the single cardinal direction an ordinal
// direction should escalate to when neither the ordinal graphic nor a
// strafe-eligible adjacent cardinal is available: South for
// south-leaning ordinals, North for north-leaning ones.
func nearerCardinal(dir graphics.Direction) graphics.Direction {
	switch dir {
	case graphics.SouthWest, graphics.SouthEast:
		return graphics.South
	case graphics.NorthWest, graphics.NorthEast:
		return graphics.North
	default:
		return graphics.South
	}
}

func graphicTypeFor(family graphics.EntityGraphicFamily, dir graphics.Direction) graphics.EntityGraphicType {
	if family == graphics.FamilyRun {
		return graphics.ToRunGraphicType(dir)
	}
	return graphics.ToIdleGraphicType(dir)
}

// SelectGraphicType implements the fallback ladder: exact match, then
// (for ordinals) a strafe-preserving check against the previously
// displayed direction, then escalation to the nearer cardinal, then
// Idle(direction), and finally the guaranteed IdleSouth. Exported so
// other per-tick graphic-type callers (the A/V System) apply the same
// ladder instead of a partial, reimplemented fallback.
func SelectGraphicType(set *graphics.EntityGraphicSet, family graphics.EntityGraphicFamily, direction, lastDirection graphics.Direction) graphics.EntityGraphicType {
	exact := graphicTypeFor(family, direction)
	if set.Has(exact) {
		return exact
	}

	if isOrdinal(direction) {
		c1, c2 := adjacentCardinals(direction)
		if lastDirection == c1 || lastDirection == c2 {
			if strafed := graphicTypeFor(family, lastDirection); set.Has(strafed) {
				return strafed
			}
		}

		if nearer := graphicTypeFor(family, nearerCardinal(direction)); set.Has(nearer) {
			return nearer
		}
	}

	if idleFallback := graphics.ToIdleGraphicType(direction); set.Has(idleFallback) {
		return idleFallback
	}

	return graphics.GraphicTypeIdleSouth
}
