package avsystem

import (
	"testing"

	"github.com/opd-ai/isoforge/pkg/entity"
	"github.com/opd-ai/isoforge/pkg/geometry"
	"github.com/opd-ai/isoforge/pkg/graphics"
	"github.com/sirupsen/logrus"
)

const entityGraphicSetID = 1

func newTestRegistry() *graphics.GraphicData {
	data := graphics.NewGraphicData()

	data.AddSprite(graphics.Sprite{NumericID: 1, DisplayName: "idle-south"})
	data.AddAnimation(graphics.Animation{
		NumericID:   1,
		DisplayName: "flash",
		FPS:         10,
		FrameCount:  5,
		Frames:      []graphics.AnimationFrame{{FrameNumber: 0, SpriteID: 1}},
	})

	set := graphics.NewEntityGraphicSet(entityGraphicSetID, "test", "Test")
	set.Set(graphics.GraphicTypeIdleSouth, graphics.ToGraphicID(1, false))
	set.Set(graphics.GraphicTypeRunSouth, graphics.ToGraphicID(1, true))
	set.Set(graphics.GraphicTypeRunNorth, graphics.ToGraphicID(1, true))
	data.AddEntitySet(set)

	return data
}

func newTestSystem() *System {
	return New(newTestRegistry(), logrus.New())
}

// TestExpireVisualEffects_PlayOnceAnimation reproduces the worked
// scenario: fps=10, frameCount=5 (length 0.5s), effect started at
// t=10.000s must still be present at t=10.499s and gone at t=10.500s.
func TestExpireVisualEffects_PlayOnceAnimation(t *testing.T) {
	sys := newTestSystem()
	animGraphicID := graphics.ToGraphicID(1, true)

	e := &entity.Entity{
		AVEffects: []entity.VisualEffectState{
			{
				Definition: entity.VisualEffectDefinition{GraphicID: animGraphicID, LoopMode: entity.PlayOnce},
				StartTime:  10.0,
			},
		},
	}

	sys.ExpireVisualEffects(e, 10.499)
	if len(e.AVEffects) != 1 {
		t.Fatalf("effect expired early: AVEffects = %v", e.AVEffects)
	}

	sys.ExpireVisualEffects(e, 10.5)
	if len(e.AVEffects) != 0 {
		t.Fatalf("effect should have expired at end time: AVEffects = %v", e.AVEffects)
	}
}

func TestExpireVisualEffects_UnstartedEffectKept(t *testing.T) {
	sys := newTestSystem()
	e := &entity.Entity{
		AVEffects: []entity.VisualEffectState{
			{Definition: entity.VisualEffectDefinition{LoopMode: entity.Loop, LoopTime: 1.0}, StartTime: 0},
		},
	}
	sys.ExpireVisualEffects(e, 1000)
	if len(e.AVEffects) != 1 {
		t.Fatal("effect with StartTime==0 must not be expired")
	}
}

func TestExpireVisualEffects_LoopUsesLoopTime(t *testing.T) {
	sys := newTestSystem()
	e := &entity.Entity{
		AVEffects: []entity.VisualEffectState{
			{Definition: entity.VisualEffectDefinition{LoopMode: entity.Loop, LoopTime: 2.0}, StartTime: 5.0},
		},
	}
	sys.ExpireVisualEffects(e, 6.9)
	if len(e.AVEffects) != 1 {
		t.Fatal("loop effect expired before loopTime elapsed")
	}
	sys.ExpireVisualEffects(e, 7.0)
	if len(e.AVEffects) != 0 {
		t.Fatal("loop effect should have expired at startTime+loopTime")
	}
}

type fixedResolver struct {
	positions map[entity.ID]geometry.Vector3
}

func (r fixedResolver) EntityPosition(id entity.ID) (geometry.Vector3, bool) {
	p, ok := r.positions[id]
	return p, ok
}

// TestTickAVEntity_TwoPhaseChain reproduces the worked two-phase
// scenario: a caster-origin A/V entity chases a target at (0,96,0) at
// speed 32 (MoveToEntity), then holds for 0.5s (StaticPosition) before
// being destroyed.
func TestTickAVEntity_TwoPhaseChain(t *testing.T) {
	sys := newTestSystem()
	targetID := entity.ID(1)
	resolver := fixedResolver{positions: map[entity.ID]geometry.Vector3{targetID: {X: 0, Y: 96, Z: 0}}}

	holdPosition := geometry.Vector3{X: 0, Y: 96, Z: 0}
	av := &entity.AVEntity{
		GraphicSetID: entityGraphicSetID,
		State: entity.AVEntityState{
			TargetEntity:   &targetID,
			TargetPosition: &holdPosition,
			Definition: entity.Definition{
				Phases: []entity.Phase{
					{GraphicSetID: entityGraphicSetID, Behavior: entity.MoveToEntity, MovementSpeed: 32},
					{GraphicSetID: entityGraphicSetID, Behavior: entity.StaticPosition, DurationS: 0.5},
				},
			},
		},
	}

	currentTime := 0.0
	ticks := 0
	for !av.State.Exhausted() && ticks < 200 {
		result := sys.TickAVEntity(av, resolver, currentTime)
		if result.Destroy {
			break
		}
		currentTime += SimTickTimestepS
		ticks++
	}

	// distance 96 at speed 32 covers in 3s == 90 ticks, then phase 2
	// holds for 0.5s == 15 more ticks before the machine exhausts.
	if ticks < 100 || ticks > 110 {
		t.Errorf("expected roughly 105 ticks to exhaust both phases, got %d", ticks)
	}
	if !av.State.Exhausted() {
		t.Error("expected phase machine to be exhausted")
	}
}

// TestTickAVEntity_GraphicFallbackStrafesInsteadOfDroppingToIdle
// exercises the fallback ladder rather than a one-level drop: a
// graphic set missing every run-southeast variant but authoring
// RunSouth must keep the run animation going (a "strafe") instead of
// snapping straight to the idle graphic.
func TestTickAVEntity_GraphicFallbackStrafesInsteadOfDroppingToIdle(t *testing.T) {
	data := graphics.NewGraphicData()
	data.AddSprite(graphics.Sprite{NumericID: 1, DisplayName: "run"})
	set := graphics.NewEntityGraphicSet(2, "strafe-only", "Strafe Only")
	set.Set(graphics.GraphicTypeIdleSouth, graphics.ToGraphicID(1, false))
	set.Set(graphics.GraphicTypeRunSouth, graphics.ToGraphicID(1, false))
	data.AddEntitySet(set)

	sys := New(data, logrus.New())
	target := geometry.Vector3{X: 96, Y: 96, Z: 0}
	resolver := fixedResolver{positions: map[entity.ID]geometry.Vector3{}}

	av := &entity.AVEntity{
		GraphicSetID: 2,
		ClientGraphicState: entity.ClientGraphicState{
			CurrentGraphicType: graphics.GraphicTypeRunSouth,
		},
		State: entity.AVEntityState{
			TargetPosition: &target,
			Definition: entity.Definition{
				Phases: []entity.Phase{
					{GraphicSetID: 2, Behavior: entity.MoveToPosition, MovementSpeed: 32},
				},
			},
		},
	}

	sys.TickAVEntity(av, resolver, 0)

	if av.ClientGraphicState.CurrentGraphicType != graphics.GraphicTypeRunSouth {
		t.Errorf("expected the ladder to strafe and keep RunSouth, got %v", av.ClientGraphicState.CurrentGraphicType)
	}
}

func TestTickAVEntity_TargetVanishedDestroys(t *testing.T) {
	sys := newTestSystem()
	targetID := entity.ID(99)
	resolver := fixedResolver{positions: map[entity.ID]geometry.Vector3{}}

	av := &entity.AVEntity{
		GraphicSetID: entityGraphicSetID,
		State: entity.AVEntityState{
			TargetEntity: &targetID,
			Definition: entity.Definition{
				Phases: []entity.Phase{
					{GraphicSetID: entityGraphicSetID, Behavior: entity.MoveToEntity, MovementSpeed: 32},
				},
			},
		},
	}

	result := sys.TickAVEntity(av, resolver, 0)
	if !result.Destroy {
		t.Fatal("expected destroy when target entity has vanished")
	}
}

func TestMoveTowards_ClampsAtTarget(t *testing.T) {
	pos := geometry.Vector3{X: 0, Y: 0, Z: 0}
	target := geometry.Vector3{X: 1, Y: 0, Z: 0}
	got := moveTowards(pos, target, 10)
	if !got.Equals(target) {
		t.Errorf("moveTowards overshoot step should clamp to target, got %v", got)
	}
}

func TestMoveTowards_PartialStep(t *testing.T) {
	pos := geometry.Vector3{X: 0, Y: 0, Z: 0}
	target := geometry.Vector3{X: 10, Y: 0, Z: 0}
	got := moveTowards(pos, target, 4)
	want := geometry.Vector3{X: 4, Y: 0, Z: 0}
	if !got.Equals(want) {
		t.Errorf("moveTowards(%v, %v, 4) = %v, want %v", pos, target, got, want)
	}
}

func TestPositionReached(t *testing.T) {
	p := geometry.Vector3{X: 1, Y: 2, Z: 3}
	if !positionReached(entity.MoveToEntity, p, p) {
		t.Error("expected exact-equal positions to be reached")
	}
	if positionReached(entity.FollowDirection, p, p) {
		t.Error("FollowDirection must never report positionReached")
	}
}

func TestVectorToClosestDirection(t *testing.T) {
	tests := []struct {
		v    geometry.Vector3
		want graphics.Direction
	}{
		{geometry.Vector3{X: 0, Y: 1}, graphics.South},
		{geometry.Vector3{X: 0, Y: -1}, graphics.North},
		{geometry.Vector3{X: 1, Y: 0}, graphics.East},
		{geometry.Vector3{X: -1, Y: 0}, graphics.West},
		{geometry.Vector3{X: 1, Y: 1}, graphics.SouthEast},
		{geometry.Vector3{X: -1, Y: -1}, graphics.NorthWest},
		{geometry.Vector3{X: 0, Y: 0}, graphics.South},
	}
	for _, tt := range tests {
		got := vectorToClosestDirection(tt.v)
		if got != tt.want {
			t.Errorf("vectorToClosestDirection(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

// TestTimeElapsed_OneTickSubtraction preserves the original engine's
// quirk where an animation-timed phase ends one tick short of its
// literal animation length.
func TestTimeElapsed_OneTickSubtraction(t *testing.T) {
	sys := newTestSystem()
	phase := entity.Phase{Behavior: entity.StaticPosition, DurationS: -1}
	animLength := 0.5 // fps=10, frameCount=5
	start := 10.0     // a start time of 0 means "not started yet"

	justBefore := start + animLength - SimTickTimestepS - 0.001
	if sys.timeElapsed(phase, start, justBefore, entityGraphicSetID, graphics.GraphicTypeRunSouth) {
		t.Errorf("timeElapsed fired early at t=%v", justBefore)
	}

	endTime := start + animLength - SimTickTimestepS
	if !sys.timeElapsed(phase, start, endTime, entityGraphicSetID, graphics.GraphicTypeRunSouth) {
		t.Errorf("timeElapsed should fire at t=%v (animLength - one tick)", endTime)
	}
}

func TestTimeElapsed_FixedDuration(t *testing.T) {
	sys := newTestSystem()
	phase := entity.Phase{Behavior: entity.StaticPosition, DurationS: 0.5}
	if sys.timeElapsed(phase, 10.0, 10.4, entityGraphicSetID, graphics.GraphicTypeIdleSouth) {
		t.Error("fixed-duration phase fired before duration elapsed")
	}
	if !sys.timeElapsed(phase, 10.0, 10.5, entityGraphicSetID, graphics.GraphicTypeIdleSouth) {
		t.Error("fixed-duration phase should fire once duration elapsed")
	}
}

func TestTimeElapsed_MoveToEntityNeverTimeElapses(t *testing.T) {
	sys := newTestSystem()
	phase := entity.Phase{Behavior: entity.MoveToEntity, DurationS: -1}
	if sys.timeElapsed(phase, 0, 1e9, entityGraphicSetID, graphics.GraphicTypeRunSouth) {
		t.Error("MoveToEntity must rely on positionReached, not timeElapsed")
	}
}
