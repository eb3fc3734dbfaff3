package graphics

import "testing"

func TestGraphicID_RoundTrip_Sprite(t *testing.T) {
	for _, s := range []uint32{0, 1, 42, 0x7FFFFFFF} {
		id := ToGraphicID(s, false)
		if !id.IsSpriteID() || id.IsAnimationID() {
			t.Fatalf("ToGraphicID(%d, false) expected sprite id", s)
		}
		if got := id.ToSpriteID(); got != s {
			t.Errorf("ToSpriteID() = %d, want %d", got, s)
		}
	}
}

func TestGraphicID_RoundTrip_Animation(t *testing.T) {
	for _, a := range []uint32{0, 1, 42, 0x7FFFFFFF} {
		id := ToGraphicID(a, true)
		if !id.IsAnimationID() || id.IsSpriteID() {
			t.Fatalf("ToGraphicID(%d, true) expected animation id", a)
		}
		if got := id.ToAnimationID(); got != a {
			t.Errorf("ToAnimationID() = %d, want %d", got, a)
		}
	}
}

func TestGraphicID_MutuallyExclusive(t *testing.T) {
	for _, n := range []uint32{0, 1, 1000} {
		for _, isAnim := range []bool{true, false} {
			id := ToGraphicID(n, isAnim)
			if id.IsSpriteID() == id.IsAnimationID() {
				t.Fatalf("IsSpriteID/IsAnimationID not mutually exclusive for %d/%v", n, isAnim)
			}
		}
	}
}

func TestNullGraphicID(t *testing.T) {
	if NullGraphicID != 0 {
		t.Errorf("NullGraphicID = %d, want 0", NullGraphicID)
	}
}

func TestAnimation_SpriteIDAtTime(t *testing.T) {
	anim := Animation{
		FPS:        10,
		FrameCount: 5,
		Frames: []AnimationFrame{
			{FrameNumber: 0, SpriteID: 100},
			{FrameNumber: 2, SpriteID: 200},
			{FrameNumber: 4, SpriteID: 300},
		},
	}

	tests := []struct {
		t    float64
		want uint32
	}{
		{0.0, 100},
		{0.15, 100},
		{0.2, 200},
		{0.35, 200},
		{0.4, 300},
	}
	for _, tt := range tests {
		got, ok := anim.SpriteIDAtTime(tt.t)
		if !ok {
			t.Fatalf("SpriteIDAtTime(%v) not ok", tt.t)
		}
		if got != tt.want {
			t.Errorf("SpriteIDAtTime(%v) = %d, want %d", tt.t, got, tt.want)
		}
	}
}

func TestAnimation_LengthS(t *testing.T) {
	anim := Animation{FPS: 10, FrameCount: 5}
	if got := anim.LengthS(); got != 0.5 {
		t.Errorf("LengthS() = %v, want 0.5", got)
	}
}

func TestToDirection(t *testing.T) {
	if got := ToDirection(GraphicTypeIdleSouth); got != South {
		t.Errorf("ToDirection(IdleSouth) = %v, want South", got)
	}
	if got := ToDirection(GraphicTypeRunNorth); got != North {
		t.Errorf("ToDirection(RunNorth) = %v, want North", got)
	}
}

func TestToRunAndIdleGraphicType(t *testing.T) {
	if got := ToRunGraphicType(South); got != GraphicTypeRunSouth {
		t.Errorf("ToRunGraphicType(South) = %v, want RunSouth", got)
	}
	if got := ToIdleGraphicType(SouthEast); got != GraphicTypeIdleSouthEast {
		t.Errorf("ToIdleGraphicType(SouthEast) = %v, want IdleSouthEast", got)
	}
}

func TestEntityGraphicSet_RequiresIdleSouth(t *testing.T) {
	set := NewEntityGraphicSet(1, "test", "Test")
	if set.Has(GraphicTypeIdleSouth) {
		t.Fatal("expected empty set to not have IdleSouth")
	}
	set.Set(GraphicTypeIdleSouth, ToGraphicID(1, false))
	if !set.Has(GraphicTypeIdleSouth) {
		t.Error("expected set to have IdleSouth after Set")
	}
}
