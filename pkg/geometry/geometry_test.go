package geometry

import "testing"

func TestVector3_Normalized(t *testing.T) {
	v := Vector3{X: 3, Y: 4, Z: 0}
	n := v.Normalized()
	if got := n.Length(); got < 0.999 || got > 1.001 {
		t.Errorf("expected unit length, got %v", got)
	}
}

func TestVector3_Normalized_Zero(t *testing.T) {
	v := Vector3{}
	if got := v.Normalized(); !got.Equals(Vector3{}) {
		t.Errorf("expected zero vector unchanged, got %v", got)
	}
}

func TestBoundingBox_Intersects(t *testing.T) {
	tests := []struct {
		name string
		a, b BoundingBox
		want bool
	}{
		{
			name: "overlapping",
			a:    BoundingBox{MinX: 0, MaxX: 10, MinY: 0, MaxY: 10, MinZ: 0, MaxZ: 10},
			b:    BoundingBox{MinX: 5, MaxX: 15, MinY: 5, MaxY: 15, MinZ: 5, MaxZ: 15},
			want: true,
		},
		{
			name: "touching edge is not overlapping",
			a:    BoundingBox{MinX: 0, MaxX: 10, MinY: 0, MaxY: 10, MinZ: 0, MaxZ: 10},
			b:    BoundingBox{MinX: 10, MaxX: 20, MinY: 0, MaxY: 10, MinZ: 0, MaxZ: 10},
			want: false,
		},
		{
			name: "disjoint",
			a:    BoundingBox{MinX: 0, MaxX: 10, MinY: 0, MaxY: 10, MinZ: 0, MaxZ: 10},
			b:    BoundingBox{MinX: 100, MaxX: 110, MinY: 100, MaxY: 110, MinZ: 0, MaxZ: 10},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFloatRect_Intersects_TouchingEdge(t *testing.T) {
	a := FloatRect{X: 0, Y: 0, Width: 10, Height: 10}
	b := FloatRect{X: 10, Y: 0, Width: 10, Height: 10}
	if a.Intersects(b) {
		t.Error("expected touching rects not to intersect")
	}
}

func TestTileExtent_Intersection(t *testing.T) {
	a := TileExtent{X: 0, Y: 0, Z: 0, XLength: 10, YLength: 10, ZLength: 1}
	b := TileExtent{X: 5, Y: 5, Z: 0, XLength: 10, YLength: 10, ZLength: 1}

	got, ok := a.Intersection(b)
	if !ok {
		t.Fatal("expected overlap")
	}
	want := TileExtent{X: 5, Y: 5, Z: 0, XLength: 5, YLength: 5, ZLength: 1}
	if got != want {
		t.Errorf("Intersection() = %+v, want %+v", got, want)
	}
}

func TestTileExtent_Intersection_NoOverlap(t *testing.T) {
	a := TileExtent{X: 0, Y: 0, Z: 0, XLength: 5, YLength: 5, ZLength: 1}
	b := TileExtent{X: 100, Y: 100, Z: 0, XLength: 5, YLength: 5, ZLength: 1}

	if _, ok := a.Intersection(b); ok {
		t.Error("expected no overlap")
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(0, 10, 0.5); got != 5 {
		t.Errorf("Lerp(0, 10, 0.5) = %v, want 5", got)
	}
	if got := Lerp(0, 10, 0); got != 0 {
		t.Errorf("Lerp(0, 10, 0) = %v, want 0", got)
	}
	if got := Lerp(0, 10, 1); got != 10 {
		t.Errorf("Lerp(0, 10, 1) = %v, want 10", got)
	}
}
