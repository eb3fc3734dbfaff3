package camera

import (
	"math"
	"testing"

	"github.com/opd-ai/isoforge/pkg/geometry"
	"github.com/opd-ai/isoforge/pkg/transforms"
)

func TestScreenToWorld_RoundTrip(t *testing.T) {
	want := geometry.Vector3{X: 64, Y: 96}
	sx, sy := transforms.WorldToScreen(want, 1.0)
	gotX, gotY := screenToWorld(sx, sy, 1.0)
	if math.Abs(gotX-want.X) > 1e-9 || math.Abs(gotY-want.Y) > 1e-9 {
		t.Errorf("screenToWorld round trip = (%v, %v), want (%v, %v)", gotX, gotY, want.X, want.Y)
	}
}

func TestLerp_HalfwayBetweenPositions(t *testing.T) {
	cam := Camera{
		Camera: transforms.Camera{
			Position: geometry.Vector3{X: 10, Y: 0},
			Width:    800, Height: 600, Zoom: 1,
		},
		PreviousPosition: geometry.Vector3{X: 0, Y: 0},
	}
	lerped := cam.Lerp(0.5)
	if lerped.Position.X != 5 {
		t.Errorf("lerped.Position.X = %v, want 5", lerped.Position.X)
	}
}

func TestLerp_AlphaZeroMatchesPrevious(t *testing.T) {
	cam := Camera{
		Camera:           transforms.Camera{Position: geometry.Vector3{X: 10}, Width: 800, Height: 600, Zoom: 1},
		PreviousPosition: geometry.Vector3{X: 2},
	}
	lerped := cam.Lerp(0)
	if lerped.Position.X != 2 {
		t.Errorf("lerped.Position.X = %v, want 2 at alpha=0", lerped.Position.X)
	}
}

func TestTileViewExtent_IntersectsMap(t *testing.T) {
	cam := transforms.Camera{
		Position: geometry.Vector3{X: 0, Y: 0},
		Width:    64, Height: 64, Zoom: 1,
	}
	screenX, screenY := transforms.WorldToScreen(cam.Position, cam.Zoom)
	cam.ScreenTopLeftX = screenX - cam.Width/2
	cam.ScreenTopLeftY = screenY - cam.Height/2

	mapExtent := geometry.TileExtent{X: -5, Y: -5, Z: 0, XLength: 10, YLength: 10, ZLength: 1}
	view, ok := TileViewExtent(cam, mapExtent)
	if !ok {
		t.Fatal("expected camera centered on the map to intersect it")
	}
	if view.Z != 0 || view.ZLength != 1 {
		t.Errorf("view Z range = (%d,%d), want (0,1) matching mapExtent", view.Z, view.ZLength)
	}
	if !mapExtent.Contains(geometry.TilePosition{X: view.X, Y: view.Y, Z: 0}) {
		t.Error("view extent origin should fall within the map extent")
	}
}

func TestTileViewExtent_OutsideMapReturnsNotOK(t *testing.T) {
	cam := transforms.Camera{
		Position: geometry.Vector3{X: 100000, Y: 100000},
		Width:    64, Height: 64, Zoom: 1,
	}
	screenX, screenY := transforms.WorldToScreen(cam.Position, cam.Zoom)
	cam.ScreenTopLeftX = screenX - cam.Width/2
	cam.ScreenTopLeftY = screenY - cam.Height/2
	mapExtent := geometry.TileExtent{X: -5, Y: -5, Z: 0, XLength: 10, YLength: 10, ZLength: 1}
	_, ok := TileViewExtent(cam, mapExtent)
	if ok {
		t.Error("expected a far-away camera to not intersect a small map")
	}
}
