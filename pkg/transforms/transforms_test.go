package transforms

import (
	"testing"

	"github.com/opd-ai/isoforge/pkg/geometry"
)

func TestWorldZToScreenY(t *testing.T) {
	got := WorldZToScreenY(10, 1.0)
	want := 10.0 * ZScreenScale
	if got != want {
		t.Errorf("WorldZToScreenY(10, 1.0) = %v, want %v", got, want)
	}
}

func TestWorldToScreen_Origin(t *testing.T) {
	x, y := WorldToScreen(geometry.Vector3{}, 1.0)
	if x != 0 || y != 0 {
		t.Errorf("WorldToScreen(origin) = (%v, %v), want (0, 0)", x, y)
	}
}

func TestWorldToScreen_ZOnlyAffectsY(t *testing.T) {
	_, yGround := WorldToScreen(geometry.Vector3{X: 10, Y: 10, Z: 0}, 1.0)
	xRaised, yRaised := WorldToScreen(geometry.Vector3{X: 10, Y: 10, Z: 5}, 1.0)

	if xRaised != 0+((10-10)*1.0) {
		t.Errorf("expected X unaffected by Z, got %v", xRaised)
	}
	if yRaised >= yGround {
		t.Errorf("raising Z should decrease screen Y (move up), got ground=%v raised=%v", yGround, yRaised)
	}
}

func TestModelToWorldTile(t *testing.T) {
	bounds := geometry.BoundingBox{MinX: -16, MaxX: 16, MinY: -16, MaxY: 16, MinZ: 0, MaxZ: 32}
	got := ModelToWorldTile(bounds, geometry.TilePosition{X: 1, Y: 0, Z: 0})
	want := geometry.BoundingBox{MinX: 16, MaxX: 48, MinY: -16, MaxY: 16, MinZ: 0, MaxZ: 32}
	if got != want {
		t.Errorf("ModelToWorldTile() = %+v, want %+v", got, want)
	}
}

func TestModelToWorldEntity(t *testing.T) {
	bounds := geometry.BoundingBox{MinX: -8, MaxX: 8, MinY: -8, MaxY: 8, MinZ: 0, MaxZ: 32}
	got := ModelToWorldEntity(bounds, geometry.Vector3{X: 100, Y: 200, Z: 0})
	want := geometry.BoundingBox{MinX: 92, MaxX: 108, MinY: 192, MaxY: 208, MinZ: 0, MaxZ: 32}
	if got != want {
		t.Errorf("ModelToWorldEntity() = %+v, want %+v", got, want)
	}
}

func TestTileToScreenExtent_Size(t *testing.T) {
	camera := Camera{Zoom: 1.0, Width: 800, Height: 600}
	render := SpriteRenderData{Width: 64, Height: 96}
	rect := TileToScreenExtent(geometry.TilePosition{}, geometry.Vector3{}, render, camera)
	if rect.Width != 64 || rect.Height != 96 {
		t.Errorf("expected rect sized from render data, got %+v", rect)
	}
}
