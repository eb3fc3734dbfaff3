package tilemap

import (
	"testing"

	"github.com/opd-ai/isoforge/pkg/geometry"
)

func TestTerrainHeightPair_RoundTrip(t *testing.T) {
	pair := TerrainHeightPair{Start: 1, Total: 3}
	got := UnpackTerrainHeightPair(pair.Pack())
	if got != pair {
		t.Errorf("round trip = %+v, want %+v", got, pair)
	}
}

func TestTile_TerrainAndLayers(t *testing.T) {
	var tile Tile
	if _, ok := tile.Terrain(); ok {
		t.Fatal("expected no terrain on empty tile")
	}
	tile.SetTerrain(TileLayer{GraphicSetID: 7, GraphicValue: 0x02})
	terrain, ok := tile.Terrain()
	if !ok || terrain.GraphicSetID != 7 {
		t.Fatalf("expected terrain set, got %+v ok=%v", terrain, ok)
	}

	tile.AddWall(TileLayer{GraphicSetID: 3, GraphicValue: 1})
	tile.AddWall(TileLayer{GraphicSetID: 3, GraphicValue: 0})
	if got := len(tile.LayersOfType(LayerWall)); got != 2 {
		t.Errorf("expected 2 wall layers, got %d", got)
	}
}

func TestMap_GetAbsentChunk(t *testing.T) {
	m := NewMap(geometry.TileExtent{XLength: 100, YLength: 100, ZLength: 1})
	if _, ok := m.Get(geometry.TilePosition{X: 5, Y: 5, Z: 0}); ok {
		t.Fatal("expected absent chunk to report not-found")
	}
}

func TestMap_GetOrCreateRoundTrip(t *testing.T) {
	m := NewMap(geometry.TileExtent{XLength: 100, YLength: 100, ZLength: 1})
	tile := m.GetOrCreate(geometry.TilePosition{X: 20, Y: -5, Z: 0})
	tile.SetTerrain(TileLayer{GraphicSetID: 1})

	got, ok := m.Get(geometry.TilePosition{X: 20, Y: -5, Z: 0})
	if !ok {
		t.Fatal("expected tile to be found after GetOrCreate")
	}
	terrain, _ := got.Terrain()
	if terrain.GraphicSetID != 1 {
		t.Errorf("expected persisted terrain, got %+v", terrain)
	}
}

func TestMap_NegativeCoordinates(t *testing.T) {
	m := NewMap(geometry.TileExtent{})
	a := m.GetOrCreate(geometry.TilePosition{X: -1, Y: -1, Z: 0})
	a.SetTerrain(TileLayer{GraphicSetID: 42})

	b, ok := m.Get(geometry.TilePosition{X: -1, Y: -1, Z: 0})
	if !ok {
		t.Fatal("expected negative-coordinate tile to round-trip")
	}
	terrain, _ := b.Terrain()
	if terrain.GraphicSetID != 42 {
		t.Errorf("expected graphic set 42, got %d", terrain.GraphicSetID)
	}
}
