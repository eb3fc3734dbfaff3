// Package tilemap implements the tile grid: layers, tiles, chunks,
// and the chunked 3D map the sprite sorter walks each frame.
package tilemap

import (
	"github.com/opd-ai/isoforge/pkg/geometry"
	"github.com/opd-ai/isoforge/pkg/graphics"
)

// LayerType discriminates the four tile layer variants.
type LayerType int

const (
	LayerTerrain LayerType = iota
	LayerFloor
	LayerWall
	LayerObject
)

// TerrainHeightPair packs a terrain layer's (startHeight, totalHeight)
// into a single byte: 2 bits for start height in the low nibble, 2
// bits for total height in the next, each a graphics.TerrainHeight
// value (0-3). This bit layout is not recoverable from the filtered
// source and is an invented-but-documented scheme; see DESIGN.md.
type TerrainHeightPair struct {
	Start graphics.TerrainHeight
	Total graphics.TerrainHeight
}

// Pack encodes the pair into a single byte.
func (p TerrainHeightPair) Pack() byte {
	return byte(p.Start&0x03) | byte((p.Total&0x03)<<2)
}

// UnpackTerrainHeightPair decodes a byte produced by Pack.
func UnpackTerrainHeightPair(value byte) TerrainHeightPair {
	return TerrainHeightPair{
		Start: graphics.TerrainHeight(value & 0x03),
		Total: graphics.TerrainHeight((value >> 2) & 0x03),
	}
}

// TileLayer is one placed graphic on a tile. Its GraphicValue's
// meaning depends on Type: a packed TerrainHeightPair for Terrain, a
// graphics.WallType for Wall, or a graphics.Direction index for Floor
// and Object. Offset is only meaningful for Floor and Object layers.
type TileLayer struct {
	Type         LayerType
	GraphicSetID uint32
	GraphicValue byte
	Offset       geometry.Vector3
}

// TileLayerID is the minimum tuple that uniquely identifies a placed
// layer, used for hit-testing and color-mod/phantom keying.
type TileLayerID struct {
	Position     geometry.TilePosition
	Offset       geometry.Vector3
	Type         LayerType
	GraphicSetID uint32
	GraphicValue byte
}

// ID returns the identifying tuple for layer at pos.
func (l TileLayer) ID(pos geometry.TilePosition) TileLayerID {
	return TileLayerID{
		Position:     pos,
		Offset:       l.Offset,
		Type:         l.Type,
		GraphicSetID: l.GraphicSetID,
		GraphicValue: l.GraphicValue,
	}
}

// Tile owns up to one Terrain layer and any number of Floor, Wall,
// and Object layers.
type Tile struct {
	terrain *TileLayer
	floors  []TileLayer
	walls   []TileLayer
	objects []TileLayer
}

// SetTerrain replaces the tile's terrain layer.
func (t *Tile) SetTerrain(layer TileLayer) {
	layer.Type = LayerTerrain
	t.terrain = &layer
}

// AddFloor appends a floor layer.
func (t *Tile) AddFloor(layer TileLayer) {
	layer.Type = LayerFloor
	t.floors = append(t.floors, layer)
}

// AddWall appends a wall layer.
func (t *Tile) AddWall(layer TileLayer) {
	layer.Type = LayerWall
	t.walls = append(t.walls, layer)
}

// AddObject appends an object layer.
func (t *Tile) AddObject(layer TileLayer) {
	layer.Type = LayerObject
	t.objects = append(t.objects, layer)
}

// Terrain returns the tile's terrain layer, if any.
func (t *Tile) Terrain() (TileLayer, bool) {
	if t.terrain == nil {
		return TileLayer{}, false
	}
	return *t.terrain, true
}

// Floors returns the tile's floor layers.
func (t *Tile) Floors() []TileLayer { return t.floors }

// Walls returns the tile's wall layers.
func (t *Tile) Walls() []TileLayer { return t.walls }

// Objects returns the tile's object layers.
func (t *Tile) Objects() []TileLayer { return t.objects }

// LayersOfType returns every layer of the given type on this tile.
func (t *Tile) LayersOfType(layerType LayerType) []TileLayer {
	switch layerType {
	case LayerTerrain:
		if t.terrain == nil {
			return nil
		}
		return []TileLayer{*t.terrain}
	case LayerFloor:
		return t.floors
	case LayerWall:
		return t.walls
	case LayerObject:
		return t.objects
	default:
		return nil
	}
}

// IsEmpty reports whether the tile has no layers at all.
func (t *Tile) IsEmpty() bool {
	return t.terrain == nil && len(t.floors) == 0 && len(t.walls) == 0 && len(t.objects) == 0
}
