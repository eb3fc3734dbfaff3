package tilemap

import (
	"github.com/opd-ai/isoforge/pkg/geometry"
	"github.com/opd-ai/isoforge/pkg/graphics"
	"github.com/opd-ai/isoforge/pkg/transforms"
)

// HeightWorldValue converts a terrain height step into world units.
// Full height spans one tile width; the intermediate steps divide it
// into thirds. The exact constant isn't recoverable from the filtered
// source; this is an invented-but-documented scheme (see DESIGN.md).
func HeightWorldValue(h graphics.TerrainHeight) float64 {
	return float64(h) * (transforms.TileWorldWidth / 3.0)
}

// FloorWorldBounds returns the flat, tile-sized bounding volume for a
// floor layer at pos: a zero-height square at the tile's origin.
func FloorWorldBounds(pos geometry.TilePosition) geometry.BoundingBox {
	origin := tileOrigin(pos)
	return geometry.BoundingBox{
		MinX: origin.X, MaxX: origin.X + transforms.TileWorldWidth,
		MinY: origin.Y, MaxY: origin.Y + transforms.TileWorldWidth,
		MinZ: origin.Z, MaxZ: origin.Z,
	}
}

// TerrainWorldBounds returns the deterministic bounding volume for a
// terrain layer given its packed (start, total) height pair: a
// tile-sized footprint spanning from the start height's world value to
// start+total, matching the visual offset pushTileSprite applies for
// non-zero start heights.
func TerrainWorldBounds(pos geometry.TilePosition, packedValue byte) geometry.BoundingBox {
	pair := UnpackTerrainHeightPair(packedValue)
	origin := tileOrigin(pos)
	minZ := origin.Z + HeightWorldValue(pair.Start)
	maxZ := minZ + HeightWorldValue(pair.Total)
	return geometry.BoundingBox{
		MinX: origin.X, MaxX: origin.X + transforms.TileWorldWidth,
		MinY: origin.Y, MaxY: origin.Y + transforms.TileWorldWidth,
		MinZ: minZ, MaxZ: maxZ,
	}
}

func tileOrigin(pos geometry.TilePosition) geometry.Vector3 {
	return geometry.Vector3{
		X: float64(pos.X) * transforms.TileWorldWidth,
		Y: float64(pos.Y) * transforms.TileWorldWidth,
		Z: float64(pos.Z) * transforms.TileWorldWidth,
	}
}
