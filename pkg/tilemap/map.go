package tilemap

import "github.com/opd-ai/isoforge/pkg/geometry"

// ChunkWidth is the number of tiles along a chunk's X and Y axes.
const ChunkWidth = 16

// ChunkHeight is the number of tiles along a chunk's Z axis.
const ChunkHeight = 1

// Chunk is a ChunkWidth x ChunkWidth x ChunkHeight block of tiles,
// the unit of map storage. Unpopulated tiles within an allocated
// chunk are the zero Tile (empty).
type Chunk struct {
	tiles [ChunkWidth * ChunkWidth * ChunkHeight]Tile
}

func (c *Chunk) index(localX, localY, localZ int) int {
	return (localZ*ChunkWidth+localY)*ChunkWidth + localX
}

func (c *Chunk) tile(localX, localY, localZ int) *Tile {
	return &c.tiles[c.index(localX, localY, localZ)]
}

// ChunkPosition addresses a chunk within the map's chunk grid.
type ChunkPosition struct {
	X int
	Y int
	Z int
}

// Map is a 3D grid of chunks, sparse in chunk space: chunks are
// allocated on first write and absent chunks report every contained
// tile as empty.
type Map struct {
	chunks map[ChunkPosition]*Chunk
	extent geometry.TileExtent
}

// NewMap builds an empty map covering extent in tile coordinates.
// extent is advisory (used by TileExtent and camera culling); chunks
// outside it may still be allocated and read.
func NewMap(extent geometry.TileExtent) *Map {
	return &Map{
		chunks: make(map[ChunkPosition]*Chunk),
		extent: extent,
	}
}

// TileExtent returns the map's nominal tile-space bounds.
func (m *Map) TileExtent() geometry.TileExtent {
	return m.extent
}

func tileToChunk(pos geometry.TilePosition) (chunkPos ChunkPosition, local [3]int) {
	chunkX, localX := floorDiv(pos.X, ChunkWidth)
	chunkY, localY := floorDiv(pos.Y, ChunkWidth)
	chunkZ, localZ := floorDiv(pos.Z, ChunkHeight)
	return ChunkPosition{X: chunkX, Y: chunkY, Z: chunkZ}, [3]int{localX, localY, localZ}
}

func floorDiv(a, b int) (quotient, remainder int) {
	quotient = a / b
	remainder = a % b
	if remainder < 0 {
		remainder += b
		quotient--
	}
	return quotient, remainder
}

// Get returns the tile at pos, or (nil, false) when its chunk has
// never been allocated.
func (m *Map) Get(pos geometry.TilePosition) (*Tile, bool) {
	chunkPos, local := tileToChunk(pos)
	chunk, ok := m.chunks[chunkPos]
	if !ok {
		return nil, false
	}
	return chunk.tile(local[0], local[1], local[2]), true
}

// GetOrCreate returns the tile at pos, allocating its chunk if needed.
func (m *Map) GetOrCreate(pos geometry.TilePosition) *Tile {
	chunkPos, local := tileToChunk(pos)
	chunk, ok := m.chunks[chunkPos]
	if !ok {
		chunk = &Chunk{}
		m.chunks[chunkPos] = chunk
	}
	return chunk.tile(local[0], local[1], local[2])
}

// TerrainHeightAt returns the world-Z height of pos's terrain layer
// (its total height, converted to world units), or 0 if the tile has
// no terrain. The sorter places walls at this height regardless of
// their own authored offset.
func (m *Map) TerrainHeightAt(pos geometry.TilePosition) float64 {
	tile, ok := m.Get(pos)
	if !ok {
		return 0
	}
	terrain, ok := tile.Terrain()
	if !ok {
		return 0
	}
	return HeightWorldValue(UnpackTerrainHeightPair(terrain.GraphicValue).Total)
}
