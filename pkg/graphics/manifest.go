package graphics

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/opd-ai/isoforge/pkg/geometry"
)

// No third-party JSON or configuration library appears anywhere in
// this engine's dependency tree, so the manifest parser is built on
// encoding/json directly rather than reaching for an external schema
// or config package.

type manifestRect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type manifestPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type manifestBounds struct {
	MinX float64 `json:"minX"`
	MaxX float64 `json:"maxX"`
	MinY float64 `json:"minY"`
	MaxY float64 `json:"maxY"`
	MinZ float64 `json:"minZ"`
	MaxZ float64 `json:"maxZ"`
}

func (b manifestBounds) toBoundingBox() geometry.BoundingBox {
	return geometry.BoundingBox{MinX: b.MinX, MaxX: b.MaxX, MinY: b.MinY, MaxY: b.MaxY, MinZ: b.MinZ, MaxZ: b.MaxZ}
}

type manifestSprite struct {
	DisplayName       string          `json:"displayName"`
	StringID          string          `json:"stringID"`
	NumericID         uint32          `json:"numericID"`
	TextureExtent     manifestRect    `json:"textureExtent"`
	StageOrigin       manifestPoint   `json:"stageOrigin"`
	CollisionEnabled  bool            `json:"collisionEnabled"`
	ModelBoundsID     *uint32         `json:"modelBoundsID,omitempty"`
	CustomModelBounds *manifestBounds `json:"customModelBounds,omitempty"`
	PremultiplyAlpha  bool            `json:"premultiplyAlpha"`
}

type manifestSpriteSheet struct {
	DisplayName string           `json:"displayName"`
	RelPath     string           `json:"relPath"`
	Sprites     []manifestSprite `json:"sprites"`
}

type manifestAnimationFrame struct {
	FrameNumber int    `json:"frameNumber"`
	SpriteID    uint32 `json:"spriteID"`
}

type manifestAnimation struct {
	DisplayName       string                   `json:"displayName"`
	StringID          string                   `json:"stringID"`
	NumericID         uint32                   `json:"numericID"`
	FPS               float64                  `json:"fps"`
	FrameCount        int                      `json:"frameCount"`
	Frames            []manifestAnimationFrame `json:"frames"`
	ModelBoundsID     *uint32                  `json:"modelBoundsID,omitempty"`
	CustomModelBounds *manifestBounds          `json:"customModelBounds,omitempty"`
}

type manifestBoundingBox struct {
	DisplayName string         `json:"displayName"`
	NumericID   uint32         `json:"numericID"`
	ModelBounds manifestBounds `json:"modelBounds"`
}

type manifestGraphicSet struct {
	DisplayName      string   `json:"displayName"`
	StringID         string   `json:"stringID"`
	NumericID        uint32   `json:"numericID"`
	GraphicIDs       []uint32 `json:"graphicIDs"`
	GraphicIDTypes   []int    `json:"graphicIDTypes,omitempty"`
	GraphicIDValues  []uint32 `json:"graphicIDValues,omitempty"`
}

// Manifest mirrors the top-level shape of ResourceData.json.
type Manifest struct {
	SpriteSheets  []manifestSpriteSheet `json:"spriteSheets"`
	Animations    []manifestAnimation   `json:"animations"`
	BoundingBoxes []manifestBoundingBox `json:"boundingBoxes"`
	Terrain       []manifestGraphicSet  `json:"terrain"`
	Floors        []manifestGraphicSet  `json:"floors"`
	Walls         []manifestGraphicSet  `json:"walls"`
	Objects       []manifestGraphicSet  `json:"objects"`
	Entities      []manifestGraphicSet  `json:"entities"`
	IconSheets    []manifestSpriteSheet `json:"iconSheets"`
}

// LoadManifest parses a ResourceData.json document from r and
// populates a new GraphicData registry. Malformed documents are a
// configuration error and are returned for the caller to treat as
// fatal at startup, per the registry's error-handling contract.
func LoadManifest(r io.Reader) (*GraphicData, error) {
	var manifest Manifest
	if err := json.NewDecoder(r).Decode(&manifest); err != nil {
		return nil, fmt.Errorf("graphics: decode manifest: %w", err)
	}
	return BuildRegistry(manifest)
}

// BuildRegistry constructs a GraphicData from an already-parsed
// manifest, validating the invariants the registry relies on (every
// entity set must define IdleSouth).
func BuildRegistry(manifest Manifest) (*GraphicData, error) {
	data := NewGraphicData()

	for _, box := range manifest.BoundingBoxes {
		data.AddBoundingBox(box.NumericID, box.ModelBounds.toBoundingBox())
	}

	for _, sheet := range manifest.SpriteSheets {
		for _, sp := range sheet.Sprites {
			bounds, err := resolveSpriteBounds(data, sp)
			if err != nil {
				return nil, err
			}
			data.AddSprite(Sprite{
				NumericID:   sp.NumericID,
				StringID:    sp.StringID,
				DisplayName: sp.DisplayName,
				TextureID:   sheet.RelPath,
				TextureExtent: geometry.FloatRect{
					X: sp.TextureExtent.X, Y: sp.TextureExtent.Y,
					Width: sp.TextureExtent.W, Height: sp.TextureExtent.H,
				},
				StageOrigin:      geometry.Vector3{X: sp.StageOrigin.X, Y: sp.StageOrigin.Y},
				CollisionEnabled: sp.CollisionEnabled,
				ModelBounds:      bounds,
				PremultiplyAlpha: sp.PremultiplyAlpha,
			})
		}
	}

	for _, anim := range manifest.Animations {
		bounds, err := resolveAnimationBounds(data, anim)
		if err != nil {
			return nil, err
		}
		frames := make([]AnimationFrame, len(anim.Frames))
		for i, f := range anim.Frames {
			frames[i] = AnimationFrame{FrameNumber: f.FrameNumber, SpriteID: f.SpriteID}
		}
		data.AddAnimation(Animation{
			NumericID:   anim.NumericID,
			StringID:    anim.StringID,
			DisplayName: anim.DisplayName,
			FPS:         anim.FPS,
			FrameCount:  anim.FrameCount,
			Frames:      frames,
			ModelBounds: bounds,
		})
	}

	for _, set := range manifest.Terrain {
		var ts TerrainSet
		ts.NumericID, ts.StringID, ts.DisplayName = set.NumericID, set.StringID, set.DisplayName
		for i := 0; i < len(set.GraphicIDs) && i < int(TerrainHeightCount); i++ {
			ts.Graphics[i] = GraphicID(set.GraphicIDs[i])
		}
		data.AddTerrainSet(ts)
	}
	for _, set := range manifest.Floors {
		var fs FloorSet
		fs.NumericID, fs.StringID, fs.DisplayName = set.NumericID, set.StringID, set.DisplayName
		for i := 0; i < len(set.GraphicIDs) && i < int(DirectionCount); i++ {
			fs.Graphics[i] = GraphicID(set.GraphicIDs[i])
		}
		data.AddFloorSet(fs)
	}
	for _, set := range manifest.Walls {
		var ws WallSet
		ws.NumericID, ws.StringID, ws.DisplayName = set.NumericID, set.StringID, set.DisplayName
		for i := 0; i < len(set.GraphicIDs) && i < int(WallTypeCount); i++ {
			ws.Graphics[i] = GraphicID(set.GraphicIDs[i])
		}
		data.AddWallSet(ws)
	}
	for _, set := range manifest.Objects {
		var os_ ObjectSet
		os_.NumericID, os_.StringID, os_.DisplayName = set.NumericID, set.StringID, set.DisplayName
		for i := 0; i < len(set.GraphicIDs) && i < int(DirectionCount); i++ {
			os_.Graphics[i] = GraphicID(set.GraphicIDs[i])
		}
		data.AddObjectSet(os_)
	}

	for _, set := range manifest.Entities {
		entitySet := NewEntityGraphicSet(set.NumericID, set.StringID, set.DisplayName)
		if len(set.GraphicIDTypes) != len(set.GraphicIDValues) {
			return nil, fmt.Errorf("graphics: entity set %d: graphicIDTypes/graphicIDValues length mismatch", set.NumericID)
		}
		// graphicIDTypes/graphicIDValues are parallel arrays mapping
		// each authored entity-graphic-type directly to a graphic id.
		for i, graphicType := range set.GraphicIDTypes {
			entitySet.Set(EntityGraphicType(graphicType), GraphicID(set.GraphicIDValues[i]))
		}
		if !entitySet.Has(GraphicTypeIdleSouth) {
			return nil, fmt.Errorf("graphics: entity set %d missing required IdleSouth graphic", set.NumericID)
		}
		data.AddEntitySet(entitySet)
	}

	return data, nil
}

func resolveSpriteBounds(data *GraphicData, sp manifestSprite) (geometry.BoundingBox, error) {
	if sp.CustomModelBounds != nil {
		return sp.CustomModelBounds.toBoundingBox(), nil
	}
	if sp.ModelBoundsID != nil {
		box, ok := data.BoundingBoxByID(*sp.ModelBoundsID)
		if !ok {
			return geometry.BoundingBox{}, fmt.Errorf("graphics: sprite %d references unknown bounding box %d", sp.NumericID, *sp.ModelBoundsID)
		}
		return box, nil
	}
	return geometry.BoundingBox{}, nil
}

func resolveAnimationBounds(data *GraphicData, anim manifestAnimation) (geometry.BoundingBox, error) {
	if anim.CustomModelBounds != nil {
		return anim.CustomModelBounds.toBoundingBox(), nil
	}
	if anim.ModelBoundsID != nil {
		box, ok := data.BoundingBoxByID(*anim.ModelBoundsID)
		if !ok {
			return geometry.BoundingBox{}, fmt.Errorf("graphics: animation %d references unknown bounding box %d", anim.NumericID, *anim.ModelBoundsID)
		}
		return box, nil
	}
	return geometry.BoundingBox{}, nil
}
