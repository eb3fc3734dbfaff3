package sorter

import (
	"sort"

	"github.com/opd-ai/isoforge/pkg/camera"
	"github.com/opd-ai/isoforge/pkg/entity"
	"github.com/opd-ai/isoforge/pkg/geometry"
	"github.com/opd-ai/isoforge/pkg/graphics"
	"github.com/opd-ai/isoforge/pkg/logging"
	"github.com/opd-ai/isoforge/pkg/tilemap"
	"github.com/opd-ai/isoforge/pkg/transforms"
	"github.com/sirupsen/logrus"
)

// Sorter gathers every drawable piece of a frame, screen-places it
// against a camera, and orders it back-to-front via a topological
// depth sort. A Sorter is reused across frames; Sort clears and
// rebuilds its buffers each call rather than reallocating them.
type Sorter struct {
	tileMap     TileMapLookup
	graphics    GraphicLookup
	entities    EntityStore
	avEntities  AVEntityStore
	phantoms    PhantomSource
	log         *logrus.Entry
	frameNumber uint64

	sprites              []SpriteSortInfo
	effects              []VisualEffectRenderInfo
	effectRanges         []entityEffectRange
	leftoverTilePhantoms []entity.Phantom
}

// New builds a Sorter backed by the given collaborators.
func New(tileMap TileMapLookup, graphicLookup GraphicLookup, entities EntityStore, avEntities AVEntityStore, phantoms PhantomSource, logger *logrus.Logger) *Sorter {
	return &Sorter{
		tileMap:    tileMap,
		graphics:   graphicLookup,
		entities:   entities,
		avEntities: avEntities,
		phantoms:   phantoms,
		log:        logging.SorterLogger(logger, 0),
	}
}

// Sort rebuilds the sorted sprite list and visual effect buffers for
// one render frame. cam is the already-lerped camera for this frame;
// currentTime is the global animation clock used to keep tile
// animations in sync and to seed newly-visible entity/effect
// animations. alpha is the sub-tick interpolation factor applied to
// entity and A/V entity positions, matching the camera's own lerp.
func (s *Sorter) Sort(cam transforms.Camera, alpha, currentTime float64) {
	s.frameNumber++
	s.log = s.log.WithField("frame", s.frameNumber)

	s.sprites = s.sprites[:0]
	s.effects = s.effects[:0]
	s.effectRanges = s.effectRanges[:0]

	viewExtent, ok := camera.TileViewExtent(cam, s.tileMap.TileExtent())
	if ok {
		s.gatherTiles(viewExtent, cam, currentTime)
	}
	s.gatherEntities(cam, alpha, currentTime)
	s.gatherAVEntities(cam, alpha, currentTime)
	s.gatherLeftoverPhantoms(cam, currentTime)

	s.computeDepthOrder()
}

// GetSortedSprites returns this frame's sprites in back-to-front
// draw order.
func (s *Sorter) GetSortedSprites() []SpriteSortInfo {
	return s.sprites
}

// GetEntityVisualEffects returns the visual effect sprites gathered
// for entityID this frame, or nil if it has none.
func (s *Sorter) GetEntityVisualEffects(entityID entity.ID) []VisualEffectRenderInfo {
	for _, r := range s.effectRanges {
		if r.entityID == entityID {
			return s.effects[r.startIndex : r.startIndex+r.count]
		}
	}
	return nil
}

// --- tile gathering ---

func (s *Sorter) gatherTiles(view geometry.TileExtent, cam transforms.Camera, currentTime float64) {
	pending := append([]entity.Phantom(nil), s.phantoms.Phantoms()...)
	colorMods := append([]entity.ColorModEntry(nil), s.phantoms.ColorMods()...)

	for x := view.X; x < view.X+view.XLength; x++ {
		for y := view.Y; y < view.Y+view.YLength; y++ {
			for z := view.Z; z < view.Z+view.ZLength; z++ {
				pos := geometry.TilePosition{X: x, Y: y, Z: z}
				tile, ok := s.tileMap.Get(pos)
				if !ok {
					continue
				}
				pending = s.gatherTile(pos, tile, pending, &colorMods, cam, currentTime)
			}
		}
	}

	s.leftoverTilePhantoms = pending
}

func (s *Sorter) gatherTile(pos geometry.TilePosition, tile *tilemap.Tile, pending []entity.Phantom, colorMods *[]entity.ColorModEntry, cam transforms.Camera, currentTime float64) []entity.Phantom {
	if terrain, ok := tile.Terrain(); ok {
		phantom, rest := consumePhantom(pending, entity.PhantomTerrain, pos, terrain, false)
		pending = rest
		s.pushTileSprite(pos, terrain, phantom, colorMods, cam, currentTime)
	}
	for _, floor := range tile.Floors() {
		phantom, rest := consumePhantom(pending, entity.PhantomFloor, pos, floor, false)
		pending = rest
		s.pushTileSprite(pos, floor, phantom, colorMods, cam, currentTime)
	}
	for _, wall := range tile.Walls() {
		phantom, rest := consumePhantom(pending, entity.PhantomWall, pos, wall, true)
		pending = rest
		s.pushTileSprite(pos, wall, phantom, colorMods, cam, currentTime)
	}
	for _, object := range tile.Objects() {
		phantom, rest := consumePhantom(pending, entity.PhantomObject, pos, object, false)
		pending = rest
		s.pushTileSprite(pos, object, phantom, colorMods, cam, currentTime)
	}
	return pending
}

// consumePhantom looks for a phantom at pos matching layerType and,
// for walls, matches gap-fill phantoms against the authored wall type
// as well as an exact type match. The first match is removed from
// pending and returned; callers always get the (possibly unmodified)
// remaining slice back.
func consumePhantom(pending []entity.Phantom, layerType entity.PhantomLayerType, pos geometry.TilePosition, layer tilemap.TileLayer, isWall bool) (*entity.Phantom, []entity.Phantom) {
	for i, p := range pending {
		if p.LayerType != layerType || p.TilePosition != pos {
			continue
		}
		if isWall && !matchesWallPhantom(graphics.WallType(layer.GraphicValue), graphics.WallType(p.GraphicValue)) {
			continue
		}
		match := p
		rest := append(append([]entity.Phantom(nil), pending[:i]...), pending[i+1:]...)
		return &match, rest
	}
	return nil, pending
}

// matchesWallPhantom implements the wall gap-fill substitution rules:
// a North wall may be previewed by a NorthEastGapFill phantom, a
// NorthWestGapFill wall by a West or North phantom, and any wall type
// matches a phantom of the same type.
func matchesWallPhantom(existing, phantom graphics.WallType) bool {
	if existing == phantom {
		return true
	}
	switch existing {
	case graphics.WallNorth:
		return phantom == graphics.WallNorthEastGapFill
	case graphics.WallNorthWestGapFill:
		return phantom == graphics.WallWest || phantom == graphics.WallNorth
	default:
		return false
	}
}

func (s *Sorter) pushTileSprite(pos geometry.TilePosition, layer tilemap.TileLayer, phantom *entity.Phantom, colorMods *[]entity.ColorModEntry, cam transforms.Camera, currentTime float64) {
	graphicSetID := layer.GraphicSetID
	graphicValue := layer.GraphicValue
	offset := layer.Offset
	if phantom != nil {
		graphicSetID = phantom.GraphicSetID
		graphicValue = phantom.GraphicValue
		offset = phantom.TileOffset
	}
	if layer.Type == tilemap.LayerWall {
		offset = geometry.Vector3{Z: s.tileMap.TerrainHeightAt(pos)}
	}

	graphicID, err := s.resolveTileGraphicID(layer.Type, graphicSetID, graphicValue)
	if err != nil || graphicID == graphics.NullGraphicID {
		return
	}
	ref, err := s.graphics.GetGraphic(graphicID)
	if err != nil {
		return
	}
	sprite, ok := ref.SpriteAtTime(s.graphics, currentTime)
	if !ok {
		return
	}
	renderData, err := s.graphics.GetSpriteRenderData(sprite.NumericID)
	if err != nil {
		return
	}

	tileOffset := offset
	if layer.Type == tilemap.LayerTerrain {
		pair := tilemap.UnpackTerrainHeightPair(graphicValue)
		tileOffset = geometry.Vector3{Z: tilemap.HeightWorldValue(pair.Start)}
	}

	screenExtent := transforms.TileToScreenExtent(pos, tileOffset, renderData.RenderData(), cam)
	if !screenExtent.Intersects(cam.ScreenRect()) {
		return
	}

	worldBounds := s.tileWorldBounds(pos, layer, graphicValue, offset)
	if layer.Type == tilemap.LayerWall {
		worldBounds = addOffset(worldBounds, offset)
	}

	var objectID entity.WorldObjectID
	if phantom != nil {
		objectID = entity.NoneWorldObjectID()
	} else {
		objectID = entity.TileLayerWorldObjectID(layer.ID(pos))
	}

	s.sprites = append(s.sprites, SpriteSortInfo{
		Sprite:        sprite,
		WorldObjectID: objectID,
		WorldBounds:   worldBounds,
		ScreenExtent:  screenExtent,
		ColorMod:      resolveColorMod(colorMods, objectID),
	})
}

func (s *Sorter) resolveTileGraphicID(layerType tilemap.LayerType, setID uint32, value byte) (graphics.GraphicID, error) {
	switch layerType {
	case tilemap.LayerTerrain:
		set, err := s.graphics.GetTerrainSet(setID)
		if err != nil {
			return graphics.NullGraphicID, err
		}
		return set.Get(tilemap.UnpackTerrainHeightPair(value).Total), nil
	case tilemap.LayerFloor:
		set, err := s.graphics.GetFloorSet(setID)
		if err != nil {
			return graphics.NullGraphicID, err
		}
		return set.Get(graphics.Direction(value)), nil
	case tilemap.LayerWall:
		set, err := s.graphics.GetWallSet(setID)
		if err != nil {
			return graphics.NullGraphicID, err
		}
		return set.Get(graphics.WallType(value)), nil
	default:
		set, err := s.graphics.GetObjectSet(setID)
		if err != nil {
			return graphics.NullGraphicID, err
		}
		return set.Get(graphics.Direction(value)), nil
	}
}

func (s *Sorter) tileWorldBounds(pos geometry.TilePosition, layer tilemap.TileLayer, graphicValue byte, offset geometry.Vector3) geometry.BoundingBox {
	switch layer.Type {
	case tilemap.LayerTerrain:
		return tilemap.TerrainWorldBounds(pos, graphicValue)
	case tilemap.LayerFloor:
		return addOffset(tilemap.FloorWorldBounds(pos), offset)
	case tilemap.LayerWall:
		id, err := s.resolveTileGraphicID(tilemap.LayerWall, layer.GraphicSetID, graphicValue)
		if err != nil {
			return transforms.ModelToWorldTile(geometry.BoundingBox{}, pos)
		}
		ref, err := s.graphics.GetGraphic(id)
		if err != nil {
			return transforms.ModelToWorldTile(geometry.BoundingBox{}, pos)
		}
		return transforms.ModelToWorldTile(ref.ModelBounds(), pos)
	default:
		id, err := s.resolveTileGraphicID(tilemap.LayerObject, layer.GraphicSetID, graphicValue)
		if err != nil {
			return transforms.ModelToWorldTile(geometry.BoundingBox{}, pos)
		}
		ref, err := s.graphics.GetGraphic(id)
		if err != nil {
			return transforms.ModelToWorldTile(geometry.BoundingBox{}, pos)
		}
		return addOffset(transforms.ModelToWorldTile(ref.ModelBounds(), pos), offset)
	}
}

func addOffset(b geometry.BoundingBox, offset geometry.Vector3) geometry.BoundingBox {
	return geometry.BoundingBox{
		MinX: b.MinX + offset.X, MaxX: b.MaxX + offset.X,
		MinY: b.MinY + offset.Y, MaxY: b.MaxY + offset.Y,
		MinZ: b.MinZ + offset.Z, MaxZ: b.MaxZ + offset.Z,
	}
}

func resolveColorMod(pending *[]entity.ColorModEntry, target entity.WorldObjectID) entity.ColorMod {
	if target.Kind() == entity.WorldObjectNone {
		return entity.DefaultColorMod
	}
	for i, c := range *pending {
		if c.Target.Equals(target) {
			*pending = append((*pending)[:i], (*pending)[i+1:]...)
			return c.ColorMod
		}
	}
	return entity.DefaultColorMod
}

// --- leftover phantom sweep ---

// gatherLeftoverPhantoms handles phantoms gatherTiles never matched:
// tile-backed phantoms rendered as one-off overlays plus standalone
// entity-like phantoms (LayerType == PhantomNone).
func (s *Sorter) gatherLeftoverPhantoms(cam transforms.Camera, currentTime float64) {
	remaining := s.leftoverTilePhantoms
	colorMods := []entity.ColorModEntry{}
	for _, p := range remaining {
		if p.LayerType == entity.PhantomNone {
			s.pushEntityPhantom(p, cam, currentTime)
			continue
		}
		layer := tilemap.TileLayer{
			Type:         phantomLayerType(p.LayerType),
			GraphicSetID: p.GraphicSetID,
			GraphicValue: p.GraphicValue,
			Offset:       p.TileOffset,
		}
		s.pushTileSprite(p.TilePosition, layer, &p, &colorMods, cam, currentTime)
	}
	s.leftoverTilePhantoms = nil
}

func phantomLayerType(t entity.PhantomLayerType) tilemap.LayerType {
	switch t {
	case entity.PhantomFloor:
		return tilemap.LayerFloor
	case entity.PhantomWall:
		return tilemap.LayerWall
	case entity.PhantomObject:
		return tilemap.LayerObject
	default:
		return tilemap.LayerTerrain
	}
}

func (s *Sorter) pushEntityPhantom(p entity.Phantom, cam transforms.Camera, currentTime float64) {
	set, err := s.graphics.GetEntityGraphicSet(p.GraphicSetID)
	if err != nil {
		return
	}
	graphicType := graphics.EntityGraphicType(p.GraphicValue)
	if !set.Has(graphicType) {
		graphicType = graphics.GraphicTypeIdleSouth
	}
	ref, err := s.graphics.GetGraphic(set.Get(graphicType))
	if err != nil {
		return
	}
	sprite, ok := ref.SpriteAtTime(s.graphics, currentTime)
	if !ok {
		return
	}
	renderData, err := s.graphics.GetSpriteRenderData(sprite.NumericID)
	if err != nil {
		return
	}
	alignment, _ := s.graphics.GetRenderAlignmentOffset(p.GraphicSetID, graphicType, p.Direction)
	collisionBounds := set.CollisionModelBounds(s.graphics)
	bottomCenter := geometry.Vector3{
		X: (collisionBounds.MinX + collisionBounds.MaxX) / 2,
		Y: (collisionBounds.MinY + collisionBounds.MaxY) / 2,
		Z: collisionBounds.MinZ,
	}

	screenExtent := transforms.EntityToScreenExtent(p.Position, bottomCenter, alignment, renderData.RenderData(), cam)
	if !screenExtent.Intersects(cam.ScreenRect()) {
		return
	}

	s.sprites = append(s.sprites, SpriteSortInfo{
		Sprite:        sprite,
		WorldObjectID: entity.NoneWorldObjectID(),
		WorldBounds:   transforms.ModelToWorldEntity(collisionBounds, p.Position),
		ScreenExtent:  screenExtent,
		ColorMod:      entity.DefaultColorMod,
	})
}

// --- entity gathering ---

func (s *Sorter) gatherEntities(cam transforms.Camera, alpha, currentTime float64) {
	colorMods := append([]entity.ColorModEntry(nil), s.phantoms.ColorMods()...)
	for _, e := range s.entities.AllEntities() {
		renderPos := e.RenderPosition(alpha)
		s.pushEntitySprite(e, renderPos, cam, currentTime, &colorMods)
		s.gatherEntityVisualEffects(e, renderPos, cam, currentTime)
	}
}

func (s *Sorter) pushEntitySprite(e *entity.Entity, renderPos geometry.Vector3, cam transforms.Camera, currentTime float64, colorMods *[]entity.ColorModEntry) {
	set, err := s.graphics.GetEntityGraphicSet(e.GraphicSetID)
	if err != nil {
		return
	}
	graphicType := e.ClientGraphicState.CurrentGraphicType
	if !set.Has(graphicType) {
		graphicType = graphics.GraphicTypeIdleSouth
	}
	ref, err := s.graphics.GetGraphic(set.Get(graphicType))
	if err != nil {
		return
	}
	if e.ClientGraphicState.SetStartTime {
		e.ClientGraphicState.AnimationStartTime = currentTime
		e.ClientGraphicState.SetStartTime = false
	}
	animTime := currentTime - e.ClientGraphicState.AnimationStartTime
	sprite, ok := ref.SpriteAtTime(s.graphics, animTime)
	if !ok {
		return
	}
	renderData, err := s.graphics.GetSpriteRenderData(sprite.NumericID)
	if err != nil {
		return
	}
	alignment, _ := s.graphics.GetRenderAlignmentOffset(e.GraphicSetID, graphicType, e.ClientGraphicState.CurrentDirection)

	screenExtent := transforms.EntityToScreenExtent(renderPos, e.CollisionBottomCenter, alignment, renderData.RenderData(), cam)
	if !screenExtent.Intersects(cam.ScreenRect()) {
		return
	}

	objectID := entity.EntityWorldObjectID(e.ID)
	s.sprites = append(s.sprites, SpriteSortInfo{
		Sprite:        sprite,
		WorldObjectID: objectID,
		WorldBounds:   transforms.ModelToWorldEntity(e.CollisionModelBounds, renderPos),
		ScreenExtent:  screenExtent,
		ColorMod:      resolveColorMod(colorMods, objectID),
	})
}

func (s *Sorter) gatherEntityVisualEffects(e *entity.Entity, renderPos geometry.Vector3, cam transforms.Camera, currentTime float64) {
	start := len(s.effects)
	for i := range e.AVEffects {
		effect := &e.AVEffects[i]
		if effect.StartTime == 0 {
			effect.StartTime = currentTime
		}
		animTime := currentTime - effect.StartTime
		ref, err := s.graphics.GetGraphic(effect.Definition.GraphicID)
		if err != nil {
			continue
		}
		sprite, ok := ref.SpriteAtTime(s.graphics, animTime)
		if !ok {
			continue
		}
		renderData, err := s.graphics.GetSpriteRenderData(sprite.NumericID)
		if err != nil {
			continue
		}
		screenExtent := transforms.EntityToScreenExtent(renderPos, e.CollisionBottomCenter, geometry.Vector3{}, renderData.RenderData(), cam)
		s.effects = append(s.effects, VisualEffectRenderInfo{
			SpriteNumericID: sprite.NumericID,
			ScreenExtent:    screenExtent,
		})
	}
	if count := len(s.effects) - start; count > 0 {
		s.effectRanges = append(s.effectRanges, entityEffectRange{entityID: e.ID, startIndex: start, count: count})
	}
}

// --- A/V entity gathering ---

func (s *Sorter) gatherAVEntities(cam transforms.Camera, alpha, currentTime float64) {
	for _, av := range s.avEntities.AllAVEntities() {
		if av.State.SetStartTime {
			av.State.PhaseStartTime = currentTime
			av.State.SetStartTime = false
		}
		renderPos := geometry.LerpVector3(av.PreviousPosition, av.Position, alpha)
		s.pushAVEntitySprite(av, renderPos, cam, currentTime)
	}
}

func (s *Sorter) pushAVEntitySprite(av *entity.AVEntity, renderPos geometry.Vector3, cam transforms.Camera, currentTime float64) {
	set, err := s.graphics.GetEntityGraphicSet(av.GraphicSetID)
	if err != nil {
		return
	}
	graphicType := av.ClientGraphicState.CurrentGraphicType
	if !set.Has(graphicType) {
		graphicType = graphics.GraphicTypeIdleSouth
	}
	ref, err := s.graphics.GetGraphic(set.Get(graphicType))
	if err != nil {
		return
	}
	if av.ClientGraphicState.SetStartTime {
		av.ClientGraphicState.AnimationStartTime = currentTime
		av.ClientGraphicState.SetStartTime = false
	}
	animTime := currentTime - av.ClientGraphicState.AnimationStartTime
	sprite, ok := ref.SpriteAtTime(s.graphics, animTime)
	if !ok {
		return
	}
	renderData, err := s.graphics.GetSpriteRenderData(sprite.NumericID)
	if err != nil {
		return
	}
	alignment, _ := s.graphics.GetRenderAlignmentOffset(av.GraphicSetID, graphicType, av.Direction)
	collisionBounds := set.CollisionModelBounds(s.graphics)
	bottomCenter := geometry.Vector3{
		X: (collisionBounds.MinX + collisionBounds.MaxX) / 2,
		Y: (collisionBounds.MinY + collisionBounds.MaxY) / 2,
		Z: collisionBounds.MinZ,
	}

	screenExtent := transforms.EntityToScreenExtent(renderPos, bottomCenter, alignment, renderData.RenderData(), cam)
	if !screenExtent.Intersects(cam.ScreenRect()) {
		return
	}

	s.sprites = append(s.sprites, SpriteSortInfo{
		Sprite:        sprite,
		WorldObjectID: entity.AVEntityWorldObjectID(av.ID),
		WorldBounds:   transforms.ModelToWorldEntity(collisionBounds, renderPos),
		ScreenExtent:  screenExtent,
		ColorMod:      entity.DefaultColorMod,
	})
}

// --- depth sort ---

func (s *Sorter) computeDepthOrder() {
	s.calcDepthDependencies()
	for i := range s.sprites {
		s.sprites[i].visited = false
	}
	nextDepth := 0
	var visit func(i int)
	visit = func(i int) {
		sprite := &s.sprites[i]
		if sprite.visited {
			return
		}
		sprite.visited = true
		for _, behindIdx := range sprite.spritesBehind {
			visit(behindIdx)
		}
		sprite.depthValue = nextDepth
		nextDepth++
	}
	for i := range s.sprites {
		visit(i)
	}
	sort.SliceStable(s.sprites, func(i, j int) bool {
		return s.sprites[i].depthValue < s.sprites[j].depthValue
	})
}

// calcDepthDependencies builds each sprite's spritesBehind list: the
// indices of sprites that must be drawn before it. An A/V entity
// whose bounds intersect another sprite's is never recorded as behind
// it, so transient effects always render in front of whatever they
// overlap.
func (s *Sorter) calcDepthDependencies() {
	for i := range s.sprites {
		s.sprites[i].spritesBehind = s.sprites[i].spritesBehind[:0]
	}
	for a := range s.sprites {
		for b := range s.sprites {
			if a == b {
				continue
			}
			if s.sprites[b].WorldObjectID.Kind() == entity.WorldObjectAVEntity &&
				s.sprites[a].WorldBounds.Intersects(s.sprites[b].WorldBounds) {
				continue
			}
			if isBehind(s.sprites[b].WorldBounds, s.sprites[a].WorldBounds) {
				s.sprites[a].spritesBehind = append(s.sprites[a].spritesBehind, b)
			}
		}
	}
}

// isBehind reports whether box is behind reference: strictly less on
// every axis's minimum-vs-maximum comparison. Edge-touching boxes are
// not behind each other; ties fall back to gather order via the
// stable sort in computeDepthOrder.
func isBehind(box, reference geometry.BoundingBox) bool {
	return box.MinX < reference.MaxX &&
		box.MinY < reference.MaxY &&
		box.MinZ < reference.MaxZ
}
