// Command client is a minimal wiring demo: it builds a tiny in-memory
// world (one object tile, one entity, an empty A/V entity list) and drives it
// through the sorter, A/V system, audio, and renderer packages inside
// a real ebiten game loop. It stands in for the asset-loading,
// networking, and UI layers the core render pipeline treats as
// external collaborators.
package main

import (
	"image/color"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/isoforge/pkg/audio"
	"github.com/opd-ai/isoforge/pkg/avsystem"
	"github.com/opd-ai/isoforge/pkg/camera"
	"github.com/opd-ai/isoforge/pkg/entity"
	"github.com/opd-ai/isoforge/pkg/entitygraphic"
	"github.com/opd-ai/isoforge/pkg/geometry"
	"github.com/opd-ai/isoforge/pkg/graphics"
	"github.com/opd-ai/isoforge/pkg/logging"
	"github.com/opd-ai/isoforge/pkg/renderer"
	"github.com/opd-ai/isoforge/pkg/sorter"
	"github.com/opd-ai/isoforge/pkg/tilemap"
	"github.com/opd-ai/isoforge/pkg/transforms"
)

const (
	screenWidth   = 960
	screenHeight  = 540
	objectSetID   = 1
	entitySetID   = 2
	tickTimestepS = avsystem.SimTickTimestepS
)

// buildRegistry constructs a tiny placeholder graphic registry: one
// object sprite and one entity graphic set holding only IdleSouth, standing in for
// the manifest a real client loads at startup.
func buildRegistry() *graphics.GraphicData {
	reg := graphics.NewGraphicData()

	reg.AddSprite(graphics.Sprite{
		NumericID:     1,
		DisplayName:   "crate",
		TextureID:     "placeholder",
		TextureExtent: geometry.FloatRect{X: 0, Y: 0, Width: 32, Height: 32},
		ModelBounds:   geometry.BoundingBox{MinX: 0, MaxX: 32, MinY: 0, MaxY: 32, MinZ: 0, MaxZ: 32},
	})
	objSet := graphics.ObjectSet{NumericID: objectSetID}
	objSet.Graphics[graphics.South] = graphics.ToGraphicID(1, false)
	reg.AddObjectSet(objSet)

	reg.AddSprite(graphics.Sprite{
		NumericID:     2,
		DisplayName:   "hero-idle-south",
		TextureID:     "placeholder",
		TextureExtent: geometry.FloatRect{X: 0, Y: 0, Width: 24, Height: 40},
		ModelBounds:   geometry.BoundingBox{MinX: -8, MaxX: 8, MinY: -8, MaxY: 8, MinZ: 0, MaxZ: 24},
	})
	entitySet := graphics.NewEntityGraphicSet(entitySetID, "hero", "Hero")
	entitySet.Set(graphics.GraphicTypeIdleSouth, graphics.ToGraphicID(2, false))
	reg.AddEntitySet(entitySet)

	return reg
}

func buildTileMap() *tilemap.Map {
	m := tilemap.NewMap(geometry.TileExtent{X: -8, Y: -8, Z: 0, XLength: 16, YLength: 16, ZLength: 1})
	tile := m.GetOrCreate(geometry.TilePosition{X: 1, Y: 1, Z: 0})
	tile.AddObject(tilemap.TileLayer{GraphicSetID: objectSetID, GraphicValue: byte(graphics.South)})
	return m
}

type entityStore struct{ entities []*entity.Entity }

func (s *entityStore) AllEntities() []*entity.Entity { return s.entities }

type avEntityStore struct{ avEntities []*entity.AVEntity }

func (s *avEntityStore) AllAVEntities() []*entity.AVEntity { return s.avEntities }

type noPhantoms struct{}

func (noPhantoms) Phantoms() []entity.Phantom        { return nil }
func (noPhantoms) ColorMods() []entity.ColorModEntry { return nil }

type noSounds struct{}

func (noSounds) SoundBytes(soundID uint32) ([]byte, bool) { return nil, false }

// placeholderTextures stands in for the windowing/texture backend:
// every sprite draws as the same solid-color square, the same
// fallback-to-colored-rect idiom used elsewhere when a sprite image
// can't be resolved.
type placeholderTextures struct {
	image *ebiten.Image
}

func newPlaceholderTextures() *placeholderTextures {
	img := ebiten.NewImage(32, 32)
	img.Fill(color.RGBA{R: 120, G: 170, B: 220, A: 255})
	return &placeholderTextures{image: img}
}

func (t *placeholderTextures) Texture(textureID string) (*ebiten.Image, bool) {
	return t.image, true
}

// playerCamera adapts camera.Camera to renderer.PlayerCamera.
type playerCamera struct {
	cam camera.Camera
}

func (p *playerCamera) Get() camera.Camera { return p.cam }

func (p *playerCamera) SetScreenTopLeft(x, y float64) {
	p.cam.ScreenTopLeftX = x
	p.cam.ScreenTopLeftY = y
}

type targetResolver struct{ store *entityStore }

func (r *targetResolver) EntityPosition(id entity.ID) (geometry.Vector3, bool) {
	for _, e := range r.store.entities {
		if e.ID == id {
			return e.Position, true
		}
	}
	return geometry.Vector3{}, false
}

// game implements ebiten.Game, decoupling the fixed-rate simulation
// tick from the variable-rate render frame the same way the engine's
// scheduling model requires: the simulation always runs a whole
// number of ticks per Update, and the renderer interpolates between
// them using the leftover fractional tick as alpha.
type game struct {
	entities   *entityStore
	avEntities *avEntityStore
	graphics   *graphics.GraphicData
	avSystem   *avsystem.System
	audio      *audio.System
	resolver   *targetResolver
	renderer   *renderer.Renderer

	lastUpdate  time.Time
	tickAccum   float64
	currentTime float64
}

func (g *game) Update() error {
	now := time.Now()
	if g.lastUpdate.IsZero() {
		g.lastUpdate = now
	}
	delta := now.Sub(g.lastUpdate).Seconds()
	g.lastUpdate = now
	if delta > 0.25 {
		delta = 0.25 // avoid a runaway catch-up after a stall
	}

	g.tickAccum += delta
	for g.tickAccum >= tickTimestepS {
		g.tickAccum -= tickTimestepS
		g.currentTime += tickTimestepS
		g.tick()
	}
	return nil
}

func (g *game) tick() {
	for _, e := range g.entities.entities {
		g.updateEntityGraphic(e)
	}

	for _, e := range g.entities.entities {
		g.avSystem.ExpireVisualEffects(e, g.currentTime)
	}

	live := g.avEntities.avEntities[:0]
	for _, av := range g.avEntities.avEntities {
		result := g.avSystem.TickAVEntity(av, g.resolver, g.currentTime)
		if result.Destroy {
			continue
		}
		if result.PhaseChanged {
			g.audio.PlayPhaseSound(av)
		}
		live = append(live, av)
	}
	g.avEntities.avEntities = live
}

// updateEntityGraphic runs the Entity Graphic State machine for one
// entity from its current Input and Direction (this demo applies no
// movement of its own), picking the idle/run graphic type and facing
// they imply, before the A/V System runs.
func (g *game) updateEntityGraphic(e *entity.Entity) {
	set, err := g.graphics.GetEntityGraphicSet(e.GraphicSetID)
	if err != nil {
		return
	}

	result := entitygraphic.Update(set, nil, entitygraphic.Input{
		EntityID:           uint32(e.ID),
		Moving:             e.Input.IsMoving(),
		Direction:          e.Direction,
		CurrentGraphicType: e.ClientGraphicState.CurrentGraphicType,
	})

	e.ClientGraphicState.CurrentGraphicType = result.GraphicType
	e.ClientGraphicState.CurrentDirection = e.Direction
	if result.SetStartTime {
		e.ClientGraphicState.SetStartTime = true
	}
}

func (g *game) tickProgress() float64 {
	return g.tickAccum / tickTimestepS
}

func (g *game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.renderer.Layout(outsideWidth, outsideHeight)
}

func main() {
	logger := logging.NewLoggerFromEnv()

	registry := buildRegistry()
	tileMap := buildTileMap()

	entities := &entityStore{entities: []*entity.Entity{
		{
			ID:           1,
			Position:     geometry.Vector3{X: 64, Y: 64, Z: 0},
			GraphicSetID: entitySetID,
			ClientGraphicState: entity.ClientGraphicState{
				CurrentGraphicType: graphics.GraphicTypeIdleSouth,
			},
			CollisionBottomCenter: geometry.Vector3{},
			CollisionModelBounds:  geometry.BoundingBox{MinX: -8, MaxX: 8, MinY: -8, MaxY: 8, MinZ: 0, MaxZ: 24},
		},
	}}
	avEntities := &avEntityStore{}

	avSys := avsystem.New(registry, logger)
	audioSys := audio.New(noSounds{}, logger)

	s := sorter.New(tileMap, registry, entities, avEntities, noPhantoms{}, logger)

	pc := &playerCamera{cam: camera.Camera{
		Camera: transforms.Camera{
			Position: geometry.Vector3{X: 64, Y: 64, Z: 0},
			Width:    screenWidth,
			Height:   screenHeight,
			Zoom:     1,
		},
	}}
	screenX, screenY := transforms.WorldToScreen(pc.cam.Position, pc.cam.Zoom)
	pc.cam.ScreenTopLeftX = screenX - screenWidth/2
	pc.cam.ScreenTopLeftY = screenY - screenHeight/2
	pc.cam.PreviousPosition = pc.cam.Position

	g := &game{
		entities:   entities,
		avEntities: avEntities,
		graphics:   registry,
		avSystem:   avSys,
		audio:      audioSys,
		resolver:   &targetResolver{store: entities},
	}
	g.renderer = renderer.New(newPlaceholderTextures(), registry, s, pc, g.tickProgress, func() float64 { return g.currentTime }, logger)

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("isoforge client")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
