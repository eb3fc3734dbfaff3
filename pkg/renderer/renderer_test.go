package renderer

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/isoforge/pkg/camera"
	"github.com/opd-ai/isoforge/pkg/entity"
	"github.com/opd-ai/isoforge/pkg/geometry"
	"github.com/opd-ai/isoforge/pkg/graphics"
	"github.com/opd-ai/isoforge/pkg/sorter"
	"github.com/opd-ai/isoforge/pkg/tilemap"
	"github.com/opd-ai/isoforge/pkg/transforms"
)

const objectSetID = 10

func buildRegistry() *graphics.GraphicData {
	reg := graphics.NewGraphicData()
	reg.AddSprite(graphics.Sprite{
		NumericID:     3,
		DisplayName:   "crate",
		TextureID:     "atlas",
		TextureExtent: geometry.FloatRect{X: 0, Y: 0, Width: 32, Height: 32},
		ModelBounds:   geometry.BoundingBox{MinX: 0, MaxX: 32, MinY: 0, MaxY: 32, MinZ: 0, MaxZ: 32},
	})
	objSet := graphics.ObjectSet{NumericID: objectSetID}
	objSet.Graphics[graphics.South] = graphics.ToGraphicID(3, false)
	reg.AddObjectSet(objSet)
	return reg
}

type entityList []*entity.Entity

func (l entityList) AllEntities() []*entity.Entity { return l }

type avList []*entity.AVEntity

func (l avList) AllAVEntities() []*entity.AVEntity { return l }

type fakePhantoms struct{}

func (fakePhantoms) Phantoms() []entity.Phantom       { return nil }
func (fakePhantoms) ColorMods() []entity.ColorModEntry { return nil }

func newTestSorter(t *testing.T) (*sorter.Sorter, *tilemap.Map) {
	t.Helper()
	tileMap := tilemap.NewMap(geometry.TileExtent{X: 0, Y: 0, Z: 0, XLength: 4, YLength: 4, ZLength: 1})
	tile := tileMap.GetOrCreate(geometry.TilePosition{X: 0, Y: 0, Z: 0})
	tile.AddObject(tilemap.TileLayer{GraphicSetID: objectSetID, GraphicValue: byte(graphics.South)})

	s := sorter.New(tileMap, buildRegistry(), entityList(nil), avList(nil), fakePhantoms{}, logrus.New())
	return s, tileMap
}

type fakePlayerCamera struct {
	cam                camera.Camera
	lastScreenTopLeftX float64
	lastScreenTopLeftY float64
	setCalled          bool
}

func (c *fakePlayerCamera) Get() camera.Camera { return c.cam }

func (c *fakePlayerCamera) SetScreenTopLeft(x, y float64) {
	c.setCalled = true
	c.lastScreenTopLeftX = x
	c.lastScreenTopLeftY = y
	c.cam.ScreenTopLeftX = x
	c.cam.ScreenTopLeftY = y
}

func wideTestCamera() camera.Camera {
	c := camera.Camera{
		Camera: transforms.Camera{
			Position: geometry.Vector3{X: 32, Y: 16, Z: 0},
			Width:    800,
			Height:   600,
			Zoom:     1,
		},
		PreviousPosition: geometry.Vector3{X: 32, Y: 16, Z: 0},
	}
	screenX, screenY := transforms.WorldToScreen(c.Position, c.Zoom)
	c.ScreenTopLeftX = screenX - c.Width/2
	c.ScreenTopLeftY = screenY - c.Height/2
	return c
}

type fakeTextures struct {
	image *ebiten.Image
}

func (f *fakeTextures) Texture(textureID string) (*ebiten.Image, bool) {
	return f.image, true
}

type recordingUI struct {
	renderCalled bool
	spriteCount  int
}

func (u *recordingUI) Render(screen *ebiten.Image, cam transforms.Camera, sprites []sorter.SpriteSortInfo) {
	u.renderCalled = true
	u.spriteCount = len(sprites)
}

type recordingExtension struct {
	beforeCalled bool
	afterCalled  bool
	handledEvent any
}

func (e *recordingExtension) BeforeWorld(screen *ebiten.Image, cam transforms.Camera, alpha float64) {
	e.beforeCalled = true
}

func (e *recordingExtension) AfterWorld(screen *ebiten.Image, cam transforms.Camera, alpha float64) {
	e.afterCalled = true
}

func (e *recordingExtension) HandleOSEvent(event any) bool {
	e.handledEvent = event
	return true
}

func TestDraw_LerpsCameraAndWritesBackScreenTopLeft(t *testing.T) {
	s, _ := newTestSorter(t)
	pc := &fakePlayerCamera{cam: wideTestCamera()}
	r := New(&fakeTextures{image: ebiten.NewImage(32, 32)}, buildRegistry(), s, pc, func() float64 { return 0.5 }, func() float64 { return 1.0 }, logrus.New())

	screen := ebiten.NewImage(800, 600)
	r.Draw(screen)

	if !pc.setCalled {
		t.Fatal("expected SetScreenTopLeft to be called")
	}
}

func TestDraw_InvokesExtensionHooksAroundWorld(t *testing.T) {
	s, _ := newTestSorter(t)
	pc := &fakePlayerCamera{cam: wideTestCamera()}
	r := New(&fakeTextures{image: ebiten.NewImage(32, 32)}, buildRegistry(), s, pc, func() float64 { return 0 }, func() float64 { return 0 }, logrus.New())

	ext := &recordingExtension{}
	r.SetExtension(ext)

	screen := ebiten.NewImage(800, 600)
	r.Draw(screen)

	if !ext.beforeCalled || !ext.afterCalled {
		t.Fatalf("expected both hooks called, got before=%v after=%v", ext.beforeCalled, ext.afterCalled)
	}
}

func TestDraw_RendersUIWithSortedSprites(t *testing.T) {
	s, _ := newTestSorter(t)
	pc := &fakePlayerCamera{cam: wideTestCamera()}
	r := New(&fakeTextures{image: ebiten.NewImage(32, 32)}, buildRegistry(), s, pc, func() float64 { return 0 }, func() float64 { return 0 }, logrus.New())

	ui := &recordingUI{}
	r.SetUI(ui)

	screen := ebiten.NewImage(800, 600)
	r.Draw(screen)

	if !ui.renderCalled {
		t.Fatal("expected UI.Render to be called")
	}
	if ui.spriteCount != 1 {
		t.Fatalf("expected 1 sorted sprite, got %d", ui.spriteCount)
	}
}

func TestHandleOSEvent_DelegatesToExtension(t *testing.T) {
	s, _ := newTestSorter(t)
	pc := &fakePlayerCamera{cam: wideTestCamera()}
	r := New(&fakeTextures{image: ebiten.NewImage(32, 32)}, buildRegistry(), s, pc, func() float64 { return 0 }, func() float64 { return 0 }, logrus.New())

	if r.HandleOSEvent("click") {
		t.Fatal("expected unhandled event with no extension registered")
	}

	ext := &recordingExtension{}
	r.SetExtension(ext)
	if !r.HandleOSEvent("click") {
		t.Fatal("expected extension to handle event")
	}
	if ext.handledEvent != "click" {
		t.Fatalf("expected extension to receive event, got %v", ext.handledEvent)
	}
}

func TestLayout_ReportsPlayerCameraSize(t *testing.T) {
	s, _ := newTestSorter(t)
	pc := &fakePlayerCamera{cam: wideTestCamera()}
	r := New(&fakeTextures{image: ebiten.NewImage(32, 32)}, buildRegistry(), s, pc, func() float64 { return 0 }, func() float64 { return 0 }, logrus.New())

	w, h := r.Layout(1920, 1080)
	if w != 800 || h != 600 {
		t.Fatalf("expected 800x600, got %dx%d", w, h)
	}
}
