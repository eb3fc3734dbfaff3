// Package renderer assembles one render frame: it lerps the player
// camera, gives a registered extension first and last crack at the
// frame, runs the sorter, blits the sorted sprites and their attached
// visual effects, and hands the sorted list to the UI.
package renderer

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/isoforge/pkg/camera"
	"github.com/opd-ai/isoforge/pkg/entity"
	"github.com/opd-ai/isoforge/pkg/geometry"
	"github.com/opd-ai/isoforge/pkg/graphics"
	"github.com/opd-ai/isoforge/pkg/logging"
	"github.com/opd-ai/isoforge/pkg/sorter"
	"github.com/opd-ai/isoforge/pkg/transforms"
)

// TextureSource resolves a loaded sprite's texture id to the ebiten
// image it was decoded into. Texture atlasing (one *ebiten.Image per
// sheet, addressed by TextureExtent) is the caller's concern.
type TextureSource interface {
	Texture(textureID string) (*ebiten.Image, bool)
}

// PlayerCamera is the simulation-owned camera the renderer lerps each
// frame. SetScreenTopLeft writes the lerped screen origin back so
// that screen<->world conversions elsewhere in the frame (UI
// hit-testing, input) see the same camera the world was drawn with.
type PlayerCamera interface {
	Get() camera.Camera
	SetScreenTopLeft(x, y float64)
}

// UI is the application overlay drawn after the world each frame. It
// receives the lerped camera and the sorted sprite list so its
// world-object locator can be kept in sync with what was actually
// drawn.
type UI interface {
	Render(screen *ebiten.Image, cam transforms.Camera, sprites []sorter.SpriteSortInfo)
}

// Extension is the project hook registered at startup: given first
// crack at OS events, and a chance to draw immediately before and
// after the world.
type Extension interface {
	BeforeWorld(screen *ebiten.Image, cam transforms.Camera, alpha float64)
	AfterWorld(screen *ebiten.Image, cam transforms.Camera, alpha float64)
	HandleOSEvent(event any) bool
}

// TickProgress reports how far the simulation is into its current
// tick, in [0,1), for render-frame interpolation. Supplied by the
// main loop, which alone knows the simulation's tick cadence.
type TickProgress func() float64

// CurrentTime reports the current time in seconds, the same clock the
// simulation stamps animation and A/V phase start times against.
type CurrentTime func() float64

// Renderer assembles one frame per Draw call. It owns no simulation
// state; it only reads the player camera and the sorter's inputs and
// blits what the sorter produces.
type Renderer struct {
	textures     TextureSource
	graphics     graphics.Lookup
	sorter       *sorter.Sorter
	playerCamera PlayerCamera
	tickProgress TickProgress
	currentTime  CurrentTime
	extension    Extension
	ui           UI
	log          *logrus.Entry
	frameNumber  uint64
}

// New builds a Renderer. extension and ui may be registered later via
// SetExtension/SetUI; both are optional.
func New(textures TextureSource, lookup graphics.Lookup, s *sorter.Sorter, playerCamera PlayerCamera, tickProgress TickProgress, currentTime CurrentTime, logger *logrus.Logger) *Renderer {
	return &Renderer{
		textures:     textures,
		graphics:     lookup,
		sorter:       s,
		playerCamera: playerCamera,
		tickProgress: tickProgress,
		currentTime:  currentTime,
		log:          logging.RendererLogger(logger),
	}
}

// SetExtension registers the project draw/input hook. Passing nil
// unregisters it.
func (r *Renderer) SetExtension(ext Extension) { r.extension = ext }

// SetUI registers the application UI overlay. Passing nil
// unregisters it.
func (r *Renderer) SetUI(ui UI) { r.ui = ui }

// HandleOSEvent gives the registered extension first crack at event;
// the caller should only apply its own default handling if this
// returns false.
func (r *Renderer) HandleOSEvent(event any) bool {
	if r.extension == nil {
		return false
	}
	return r.extension.HandleOSEvent(event)
}

// Draw assembles and presents one render frame into screen.
func (r *Renderer) Draw(screen *ebiten.Image) {
	r.frameNumber++
	log := r.log.WithField("frame", r.frameNumber)

	alpha := r.tickProgress()
	currentTime := r.currentTime()

	cam := r.playerCamera.Get()
	lerped := cam.Lerp(alpha)
	r.playerCamera.SetScreenTopLeft(lerped.ScreenTopLeftX, lerped.ScreenTopLeftY)

	screen.Clear()

	if r.extension != nil {
		r.extension.BeforeWorld(screen, lerped, alpha)
	}

	r.sorter.Sort(lerped, alpha, currentTime)
	sprites := r.sorter.GetSortedSprites()

	for i := range sprites {
		r.drawSprite(screen, sprites[i])
		if entityID, ok := sprites[i].WorldObjectID.EntityID(); ok {
			r.drawEntityEffects(screen, entityID)
		}
	}

	if r.extension != nil {
		r.extension.AfterWorld(screen, lerped, alpha)
	}

	if r.ui != nil {
		r.ui.Render(screen, lerped, sprites)
	}

	log.WithField("sprites", len(sprites)).Trace("frame drawn")
}

// Layout implements ebiten.Game; the renderer presents at whatever
// logical size the caller's player camera reports.
func (r *Renderer) Layout(outsideWidth, outsideHeight int) (int, int) {
	cam := r.playerCamera.Get()
	return int(cam.Width), int(cam.Height)
}

func (r *Renderer) drawSprite(screen *ebiten.Image, s sorter.SpriteSortInfo) {
	texture, ok := r.textures.Texture(s.Sprite.TextureID)
	if !ok {
		return
	}
	sub := subImage(texture, s.Sprite.TextureExtent)

	opts := &ebiten.DrawImageOptions{}
	applyColorMod(opts, s.ColorMod)

	srcW, srcH := s.Sprite.TextureExtent.Width, s.Sprite.TextureExtent.Height
	if srcW > 0 && srcH > 0 {
		opts.GeoM.Scale(s.ScreenExtent.Width/srcW, s.ScreenExtent.Height/srcH)
	}
	opts.GeoM.Translate(s.ScreenExtent.X, s.ScreenExtent.Y)

	screen.DrawImage(sub, opts)
}

func (r *Renderer) drawEntityEffects(screen *ebiten.Image, entityID entity.ID) {
	for _, effect := range r.sorter.GetEntityVisualEffects(entityID) {
		sprite, ok := r.graphics.SpriteByNumericID(effect.SpriteNumericID)
		if !ok {
			continue
		}
		texture, ok := r.textures.Texture(sprite.TextureID)
		if !ok {
			continue
		}
		sub := subImage(texture, sprite.TextureExtent)

		opts := &ebiten.DrawImageOptions{}
		srcW, srcH := sprite.TextureExtent.Width, sprite.TextureExtent.Height
		if srcW > 0 && srcH > 0 {
			opts.GeoM.Scale(effect.ScreenExtent.Width/srcW, effect.ScreenExtent.Height/srcH)
		}
		opts.GeoM.Translate(effect.ScreenExtent.X, effect.ScreenExtent.Y)
		screen.DrawImage(sub, opts)
	}
}

func subImage(texture *ebiten.Image, extent geometry.FloatRect) *ebiten.Image {
	rect := image.Rect(int(extent.X), int(extent.Y), int(extent.X+extent.Width), int(extent.Y+extent.Height))
	return texture.SubImage(rect).(*ebiten.Image)
}

func applyColorMod(opts *ebiten.DrawImageOptions, mod entity.ColorMod) {
	opts.ColorScale.ScaleWithColor(color.RGBA{R: mod.R, G: mod.G, B: mod.B, A: mod.A})
}
