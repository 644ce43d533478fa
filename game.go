package solid2d

import (
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
)

// WhitePixel is a 1x1 white image used for solid color sprites: draw it onto
// a Box of the desired size with a DrawOptions.Color tint.
var WhitePixel *ebiten.Image

func init() {
	WhitePixel = ebiten.NewImage(1, 1)
	WhitePixel.Fill(ColorWhite.toRGBA())
}

// RunConfig configures the window created by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// TPS sets ticks per second. Zero keeps ebiten's default of 60.
	TPS int
	// Resizable lets the user resize the window. The logical screen size
	// stays Width x Height.
	Resizable bool
}

// Game adapts a Scene to ebiten.Game. It owns the ImageDevice and the Batch2D
// the scene draws through; the active scene is set explicitly with SetScene.
type Game struct {
	device *ImageDevice
	batch  *Batch2D
	scene  *Scene
	logger *slog.Logger

	width, height int
	drawErr       error
}

var _ ebiten.Game = (*Game)(nil)

// NewGame creates a game with a logical screen of width x height. opts
// configures the shared batch and may be nil.
func NewGame(width, height int, opts *BatchOptions) (*Game, error) {
	device := NewImageDevice(nil)
	batch, err := NewBatch2D(device, opts)
	if err != nil {
		return nil, err
	}
	logger := slog.Default()
	if opts != nil && opts.Logger != nil {
		logger = opts.Logger
		device.logger = logger.With(slog.String("component", "image_device"))
	}
	return &Game{
		device: device,
		batch:  batch,
		logger: logger.With(slog.String("component", "game")),
		width:  width,
		height: height,
	}, nil
}

// Batch returns the batch scenes created for this game should draw through.
func (g *Game) Batch() *Batch2D { return g.batch }

// NewScene creates a scene drawing through the game's batch.
func (g *Game) NewScene() *Scene {
	s := NewScene(g.batch)
	s.SetLogger(g.logger)
	return s
}

// Scene returns the active scene, or nil.
func (g *Game) Scene() *Scene { return g.scene }

// SetScene makes s the active scene. Nil stops updating and drawing.
func (g *Game) SetScene(s *Scene) { g.scene = s }

// Update implements ebiten.Game. A draw error from the previous frame is
// returned here, which stops the game loop.
func (g *Game) Update() error {
	if g.drawErr != nil {
		return g.drawErr
	}
	if g.scene == nil {
		return nil
	}
	return g.scene.Update(1.0 / float64(ebiten.TPS()))
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.scene == nil {
		return
	}
	if c := g.scene.ClearColor; c.A > 0 {
		screen.Fill(c.toRGBA())
	}
	g.device.SetTarget(screen)
	if err := g.scene.Draw(); err != nil && g.drawErr == nil {
		g.drawErr = errors.Wrap(err, "solid2d: draw")
	}
}

// Layout implements ebiten.Game with a fixed logical screen size.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// Run opens a window for game and blocks until the game loop ends.
func Run(game *Game, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return errors.Errorf("solid2d: invalid window size %dx%d", cfg.Width, cfg.Height)
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	game.logger.Info("starting game loop",
		slog.String("title", cfg.Title),
		slog.Int("width", cfg.Width),
		slog.Int("height", cfg.Height))
	if err := ebiten.RunGame(game); err != nil {
		return errors.Wrap(err, "solid2d: run game")
	}
	return nil
}
