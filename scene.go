package solid2d

import (
	"log/slog"

	"github.com/pkg/errors"
)

// Drawable is anything a Scene can queue into a Batch.
type Drawable interface {
	Draw(b Batch) error
}

// Updatable is advanced once per tick by a Scene.
type Updatable interface {
	Update(dt float64)
}

// Bounder reports world-space bounds. Drawables that implement it are
// skipped when a culling camera cannot see them.
type Bounder interface {
	Bounds() Rect
}

// Scene owns a batch, an optional camera, and ordered lists of drawables and
// updatables. Each Draw runs one Begin/Draw/End cycle.
type Scene struct {
	// ClearColor fills the target before drawing when its alpha is non-zero.
	ClearColor Color
	// CullEnabled skips drawables whose bounds fall outside the camera's
	// visible area. Ignored without a camera.
	CullEnabled bool

	batch      Batch
	camera     *Camera
	drawables  []Drawable
	updatables []Updatable
	updateFunc func(dt float64) error
	logger     *slog.Logger

	culled int
}

// NewScene creates an empty scene drawing through batch.
func NewScene(batch Batch) *Scene {
	return &Scene{
		batch:  batch,
		logger: slog.Default().With(slog.String("component", "scene")),
	}
}

// SetLogger replaces the scene's logger. Nil restores slog.Default().
func (s *Scene) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	s.logger = l.With(slog.String("component", "scene"))
}

// Batch returns the batch the scene draws through.
func (s *Scene) Batch() Batch { return s.batch }

// Camera returns the scene camera, or nil.
func (s *Scene) Camera() *Camera { return s.camera }

// SetCamera sets the camera whose view transform each Draw begins with. The
// camera is also updated with the scene. Nil draws untransformed.
func (s *Scene) SetCamera(c *Camera) { s.camera = c }

// SetUpdateFunc sets a callback run at the end of every Update. A non-nil
// error is returned from Update.
func (s *Scene) SetUpdateFunc(fn func(dt float64) error) { s.updateFunc = fn }

// Add registers v as a drawable, an updatable, or both, depending on which
// interfaces it implements. It reports whether v implemented either.
func (s *Scene) Add(v any) bool {
	added := false
	if d, ok := v.(Drawable); ok {
		s.drawables = append(s.drawables, d)
		added = true
	}
	if u, ok := v.(Updatable); ok {
		s.updatables = append(s.updatables, u)
		added = true
	}
	return added
}

// AddDrawable appends d to the draw list.
func (s *Scene) AddDrawable(d Drawable) { s.drawables = append(s.drawables, d) }

// AddUpdatable appends u to the update list.
func (s *Scene) AddUpdatable(u Updatable) { s.updatables = append(s.updatables, u) }

// Remove drops v from both lists.
func (s *Scene) Remove(v any) {
	for i, d := range s.drawables {
		if any(d) == v {
			s.drawables = append(s.drawables[:i], s.drawables[i+1:]...)
			break
		}
	}
	for i, u := range s.updatables {
		if any(u) == v {
			s.updatables = append(s.updatables[:i], s.updatables[i+1:]...)
			break
		}
	}
}

// Drawables returns the draw list. The returned slice MUST NOT be mutated.
func (s *Scene) Drawables() []Drawable { return s.drawables }

// Updatables returns the update list. The returned slice MUST NOT be mutated.
func (s *Scene) Updatables() []Updatable { return s.updatables }

// Culled returns how many drawables the last Draw skipped.
func (s *Scene) Culled() int { return s.culled }

// Update advances every updatable in insertion order, then the camera, then
// the update callback.
func (s *Scene) Update(dt float64) error {
	for _, u := range s.updatables {
		u.Update(dt)
	}
	if s.camera != nil {
		s.camera.Update(dt)
	}
	if s.updateFunc != nil {
		return s.updateFunc(dt)
	}
	return nil
}

// Draw queues every drawable into the batch and flushes it. The batch is
// always ended, even when a drawable fails; the first error is returned.
func (s *Scene) Draw() error {
	view := identityMatrix
	var visible Rect
	cull := false
	if s.camera != nil {
		view = s.camera.ViewMatrix()
		if s.CullEnabled {
			visible = s.camera.VisibleBounds()
			cull = true
		}
	}

	if err := s.batch.BeginWithTransform(view); err != nil {
		return err
	}

	s.culled = 0
	var drawErr error
	for _, d := range s.drawables {
		if cull {
			if bd, ok := d.(Bounder); ok && !visible.Intersects(bd.Bounds()) {
				s.culled++
				continue
			}
		}
		if err := d.Draw(s.batch); err != nil {
			drawErr = errors.Wrap(err, "scene draw")
			break
		}
	}

	if err := s.batch.End(); err != nil && drawErr == nil {
		return err
	}
	if drawErr != nil {
		s.logger.Error("drawable failed", slog.Any("err", drawErr))
	}
	return drawErr
}
