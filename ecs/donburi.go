package ecs

import (
	"github.com/phanxgames/solid2d"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// BoxData holds an entity's geometry. The Box lives outside component
// storage, so the pointer stays valid when the entity changes archetype.
type BoxData struct {
	Box *solid2d.Box
}

// SpriteData is what a sprite entity draws.
type SpriteData struct {
	Texture solid2d.Texture
	Options solid2d.DrawOptions
	Hidden  bool
}

// TweenData wraps a running tween group.
type TweenData struct {
	Group *solid2d.TweenGroup
}

// TweenDoneEvent is published once per finished tween.
type TweenDoneEvent struct {
	Entity donburi.Entity
}

var (
	// Box holds an entity's geometry.
	Box = donburi.NewComponentType[BoxData]()
	// Sprite holds an entity's texture and draw options.
	Sprite = donburi.NewComponentType[SpriteData]()
	// Tween holds an entity's running tween.
	Tween = donburi.NewComponentType[TweenData]()

	// TweenDoneEventType carries TweenDoneEvent. Subscribe to it in your
	// systems and drain it with ProcessEvents.
	TweenDoneEventType = events.NewEventType[TweenDoneEvent]()
)

// NewSpriteEntity creates an entity drawing tex onto box. The entity keeps
// the pointer, so later changes to box show up in the next draw.
func NewSpriteEntity(world donburi.World, tex solid2d.Texture, box *solid2d.Box) donburi.Entity {
	e := world.Create(Box, Sprite)
	entry := world.Entry(e)
	Box.SetValue(entry, BoxData{Box: box})
	Sprite.SetValue(entry, SpriteData{Texture: tex})
	return e
}

// AddTween attaches g to entity, replacing any tween already running on it.
// g usually targets the entity's own box (see BoxOf).
func AddTween(world donburi.World, entity donburi.Entity, g *solid2d.TweenGroup) {
	entry := world.Entry(entity)
	if !entry.HasComponent(Tween) {
		entry.AddComponent(Tween)
	}
	Tween.SetValue(entry, TweenData{Group: g})
}

// BoxOf returns the entity's box, or nil.
func BoxOf(world donburi.World, entity donburi.Entity) *solid2d.Box {
	if !world.Valid(entity) {
		return nil
	}
	entry := world.Entry(entity)
	if !entry.HasComponent(Box) {
		return nil
	}
	return Box.Get(entry).Box
}

// SpriteSystem draws sprite entities. It implements solid2d.Drawable.
type SpriteSystem struct {
	world donburi.World
	query *donburi.Query
}

var _ solid2d.Drawable = (*SpriteSystem)(nil)

// NewSpriteSystem creates a system drawing every Box+Sprite entity in world.
func NewSpriteSystem(world donburi.World) *SpriteSystem {
	return &SpriteSystem{
		world: world,
		query: donburi.NewQuery(filter.Contains(Box, Sprite)),
	}
}

// Draw queues every visible sprite entity. Iteration stops effectively at
// the first error, which is returned.
func (s *SpriteSystem) Draw(b solid2d.Batch) error {
	var firstErr error
	s.query.Each(s.world, func(entry *donburi.Entry) {
		if firstErr != nil {
			return
		}
		sp := Sprite.Get(entry)
		if sp.Hidden {
			return
		}
		if err := b.Draw(sp.Texture, Box.Get(entry).Box, &sp.Options); err != nil {
			firstErr = err
		}
	})
	return firstErr
}

// TweenSystem advances Tween components. Finished tweens are removed and
// announced through TweenDoneEventType. It implements solid2d.Updatable.
type TweenSystem struct {
	world donburi.World
	query *donburi.Query
	done  []donburi.Entity
}

var _ solid2d.Updatable = (*TweenSystem)(nil)

// NewTweenSystem creates a system for every Tween entity in world.
func NewTweenSystem(world donburi.World) *TweenSystem {
	return &TweenSystem{
		world: world,
		query: donburi.NewQuery(filter.Contains(Tween)),
	}
}

// Update advances every tween by dt seconds.
func (s *TweenSystem) Update(dt float64) {
	s.done = s.done[:0]
	s.query.Each(s.world, func(entry *donburi.Entry) {
		g := Tween.Get(entry).Group
		if g == nil {
			return
		}
		g.Update(dt)
		if g.Done {
			s.done = append(s.done, entry.Entity())
		}
	})

	// Component removal changes archetypes, so it waits until after Each.
	for _, e := range s.done {
		if s.world.Valid(e) {
			s.world.Entry(e).RemoveComponent(Tween)
		}
		TweenDoneEventType.Publish(s.world, TweenDoneEvent{Entity: e})
	}
	TweenDoneEventType.ProcessEvents(s.world)
}
