// Package ecs provides ECS adapters for solid2d.
//
// [SpriteSystem] draws every [Donburi] entity that has both a [Box] and a
// [Sprite] component, and plugs into a solid2d.Scene as a Drawable.
// [TweenSystem] advances [Tween] components and publishes [TweenDoneEvent]
// when one finishes.
//
// Usage:
//
//	world := donburi.NewWorld()
//	e := ecs.NewSpriteEntity(world, img, solid2d.NewBox(pos, size))
//	scene.Add(ecs.NewSpriteSystem(world))
//	scene.Add(ecs.NewTweenSystem(world))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
