// Package solid2d is a small 2D toolkit for [Ebitengine]: affine math, a box
// primitive, and a depth-sorted sprite batcher.
//
// # Math
//
// [Vec2], [Size], [Rotation] and [Matrix2D] are value types. Matrix2D is a
// 3x3 row-vector affine matrix: a point transforms as p' = p * M and the
// translation lives in the third row. Composition reads left to right, so
//
//	CreateTranslation(a).Mul(CreateRotation(r))
//
// translates first, then rotates.
//
// A [Box] is a rectangle with an origin pivot, scale, rotation and position.
// Its world matrix is recomputed on every setter:
//
//	Translate(-origin*size) * Scale * Rotate * Translate(position)
//
// Origin is normalized, with (0,0) at the top-left corner and (1,1) at the
// bottom-right. [Box.Resize] keeps the point opposite its [Anchor] fixed in
// world space.
//
// # Batching
//
// [Batch2D] queues quads between Begin and End. End sorts them by depth
// (larger depths first, submission order among equals), then issues one
// draw call per run of consecutive quads that share a texture:
//
//	batch, _ := solid2d.NewBatch2D(device, nil)
//	batch.Begin()
//	batch.Draw(tex, box, &solid2d.DrawOptions{Depth: 1})
//	batch.DrawAt(tex, solid2d.Vec2{X: 10, Y: 10}, nil)
//	batch.End()
//
// Batch2D talks to a [Device]. [ImageDevice] implements it on top of an
// *ebiten.Image; tests use a recording fake.
//
// # Quick start
//
// [Game] wires an ImageDevice, a Batch2D and a [Scene] into an ebiten.Game,
// and [Run] opens the window:
//
//	game, _ := solid2d.NewGame(640, 480, nil)
//	scene := game.NewScene()
//	scene.Add(solid2d.NewSprite(img, solid2d.Vec2{X: 100, Y: 100}))
//	game.SetScene(scene)
//	solid2d.Run(game, solid2d.RunConfig{Title: "demo", Width: 640, Height: 480})
//
// Cameras ([Camera]), tweens ([TweenGroup], via [gween]) and TexturePacker
// atlases ([LoadAtlas]) build on the same primitives. ECS integration lives
// in the solid2d/ecs module (via [Donburi]).
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package solid2d
