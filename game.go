package main

import (
	"fmt"
	"image/color"
	"log"
	"slices"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/impulse/ecs"
	"github.com/milk9111/impulse/ecs/entity"
	"github.com/milk9111/impulse/ecs/system"
	"github.com/milk9111/impulse/geom"
	"github.com/milk9111/impulse/physics"
	"github.com/milk9111/impulse/physics/bodies"
	"github.com/milk9111/impulse/prefabs"
	"golang.design/x/clipboard"
)

const (
	screenWidth  = 800
	screenHeight = 600

	statusFrames = 120
	spawnSize    = 30
)

var (
	background = color.NRGBA{R: 0x14, G: 0x14, B: 0x1c, A: 0xff}
	spawnColor = color.NRGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
)

type Game struct {
	sceneName string
	debug     bool

	scene     *prefabs.Scene
	world     *ecs.World
	physics   *system.PhysicsSystem
	scheduler *ecs.Scheduler

	watcher     *prefabs.Watcher
	clipboardOK bool

	paused  bool
	pauseUI *ebitenui.UI

	frames      int
	collisions  int
	sleepers    int
	status      string
	statusTimer int
}

func NewGame(sceneName string, debug, watch bool) (*Game, error) {
	g := &Game{sceneName: sceneName, debug: debug}
	if err := g.loadScene(sceneName); err != nil {
		return nil, err
	}
	if watch {
		w, err := prefabs.NewWatcher("prefabs", "prefabs/scripts")
		if err != nil {
			log.Printf("Game: watch disabled: %v", err)
		} else {
			g.watcher = w
		}
	}
	if err := clipboard.Init(); err != nil {
		log.Printf("Game: clipboard unavailable: %v", err)
	} else {
		g.clipboardOK = true
	}
	g.pauseUI = NewPauseUI(g)
	return g, nil
}

// loadScene replaces the running scene. On error the old scene keeps
// running.
func (g *Game) loadScene(name string) error {
	scene, err := prefabs.LoadScene(name)
	if err != nil {
		return err
	}
	world := ecs.NewWorld()
	if _, err := entity.BuildScene(world, scene); err != nil {
		return err
	}
	ps := system.NewPhysicsSystem(scene.Engine, 0)

	g.sceneName = name
	g.scene = scene
	g.world = world
	g.physics = ps
	g.scheduler = ecs.NewScheduler(ps)
	g.collisions, g.sleepers = 0, 0
	g.setStatus(fmt.Sprintf("loaded %s", name))
	return nil
}

func (g *Game) reload() {
	if err := g.loadScene(g.sceneName); err != nil {
		log.Printf("Game: reload %s: %v", g.sceneName, err)
		g.setStatus("reload failed, see log")
	}
}

// nextScene switches to the embedded scene after the current one.
func (g *Game) nextScene() {
	names := prefabs.Scenes()
	if len(names) == 0 {
		return
	}
	i := slices.Index(names, g.sceneName)
	next := names[(i+1)%len(names)]
	if err := g.loadScene(next); err != nil {
		log.Printf("Game: load %s: %v", next, err)
	}
}

func (g *Game) setStatus(s string) {
	g.status = s
	g.statusTimer = statusFrames
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.frames++
	if g.statusTimer > 0 {
		g.statusTimer--
	}
	g.pollWatcher()

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.handleInput()
	g.scheduler.Update(g.world)
	g.countEvents()
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if change.Kind == prefabs.SceneChanged && change.Name != g.sceneName {
				continue
			}
			log.Printf("Game: %s changed, reloading", change.Path)
			g.reload()
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("Game: watch: %v", err)
		default:
			return
		}
	}
}

func (g *Game) handleInput() {
	mx, my := ebiten.CursorPosition()
	cursor := geom.Vector{X: float64(mx), Y: float64(my)}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		opts := physics.DefaultBodyOptions()
		opts.Label = "Spawned"
		b, err := bodies.Rectangle(cursor.X, cursor.Y, spawnSize, spawnSize, &opts)
		if err == nil {
			_, err = entity.NewBody(g.world, b, spawnColor)
		}
		if err != nil {
			log.Printf("Game: spawn: %v", err)
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		for _, b := range physics.QueryPoint(g.scene.Engine.World().AllBodies(), cursor) {
			if e, ok := g.physics.EntityOf(b); ok {
				ecs.DestroyEntity(g.world, e)
			}
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reload()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.nextScene()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copySnapshot()
	}
}

func (g *Game) copySnapshot() {
	if !g.clipboardOK {
		g.setStatus("clipboard unavailable")
		return
	}
	data, err := prefabs.TakeSnapshot(g.sceneName, g.scene.Engine).YAML()
	if err != nil {
		log.Printf("Game: snapshot: %v", err)
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	g.setStatus(fmt.Sprintf("copied %d bodies", len(g.scene.Engine.World().AllBodies())))
}

func (g *Game) countEvents() {
	for _, evt := range g.world.Events().Drain() {
		switch data := evt.Data.(type) {
		case ecs.CollisionEvent:
			if data.Kind == ecs.CollisionEventStart {
				g.collisions++
			}
		case ecs.SleepEvent:
			if data.Sleeping {
				g.sleepers++
			} else {
				g.sleepers--
			}
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	system.DrawPhysicsDebug(g.physics, g.world, screen, system.DebugOptions{
		Bounds:      g.debug,
		Contacts:    g.debug,
		Constraints: true,
		Velocity:    g.debug,
	})

	timing := g.scene.Engine.Timing()
	hud := fmt.Sprintf("%s  bodies: %d  pairs: %d  sleeping: %d  collisions: %d\nstep: %v  FPS: %.1f",
		g.sceneName,
		len(g.scene.Engine.World().AllBodies()),
		g.scene.Engine.Pairs().Len(),
		g.sleepers,
		g.collisions,
		timing.LastElapsed,
		ebiten.ActualFPS())
	if g.statusTimer > 0 {
		hud += "\n" + g.status
	}
	ebitenutil.DebugPrint(screen, hud)

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return screenWidth, screenHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
