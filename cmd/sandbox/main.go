package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/rigid2d/dynamics"
	"github.com/milk9111/rigid2d/scene"
	"github.com/milk9111/rigid2d/vmath"
)

const (
	screenWidth  = 1280
	screenHeight = 720

	pixelsPerMeter = 32.0
	timeStep       = 1.0 / 60.0
)

var (
	staticColor    = color.RGBA{R: 0x5c, G: 0xb8, B: 0x5c, A: 0xff}
	kinematicColor = color.RGBA{R: 0x5c, G: 0x8a, B: 0xb8, A: 0xff}
	dynamicColor   = color.RGBA{R: 0xd9, G: 0x6a, B: 0x6a, A: 0xff}
	sleepingColor  = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}
)

type Sandbox struct {
	scenePath string

	world       *dynamics.World
	handles     map[string]dynamics.BodyHandle
	controllers map[dynamics.BodyHandle]*scene.Controller

	watcher *scene.Watcher
	face    ebtext.Face

	paused    bool
	reload    bool
	lastError error
}

func NewSandbox(scenePath string, paused bool) (*Sandbox, error) {
	s := &Sandbox{
		scenePath: scenePath,
		paused:    paused,
		face:      ebtext.NewGoXFace(basicfont.Face7x13),
	}
	if err := s.load(); err != nil {
		return nil, err
	}

	watcher, err := scene.NewWatcher(filepath.Dir(scenePath))
	if err != nil {
		log.Printf("sandbox: watcher disabled: %v", err)
	} else {
		s.watcher = watcher
	}
	return s, nil
}

func (s *Sandbox) load() error {
	spec, err := scene.LoadSpec[scene.Spec](s.scenePath)
	if err != nil {
		return err
	}

	world := dynamics.NewWorld(vmath.Vec2{})
	handles, err := scene.Build(world, spec)
	if err != nil {
		return err
	}

	controllers := map[dynamics.BodyHandle]*scene.Controller{}
	dir := filepath.Dir(s.scenePath)
	for _, bs := range spec.Bodies {
		if bs.Script == "" {
			continue
		}
		h, ok := handles[bs.Name]
		if !ok {
			continue
		}
		ctrl, err := scene.NewController(filepath.Join(dir, bs.Script))
		if err != nil {
			return err
		}
		controllers[h] = ctrl
	}

	s.world = world
	s.handles = handles
	s.controllers = controllers
	s.lastError = nil
	return nil
}

func (s *Sandbox) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		s.paused = !s.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		s.reload = true
	}

	if s.watcher != nil {
		select {
		case <-s.watcher.Events:
			s.reload = true
		case err := <-s.watcher.Errors:
			log.Printf("sandbox: watch error: %v", err)
		default:
		}
	}

	if s.reload {
		s.reload = false
		if err := s.load(); err != nil {
			log.Printf("sandbox: reload failed: %v", err)
			s.lastError = err
		}
	}

	if s.paused {
		return nil
	}

	for h, ctrl := range s.controllers {
		body, ok := s.world.Body(h)
		if !ok {
			delete(s.controllers, h)
			continue
		}
		if err := ctrl.Update(body, timeStep); err != nil {
			log.Printf("sandbox: script %s: %v", ctrl.Path(), err)
		}
	}

	s.world.Step(timeStep)
	return nil
}

func (s *Sandbox) Draw(screen *ebiten.Image) {
	s.world.Bodies(func(b *dynamics.Body) bool {
		s.drawBody(screen, b)
		return true
	})
	s.drawHUD(screen)
}

// toScreen maps a world point to screen pixels, y-up to y-down, with the
// world origin at the screen center.
func toScreen(p vmath.Vec2) (float32, float32) {
	x := float32(screenWidth/2 + p.X*pixelsPerMeter)
	y := float32(screenHeight/2 - p.Y*pixelsPerMeter)
	return x, y
}

func (s *Sandbox) drawBody(screen *ebiten.Image, b *dynamics.Body) {
	col := bodyColor(b)
	xf := b.Transform()

	for _, f := range b.Fixtures() {
		switch shape := f.Shape().(type) {
		case *dynamics.Circle:
			center := xf.Apply(shape.Center)
			cx, cy := toScreen(center)
			r := float32(shape.Radius * pixelsPerMeter)
			vector.StrokeCircle(screen, cx, cy, r, 1.5, col, true)
			// Radius line makes rotation visible.
			edge := center.Add(xf.Q.Apply(vmath.Vec2{X: shape.Radius}))
			ex, ey := toScreen(edge)
			vector.StrokeLine(screen, cx, cy, ex, ey, 1.5, col, true)
		case *dynamics.Box:
			corners := [4]vmath.Vec2{
				{X: shape.Center.X - shape.HalfWidth, Y: shape.Center.Y - shape.HalfHeight},
				{X: shape.Center.X + shape.HalfWidth, Y: shape.Center.Y - shape.HalfHeight},
				{X: shape.Center.X + shape.HalfWidth, Y: shape.Center.Y + shape.HalfHeight},
				{X: shape.Center.X - shape.HalfWidth, Y: shape.Center.Y + shape.HalfHeight},
			}
			for i := range corners {
				a := xf.Apply(corners[i])
				bb := xf.Apply(corners[(i+1)%4])
				ax, ay := toScreen(a)
				bx, by := toScreen(bb)
				vector.StrokeLine(screen, ax, ay, bx, by, 1.5, col, true)
			}
		}
	}

	// Center-of-mass marker.
	cx, cy := toScreen(b.WorldCenter())
	vector.DrawFilledRect(screen, cx-1.5, cy-1.5, 3, 3, col, false)
}

func bodyColor(b *dynamics.Body) color.RGBA {
	if !b.IsAwake() && b.Type() != dynamics.StaticBody {
		return sleepingColor
	}
	switch b.Type() {
	case dynamics.StaticBody:
		return staticColor
	case dynamics.KinematicBody:
		return kinematicColor
	default:
		return dynamicColor
	}
}

func (s *Sandbox) drawHUD(screen *ebiten.Image) {
	contacts := 0
	if g, ok := s.world.ContactManager().(*dynamics.ContactGraph); ok {
		contacts = g.Count()
	}
	awake := 0
	s.world.Bodies(func(b *dynamics.Body) bool {
		if b.IsAwake() && b.Type() != dynamics.StaticBody {
			awake++
		}
		return true
	})

	status := "running"
	if s.paused {
		status = "paused"
	}
	msg := fmt.Sprintf("%s | bodies %d (awake %d) | contacts %d | space=pause r=reload",
		status, s.world.BodyCount(), awake, contacts)
	if s.lastError != nil {
		msg += fmt.Sprintf("\nreload error: %v", s.lastError)
	}

	op := &ebtext.DrawOptions{}
	op.GeoM.Translate(8, 8)
	op.ColorScale.ScaleWithColor(color.White)
	op.LineSpacing = math.Ceil(13 * 1.2)
	ebtext.Draw(screen, msg, s.face, op)
}

func (s *Sandbox) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	scenePath := flag.String("scene", "scenes/stack.yaml", "scene spec to load")
	paused := flag.Bool("paused", false, "start paused")
	flag.Parse()

	sandbox, err := NewSandbox(*scenePath, *paused)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if sandbox.watcher != nil {
			_ = sandbox.watcher.Close()
		}
	}()

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("rigid2d sandbox")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(sandbox); err != nil {
		log.Fatal(err)
	}
}
