package planta

import (
	"io/fs"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	windowTitle = "Planta"
	helpLine    = "1-6 add  drag move  wheel/R rotate  right-click edit  Ctrl+drag pan  Ctrl+N/O/S new/open/save  Ctrl+P scale"
)

// Game runs the editor on ebiten. All scene mutation happens in Update.
type Game struct {
	meshes     *MeshStore
	scene      *Scene
	screen     *ScreenRenderer
	picker     *Picker
	overlay    *Overlay
	controller *Controller
	tasks      *TaskQueue
	input      inputPoller

	width  int
	height int

	drawn         bool
	drawnVersion  uint64
	drawnStatus   string
	overlayShown  bool
	titleModified bool
}

// NewGame wires the editor. files may be nil, which disables open and save.
func NewGame(width, height int, files ProjectFiles, tasks *TaskQueue) *Game {
	log.Println("Initializing editor...")
	if tasks == nil {
		tasks = NewTaskQueue(16)
	}

	g := &Game{
		meshes: NewMeshStore(),
		tasks:  tasks,
		width:  width,
		height: height,
	}
	g.scene = NewScene(g.meshes)
	g.screen = NewScreenRenderer(g.meshes)
	g.picker = NewPicker(g.scene, NewEbitenPickTarget(g.meshes))
	g.overlay = NewOverlay()
	g.controller = NewController(g.scene, g.picker, g.overlay, files)
	g.controller.Resize(width, height)

	log.Println("Initialization Complete.")
	return g
}

func (g *Game) Controller() *Controller {
	return g.controller
}

func (g *Game) Update() error {
	g.tasks.Drain()
	g.controller.Resize(g.width, g.height)

	if g.overlay.Pending() {
		g.overlay.Update()
		g.input.pollReleases(g.controller)
	} else {
		g.input.poll(g.controller)
		g.openDropped()
	}

	if m := g.scene.Modified(); m != g.titleModified {
		g.titleModified = m
		title := windowTitle
		if m {
			title += " *"
		}
		ebiten.SetWindowTitle(title)
	}
	return nil
}

// openDropped opens the first file dropped on the window.
func (g *Game) openDropped() {
	dropped := ebiten.DroppedFiles()
	if dropped == nil {
		return
	}
	entries, err := fs.ReadDir(dropped, ".")
	if err != nil {
		log.Printf("[LOAD] dropped files: %v", err)
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := fs.ReadFile(dropped, e.Name())
		if err != nil {
			log.Printf("[LOAD] %s: %v", e.Name(), err)
			return
		}
		log.Printf("[LOAD] dropped %s", e.Name())
		g.controller.OpenData(data)
		return
	}
}

// Draw repaints only when the scene, the status line or a modal changed.
// The screen is not cleared between frames.
func (g *Game) Draw(screen *ebiten.Image) {
	status := g.controller.StatusLine()
	pending := g.overlay.Pending()
	if g.drawn && !pending && !g.overlayShown &&
		g.drawnVersion == g.scene.Version() && g.drawnStatus == status {
		return
	}

	g.screen.Begin(screen)
	g.scene.Draw(g.screen, g.controller.View(), DrawVisual)
	ebitenutil.DebugPrintAt(screen, helpLine, 4, 2)
	ebitenutil.DebugPrintAt(screen, status, 4, g.height-lineHeight-2)
	g.overlay.Draw(screen)

	g.drawn = true
	g.drawnVersion = g.scene.Version()
	g.drawnStatus = status
	g.overlayShown = pending
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width = outsideWidth
		g.height = outsideHeight
		g.drawn = false
	}
	return outsideWidth, outsideHeight
}
