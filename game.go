package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/gravitypile/common"
	"github.com/milk9111/gravitypile/config"
	"github.com/milk9111/gravitypile/content"
	"github.com/milk9111/gravitypile/lifecycle"
	"github.com/milk9111/gravitypile/pile"
	"github.com/milk9111/gravitypile/sizing"
	"golang.design/x/clipboard"
)

type Game struct {
	debug bool
	log   *log.Logger

	scene    *pile.Scene
	feed     *content.Feed
	feedPath string
	watcher  *content.Watcher

	input   *Input
	painter *Painter
	hud     *HUD

	opened    bool
	err       error
	clipboard bool
}

func NewGame(tuning config.Tuning, feedPath string, debug bool, l *log.Logger) (*Game, error) {
	feed, err := content.LoadFeed(feedPath)
	if err != nil {
		return nil, err
	}

	scene, err := pile.NewScene(tuning, pile.WithLogger(l), pile.WithSource(feed))
	if err != nil {
		return nil, err
	}
	scene.SetItems(feed.Initial())

	g := &Game{
		debug:    debug,
		log:      common.Component(l, "host"),
		scene:    scene,
		feed:     feed,
		feedPath: feedPath,
		input:    NewInput(),
		painter:  NewPainter(),
	}
	g.hud = NewHUD(g)

	if err := clipboard.Init(); err != nil {
		g.log.Warn("clipboard unavailable", "err", err)
	} else {
		g.clipboard = true
	}

	if feedPath != "" {
		w, err := content.NewWatcher(filepath.Dir(feedPath))
		if err != nil {
			g.log.Warn("feed hot reload disabled", "err", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

// refresh empties the pile and reloads it after the refresh delay.
func (g *Game) refresh() {
	g.hud.SetSelected("")
	g.scene.Refresh(time.Now())
}

// dropThought adds a freshly written post that falls in from the top.
func (g *Game) dropThought() {
	p := g.feed.Random()
	item := g.feed.Compose(p.Text, p.Sentiment, time.Now())
	g.scene.Prepend(item)
	g.log.Debug("thought dropped", "id", item.ID)
}

func (g *Game) selected(id string) {
	item, ok := g.scene.Item(id)
	if !ok {
		return
	}
	g.hud.SetSelected(item.Text)
	if g.clipboard {
		clipboard.Write(clipboard.FmtText, []byte(item.Text))
	}
	g.log.Info("post selected", "id", id)
}

func (g *Game) reloadFeed() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if filepath.Clean(path) != filepath.Clean(g.feedPath) {
				continue
			}
			feed, err := content.LoadFeed(g.feedPath)
			if err != nil {
				g.log.Warn("feed reload failed", "err", err)
				continue
			}
			g.feed = feed
			g.scene.SetItems(feed.Initial())
			g.log.Info("feed reloaded", "posts", len(feed.Spec().Posts))
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.log.Warn("feed watcher", "err", err)
			}
		default:
			return
		}
	}
}

func (g *Game) Update() error {
	if g.err != nil {
		return g.err
	}
	now := time.Now()

	g.reloadFeed()
	g.hud.Update()
	g.input.Update(g.scene, now, g.hud.Contains)
	if err := g.scene.Tick(now); err != nil {
		return err
	}

	for _, evt := range g.scene.Events() {
		switch evt.Type {
		case pile.EventSelected:
			g.selected(evt.ID)
		case pile.EventReset:
			g.painter.Reset()
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	g.painter.Draw(screen, g.scene.Frame())
	g.hud.SetLoading(g.scene.Loading())
	g.hud.Draw(screen)

	if g.debug {
		w := g.scene.World()
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.1f  TPS: %.1f  steps: %d  gen: %d  recovered: %d",
			ebiten.ActualFPS(), ebiten.ActualTPS(), w.Steps(), w.Generation(), g.scene.Recovered()), 6, screenHeight(screen)-18)
	}
}

// Layout keeps the logical screen equal to the window so the pile fills it.
// Size changes go through the scene's resize debounce.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	vp := lifecycle.Viewport{
		Width:   float64(outsideWidth),
		Height:  float64(outsideHeight),
		Density: sizing.DensityForWidth(float64(outsideWidth)),
	}
	if !g.opened {
		if outsideWidth <= 0 || outsideHeight <= 0 {
			return 1, 1
		}
		if err := g.scene.Open(vp); err != nil {
			g.err = err
		} else {
			g.opened = true
		}
	} else {
		g.scene.Resize(vp, time.Now())
	}
	return outsideWidth, outsideHeight
}

func screenHeight(img *ebiten.Image) int {
	return img.Bounds().Dy()
}
