package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/milk9111/gravitypile/common"
	"github.com/milk9111/gravitypile/config"
	"github.com/milk9111/gravitypile/content"
	"github.com/milk9111/gravitypile/lifecycle"
	"github.com/milk9111/gravitypile/physics"
	"github.com/milk9111/gravitypile/pile"
	"github.com/milk9111/gravitypile/render"
	"github.com/milk9111/gravitypile/sizing"
	"github.com/spf13/cobra"
)

var (
	title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	dim   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

var (
	verbose    bool
	configFile string
	feedFile   string
	duration   time.Duration
	width      float64
	height     float64
	seed       int64
	tapEvery   time.Duration
	watch      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "pilesim",
		Short:        "headless gravity pile simulation",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "drop the feed into a pile and report how it settles",
		RunE:  runPile,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "tuning file (yaml)")
	runCmd.Flags().StringVar(&feedFile, "feed", "", "feed file (yaml), embedded feed when empty")
	runCmd.Flags().DurationVar(&duration, "duration", 5*time.Second, "how long to simulate")
	runCmd.Flags().Float64Var(&width, "width", 960, "viewport width")
	runCmd.Flags().Float64Var(&height, "height", 720, "viewport height")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	runCmd.Flags().DurationVar(&tapEvery, "tap-every", 0, "tap a visible post at this interval")
	runCmd.Flags().BoolVar(&watch, "watch", false, "reload the feed file when it changes")

	classifyCmd := &cobra.Command{
		Use:   "classify [text...]",
		Short: "print the size class of each text",
		Args:  cobra.MinimumNArgs(1),
		RunE:  classify,
	}
	classifyCmd.Flags().Float64Var(&width, "width", 960, "viewport width used to pick density")

	rootCmd.AddCommand(runCmd, classifyCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func logger() *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return common.NewLogger(os.Stderr, level)
}

func runPile(cmd *cobra.Command, args []string) error {
	l := logger()
	tuning, err := config.Load(configFile)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(seed))
	feed, err := content.LoadFeed(feedFile, content.WithRand(rand.New(rand.NewSource(seed+1))))
	if err != nil {
		return err
	}

	scene, err := pile.NewScene(tuning,
		pile.WithRand(rng),
		pile.WithLogger(l),
		pile.WithSource(feed),
	)
	if err != nil {
		return err
	}
	scene.SetItems(feed.Initial())

	vp := lifecycle.Viewport{Width: width, Height: height, Density: sizing.DensityForWidth(width)}
	if err := scene.Open(vp); err != nil {
		return err
	}

	loop := pile.NewLoop(scene, tuning.Physics.StepRate, 60, l)
	selected := 0
	loop.OnEvent = func(evt pile.Event) {
		if evt.Type != pile.EventSelected {
			return
		}
		selected++
		if it, ok := scene.Item(evt.ID); ok {
			l.Info("post selected", "id", evt.ID, "text", it.Text)
		}
	}

	var lastTap time.Time
	var motion []float64
	loop.OnFrame = func(elements []*render.Element) {
		motion = append(motion, meanSpeed(scene))
		if tapEvery <= 0 || time.Since(lastTap) < tapEvery {
			return
		}
		for _, el := range elements {
			if !el.Visible || el.CY < 0 || el.CY > height {
				continue
			}
			lastTap = time.Now()
			loop.Pointers <- pile.PointerEvent{Kind: pile.PointerDown, X: el.CX, Y: el.CY}
			loop.Pointers <- pile.PointerEvent{Kind: pile.PointerUp, X: el.CX, Y: el.CY}
			return
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), duration)
	defer cancel()

	if watch && feedFile != "" {
		w, err := content.NewWatcher(filepath.Dir(feedFile))
		if err != nil {
			return fmt.Errorf("watch feed: %w", err)
		}
		defer w.Close()
		go reloadFeed(ctx, w, loop, l)
	}

	start := time.Now()
	if err := loop.Run(ctx); err != nil {
		return err
	}
	return report(scene, selected, time.Since(start), motion)
}

func meanSpeed(scene *pile.Scene) float64 {
	world := scene.World()
	if !world.Initialized() || world.Len() == 0 {
		return 0
	}
	total := 0.0
	world.Each(func(_ string, t physics.Transform) {
		total += math.Hypot(t.VX, t.VY)
	})
	return total / float64(world.Len())
}

// reloadFeed sends a fresh batch to the loop whenever the feed file changes.
func reloadFeed(ctx context.Context, w *content.Watcher, loop *pile.Loop, l *log.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(path) != filepath.Clean(feedFile) {
				continue
			}
			feed, err := content.LoadFeed(feedFile)
			if err != nil {
				l.Warn("feed reload failed", "err", err)
				continue
			}
			l.Info("feed reloaded", "path", path)
			select {
			case loop.Items <- feed.Initial():
			case <-ctx.Done():
				return
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			l.Warn("feed watcher", "err", err)
		}
	}
}

func report(scene *pile.Scene, selected int, elapsed time.Duration, motion []float64) error {
	world := scene.World()
	vp := scene.Viewport()
	settled, above := 0, 0
	world.Each(func(_ string, t physics.Transform) {
		switch {
		case t.Y < 0:
			above++
		case t.VX*t.VX+t.VY*t.VY < 25*25:
			settled++
		}
	})

	fmt.Println(title.Render("pile settled"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "viewport\t%vx%v (%s)\n", vp.Width, vp.Height, vp.Density)
	fmt.Fprintf(w, "elapsed\t%s\n", elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "steps\t%d\n", world.Steps())
	fmt.Fprintf(w, "posts\t%d\n", world.Len())
	fmt.Fprintf(w, "settled\t%d\n", settled)
	fmt.Fprintf(w, "above viewport\t%d\n", above)
	fmt.Fprintf(w, "recovered\t%d\n", scene.Recovered())
	fmt.Fprintf(w, "selected\t%d\n", selected)
	if err := w.Flush(); err != nil {
		return err
	}

	if len(motion) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(motion,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("mean speed (px/s) per frame"),
		))
	}
	return nil
}

func classify(cmd *cobra.Command, args []string) error {
	d := sizing.DensityForWidth(width)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Println(dim.Render(fmt.Sprintf("density: %s", d)))
	fmt.Fprintf(w, "tier\tsize\tradius\tfont\ttext\n")
	for _, text := range args {
		c := sizing.Classify(text, d)
		fmt.Fprintf(w, "%s\t%vx%v\t%v\t%.2f\t%q\n", c.Tier, c.Width, c.Height, c.CornerRadius, c.FontScale, text)
	}
	return w.Flush()
}
