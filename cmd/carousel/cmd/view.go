package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-carousel/engine"
	"github.com/Carmen-Shannon/oxy-carousel/engine/profiler"
	"github.com/Carmen-Shannon/oxy-carousel/engine/renderer"
	"github.com/Carmen-Shannon/oxy-carousel/engine/scene"
	"github.com/Carmen-Shannon/oxy-carousel/engine/window"
)

var viewSoftware bool

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open the interactive carousel viewer",
	Long: `View opens a window showing the carousel.

Keys:
  Right/Down, Left/Up   next / previous face
  1-9, Space            jump to a face / the first face
  +, -                  add / remove a swatch item
  O                     toggle horizontal and vertical orientation
  M                     cycle face margins
  P                     toggle the profiler log
  Escape                quit

Clicking the right or left half of the window rotates forward or back.
Dropping image files onto the window appends them as items.`,
	RunE: runView,
}

func init() {
	viewCmd.Flags().StringVar(&flags.PresentMode, "present-mode", "", "vsync or uncapped")
	viewCmd.Flags().BoolVar(&flags.Profile, "profile", false, "Log frame and transition statistics")
	viewCmd.Flags().BoolVar(&viewSoftware, "software", false, "Force the software wgpu adapter")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	l := newLoader(cfg)
	seq, err := buildSequence(cfg, l)
	if err != nil {
		return err
	}
	opts, err := cfg.CarouselOptions()
	if err != nil {
		return err
	}

	win := window.NewWindow(
		window.WithTitle("Carousel"),
		window.WithSize(cfg.Width, cfg.Height),
	)
	presenter := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		win,
		renderer.WithPresentMode(renderer.ParsePresentMode(cfg.PresentMode)),
		renderer.WithForceSoftwareRenderer(cfg.SoftwareRenderer || viewSoftware),
	)
	prof := profiler.NewProfiler()

	s, err := scene.NewScene(seq,
		scene.WithCarouselOptions(opts...),
		scene.WithPresenter(presenter),
		scene.WithLoader(l),
		scene.WithProfiler(prof),
		scene.WithLogger(logger()),
	)
	if err != nil {
		presenter.Release()
		win.Close()
		return fmt.Errorf("scene: %w", err)
	}
	defer s.Close()

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithProfiler(prof),
		engine.WithProfiling(cfg.Profile),
		engine.WithTickRate(cfg.TickRate),
		engine.WithRenderFrameLimit(cfg.FrameLimit),
		engine.WithStage(0, s),
	)
	eng.Run()
	return nil
}
