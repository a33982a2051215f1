package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-carousel/engine/animation"
	"github.com/Carmen-Shannon/oxy-carousel/engine/carousel"
	"github.com/Carmen-Shannon/oxy-carousel/engine/renderer/snapshot"
)

var (
	snapOutput  string
	snapAtMs    int
	snapShading bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [move...]",
	Short: "Render the carousel to a PNG or WebP file",
	Long: `Snapshot plays the given moves (see simulate) and renders the resulting frame with
the software rasterizer. With --at the last move is stopped that many milliseconds
into its transition, which captures the polygon mid rotation.

The output format follows the file extension: .png or .webp.`,
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapOutput, "output", "O", "carousel.png", "Output image path")
	snapshotCmd.Flags().IntVar(&snapAtMs, "at", -1, "Stop the last move this many milliseconds in")
	snapshotCmd.Flags().BoolVar(&snapShading, "shading", true, "Darken faces turned away from the camera")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := snapshot.FormatFromPath(snapOutput); err != nil {
		return err
	}
	seq, err := buildSequence(cfg, newLoader(cfg))
	if err != nil {
		return err
	}
	opts, err := cfg.CarouselOptions()
	if err != nil {
		return err
	}
	player := animation.NewTickPlayer()
	opts = append(opts, carousel.WithPlayer(player), carousel.WithLogger(logger()))
	c, err := carousel.NewCarousel(seq, opts...)
	if err != nil {
		return err
	}
	defer c.Close()

	for i, move := range args {
		started, err := applyMove(c, seq, move)
		if err != nil {
			return err
		}
		if !started {
			continue
		}
		if i == len(args)-1 && snapAtMs >= 0 {
			player.Advance(time.Duration(snapAtMs) * time.Millisecond)
			break
		}
		player.Finish()
	}

	r := snapshot.NewRenderer(snapshot.WithShading(snapShading))
	img, err := r.Render(c)
	if err != nil {
		return err
	}
	if err := snapshot.WriteFile(snapOutput, img); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d, face %d/%d %s)\n", snapOutput,
		img.Bounds().Dx(), img.Bounds().Dy(), c.CurrentIndex(), c.Count(), itemName(c.CurrentItem()))
	return nil
}
