package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-carousel/engine/animation"
	"github.com/Carmen-Shannon/oxy-carousel/engine/carousel"
	"github.com/Carmen-Shannon/oxy-carousel/engine/items"
	"github.com/Carmen-Shannon/oxy-carousel/engine/loader"
)

var (
	simStepMs int
	simFrames bool
	simTrace  bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [move...]",
	Short: "Step a carousel through a list of moves",
	Long: `Simulate builds a carousel and plays each move to completion on a tick driven player,
printing the framed face, the rotate permissions and which faces have been built.

Moves:
  next, prev       rotate one face
  goto:<index>     rotate to the item at index
  name:<name>      rotate to the named item
  add              append a swatch item
  remove:<index>   remove the item at index
  orientation      toggle horizontal and vertical`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&simStepMs, "step-ms", 16, "Player tick in milliseconds")
	simulateCmd.Flags().BoolVar(&simFrames, "frames", false, "Print the camera on every tick")
	simulateCmd.Flags().BoolVar(&simTrace, "trace", false, "Print the carousel debug trace at the end")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if simStepMs <= 0 {
		return fmt.Errorf("step-ms must be positive, got %d", simStepMs)
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
	if err := c.Prepare(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printState(out, "start", c)
	step := time.Duration(simStepMs) * time.Millisecond
	for _, move := range args {
		started, err := applyMove(c, seq, move)
		if err != nil {
			return err
		}
		if !started {
			printState(out, move+" (no rotation)", c)
			continue
		}
		var elapsed time.Duration
		for player.Active() {
			player.Advance(step)
			elapsed += step
			if simFrames {
				pose := c.Camera().Pose()
				fmt.Fprintf(out, "  %8s zoom %.3f camera %.3f\n", elapsed, c.Camera().Zoom(), pose.Position)
			}
		}
		printState(out, fmt.Sprintf("%s (%s)", move, elapsed), c)
	}

	if simTrace {
		fmt.Fprintln(out, "trace:")
		for _, line := range c.DebugInfo() {
			fmt.Fprintf(out, "  %s\n", line)
		}
	}
	return nil
}

// applyMove performs one move and reports whether a transition was started.
func applyMove(c carousel.Carousel, seq *items.Sequence, move string) (bool, error) {
	verb, arg, _ := strings.Cut(move, ":")
	switch verb {
	case "next":
		return c.Next(), nil
	case "prev", "previous":
		return c.Previous(), nil
	case "goto":
		index, err := strconv.Atoi(arg)
		if err != nil {
			return false, fmt.Errorf("%s: %w", move, err)
		}
		item := seq.At(index)
		if item == nil {
			return false, fmt.Errorf("%s: no item at index %d", move, index)
		}
		before := c.State()
		if err := c.MoveTo(item); err != nil {
			return false, err
		}
		return c.State() != before, nil
	case "name":
		before := c.State()
		if err := c.MoveToName(arg); err != nil {
			return false, err
		}
		return c.State() != before, nil
	case "add":
		n := seq.Len() + 1
		palette := loader.Palette(n)
		return false, seq.Append(loader.NewSwatchItem(fmt.Sprintf("swatch %d", n), palette[n-1]))
	case "remove":
		index, err := strconv.Atoi(arg)
		if err != nil {
			return false, fmt.Errorf("%s: %w", move, err)
		}
		return false, seq.RemoveAt(index)
	case "orientation":
		c.SetOrientation(c.Orientation().Toggle())
		return false, c.Prepare()
	default:
		return false, fmt.Errorf("unknown move %q", move)
	}
}

func printState(w io.Writer, label string, c carousel.Carousel) {
	built := make([]byte, 0, c.Count())
	for _, ok := range c.Calculated() {
		if ok {
			built = append(built, '#')
		} else {
			built = append(built, '.')
		}
	}
	pose := c.Camera().Pose()
	fmt.Fprintf(w, "%-24s face %d/%d %-12s fwd=%t back=%t built [%s]\n",
		label, c.CurrentIndex(), c.Count(), itemName(c.CurrentItem()),
		c.CanRotateForward(), c.CanRotateBack(), built)
	fmt.Fprintf(w, "%-24s camera %.3f look %.3f\n", "", pose.Position, pose.LookDirection)
}
