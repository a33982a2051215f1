package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-carousel/common"
	"github.com/Carmen-Shannon/oxy-carousel/engine/animation"
	"github.com/Carmen-Shannon/oxy-carousel/engine/planner"
	"github.com/Carmen-Shannon/oxy-carousel/internal/config"
)

var planCmd = &cobra.Command{
	Use:   "plan <current> <target>",
	Short: "Show the rotation plan between two faces",
	Long: `Plan picks the shorter way round the polygon from current to target and prints
the direction, the steps crossed, the rotation angle and the transition timeline.

The polygon has --items faces.`,
	Args: cobra.ExactArgs(2),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	current, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("current: %w", err)
	}
	target, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}

	count := cfg.Items
	plan, err := planner.PlanMove(current, target, count)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "faces:     %d\n", count)
	fmt.Fprintf(out, "forward:   %d\n", plan.ForwardSteps)
	fmt.Fprintf(out, "backward:  %d\n", plan.BackwardSteps)
	if plan.Noop() {
		fmt.Fprintln(out, "nothing to do")
		return nil
	}
	fmt.Fprintf(out, "direction: %s\n", plan.Direction)
	fmt.Fprintf(out, "steps:     %d\n", plan.Steps)
	fmt.Fprintf(out, "angle:     %.2f°\n", plan.AngleDegrees(count))

	fmt.Fprint(out, "path:     ")
	for i := 1; i <= plan.Steps; i++ {
		fmt.Fprintf(out, " %d", planner.Advance(current, plan.Direction, i, count))
	}
	fmt.Fprintln(out)

	orientation, _ := common.ParseOrientation(cfg.Orientation)
	zoom, _ := config.Milliseconds(cfg.ZoomTimeMs)
	rotation, _ := config.Milliseconds(cfg.RotationTimeMs)
	timeline, err := animation.TransitionTimeline(animation.TransitionParams{
		Axis:         orientation.Axis(),
		SideCount:    count,
		Steps:        plan.Steps,
		Multiplier:   int(plan.Direction),
		ZoomTime:     zoom,
		RotationTime: rotation,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "timeline:  %s\n", timeline.Duration())
	for _, track := range timeline.Tracks {
		fmt.Fprintf(out, "  %-8s begin %-8s for %s\n", track.Property, track.Begin, track.Duration)
	}
	return nil
}
