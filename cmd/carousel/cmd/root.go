package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-carousel/internal/config"
)

var (
	verbose    bool
	configPath string
	flags      config.Flags
)

var rootCmd = &cobra.Command{
	Use:   "carousel",
	Short: "n-gon carousel layout and rotation engine",
	Long: `carousel arranges items on the faces of a regular polygon and rotates between them
by zooming out, turning the polygon the shorter way round and zooming back in.

Use the subcommands to inspect rotation plans, step through transitions,
render still frames or open an interactive viewer.`,
	Version: "0.3.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		flags.MarginSet = cmd.Flags().Changed("margin")
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Log carousel and loader diagnostics")
	pf.StringVarP(&configPath, "config", "c", "", "JSON config file")
	pf.StringVarP(&flags.ItemDir, "dir", "d", "", "Directory of item images")
	pf.IntVarP(&flags.Items, "items", "n", 0, "Number of swatch items when no directory is given")
	pf.StringVarP(&flags.Orientation, "orientation", "o", "", "horizontal or vertical")
	pf.Float64VarP(&flags.Margin, "margin", "m", 0, "Extra polygon radius between faces")
	pf.IntVar(&flags.Width, "width", 0, "Viewport width in pixels")
	pf.IntVar(&flags.Height, "height", 0, "Viewport height in pixels")
	pf.IntVar(&flags.ZoomTimeMs, "zoom-ms", 0, "Duration of each zoom phase")
	pf.IntVar(&flags.RotationTimeMs, "rotation-ms", 0, "Duration of each rotation step")
}

// loadConfig reads the optional config file and applies the command line overrides.
//
// Returns:
//   - config.Config: the resolved settings
//   - error: an error if the file cannot be read or a setting is invalid
func loadConfig() (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if err := cfg.Resolve(flags); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// logger returns the diagnostics logger, discarding output unless --verbose is set.
func logger() *log.Logger {
	if verbose {
		return log.New(os.Stderr, "", log.LstdFlags)
	}
	return log.New(io.Discard, "", 0)
}
