package cmd

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-carousel/engine/items"
	"github.com/Carmen-Shannon/oxy-carousel/engine/loader"
	"github.com/Carmen-Shannon/oxy-carousel/internal/config"
)

// newLoader builds the image loader described by cfg.
func newLoader(cfg config.Config) loader.Loader {
	opts := []loader.LoaderBuilderOption{}
	if cfg.MaxDimension > 0 {
		opts = append(opts, loader.WithMaxDimension(cfg.MaxDimension))
	}
	if len(cfg.Extensions) > 0 {
		opts = append(opts, loader.WithExtensions(cfg.Extensions...))
	}
	return loader.NewLoader(opts...)
}

// buildSequence fills a sequence with the images in cfg.ItemDir, or with cfg.Items palette swatches
// when no directory is configured.
//
// Parameters:
//   - cfg: the resolved settings
//   - l: the loader used for the item directory
//
// Returns:
//   - *items.Sequence: the populated sequence
//   - error: an error if the directory cannot be loaded or holds no supported images
func buildSequence(cfg config.Config, l loader.Loader) (*items.Sequence, error) {
	var initial []items.Item
	if cfg.ItemDir != "" {
		loaded, err := l.LoadDir(cfg.ItemDir)
		if err != nil {
			return nil, err
		}
		if len(loaded) == 0 {
			return nil, fmt.Errorf("no supported images in %s", cfg.ItemDir)
		}
		for _, item := range loaded {
			initial = append(initial, item)
		}
	} else {
		for i, swatch := range loader.Palette(cfg.Items) {
			initial = append(initial, loader.NewSwatchItem(fmt.Sprintf("swatch %d", i+1), swatch))
		}
	}
	return items.NewSequence(initial...)
}

// itemName renders an item for terminal output.
func itemName(item items.Item) string {
	if named, ok := item.(items.Named); ok {
		return named.Name()
	}
	if item == nil {
		return "<none>"
	}
	return fmt.Sprint(item)
}
