package loader

import "strings"

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithMaxDimension bounds the longer side of loaded images. Zero keeps full resolution.
//
// Parameters:
//   - pixels: the maximum side length
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithMaxDimension(pixels int) LoaderBuilderOption {
	return func(l *loader) {
		l.maxDimension = pixels
	}
}

// WithExtensions restricts which file extensions LoadDir picks up, e.g. ".jpg" for the classic
// photo demo.
//
// Parameters:
//   - extensions: extensions including the leading dot
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithExtensions(extensions ...string) LoaderBuilderOption {
	return func(l *loader) {
		l.extensions = l.extensions[:0]
		for _, ext := range extensions {
			l.extensions = append(l.extensions, strings.ToLower(ext))
		}
	}
}

// WithWorkers sets how many files LoadDir decodes at once.
func WithWorkers(workers int) LoaderBuilderOption {
	return func(l *loader) {
		l.workers = max(workers, 1)
	}
}

// WithItem pre-populates the cache.
//
// Parameters:
//   - path: the cache key
//   - item: the item to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithItem(path string, item *Item) LoaderBuilderOption {
	return func(l *loader) {
		l.itemCache[path] = item
	}
}
