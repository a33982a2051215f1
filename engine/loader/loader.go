package loader

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"golang.org/x/image/draw"
)

// DefaultMaxDimension bounds the longer side of a loaded item image.
const DefaultMaxDimension = 512

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	itemCache    map[string]*Item
	extensions   []string
	maxDimension int
	workers      int
}

// Loader loads carousel items from image files and caches them by path.
type Loader interface {
	// Load decodes one image file into an item named after the file base name.
	// Cached items are returned without touching the file again.
	//
	// Parameters:
	//   - path: the image file
	//
	// Returns:
	//   - *Item: the loaded item
	//   - error: error if the format is unsupported or decoding fails
	Load(path string) (*Item, error)

	// LoadDir loads every supported image in dir, sorted by file name. Files are decoded in
	// parallel; the first failure aborts the load.
	//
	// Parameters:
	//   - dir: the directory to scan (not recursive)
	//
	// Returns:
	//   - []*Item: the loaded items
	//   - error: error if the directory cannot be read or an image fails to decode
	LoadDir(dir string) ([]*Item, error)

	// Get retrieves a cached item by path. Returns nil if not found.
	Get(path string) *Item

	// Supported reports whether path has a supported extension.
	Supported(path string) bool
}

var _ Loader = &loader{}

// NewLoader creates a Loader for jpg, png, webp and tga images.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: the new loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		itemCache:    make(map[string]*Item),
		maxDimension: DefaultMaxDimension,
		workers:      4,
	}
	for ext := range backends {
		l.extensions = append(l.extensions, ext)
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := backends[ext]; !ok {
		return false
	}
	return slices.Contains(l.extensions, ext)
}

func (l *loader) Get(path string) *Item {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.itemCache[path]
}

func (l *loader) Load(path string) (*Item, error) {
	if cached := l.Get(path); cached != nil {
		return cached, nil
	}
	if !l.Supported(path) {
		return nil, fmt.Errorf("unsupported image format: %s", filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := backends[strings.ToLower(filepath.Ext(path))].Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	item := &Item{
		name:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		path:   path,
		image:  l.downscale(img),
		swatch: averageColor(img),
	}

	l.mu.Lock()
	l.itemCache[path] = item
	l.mu.Unlock()
	return item, nil
}

func (l *loader) LoadDir(dir string) ([]*Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && l.Supported(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(paths)

	out := make([]*Item, len(paths))
	errs := make([]error, len(paths))
	pool := worker.NewDynamicWorkerPool(l.workers, len(paths)+1, 1*time.Second)
	defer pool.Stop()
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		idx, p := i, path
		pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				out[idx], errs[idx] = l.Load(p)
				return out[idx], errs[idx]
			},
		})
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// downscale fits img inside maxDimension on its longer side.
func (l *loader) downscale(img image.Image) image.Image {
	b := img.Bounds()
	longest := max(b.Dx(), b.Dy())
	if l.maxDimension <= 0 || longest <= l.maxDimension {
		return img
	}
	scale := float64(l.maxDimension) / float64(longest)
	w := max(int(float64(b.Dx())*scale), 1)
	h := max(int(float64(b.Dy())*scale), 1)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
