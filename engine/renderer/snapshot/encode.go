package snapshot

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-carousel/common"
	"github.com/HugoSmits86/nativewebp"
)

// Format is an output image encoding.
type Format int

const (
	FormatPNG Format = iota
	FormatWebP
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatWebP:
		return "webp"
	default:
		return "unknown"
	}
}

// FormatFromPath picks the encoding from a file extension.
//
// Parameters:
//   - path: the output file name
//
// Returns:
//   - Format: the encoding
//   - error: ErrInvalidArgument for extensions other than .png and .webp
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".webp":
		return FormatWebP, nil
	default:
		return 0, common.InvalidArgument("unsupported snapshot format %q", filepath.Ext(path))
	}
}

// Encode writes img to w in the given format. WebP output is lossless.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatWebP:
		return nativewebp.Encode(w, img, nil)
	default:
		return common.InvalidArgument("unknown format %d", format)
	}
}

// WriteFile encodes img into path, choosing the format by extension.
//
// Parameters:
//   - path: the output file
//   - img: the frame to save
//
// Returns:
//   - error: an error if the format is unsupported or the file cannot be written
func WriteFile(path string, img image.Image) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, img, format); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
