package loader

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/webp"
)

// loaderBackend decodes one image file format.
type loaderBackend interface {
	// Decode reads a full image from r.
	//
	// Parameters:
	//   - r: the encoded image stream
	//
	// Returns:
	//   - image.Image: the decoded image
	//   - error: error if decoding fails
	Decode(r io.Reader) (image.Image, error)
}

type decodeFunc func(r io.Reader) (image.Image, error)

func (f decodeFunc) Decode(r io.Reader) (image.Image, error) {
	return f(r)
}

// backends maps lower case file extensions to their decoder.
var backends = map[string]loaderBackend{
	".jpg":  decodeFunc(jpeg.Decode),
	".jpeg": decodeFunc(jpeg.Decode),
	".png":  decodeFunc(png.Decode),
	".webp": decodeFunc(webp.Decode),
	".tga":  decodeFunc(tga.Decode),
}
