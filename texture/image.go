package texture

import (
	"image"
	"image/draw"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"os"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// Decode decodes the named image file.
//
func Decode(name string) (image.Image, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeReader(f, name)
}

// DecodeReader decodes an image from r. The name is only used in error
// messages.
//
func DecodeReader(r io.Reader, name string) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	return img, nil
}

// pixels returns the pixels of src as tightly packed rows in the given format,
// bottom row first so that texture space Y points up.
//
func pixels(src image.Image, f Format) []byte {
	sr := src.Bounds()
	w, h := sr.Dx(), sr.Dy()
	// non-premultiplied, like the data returned by most image loaders.
	rgba, ok := src.(*image.NRGBA)
	if !ok || rgba.Stride != 4*w || sr.Min != (image.Point{}) {
		dr := image.Rectangle{Max: sr.Size()}
		rgba = image.NewNRGBA(dr)
		draw.Draw(rgba, dr, src, sr.Min, draw.Src)
	}

	n := formats[f].channels
	pix := make([]byte, w*h*n)
	for y := 0; y < h; y++ {
		srow := rgba.Pix[y*rgba.Stride : y*rgba.Stride+4*w]
		drow := pix[(h-1-y)*w*n : (h-y)*w*n]
		if n == 4 {
			copy(drow, srow)
			continue
		}
		for x := 0; x < w; x++ {
			copy(drow[x*n:x*n+n], srow[x*4:x*4+n])
		}
	}
	return pix
}
