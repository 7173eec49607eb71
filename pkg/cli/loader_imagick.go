//go:build imagick

package cli

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"gopkg.in/gographics/imagick.v3/imagick"
)

// LoadFrameImagick decodes path through ImageMagick instead of the
// standard library's image.Decode, for formats Go has no registered
// codec for (TIFF, PSD, HEIC, and friends). Built only with -tags
// imagick, since it links against the system ImageMagick libraries.
func LoadFrameImagick(path string) (image.Image, string, error) {
	imagick.Initialize()
	defer imagick.Terminate()

	mw := imagick.NewMagickWand()
	defer mw.Destroy()

	if err := mw.ReadImage(path); err != nil {
		return nil, "", fmt.Errorf("imagick read %s: %w", path, err)
	}

	w, h := mw.GetImageWidth(), mw.GetImageHeight()
	raw, err := mw.ExportImagePixels(0, 0, w, h, "RGBA", imagick.PIXEL_CHAR)
	if err != nil {
		return nil, "", fmt.Errorf("imagick export pixels: %w", err)
	}
	pixels, ok := raw.([]byte)
	if !ok {
		return nil, "", fmt.Errorf("imagick export pixels: unexpected pixel storage type %T", raw)
	}

	img := image.NewNRGBA(image.Rect(0, 0, int(w), int(h)))
	copy(img.Pix, pixels)
	return img, mw.GetImageFormat(), nil
}

// SaveFrameImagick encodes img to path via ImageMagick, inferring the
// output format from path's extension the same way SaveImage does for
// the standard-library codecs.
func SaveFrameImagick(path string, img image.Image) error {
	imagick.Initialize()
	defer imagick.Terminate()

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pixels := make([]byte, 0, w*h*4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			pixels = append(pixels, byte(r>>8), byte(g>>8), byte(bl>>8), byte(a>>8))
		}
	}

	mw := imagick.NewMagickWand()
	defer mw.Destroy()
	if err := mw.ConstituteImage(uint(w), uint(h), "RGBA", imagick.PIXEL_CHAR, pixels); err != nil {
		return fmt.Errorf("imagick constitute image: %w", err)
	}
	format := strings.TrimPrefix(strings.ToUpper(filepath.Ext(path)), ".")
	if format == "" {
		format = "PNG"
	}
	if err := mw.SetImageFormat(format); err != nil {
		return fmt.Errorf("imagick set format %s: %w", format, err)
	}
	if err := mw.WriteImage(path); err != nil {
		return fmt.Errorf("imagick write %s: %w", path, err)
	}
	return nil
}
