// Package stdimg bridges the host-facing image.Image world to the
// synthesis engine's own Frame/Mask types.
package stdimg

import (
	"image"

	"github.com/Fepozopo/synthfill/pkg/synthesis"
)

// ToNRGBA converts any image.Image to *image.NRGBA (non-premultiplied RGBA).
func ToNRGBA(src image.Image) *image.NRGBA {
	if src == nil {
		return nil
	}
	if n, ok := src.(*image.NRGBA); ok {
		// return a copy to avoid modifying original
		out := image.NewNRGBA(n.Rect)
		copy(out.Pix, n.Pix)
		return out
	}
	b := src.Bounds()
	out := image.NewNRGBA(b)
	idx := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, b_, a := src.At(x, y).RGBA()
			// r,g,b,a are 16-bit [0, 65535]; convert to 8-bit
			out.Pix[idx+0] = uint8(r >> 8)
			out.Pix[idx+1] = uint8(g >> 8)
			out.Pix[idx+2] = uint8(b_ >> 8)
			out.Pix[idx+3] = uint8(a >> 8)
			idx += 4
		}
	}
	return out
}

// FrameFromImage converts any image.Image into a 4-channel
// synthesis.Frame, going through ToNRGBA so every source color model
// lands on the same 8-bit-per-channel, non-premultiplied layout the
// engine expects.
func FrameFromImage(src image.Image) (*synthesis.Frame, error) {
	n := ToNRGBA(src)
	b := n.Bounds()
	w, h := b.Dx(), b.Dy()
	frame, err := synthesis.NewFrame(w, h, 4)
	if err != nil {
		return nil, err
	}
	for y := 0; y < h; y++ {
		srcOff := n.PixOffset(b.Min.X, b.Min.Y+y)
		dstOff := frame.Offset(0, y)
		copy(frame.Pix[dstOff:dstOff+w*4], n.Pix[srcOff:srcOff+w*4])
	}
	return frame, nil
}

// ImageFromFrame converts a synthesis.Frame back to an *image.NRGBA for
// display or re-encoding. Frames with fewer than 4 channels are expanded,
// replicating the single channel into R/G/B for grayscale and forcing
// full opacity.
func ImageFromFrame(frame *synthesis.Frame) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, frame.W, frame.H))
	for y := 0; y < frame.H; y++ {
		for x := 0; x < frame.W; x++ {
			c := frame.At(x, y)
			i := out.PixOffset(x, y)
			switch frame.Channels {
			case 1:
				out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = c[0], c[0], c[0], 0xFF
			case 2:
				out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = c[0], c[0], c[0], c[1]
			case 3:
				out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = c[0], c[1], c[2], 0xFF
			default:
				out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = c[0], c[1], c[2], c[3]
			}
		}
	}
	return out
}

// MaskFromImage builds a synthesis.Mask from a grayscale selection image:
// any pixel at or above threshold luminance is treated as target (the
// "hole" to synthesize); the rest is source. This is the host-side
// counterpart of the user-supplied mask spec.md §3 describes — drawing
// and mouse/contour interaction themselves are out of the engine's scope.
func MaskFromImage(src image.Image, threshold uint8) *synthesis.Mask {
	n := ToNRGBA(src)
	b := n.Bounds()
	w, h := b.Dx(), b.Dy()
	mask := synthesis.NewMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := n.PixOffset(b.Min.X+x, b.Min.Y+y)
			lum := uint8((299*int(n.Pix[i]) + 587*int(n.Pix[i+1]) + 114*int(n.Pix[i+2])) / 1000)
			if lum >= threshold {
				mask.Set(x, y, 0)
			}
		}
	}
	return mask
}
