package synthesis

// binomialBlur applies a separable 5-tap binomial kernel (1 4 6 4 1)/16,
// the discrete approximation to a Gaussian, as an optional pre-smoothing
// pass before a pyramid level is box-filtered down (spec.md §4.F "An
// optional binomial pre-smoothing ... is configurable"). Reimplemented
// here for *Frame in place of the now-retired general-purpose
// SeparableGaussianBlur this engine's pre-smoothing is adapted from,
// since that helper operated on *image.NRGBA.
var binomialWeights = [5]int{1, 4, 6, 4, 1}

const binomialSum = 16

func binomialBlur(frame *Frame) *Frame {
	out, _ := NewFrame(frame.W, frame.H, frame.Channels)
	tmp, _ := NewFrame(frame.W, frame.H, frame.Channels)

	for y := 0; y < frame.H; y++ {
		for x := 0; x < frame.W; x++ {
			var acc [4]int
			for k := -2; k <= 2; k++ {
				cx := clampCoord(x+k, 0, frame.W-1)
				p := frame.At(cx, y)
				w := binomialWeights[k+2]
				for c := 0; c < frame.Channels; c++ {
					acc[c] += int(p[c]) * w
				}
			}
			var c [4]uint8
			for ch := 0; ch < frame.Channels; ch++ {
				c[ch] = uint8(acc[ch] / binomialSum)
			}
			tmp.Set(x, y, c)
		}
	}
	for y := 0; y < frame.H; y++ {
		for x := 0; x < frame.W; x++ {
			var acc [4]int
			for k := -2; k <= 2; k++ {
				cy := clampCoord(y+k, 0, frame.H-1)
				p := tmp.At(x, cy)
				w := binomialWeights[k+2]
				for c := 0; c < frame.Channels; c++ {
					acc[c] += int(p[c]) * w
				}
			}
			var c [4]uint8
			for ch := 0; ch < frame.Channels; ch++ {
				c[ch] = uint8(acc[ch] / binomialSum)
			}
			out.Set(x, y, c)
		}
	}
	return out
}
