package synthesis

import "sync/atomic"

// Result is Inpaint's successful output (spec.md §6 "Outputs").
type Result struct {
	// Frame is the inpainted frame, identical type and layout to the
	// input frame.
	Frame *Frame

	// Mapping is the finest level's converged Mapping, returned so a
	// video caller can pass it as the prior-frame mapping for the next
	// frame's homography-adaption initializer. Always set on success.
	Mapping Mapping

	// TotalCost is the finest level's Information-cost diagnostic total.
	// Zero unless WantCost was set on the call.
	TotalCost uint64
}

// VideoInput carries the optional prior-frame state for the
// homography-adaption initializer (spec.md §6 "Optional prior-frame
// Mapping plus a 3x3 homography (video mode)").
type VideoInput struct {
	PriorMapping Mapping
	PriorMask    *Mask
	Homography   Homography
}

// Inpaint is the engine's sole entry point: it builds the pyramid,
// drives Initializer/Optimizer across every level coarsest-to-finest,
// and writes the synthesized frame through a CreatorInpaintingContent
// (spec.md §4.F "Final assembly"). frame is never mutated before the
// finest level has fully converged; on any error, Result is the zero
// value and frame is returned unmodified in the caller's own buffer.
func Inpaint(frame *Frame, mask *Mask, filter *Filter, cfg Config, seed int64, pool *WorkerPool, video *VideoInput, constraints []Constraint, stop *atomic.Bool, wantCost bool) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if frame.Channels < 1 || frame.Channels > 4 {
		return Result{}, &Error{Kind: InvalidInput, Msg: "frame channel count must be 1..4"}
	}
	if !mask.HasTarget() {
		return Result{}, &Error{Kind: InvalidInput, Msg: "mask has no target pixels"}
	}
	if len(constraints) >= int(noConstraint) {
		return Result{}, &Error{Kind: InvalidInput, Msg: "too many constraints for the decision frame"}
	}

	pyramid, err := BuildPyramid(frame, mask, filter, cfg)
	if err != nil {
		return Result{}, err
	}

	var vc *videoContext
	if video != nil {
		if _, invertible := video.Homography.Invert(); !invertible {
			return Result{}, &Error{Kind: InvalidInput, Msg: "homography is not invertible"}
		}
		vc = &videoContext{PriorMapping: video.PriorMapping, PriorMask: video.PriorMask, H: video.Homography}
	}

	finest, err := pyramid.Run(cfg, seed, pool, stop, vc, constraints)
	if err != nil {
		return Result{}, err
	}

	out, err := WrapFrame(frame.W, frame.H, frame.Channels, frame.Stride, append([]uint8(nil), frame.Pix...))
	if err != nil {
		return Result{}, err
	}
	creator := CreatorInpaintingContent{Out: out, In: frame}
	if _, err := creator.Create(finest); err != nil {
		return Result{}, err
	}

	if cfg.SeamBlendBand > 0 {
		blendSeam(out, mask, cfg.SeamBlendBand)
	}

	res := Result{Frame: out, Mapping: finest.Mapping}
	if wantCost {
		costCreator := CreatorInformationCost{WeightFactor: cfg.WeightFactor, BorderFactor: cfg.BorderFactor, MaxSpatialCost: cfg.MaxSpatialCost}
		total, err := costCreator.Create(finest)
		if err != nil {
			return Result{}, err
		}
		res.TotalCost = total.(uint64)
	}
	return res, nil
}

// blendSeam softens the inpainted seam: inside the first d pixels of the
// inner boundary (by DistanceTransform distance), the output is blended
// with a locally box-smoothed version of itself, weighted
// distance_to_border/6 toward the raw synthesized value — so pixels
// right on the boundary lean on their smoothed neighborhood and pixels
// deeper inside lean on the unmodified synthesis result (spec.md §4.F
// "An optional finest-band bilinear blend ... the blend weight is
// distance_to_border/6 toward the synthesized side"). Blending against a
// local smoothing of the output itself, rather than the input frame's
// content at the same (masked, otherwise meaningless) coordinate, is a
// deliberate adaptation — see DESIGN.md.
func blendSeam(out *Frame, mask *Mask, d int) {
	dist := mask.Clone()
	dist.DistanceTransform()
	smoothed := boxBlur3(out)
	for y := 0; y < out.H; y++ {
		for x := 0; x < out.W; x++ {
			if mask.IsSource(x, y) {
				continue
			}
			db := int(dist.Get(x, y))
			if db >= d {
				continue
			}
			weight := float64(db) / 6
			if weight > 1 {
				weight = 1
			}
			synth := out.At(x, y)
			sm := smoothed.At(x, y)
			var c [4]uint8
			for ch := 0; ch < out.Channels; ch++ {
				c[ch] = uint8(weight*float64(synth[ch]) + (1-weight)*float64(sm[ch]))
			}
			out.Set(x, y, c)
		}
	}
}

// boxBlur3 returns a 3x3-averaged copy of frame, edges clamped.
func boxBlur3(frame *Frame) *Frame {
	out, _ := NewFrame(frame.W, frame.H, frame.Channels)
	for y := 0; y < frame.H; y++ {
		for x := 0; x < frame.W; x++ {
			var acc [4]int
			n := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					cx := clampCoord(x+dx, 0, frame.W-1)
					cy := clampCoord(y+dy, 0, frame.H-1)
					p := frame.At(cx, cy)
					for ch := 0; ch < frame.Channels; ch++ {
						acc[ch] += int(p[ch])
					}
					n++
				}
			}
			var c [4]uint8
			for ch := 0; ch < frame.Channels; ch++ {
				c[ch] = uint8(acc[ch] / n)
			}
			out.Set(x, y, c)
		}
	}
	return out
}
