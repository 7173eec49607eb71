package synthesis

import "sync/atomic"

// Pyramid is the geometric frame/mask/filter pyramid the driver walks
// coarsest-to-finest (spec.md §4.F). Level 0 is full resolution; the
// last level is coarsest.
type Pyramid struct {
	Frames  []*Frame
	Masks   []*Mask
	Filters []*Filter // entries are nil when no filter was supplied
	BBoxes  []BoundingBox
}

// Levels returns the number of pyramid levels.
func (p *Pyramid) Levels() int { return len(p.Frames) }

// downsampleFrame halves frame's dimensions with a 2x2 box filter,
// clamping the contributing cell to the frame edge for odd dimensions.
func downsampleFrame(frame *Frame) *Frame {
	nw := (frame.W + 1) / 2
	nh := (frame.H + 1) / 2
	out, _ := NewFrame(nw, nh, frame.Channels)
	for y := 0; y < nh; y++ {
		for x := 0; x < nw; x++ {
			x0, y0 := 2*x, 2*y
			x1 := clampCoord(x0+1, 0, frame.W-1)
			y1 := clampCoord(y0+1, 0, frame.H-1)
			x0 = clampCoord(x0, 0, frame.W-1)
			y0 = clampCoord(y0, 0, frame.H-1)
			c00 := frame.At(x0, y0)
			c10 := frame.At(x1, y0)
			c01 := frame.At(x0, y1)
			c11 := frame.At(x1, y1)
			var c [4]uint8
			for ch := 0; ch < frame.Channels; ch++ {
				sum := int(c00[ch]) + int(c10[ch]) + int(c01[ch]) + int(c11[ch])
				c[ch] = uint8(sum / 4)
			}
			out.Set(x, y, c)
		}
	}
	return out
}

// downsampleMask halves a Mask's (or Filter's) dimensions; a coarse
// pixel is target if any of its up-to-four contributing fine pixels is
// target (spec.md §4.F "a coarse pixel is target if any of its four
// contributing fine pixels is target").
func downsampleMask(mask *Mask) *Mask {
	nw := (mask.W + 1) / 2
	nh := (mask.H + 1) / 2
	out := NewMask(nw, nh)
	for y := 0; y < nh; y++ {
		for x := 0; x < nw; x++ {
			x0, y0 := 2*x, 2*y
			anyTarget := false
			for _, d := range [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
				cx, cy := x0+d[0], y0+d[1]
				if cx >= mask.W || cy >= mask.H {
					continue
				}
				if mask.IsTarget(cx, cy) {
					anyTarget = true
					break
				}
			}
			if anyTarget {
				out.Set(x, y, 0)
			}
		}
	}
	return out
}

// grayscaleFrame collapses frame to 1 channel using ITU-R BT.601 luma
// weights, used by Config.Forced1ChannelLayers to speed up search on the
// finest K levels (spec.md §4.F).
func grayscaleFrame(frame *Frame) *Frame {
	out, _ := NewFrame(frame.W, frame.H, 1)
	for y := 0; y < frame.H; y++ {
		for x := 0; x < frame.W; x++ {
			c := frame.At(x, y)
			y8 := uint8(0.299*float64(c[0]) + 0.587*float64(c[1]) + 0.114*float64(c[2]))
			out.Set(x, y, [4]uint8{y8})
		}
	}
	return out
}

// BuildPyramid constructs a Pyramid from a full-resolution frame, mask
// and optional filter. Level count is chosen as the maximum L such that
// the target region on level L is still at least one pixel wide in
// every direction (spec.md §4.F "Selection of level count"); a mask
// whose halving would collapse the target region to zero width in
// either axis silently truncates the pyramid there rather than erroring
// (spec.md §7's NumericDegenerate handling).
func BuildPyramid(frame *Frame, mask *Mask, filter *Filter, cfg Config) (*Pyramid, error) {
	if frame.W != mask.W || frame.H != mask.H {
		return nil, &Error{Kind: InvalidInput, Msg: "frame/mask dimension mismatch"}
	}
	masks := []*Mask{mask}
	bboxes := []BoundingBox{ComputeBoundingBox(mask)}
	if bboxes[0].Empty {
		return nil, &Error{Kind: InvalidInput, Msg: "mask has no target pixels"}
	}
	w, h := frame.W, frame.H
	for w > 1 && h > 1 {
		nm := downsampleMask(masks[len(masks)-1])
		bbox := ComputeBoundingBox(nm)
		if bbox.Empty || bbox.Width() < 1 || bbox.Height() < 1 {
			break
		}
		masks = append(masks, nm)
		bboxes = append(bboxes, bbox)
		w, h = (w+1)/2, (h+1)/2
	}
	levels := len(masks)

	frames := make([]*Frame, levels)
	frames[0] = frame
	for i := 1; i < levels; i++ {
		src := frames[i-1]
		coarsest := i == levels-1
		if (coarsest && cfg.BinomialOnCoarsest) || (!coarsest && cfg.BinomialOnFine) {
			src = binomialBlur(src)
		}
		frames[i] = downsampleFrame(src)
	}

	for k := 0; k < cfg.Forced1ChannelLayers && k < levels; k++ {
		frames[k] = grayscaleFrame(frames[k])
	}

	filters := make([]*Filter, levels)
	if filter != nil {
		if filter.W != mask.W || filter.H != mask.H {
			return nil, &Error{Kind: InvalidInput, Msg: "frame/filter dimension mismatch"}
		}
		filters[0] = filter
		for i := 1; i < levels; i++ {
			filters[i] = downsampleMask(filters[i-1])
		}
	}

	return &Pyramid{Frames: frames, Masks: masks, Filters: filters, BBoxes: bboxes}, nil
}

// videoContext carries the optional prior-frame Mapping and homography
// used by HomographyInitializer when inpainting a video sequence
// (spec.md §6).
type videoContext struct {
	PriorMapping Mapping
	PriorMask    *Mask
	H            Homography
}

// Run sequences Initializer -> Optimizer from the coarsest level down to
// the finest (spec.md §4.F "Execution sequence"), returning the finest
// level's converged Layer.
func (p *Pyramid) Run(cfg Config, seed int64, pool *WorkerPool, stop *atomic.Bool, video *videoContext, constraints []Constraint) (*Layer, error) {
	levels := p.Levels()
	useFloat := func(level int) bool { return level == 0 }

	var prevLayer *Layer
	var prevMask *Mask

	for level := levels - 1; level >= 0; level-- {
		if Stopped(stop) {
			return nil, &Error{Kind: Cancelled, Msg: "pyramid driver cancelled"}
		}
		levelFrame := p.Frames[level]
		if level == 0 && level == levels-1 {
			// The coarsest initializers paint into their level's frame; with a
			// single level that frame is the caller's, so work on a copy.
			levelFrame = levelFrame.Clone()
		}
		layer, err := NewLayer(levelFrame, p.Masks[level], p.Filters[level], useFloat(level))
		if err != nil {
			return nil, err
		}

		var decision *DecisionFrame
		if len(constraints) > 0 {
			decision = BuildDecisionFrame(layer.W, layer.H, constraints)
		}

		opt := Optimizer{
			WeightFactor:   cfg.WeightFactor,
			BorderFactor:   cfg.BorderFactor,
			MaxSpatialCost: cfg.MaxSpatialCost,
			DecayRadii:     cfg.DecayRadii,
			Decision:       decision,
			DecisionWeight: 1,
		}
		if level < cfg.SkippingLayers {
			opt.SkipByCost = true
		}

		if level == levels-1 {
			init := selectCoarseInitializer(cfg.CoarseInitializer, cfg)
			if video != nil && video.PriorMapping != nil {
				init = HomographyInitializer{Prior: video.PriorMapping, PriorMask: video.PriorMask, H: video.H, FallbackCandidates: cfg.AppearanceCandidates}
			}
			if err := init.Initialize(layer, pool, seed, stop); err != nil {
				return nil, err
			}
			sweeps := cfg.CoarsestSweeps
			if sweeps <= 0 {
				sweeps = 4
			}
			if err := opt.Run(layer, sweeps, seed, pool, stop); err != nil {
				return nil, err
			}
		} else {
			init := CoarserMappingInitializer{Coarse: prevLayer.Mapping, CoarseMask: prevMask, FallbackCandidates: cfg.AppearanceCandidates}
			if err := init.Initialize(layer, pool, seed, stop); err != nil {
				return nil, err
			}
			sweeps := cfg.OptimizationIterations
			if level == 0 {
				if _, ok := layer.Mapping.(*FloatMapping); ok && cfg.FinestFloatSweeps > 0 {
					sweeps = cfg.FinestFloatSweeps
				}
			}
			if err := opt.Run(layer, sweeps, seed, pool, stop); err != nil {
				return nil, err
			}
		}

		prevLayer = layer
		prevMask = p.Masks[level]
	}
	return prevLayer, nil
}
