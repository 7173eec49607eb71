package synthesis

import (
	"math/rand"
	"sync/atomic"
)

// Optimizer iteratively improves a Layer's Mapping by alternating
// propagation from already-optimized neighbors with randomized decay
// search, per spec.md §4.D. Rather than one Go type per named variant
// (High-performance, Area-constrained, Structural-constrained, ...), the
// skeleton is a single struct parameterized by optional fields — the
// "flat set of functions parameterized by flags" shape spec.md §9
// recommends over a virtual-dispatch hierarchy. Leaving a field at its
// zero value reproduces the corresponding variant's absence of that
// feature (nil Decision => no structural term, nil Reference => no
// temporal term, and so on).
type Optimizer struct {
	WeightFactor   float64
	BorderFactor   int
	MaxSpatialCost uint32
	DecayRadii     int

	// UpdateFrame, when true, overwrites frame[T] with the synthesized
	// content at the committed source whenever a candidate is accepted
	// (used by in-place frame-refining sweeps; Creators do the
	// equivalent write once, at the end, via Mapping.Apply).
	UpdateFrame bool

	// Decision and DecisionWeight implement the structural-constrained
	// variant: Decision.CostAt(x,y) is added, scaled by DecisionWeight,
	// to every candidate's normalized cost. Nil Decision disables it.
	Decision       *DecisionFrame
	DecisionWeight float64

	// SkipByCost implements the skipping-by-spatial-cost variant: a
	// pixel whose CURRENT spatial cost is already 0 and whose current
	// appearance cost is <= SkipAppearanceThreshold is left untouched
	// for the sweep.
	SkipByCost            bool
	SkipAppearanceThreshold uint64

	// SkipMask implements skipping-by-cost-mask: a pixel that is
	// "source" under SkipMask is considered already converged and is
	// skipped for the sweep. Nil disables it.
	SkipMask *Mask

	// Reference, when non-nil, switches the appearance cost to the
	// high-performance-reference-frame variant: cost =
	// ReferenceWeight*SSD(reference[T], frame[S]) + SSD(frame[T],
	// frame[S]), for temporal coherence across video frames.
	Reference       *Frame
	ReferenceWeight float64
}

// Run executes sweeps full sweeps of layer's bounding box, alternating
// direction per stripe within each sweep (spec.md §5 "stripes with even
// index sweep downward, odd upward, in the same pass").
func (o Optimizer) Run(layer *Layer, sweeps int, seed int64, pool *WorkerPool, stop *atomic.Bool) error {
	parent := newRNG(seed)
	for s := 0; s < sweeps; s++ {
		if Stopped(stop) {
			return &Error{Kind: Cancelled, Msg: "optimizer cancelled"}
		}
		if err := o.sweep(layer, parent, pool, stop); err != nil {
			return err
		}
	}
	return nil
}

func (o Optimizer) sweep(layer *Layer, parent *rand.Rand, pool *WorkerPool, stop *atomic.Bool) error {
	decayRadii := o.DecayRadii
	if decayRadii <= 0 {
		decayRadii = 8
	}
	maxDim := layer.W
	if layer.H > maxDim {
		maxDim = layer.H
	}
	if maxDim < 1 {
		maxDim = 1
	}

	var cancelled atomic.Bool
	ForEachStripe(layer.BBox, pool, parent, stop, func(s Stripe, stop *atomic.Bool) {
		down := s.Index%2 == 0
		shift := 0
		if h := s.Y1 - s.Y0; h > 0 {
			shift = s.RNG.Intn(h)
		}
		rows := make([]int, 0, s.Y1-s.Y0)
		for y := s.Y0; y < s.Y1; y++ {
			rows = append(rows, s.Y0+(y-s.Y0+shift)%(s.Y1-s.Y0))
		}
		if !down {
			for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
				rows[i], rows[j] = rows[j], rows[i]
			}
		}
		for _, y := range rows {
			if Stopped(stop) {
				cancelled.Store(true)
				return
			}
			if down {
				for x := layer.BBox.MinX; x < layer.BBox.MaxX; x++ {
					o.visit(layer, x, y, down, s.RNG, decayRadii, maxDim)
				}
			} else {
				for x := layer.BBox.MaxX - 1; x >= layer.BBox.MinX; x-- {
					o.visit(layer, x, y, down, s.RNG, decayRadii, maxDim)
				}
			}
		}
	})
	if cancelled.Load() {
		return &Error{Kind: Cancelled, Msg: "optimizer cancelled mid-sweep"}
	}
	return nil
}

func (o Optimizer) visit(layer *Layer, x, y int, down bool, rng *rand.Rand, decayRadii, maxDim int) {
	if layer.Mask.IsSource(x, y) {
		return
	}
	if o.SkipMask != nil && o.SkipMask.IsSource(x, y) {
		return
	}

	curSX, curSY, curOK := layer.Mapping.Get(x, y)
	bestSX, bestSY, bestOK := curSX, curSY, curOK
	var bestCost uint64
	if curOK {
		bestCost = o.cost(layer, x, y, curSX, curSY)
	} else {
		bestCost = uint64(1) << 62
	}

	if o.SkipByCost && curOK {
		sc := layer.Mapping.SpatialCost(layer.Mask, x, y, curSX, curSY, o.MaxSpatialCost)
		if sc == 0 {
			ac := layer.Mapping.AppearanceCost(layer.Frame, layer.Mask, x, y, curSX, curSY, o.BorderFactor, false)
			if ac <= o.SkipAppearanceThreshold {
				return
			}
		}
	}

	try := func(sx, sy float64) {
		isx, isy := int(sx), int(sy)
		if isx < 0 || isy < 0 || isx >= layer.W || isy >= layer.H {
			return
		}
		if !layer.Mask.IsSource(isx, isy) || !Allowed(layer.Filter, isx, isy) {
			return
		}
		cost := o.cost(layer, x, y, sx, sy)
		if cost < bestCost {
			bestCost, bestSX, bestSY, bestOK = cost, sx, sy, true
		}
	}

	// 1. Propagation. Neighbors outside the frame have no mapping.
	neighbor := func(nx, ny int) (float64, float64, bool) {
		if nx < 0 || ny < 0 || nx >= layer.W || ny >= layer.H {
			return 0, 0, false
		}
		return layer.Mapping.Get(nx, ny)
	}
	var propLeftSX, propLeftSY float64
	var havePropLeft bool
	if down {
		if lsx, lsy, ok := neighbor(x-1, y); ok {
			propLeftSX, propLeftSY, havePropLeft = lsx+1, lsy, true
			try(propLeftSX, propLeftSY)
		}
		if usx, usy, ok := neighbor(x, y-1); ok {
			upSX, upSY := usx, usy+1
			// Skip: if the up-propagated source equals the left-propagated
			// source shifted by (1,1), the cost is >= the already-tried
			// candidate and not worth recomputing.
			if !(havePropLeft && upSX == propLeftSX+1 && upSY == propLeftSY+1) {
				try(upSX, upSY)
			}
		}
	} else {
		if rsx, rsy, ok := neighbor(x+1, y); ok {
			propLeftSX, propLeftSY, havePropLeft = rsx-1, rsy, true
			try(propLeftSX, propLeftSY)
		}
		if dsx, dsy, ok := neighbor(x, y+1); ok {
			upSX, upSY := dsx, dsy-1
			if !(havePropLeft && upSX == propLeftSX-1 && upSY == propLeftSY-1) {
				try(upSX, upSY)
			}
		}
	}

	// 2. Randomized decay search around the incumbent.
	baseSX, baseSY := bestSX, bestSY
	if !bestOK {
		if sx, sy, ok := randomSourcePixel(layer, rng, 1000); ok {
			baseSX, baseSY = float64(sx), float64(sy)
			try(baseSX, baseSY)
		}
	}
	for i := 0; i < decayRadii; i++ {
		r := float64(maxDim) - float64(maxDim-1)*float64(i)/float64(decayRadii)
		r = (r + 1) / 2
		if r < 2 {
			r = 2
		}
		ri := int(r)
		dx := rng.Intn(2*ri+1) - ri
		dy := rng.Intn(2*ri+1) - ri
		try(baseSX+float64(dx), baseSY+float64(dy))
	}

	if bestOK {
		layer.Mapping.Set(x, y, bestSX, bestSY)
		if o.UpdateFrame {
			o.writeFrame(layer, x, y, bestSX, bestSY)
		}
	}
}

func (o Optimizer) writeFrame(layer *Layer, x, y int, sx, sy float64) {
	switch layer.Mapping.(type) {
	case *FloatMapping:
		sample := sampleBilinear(layer.Frame, sx, sy)
		var c [4]uint8
		for ch := 0; ch < layer.Frame.Channels; ch++ {
			c[ch] = clampByte(sample[ch])
		}
		layer.Frame.Set(x, y, c)
	default:
		layer.Frame.CopyPixel(x, y, layer.Frame, int(sx), int(sy))
	}
}

// cost computes the normalized total cost of mapping (x,y) to (sx,sy),
// folding in the optional structural and reference-frame terms.
func (o Optimizer) cost(layer *Layer, x, y int, sx, sy float64) uint64 {
	var appearance uint64
	if o.Reference != nil {
		weight := o.ReferenceWeight
		if weight <= 0 {
			weight = 5
		}
		temporal := patchSSD(o.Reference, x, y, layer.Frame, int(sx), int(sy), layer.Mask, o.BorderFactor, false)
		spatial := patchSSD(layer.Frame, x, y, layer.Frame, int(sx), int(sy), layer.Mask, o.BorderFactor, false)
		appearance = uint64(weight*float64(temporal)) + spatial
	} else {
		appearance = layer.Mapping.AppearanceCost(layer.Frame, layer.Mask, x, y, sx, sy, o.BorderFactor, false)
	}
	spatialCost := layer.Mapping.SpatialCost(layer.Mask, x, y, sx, sy, o.MaxSpatialCost)
	total := CombinedCost(o.WeightFactor, spatialCost, appearance, layer.Mapping.NormA(), layer.Mapping.NormS())
	if o.Decision != nil {
		total += uint64(o.DecisionWeight * o.Decision.CostAt(x, y))
	}
	return total
}

// patchSSD is the 5x5 SSD between a patch in frame a centered at (ax,ay)
// and a patch in frame b centered at (bx,by), with the same border-factor
// weighting as Mapping.AppearanceCost. Used directly by the
// high-performance-reference-frame optimizer variant, which compares
// across two distinct frames rather than within one (spec.md §4.D).
func patchSSD(a *Frame, ax, ay int, b *Frame, bx, by int, mask *Mask, borderFactor int, centerOmit bool) uint64 {
	var total uint64
	for _, off := range patchOffsets {
		dx, dy := off[0], off[1]
		if centerOmit && dx == 0 && dy == 0 {
			continue
		}
		aX, aY := clampCoord(ax+dx, 0, a.W-1), clampCoord(ay+dy, 0, a.H-1)
		bX, bY := clampCoord(bx+dx, 0, b.W-1), clampCoord(by+dy, 0, b.H-1)
		ap := a.At(aX, aY)
		bp := b.At(bX, bY)
		var ssd uint64
		channels := a.Channels
		if b.Channels < channels {
			channels = b.Channels
		}
		for c := 0; c < channels; c++ {
			d := int64(ap[c]) - int64(bp[c])
			ssd += uint64(d * d)
		}
		if neighborIsTarget(mask, ax+dx, ay+dy) {
			ssd *= uint64(borderFactor)
		}
		total += ssd
	}
	return total
}
