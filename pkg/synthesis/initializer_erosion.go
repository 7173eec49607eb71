package synthesis

import (
	"math/rand"
	"sync/atomic"
)

// ErosionInitializer repeatedly erodes the mask inward: every pixel on
// the current inner boundary (a target pixel with at least one source
// 4-neighbor) is filled from that neighbor — its frame content is copied
// and its Mapping chains to the neighbor's own source (or, if the
// neighbor is itself a true source pixel, to the neighbor directly) — and
// is then marked source, advancing the boundary. Once the mask is fully
// source, AppearanceInitializer re-examines every originally-target pixel
// against the now fully populated frame to refine the naive nearest-fill
// mapping (spec.md §4.C "Shrinking-erosion").
type ErosionInitializer struct {
	FinalizeCandidates int // K passed to the finalizing AppearanceInitializer
}

var erosionNeighbors = [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}

func (e ErosionInitializer) Initialize(layer *Layer, pool *WorkerPool, seed int64, stop *atomic.Bool) error {
	originalMask := layer.Mask.Clone()
	originalBBox := layer.BBox

	for {
		if Stopped(stop) {
			return &Error{Kind: Cancelled, Msg: "erosion initializer cancelled"}
		}
		type fill struct {
			x, y, sx, sy int
		}
		var frontier []fill
		for y := originalBBox.MinY; y < originalBBox.MaxY; y++ {
			for x := originalBBox.MinX; x < originalBBox.MaxX; x++ {
				if layer.Mask.IsSource(x, y) {
					continue
				}
				for _, n := range erosionNeighbors {
					nx, ny := x+n[0], y+n[1]
					if nx < 0 || ny < 0 || nx >= layer.W || ny >= layer.H {
						continue
					}
					if layer.Mask.IsSource(nx, ny) {
						frontier = append(frontier, fill{x, y, nx, ny})
						break
					}
				}
			}
		}
		if len(frontier) == 0 {
			break
		}
		for _, f := range frontier {
			sx, sy := f.sx, f.sy
			if msx, msy, ok := layer.Mapping.Get(f.sx, f.sy); ok {
				sx, sy = int(msx), int(msy)
			}
			layer.Frame.CopyPixel(f.x, f.y, layer.Frame, f.sx, f.sy)
			layer.Mapping.Set(f.x, f.y, float64(sx), float64(sy))
			layer.Mask.Set(f.x, f.y, SourceValue)
		}
	}

	k := e.FinalizeCandidates
	if k <= 0 {
		k = 100
	}
	forEachMaskedPixel(layer, originalMask, originalBBox, pool, seed, stop, func(x, y int, rng *rand.Rand) {
		bestAppearanceMatch(layer, originalMask, x, y, rng, k)
	})
	layer.Mask = originalMask
	layer.BBox = originalBBox
	return nil
}
