package synthesis

import (
	"math"
	"math/rand"
	"sync/atomic"
)

// ContourInitializer gives the hole a plausible warm start by connecting
// pairs of boundary pixels with interpolated color stripes, then hands
// off to AppearanceInitializer to refine every mapping (spec.md §4.C
// "Contour-mapping").
type ContourInitializer struct {
	FinalizeCandidates int
}

// boundaryPixels returns every target pixel adjacent to a source pixel,
// in row-major scan order.
func boundaryPixels(layer *Layer) [][2]int {
	var out [][2]int
	for y := layer.BBox.MinY; y < layer.BBox.MaxY; y++ {
		for x := layer.BBox.MinX; x < layer.BBox.MaxX; x++ {
			if layer.Mask.IsSource(x, y) {
				continue
			}
			for _, n := range erosionNeighbors {
				nx, ny := x+n[0], y+n[1]
				if nx < 0 || ny < 0 || nx >= layer.W || ny >= layer.H {
					continue
				}
				if layer.Mask.IsSource(nx, ny) {
					out = append(out, [2]int{x, y})
					break
				}
			}
		}
	}
	return out
}

func (c ContourInitializer) Initialize(layer *Layer, pool *WorkerPool, seed int64, stop *atomic.Bool) error {
	boundary := boundaryPixels(layer)
	if len(boundary) == 0 {
		return nil
	}

	// Pair each boundary pixel with the boundary pixel nearest to being
	// diametrically opposite across the target region's bounding box, and
	// paint a linearly interpolated color stripe between the pair's
	// matching source neighbors.
	cx := float64(layer.BBox.MinX+layer.BBox.MaxX) / 2
	cy := float64(layer.BBox.MinY+layer.BBox.MaxY) / 2

	for _, p := range boundary {
		if Stopped(stop) {
			return &Error{Kind: Cancelled, Msg: "contour initializer cancelled"}
		}
		bx, by := float64(p[0]), float64(p[1])
		dirx, diry := bx-cx, by-cy
		dlen := math.Hypot(dirx, diry)
		if dlen < 1e-9 {
			continue
		}
		dirx, diry = dirx/dlen, diry/dlen

		opp := findOpposite(boundary, bx, by, cx, cy, dirx, diry)
		if opp == nil {
			continue
		}

		steps := int(math.Hypot(float64(opp[0]-p[0]), float64(opp[1]-p[1])))
		if steps < 1 {
			steps = 1
		}
		srcA := nearestSource(layer, p[0], p[1])
		srcB := nearestSource(layer, opp[0], opp[1])
		if srcA == nil || srcB == nil {
			continue
		}

		for t := 0; t <= steps; t++ {
			frac := float64(t) / float64(steps)
			px := p[0] + int(frac*float64(opp[0]-p[0]))
			py := p[1] + int(frac*float64(opp[1]-p[1]))
			if px < 0 || py < 0 || px >= layer.W || py >= layer.H {
				continue
			}
			if layer.Mask.IsSource(px, py) {
				continue
			}
			ca := layer.Frame.At(srcA[0], srcA[1])
			cb := layer.Frame.At(srcB[0], srcB[1])
			var blended [4]uint8
			for ch := 0; ch < 4; ch++ {
				blended[ch] = uint8((1-frac)*float64(ca[ch]) + frac*float64(cb[ch]))
			}
			layer.Frame.Set(px, py, blended)
			layer.Mapping.Set(px, py, float64(srcA[0]), float64(srcA[1]))
		}
	}

	finalize := AppearanceInitializer{K: c.FinalizeCandidates}
	if finalize.K <= 0 {
		finalize.K = 100
	}
	forEachTargetPixel(layer, pool, seed+1, stop, func(x, y int, rng *rand.Rand) {
		bestCost := uint64(1) << 62
		bestX, bestY := -1, -1
		for i := 0; i < finalize.K; i++ {
			sx, sy, ok := randomSourcePixel(layer, rng, 1000)
			if !ok {
				continue
			}
			cost := layer.Mapping.AppearanceCost(layer.Frame, layer.Mask, x, y, float64(sx), float64(sy), 1, false)
			if cost < bestCost {
				bestCost, bestX, bestY = cost, sx, sy
			}
		}
		if bestX >= 0 {
			layer.Mapping.Set(x, y, float64(bestX), float64(bestY))
		}
	})
	return nil
}

// findOpposite locates the boundary pixel whose direction from the
// region center is most nearly opposite (x,y)'s own direction.
func findOpposite(boundary [][2]int, x, y, cx, cy, dirx, diry float64) *[2]int {
	var best *[2]int
	bestDot := math.Inf(1)
	for i := range boundary {
		ox, oy := float64(boundary[i][0]), float64(boundary[i][1])
		odx, ody := ox-cx, oy-cy
		olen := math.Hypot(odx, ody)
		if olen < 1e-9 {
			continue
		}
		odx, ody = odx/olen, ody/olen
		dot := dirx*odx + diry*ody
		if dot < bestDot {
			bestDot = dot
			best = &boundary[i]
		}
	}
	_ = x
	_ = y
	return best
}

// nearestSource spirals outward from (x,y) until it finds a source
// pixel.
func nearestSource(layer *Layer, x, y int) *[2]int {
	for r := 1; r < layer.W+layer.H; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if dx > -r && dx < r && dy > -r && dy < r {
					continue
				}
				cx, cy := x+dx, y+dy
				if cx < 0 || cy < 0 || cx >= layer.W || cy >= layer.H {
					continue
				}
				if layer.Mask.IsSource(cx, cy) {
					p := [2]int{cx, cy}
					return &p
				}
			}
		}
	}
	return nil
}
