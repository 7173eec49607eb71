package synthesis

import (
	"container/heap"
	"math"
	"sync/atomic"
)

// PatchMatchInitializer implements shrinking-patch-match: boundary pixels
// are processed by a priority queue ordered by how strongly the local
// border normal agrees with the local image-orientation perpendicular,
// so edges that clearly continue an existing structure get painted in
// first (spec.md §4.C "Shrinking-patch-match").
//
// WindowRadius > 0 selects the bounded-offset variant (PatchSubRegion*):
// candidate sources are drawn only from a square window of that radius
// around the target pixel. WindowRadius <= 0 searches the full frame
// (PatchFullArea*).
//
// Heuristic, when true, first tries the mappings propagated from each of
// the 8 neighbors (shifted by the neighbor-to-self displacement) before
// falling back to random sampling (PatchFullAreaHeuristic*, spec.md
// §4.C).
type PatchMatchInitializer struct {
	WindowRadius int
	Heuristic    bool
	Candidates   int // random samples tried per pop, typically 200
}

type pmItem struct {
	x, y     int
	priority float64
	index    int
}

type pmQueue []*pmItem

func (q pmQueue) Len() int            { return len(q) }
func (q pmQueue) Less(i, j int) bool  { return q[i].priority > q[j].priority }
func (q pmQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i]; q[i].index, q[j].index = i, j }
func (q *pmQueue) Push(x interface{}) { it := x.(*pmItem); it.index = len(*q); *q = append(*q, it) }
func (q *pmQueue) Pop() interface{} {
	old := *q
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return it
}

func luminance(c [4]uint8) float64 {
	return 0.299*float64(c[0]) + 0.587*float64(c[1]) + 0.114*float64(c[2])
}

// sobelAt returns the (gx, gy) Sobel gradient of the frame's luminance at
// (x,y), clamping out-of-bounds samples to the frame edge.
func sobelAt(frame *Frame, x, y int) (gx, gy float64) {
	sample := func(dx, dy int) float64 {
		cx, cy := x+dx, y+dy
		if cx < 0 {
			cx = 0
		}
		if cy < 0 {
			cy = 0
		}
		if cx >= frame.W {
			cx = frame.W - 1
		}
		if cy >= frame.H {
			cy = frame.H - 1
		}
		return luminance(frame.At(cx, cy))
	}
	gx = -sample(-1, -1) + sample(1, -1) - 2*sample(-1, 0) + 2*sample(1, 0) - sample(-1, 1) + sample(1, 1)
	gy = -sample(-1, -1) - 2*sample(0, -1) - sample(1, -1) + sample(-1, 1) + 2*sample(0, 1) + sample(1, 1)
	return gx, gy
}

// borderNormal estimates the inward-pointing border normal at (x,y) from
// the 5x5 mask neighborhood: the normalized vector sum, over every
// source neighbor, of that neighbor's offset from (x,y).
func borderNormal(mask *Mask, x, y int) (nx, ny float64) {
	var sx, sy float64
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			cx, cy := x+dx, y+dy
			if cx < 0 || cy < 0 || cx >= mask.W || cy >= mask.H {
				continue
			}
			if mask.IsSource(cx, cy) {
				sx += float64(dx)
				sy += float64(dy)
			}
		}
	}
	length := math.Hypot(sx, sy)
	if length < 1e-9 {
		return 0, 0
	}
	return sx / length, sy / length
}

func (p PatchMatchInitializer) priority(frame *Frame, mask *Mask, x, y int) float64 {
	nx, ny := borderNormal(mask, x, y)
	gx, gy := sobelAt(frame, x, y)
	glen := math.Hypot(gx, gy)
	if glen < 1e-9 {
		return 0
	}
	// perpendicular to the image-orientation gradient
	px, py := -gy/glen, gx/glen
	return math.Abs(nx*px + ny*py)
}

func (p PatchMatchInitializer) Initialize(layer *Layer, pool *WorkerPool, seed int64, stop *atomic.Bool) error {
	originalMask := layer.Mask.Clone()

	rng := newRNG(seed)
	candidates := p.Candidates
	if candidates <= 0 {
		candidates = 200
	}

	isBoundary := func(x, y int) bool {
		if layer.Mask.IsSource(x, y) {
			return false
		}
		for _, n := range erosionNeighbors {
			nx, ny := x+n[0], y+n[1]
			if nx < 0 || ny < 0 || nx >= layer.W || ny >= layer.H {
				continue
			}
			if layer.Mask.IsSource(nx, ny) {
				return true
			}
		}
		return false
	}

	q := &pmQueue{}
	heap.Init(q)
	inQueue := make(map[[2]int]*pmItem)
	push := func(x, y int) {
		key := [2]int{x, y}
		if it, ok := inQueue[key]; ok {
			it.priority = p.priority(layer.Frame, layer.Mask, x, y)
			heap.Fix(q, it.index)
			return
		}
		it := &pmItem{x: x, y: y, priority: p.priority(layer.Frame, layer.Mask, x, y)}
		inQueue[key] = it
		heap.Push(q, it)
	}

	for y := layer.BBox.MinY; y < layer.BBox.MaxY; y++ {
		for x := layer.BBox.MinX; x < layer.BBox.MaxX; x++ {
			if isBoundary(x, y) {
				push(x, y)
			}
		}
	}

	for q.Len() > 0 {
		if Stopped(stop) {
			return &Error{Kind: Cancelled, Msg: "patch-match initializer cancelled"}
		}
		it := heap.Pop(q).(*pmItem)
		delete(inQueue, [2]int{it.x, it.y})
		x, y := it.x, it.y
		if layer.Mask.IsSource(x, y) {
			continue // already resolved via a displaced neighbor
		}

		bestCost := uint64(1) << 62
		bestX, bestY := -1, -1

		if p.Heuristic {
			for _, n := range allEightNeighbors {
				nx, ny := x+n[0], y+n[1]
				if nx < 0 || ny < 0 || nx >= layer.W || ny >= layer.H {
					continue
				}
				if !layer.Mask.IsSource(nx, ny) {
					continue
				}
				msx, msy, ok := layer.Mapping.Get(nx, ny)
				if !ok {
					continue
				}
				cx := int(msx) - n[0]
				cy := int(msy) - n[1]
				if cx < 0 || cy < 0 || cx >= layer.W || cy >= layer.H {
					continue
				}
				if !layer.Mask.IsSource(cx, cy) || !Allowed(layer.Filter, cx, cy) {
					continue
				}
				cost := layer.Mapping.AppearanceCost(layer.Frame, layer.Mask, x, y, float64(cx), float64(cy), 1, true)
				if cost < bestCost {
					bestCost, bestX, bestY = cost, cx, cy
				}
			}
		}

		for i := 0; i < candidates; i++ {
			var cx, cy int
			if p.WindowRadius > 0 {
				cx = x + rng.Intn(2*p.WindowRadius+1) - p.WindowRadius
				cy = y + rng.Intn(2*p.WindowRadius+1) - p.WindowRadius
				if cx < 0 || cy < 0 || cx >= layer.W || cy >= layer.H {
					continue
				}
			} else {
				cx = rng.Intn(layer.W)
				cy = rng.Intn(layer.H)
			}
			if !layer.Mask.IsSource(cx, cy) || !Allowed(layer.Filter, cx, cy) {
				continue
			}
			cost := layer.Mapping.AppearanceCost(layer.Frame, layer.Mask, x, y, float64(cx), float64(cy), 1, true)
			if cost < bestCost {
				bestCost, bestX, bestY = cost, cx, cy
			}
		}

		if bestX < 0 {
			continue
		}
		layer.Mapping.Set(x, y, float64(bestX), float64(bestY))
		layer.Frame.CopyPixel(x, y, layer.Frame, bestX, bestY)
		layer.Mask.Set(x, y, SourceValue)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= layer.W || ny >= layer.H {
					continue
				}
				if isBoundary(nx, ny) {
					push(nx, ny)
				}
			}
		}
	}
	layer.Mask = originalMask
	return nil
}

var allEightNeighbors = [8][2]int{
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}
