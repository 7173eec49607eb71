package synthesis

import (
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool is a reusable handle around the stripe-based scheduler every
// row-decomposable Initializer/Optimizer/Creator dispatches through. A
// caller processing a video stream constructs one pool and passes it to
// every frame's Inpaint call instead of re-probing runtime.NumCPU() and
// tearing a goroutine pool down each time.
//
// The scheduling model mirrors pkg/stdimg/adaptive_blur.go's row-stripe
// worker loop (runtime.NumCPU() workers, rows split evenly, a done
// channel joined before returning) generalized from per-row work to
// per-stripe work so propagation can read across a stripe boundary.
type WorkerPool struct {
	workers int
}

// NewWorkerPool returns a pool with the given worker count; workers<=0
// means runtime.NumCPU().
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	return &WorkerPool{workers: workers}
}

func (p *WorkerPool) count() int {
	if p == nil || p.workers < 1 {
		return 1
	}
	return p.workers
}

// Stripe is one horizontal band of rows [Y0,Y1) assigned to one worker,
// with its own forked random source so multithreaded runs stay
// deterministic at a fixed thread count (spec.md §5's "Random-number
// streams are forked per stripe from a parent generator").
type Stripe struct {
	Index  int
	Y0, Y1 int
	RNG    *rand.Rand
}

// stripes splits [bbox.MinY,bbox.MaxY) into n bands, forking one *rand.Rand
// per band from parent. Empty boxes yield no stripes.
func stripes(bbox BoundingBox, n int, parent *rand.Rand) []Stripe {
	if bbox.Empty || bbox.Height() == 0 {
		return nil
	}
	h := bbox.Height()
	if n > h {
		n = h
	}
	rowsPer := (h + n - 1) / n
	out := make([]Stripe, 0, n)
	y := bbox.MinY
	for i := 0; i < n && y < bbox.MaxY; i++ {
		y1 := y + rowsPer
		if y1 > bbox.MaxY {
			y1 = bbox.MaxY
		}
		seed := parent.Int63()
		out = append(out, Stripe{Index: i, Y0: y, Y1: y1, RNG: rand.New(rand.NewSource(seed))})
		y = y1
	}
	return out
}

// ForEachStripe partitions bbox into row stripes across the pool and runs
// fn for each stripe concurrently, joining before returning (the only
// blocking point inside a sweep, per spec.md §5). fn should poll stop
// once per row and return promptly when it is set; ForEachStripe itself
// does not pre-empt a running fn.
func ForEachStripe(bbox BoundingBox, pool *WorkerPool, parentRNG *rand.Rand, stop *atomic.Bool, fn func(s Stripe, stop *atomic.Bool)) {
	ss := stripes(bbox, pool.count(), parentRNG)
	if len(ss) == 0 {
		return
	}
	var wg sync.WaitGroup
	for _, s := range ss {
		wg.Add(1)
		go func(s Stripe) {
			defer wg.Done()
			fn(s, stop)
		}(s)
	}
	wg.Wait()
}

// Stopped reports whether the cancellation flag has been observed set;
// nil is treated as never stopped.
func Stopped(stop *atomic.Bool) bool {
	return stop != nil && stop.Load()
}
