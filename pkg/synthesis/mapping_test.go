package synthesis

import "testing"

func solidFrame(w, h, channels int, val uint8) *Frame {
	f, err := NewFrame(w, h, channels)
	if err != nil {
		panic(err)
	}
	for i := range f.Pix {
		f.Pix[i] = val
	}
	return f
}

// Appearance cost is zero for an identical patch and strictly
// monotonic as one channel of the source patch is perturbed further from
// the target patch.
func TestAppearanceCostMonotonic(t *testing.T) {
	frame := solidFrame(20, 20, 3, 100)
	mask := NewMask(20, 20)
	m := NewIntegerMapping(20, 20, 3)

	base := m.AppearanceCost(frame, mask, 10, 10, 10, 10, 1, false)
	if base != 0 {
		t.Fatalf("identical patch cost = %d, want 0", base)
	}

	// Perturb a single pixel increasingly far from the target and check
	// the cost only grows.
	var prev uint64
	for _, delta := range []uint8{10, 20, 40, 80} {
		f2 := frame.Clone()
		f2.Set(5, 5, [4]uint8{100 + delta, 100, 100})
		cost := m.AppearanceCost(f2, mask, 10, 10, 5, 5, 1, false)
		if cost <= prev && delta > 10 {
			t.Fatalf("cost did not increase: delta=%d cost=%d prev=%d", delta, cost, prev)
		}
		prev = cost
	}
}

// Get round-trips exactly what Set stored for both mapping variants, and
// Invalidate clears an integer mapping's entry.
func TestMappingSetGetRoundTrip(t *testing.T) {
	im := NewIntegerMapping(10, 10, 3)
	im.Set(3, 4, 7, 2)
	if sx, sy, ok := im.Get(3, 4); !ok || sx != 7 || sy != 2 {
		t.Fatalf("IntegerMapping round-trip got (%v,%v,%v), want (7,2,true)", sx, sy, ok)
	}
	im.Invalidate(3, 4)
	if _, _, ok := im.Get(3, 4); ok {
		t.Fatalf("expected invalidated entry to report ok=false")
	}

	fm := NewFloatMapping(10, 10, 3)
	fm.Set(1, 1, 4.25, 6.75)
	if sx, sy, ok := fm.Get(1, 1); !ok || sx != 4.25 || sy != 6.75 {
		t.Fatalf("FloatMapping round-trip got (%v,%v,%v), want (4.25,6.75,true)", sx, sy, ok)
	}
}

// P3: Apply writes only target pixels, leaving source pixels in dst
// untouched, and copies exactly the mapped source content.
func TestMappingApplyWritesOnlyTargets(t *testing.T) {
	src := solidFrame(8, 8, 3, 200)
	src.Set(0, 0, [4]uint8{1, 2, 3})
	dst := solidFrame(8, 8, 3, 50)

	mask := NewMask(8, 8)
	mask.Set(5, 5, 0) // single target pixel

	m := NewIntegerMapping(8, 8, 3)
	m.Set(5, 5, 0, 0)

	bbox := ComputeBoundingBox(mask)
	m.Apply(dst, src, mask, bbox)

	got := dst.At(5, 5)
	if got != [4]uint8{1, 2, 3, 0} {
		t.Fatalf("target pixel = %v, want copied source pixel", got)
	}
	if dst.At(0, 0) != [4]uint8{50, 50, 50, 0} {
		t.Fatalf("source pixel outside bbox target set should be untouched, got %v", dst.At(0, 0))
	}
}

// P4: a coarser level's mapping, scaled by 2, lands within one pixel of
// the equivalent finer-level mapping for a uniformly shifted source.
func TestCoarserMappingScaling(t *testing.T) {
	coarse := NewIntegerMapping(10, 10, 3)
	coarse.Set(4, 4, 2, 2) // shift of (-2,-2) in coarse coordinates

	fx, fy := 8, 8 // corresponds to coarse (4,4)
	cx, cy := fx/2, fy/2
	msx, msy, ok := coarse.Get(cx, cy)
	if !ok {
		t.Fatalf("expected coarse mapping to be set")
	}
	sx := 2*msx + float64(fx-2*cx)
	sy := 2*msy + float64(fy-2*cy)
	wantX, wantY := 4.0, 4.0
	if sx != wantX || sy != wantY {
		t.Fatalf("scaled coarse mapping = (%v,%v), want (%v,%v)", sx, sy, wantX, wantY)
	}
}

// P6: SpatialCost is zero when a pixel's candidate source is a perfect
// continuation of an already-mapped target neighbor's own source strip.
func TestSpatialCostZeroForPerfectStrip(t *testing.T) {
	mask := NewMask(10, 10)
	mask.Set(4, 4, 0)
	mask.Set(5, 4, 0)

	m := NewIntegerMapping(10, 10, 3)
	m.Set(4, 4, 20, 20)

	// (5,4)'s ideal source continuing the strip is (21,20).
	cost := m.SpatialCost(mask, 5, 4, 21, 20, 0xFFFFFFFF)
	if cost != 0 {
		t.Fatalf("spatial cost = %d, want 0 for a perfect strip continuation", cost)
	}

	costBad := m.SpatialCost(mask, 5, 4, 21, 50, 0xFFFFFFFF)
	if costBad == 0 {
		t.Fatalf("expected nonzero spatial cost for a discontinuous candidate")
	}
}

func TestNormAAndNormSExactlyOneIsOne(t *testing.T) {
	na := normA(100, 100, 3)
	ns := normS(100, 100, 3)
	if na != 1 && ns != 1 {
		t.Fatalf("expected exactly one of na=%v, ns=%v to be 1", na, ns)
	}
}
