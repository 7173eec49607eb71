package synthesis

import "testing"

func TestMaskSourceTargetRoundTrip(t *testing.T) {
	m := NewMask(5, 5)
	if !m.IsSource(2, 2) {
		t.Fatalf("new mask should be all-source")
	}
	m.Set(2, 2, 0)
	if m.IsSource(2, 2) || !m.IsTarget(2, 2) {
		t.Fatalf("expected (2,2) to be a target pixel after Set(...,0)")
	}
	if !m.HasTarget() {
		t.Fatalf("HasTarget should report true once any pixel is non-source")
	}
}

func TestMaskCloneIsIndependent(t *testing.T) {
	m := NewMask(4, 4)
	m.Set(1, 1, 0)
	c := m.Clone()
	c.Set(2, 2, 0)
	if m.IsTarget(2, 2) {
		t.Fatalf("mutating a clone should not affect the original")
	}
	if !c.IsTarget(1, 1) {
		t.Fatalf("clone should carry over the original's target pixels")
	}
}

func TestDistanceTransformBoundaryIsZero(t *testing.T) {
	m := NewMask(7, 7)
	for y := 2; y <= 4; y++ {
		for x := 2; x <= 4; x++ {
			m.Set(x, y, 0)
		}
	}
	m.DistanceTransform()
	// (2,2) is adjacent to a source pixel (1,2), so it's on the boundary.
	if d := m.Get(2, 2); d != 0 {
		t.Fatalf("boundary target pixel distance = %d, want 0", d)
	}
	// (3,3) is the interior of the 3x3 target block, strictly farther
	// from source than the boundary ring.
	if d := m.Get(3, 3); d == 0 {
		t.Fatalf("interior target pixel distance should be > 0, got 0")
	}
}

func TestComputeBoundingBoxEmptyMask(t *testing.T) {
	m := NewMask(4, 4)
	b := ComputeBoundingBox(m)
	if !b.Empty {
		t.Fatalf("expected empty bounding box for an all-source mask")
	}
}

func TestComputeBoundingBoxTight(t *testing.T) {
	m := NewMask(10, 10)
	m.Set(3, 4, 0)
	m.Set(6, 7, 0)
	b := ComputeBoundingBox(m)
	if b.Empty || b.MinX != 3 || b.MinY != 4 || b.MaxX != 7 || b.MaxY != 8 {
		t.Fatalf("unexpected bbox %+v", b)
	}
}

func TestFilterAllowed(t *testing.T) {
	if !Allowed(nil, 0, 0) {
		t.Fatalf("nil filter should allow everything")
	}
	f := NewMask(3, 3)
	f.Set(1, 1, 0)
	if Allowed(f, 1, 1) {
		t.Fatalf("filtered-out pixel should not be allowed")
	}
	if !Allowed(f, 0, 0) {
		t.Fatalf("unfiltered pixel should be allowed")
	}
}
