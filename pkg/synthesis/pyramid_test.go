package synthesis

import "testing"

func TestBuildPyramidKeepsSingleTargetOnEveryLevel(t *testing.T) {
	frame := solidFrame(64, 64, 3, 40)
	mask := NewMask(64, 64)
	mask.Set(10, 10, 0) // a single-pixel hole stays target at every halving (any-target rule)

	cfg := DefaultConfig()
	pyr, err := BuildPyramid(frame, mask, nil, cfg)
	if err != nil {
		t.Fatalf("BuildPyramid: %v", err)
	}
	if pyr.Levels() < 1 {
		t.Fatalf("expected at least one level")
	}
	// Every retained level's mask must still have a non-empty target bbox.
	for i, b := range pyr.BBoxes {
		if b.Empty {
			t.Fatalf("level %d has an empty bbox; BuildPyramid should have truncated before this", i)
		}
	}
	if pyr.Frames[0] != frame {
		t.Fatalf("level 0 should be the original frame, not a copy")
	}
}

func TestBuildPyramidRejectsDimensionMismatch(t *testing.T) {
	frame := solidFrame(10, 10, 3, 1)
	mask := NewMask(8, 8)
	if _, err := BuildPyramid(frame, mask, nil, DefaultConfig()); err == nil {
		t.Fatalf("expected an error for mismatched frame/mask dimensions")
	}
}

func TestBuildPyramidRejectsEmptyMask(t *testing.T) {
	frame := solidFrame(10, 10, 3, 1)
	mask := NewMask(10, 10)
	if _, err := BuildPyramid(frame, mask, nil, DefaultConfig()); err == nil {
		t.Fatalf("expected an error for an all-source mask")
	}
}

// End-to-end smoke test: Inpaint on a small frame with a small hole
// completes and leaves source pixels untouched.
func TestInpaintEndToEnd(t *testing.T) {
	frame := solidFrame(32, 32, 3, 0)
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			v := uint8((x * 7) % 256)
			frame.Set(x, y, [4]uint8{v, v, v})
		}
	}
	mask := NewMask(32, 32)
	for y := 12; y <= 16; y++ {
		for x := 12; x <= 16; x++ {
			mask.Set(x, y, 0)
		}
	}

	cfg := DefaultConfig()
	cfg.CoarseInitializer = Appearance
	pool := NewWorkerPool(2)

	res, err := Inpaint(frame, mask, nil, cfg, 99, pool, nil, nil, nil, true)
	if err != nil {
		t.Fatalf("Inpaint: %v", err)
	}
	if res.Frame == nil {
		t.Fatalf("expected a non-nil result frame")
	}
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if mask.IsSource(x, y) {
				if res.Frame.At(x, y) != frame.At(x, y) {
					t.Fatalf("source pixel (%d,%d) changed: got %v want %v", x, y, res.Frame.At(x, y), frame.At(x, y))
				}
			}
		}
	}
}

func TestInpaintRejectsAllSourceMask(t *testing.T) {
	frame := solidFrame(10, 10, 3, 5)
	mask := NewMask(10, 10)
	pool := NewWorkerPool(1)
	if _, err := Inpaint(frame, mask, nil, DefaultConfig(), 1, pool, nil, nil, nil, false); err == nil {
		t.Fatalf("expected an error for a mask with no target pixels")
	}
}
