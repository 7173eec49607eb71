package synthesis

import "testing"

func gradientFrame(w, h, channels int) *Frame {
	f, _ := NewFrame(w, h, channels)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8((x*5 + y*3) % 256)
			f.Set(x, y, [4]uint8{v, v, v})
		}
	}
	return f
}

func TestOptimizerRunNeverIncreasesTotalCost(t *testing.T) {
	frame := gradientFrame(24, 24, 3)
	mask := NewMask(24, 24)
	for y := 8; y <= 14; y++ {
		for x := 8; x <= 14; x++ {
			mask.Set(x, y, 0)
		}
	}
	layer, err := NewLayer(frame, mask, nil, false)
	if err != nil {
		t.Fatalf("NewLayer: %v", err)
	}
	pool := NewWorkerPool(2)
	if err := (RandomInitializer{}).Initialize(layer, pool, 5, nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	costOf := func() uint64 {
		c := CreatorInformationCost{WeightFactor: 5, BorderFactor: 25, MaxSpatialCost: 0xFFFFFFFF}
		res, err := c.Create(layer)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		return res.(uint64)
	}

	before := costOf()
	opt := Optimizer{WeightFactor: 5, BorderFactor: 25, MaxSpatialCost: 0xFFFFFFFF, DecayRadii: 8}
	if err := opt.Run(layer, 3, 5, pool, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	after := costOf()
	if after > before {
		t.Fatalf("optimizer increased total cost: before=%d after=%d", before, after)
	}
}

func TestOptimizerSkipMaskLeavesPixelUnchanged(t *testing.T) {
	frame := gradientFrame(16, 16, 3)
	mask := NewMask(16, 16)
	mask.Set(8, 8, 0)
	layer, err := NewLayer(frame, mask, nil, false)
	if err != nil {
		t.Fatalf("NewLayer: %v", err)
	}
	layer.Mapping.Set(8, 8, 0, 0)

	skip := NewMask(16, 16) // all-source: skip every pixel
	opt := Optimizer{WeightFactor: 5, BorderFactor: 25, MaxSpatialCost: 0xFFFFFFFF, DecayRadii: 8, SkipMask: skip}
	pool := NewWorkerPool(1)
	if err := opt.Run(layer, 2, 3, pool, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	sx, sy, ok := layer.Mapping.Get(8, 8)
	if !ok || sx != 0 || sy != 0 {
		t.Fatalf("SkipMask should leave the mapping at (0,0) untouched, got (%v,%v,%v)", sx, sy, ok)
	}
}

func TestOptimizerDeterministicUnderFixedSeed(t *testing.T) {
	run := func() *IntegerMapping {
		frame := gradientFrame(20, 20, 3)
		mask := NewMask(20, 20)
		for y := 6; y <= 10; y++ {
			for x := 6; x <= 10; x++ {
				mask.Set(x, y, 0)
			}
		}
		layer, _ := NewLayer(frame, mask, nil, false)
		pool := NewWorkerPool(1)
		_ = (RandomInitializer{}).Initialize(layer, pool, 21, nil)
		opt := Optimizer{WeightFactor: 5, BorderFactor: 25, MaxSpatialCost: 0xFFFFFFFF, DecayRadii: 8}
		_ = opt.Run(layer, 2, 21, pool, nil)
		return layer.Mapping.(*IntegerMapping)
	}
	a, b := run(), run()
	for i := range a.sx {
		if a.sx[i] != b.sx[i] || a.sy[i] != b.sy[i] {
			t.Fatalf("non-deterministic optimizer result at index %d", i)
		}
	}
}
