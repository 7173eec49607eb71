package synthesis

import "testing"

func makeSingleTargetLayer(t *testing.T) (*Layer, int, int) {
	t.Helper()
	frame := solidFrame(8, 8, 3, 10)
	frame.Set(0, 0, [4]uint8{200, 150, 50})
	mask := NewMask(8, 8)
	tx, ty := 4, 4
	mask.Set(tx, ty, 0)
	layer, err := NewLayer(frame, mask, nil, false)
	if err != nil {
		t.Fatalf("NewLayer: %v", err)
	}
	layer.Mapping.Set(tx, ty, 0, 0)
	return layer, tx, ty
}

func TestCreatorInpaintingContentCopiesMappedSource(t *testing.T) {
	layer, tx, ty := makeSingleTargetLayer(t)
	out, _ := NewFrame(layer.W, layer.H, layer.Frame.Channels)
	for y := 0; y < layer.H; y++ {
		for x := 0; x < layer.W; x++ {
			out.Set(x, y, layer.Frame.At(x, y))
		}
	}

	creator := CreatorInpaintingContent{Out: out, In: layer.Frame}
	res, err := creator.Create(layer)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got := res.(*Frame).At(tx, ty)
	want := layer.Frame.At(0, 0)
	if got != want {
		t.Fatalf("inpainted pixel = %v, want copied source %v", got, want)
	}
}

func TestCreatorInformationCostMatchesCombinedCost(t *testing.T) {
	layer, tx, ty := makeSingleTargetLayer(t)
	creator := CreatorInformationCost{WeightFactor: 5, BorderFactor: 25, MaxSpatialCost: 0xFFFFFFFF}
	res, err := creator.Create(layer)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	total := res.(uint64)

	sx, sy, _ := layer.Mapping.Get(tx, ty)
	appearance := layer.Mapping.AppearanceCost(layer.Frame, layer.Mask, tx, ty, sx, sy, 25, false)
	spatial := layer.Mapping.SpatialCost(layer.Mask, tx, ty, sx, sy, 0xFFFFFFFF)
	want := CombinedCost(5, spatial, appearance, layer.Mapping.NormA(), layer.Mapping.NormS())
	if total != want {
		t.Fatalf("information cost = %d, want %d", total, want)
	}
}

func TestCreatorInformationSpatialCostMarksAgreement(t *testing.T) {
	frame := solidFrame(10, 10, 3, 10)
	mask := NewMask(10, 10)
	mask.Set(4, 4, 0)
	mask.Set(5, 4, 0)
	layer, err := NewLayer(frame, mask, nil, false)
	if err != nil {
		t.Fatalf("NewLayer: %v", err)
	}
	layer.Mapping.Set(4, 4, 20, 20)
	layer.Mapping.Set(5, 4, 21, 20) // perfect strip continuation

	creator := CreatorInformationSpatialCost{NeighborhoodThreshold: 1, MaxSpatialCost: 0xFFFFFFFF}
	res, err := creator.Create(layer)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	out := res.(*Frame)
	if out.At(5, 4)[0] != 0x80 {
		t.Fatalf("expected (5,4) to be marked as agreeing with its neighbor's strip")
	}
}
