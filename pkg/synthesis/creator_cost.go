package synthesis

// CreatorInformationCost sums pixel costs (spatial + appearance,
// normalized and combined exactly as the optimizer ranks candidates)
// over the bounding box into a single 64-bit diagnostic total (spec.md
// §4.E "Information-cost"). It also backs P1's cost-monotonicity check.
type CreatorInformationCost struct {
	WeightFactor   float64
	BorderFactor   int
	MaxSpatialCost uint32
}

func (c CreatorInformationCost) Create(layer *Layer) (interface{}, error) {
	var total uint64
	for y := layer.BBox.MinY; y < layer.BBox.MaxY; y++ {
		for x := layer.BBox.MinX; x < layer.BBox.MaxX; x++ {
			if layer.Mask.IsSource(x, y) {
				continue
			}
			sx, sy, ok := layer.Mapping.Get(x, y)
			if !ok {
				continue
			}
			appearance := layer.Mapping.AppearanceCost(layer.Frame, layer.Mask, x, y, sx, sy, c.BorderFactor, false)
			spatial := layer.Mapping.SpatialCost(layer.Mask, x, y, sx, sy, c.MaxSpatialCost)
			total += CombinedCost(c.WeightFactor, spatial, appearance, layer.Mapping.NormA(), layer.Mapping.NormS())
		}
	}
	return total, nil
}
