package synthesis

// CreatorInformationSpatialCost emits an 8-bit single-channel image that
// is 0x80 where the 4-neighborhood agreement count is at or above
// NeighborhoodThreshold, else 0x00 (spec.md §4.E
// "Information-spatial-cost").
type CreatorInformationSpatialCost struct {
	NeighborhoodThreshold int // typically 1..4
	MaxSpatialCost        uint32
}

func (c CreatorInformationSpatialCost) Create(layer *Layer) (interface{}, error) {
	out, err := NewFrame(layer.W, layer.H, 1)
	if err != nil {
		return nil, err
	}
	threshold := c.NeighborhoodThreshold
	if threshold <= 0 {
		threshold = 1
	}
	neighbors := [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}
	for y := layer.BBox.MinY; y < layer.BBox.MaxY; y++ {
		for x := layer.BBox.MinX; x < layer.BBox.MaxX; x++ {
			if layer.Mask.IsSource(x, y) {
				continue
			}
			sx, sy, ok := layer.Mapping.Get(x, y)
			if !ok {
				continue
			}
			agree := 0
			for _, n := range neighbors {
				nx, ny := x+n[0], y+n[1]
				if nx < 0 || ny < 0 || nx >= layer.W || ny >= layer.H {
					continue
				}
				if !layer.Mask.IsTarget(nx, ny) {
					continue
				}
				nsx, nsy, ok := layer.Mapping.Get(nx, ny)
				if !ok {
					continue
				}
				idealX := nsx - float64(n[0])
				idealY := nsy - float64(n[1])
				if idealX == sx && idealY == sy {
					agree++
				}
			}
			if agree >= threshold {
				out.Set(x, y, [4]uint8{0x80, 0x80, 0x80, 0x80})
			}
		}
	}
	return out, nil
}
