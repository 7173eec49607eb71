package synthesis

// IntegerMapping stores, for every pixel, a whole-pixel source coordinate.
// It is the fast variant used at coarse pyramid levels.
type IntegerMapping struct {
	w, h, channels int
	na, ns         float64
	sx, sy         []int32
}

// NewIntegerMapping allocates a W*H integer mapping, reset to invalid.
func NewIntegerMapping(w, h, channels int) *IntegerMapping {
	m := &IntegerMapping{
		w: w, h: h, channels: channels,
		na: normA(w, h, channels), ns: normS(w, h, channels),
		sx: make([]int32, w*h), sy: make([]int32, w*h),
	}
	m.Reset()
	return m
}

func (m *IntegerMapping) W() int           { return m.w }
func (m *IntegerMapping) H() int           { return m.h }
func (m *IntegerMapping) Channels() int    { return m.channels }
func (m *IntegerMapping) NormA() float64   { return m.na }
func (m *IntegerMapping) NormS() float64   { return m.ns }
func (m *IntegerMapping) idx(x, y int) int { return y*m.w + x }

func (m *IntegerMapping) Reset() {
	for i := range m.sx {
		m.sx[i] = invalidCoord
		m.sy[i] = invalidCoord
	}
}

func (m *IntegerMapping) Get(tx, ty int) (float64, float64, bool) {
	i := m.idx(tx, ty)
	if m.sx[i] == invalidCoord {
		return 0, 0, false
	}
	return float64(m.sx[i]), float64(m.sy[i]), true
}

// GetInt is the integer-native accessor optimizers use to avoid float
// round-trips in the hot loop.
func (m *IntegerMapping) GetInt(tx, ty int) (sx, sy int, valid bool) {
	i := m.idx(tx, ty)
	if m.sx[i] == invalidCoord {
		return 0, 0, false
	}
	return int(m.sx[i]), int(m.sy[i]), true
}

func (m *IntegerMapping) Set(tx, ty int, sx, sy float64) {
	m.SetInt(tx, ty, int(sx), int(sy))
}

func (m *IntegerMapping) SetInt(tx, ty, sx, sy int) {
	i := m.idx(tx, ty)
	m.sx[i] = int32(sx)
	m.sy[i] = int32(sy)
}

func (m *IntegerMapping) Invalidate(tx, ty int) {
	i := m.idx(tx, ty)
	m.sx[i] = invalidCoord
	m.sy[i] = invalidCoord
}

func clampCoord(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// neighborIsTarget reports whether (x,y) is a target pixel, treating any
// coordinate outside the frame as a source pixel (the patch simply has no
// neighbor to border-weight there).
func neighborIsTarget(mask *Mask, x, y int) bool {
	if x < 0 || y < 0 || x >= mask.W || y >= mask.H {
		return false
	}
	return mask.IsTarget(x, y)
}

func (m *IntegerMapping) AppearanceCost(frame *Frame, mask *Mask, tx, ty int, sx, sy float64, borderFactor int, centerOmit bool) uint64 {
	isx, isy := int(sx), int(sy)
	var total uint64
	for _, off := range patchOffsets {
		dx, dy := off[0], off[1]
		if centerOmit && dx == 0 && dy == 0 {
			continue
		}
		tX, tY := tx+dx, ty+dy
		sX, sY := isx+dx, isy+dy
		tcX := clampCoord(tX, 0, frame.W-1)
		tcY := clampCoord(tY, 0, frame.H-1)
		scX := clampCoord(sX, 0, frame.W-1)
		scY := clampCoord(sY, 0, frame.H-1)
		tp := frame.At(tcX, tcY)
		sp := frame.At(scX, scY)
		var ssd uint64
		for c := 0; c < frame.Channels; c++ {
			d := int64(tp[c]) - int64(sp[c])
			ssd += uint64(d * d)
		}
		if neighborIsTarget(mask, tX, tY) {
			ssd *= uint64(borderFactor)
		}
		total += ssd
	}
	return total
}

func (m *IntegerMapping) SpatialCost(mask *Mask, tx, ty int, sx, sy float64, maxSpatialCost uint32) uint32 {
	return spatialCostGeneric(m, mask, tx, ty, sx, sy, maxSpatialCost)
}

// spatialCostGeneric implements spec.md 4.A's spatial cost for any Mapping:
// the minimum, over the four axial neighbors that are themselves target
// pixels, of the squared deviation of the candidate source from the ideal
// offset implied by the neighbor's own mapping.
func spatialCostGeneric(m Mapping, mask *Mask, tx, ty int, sx, sy float64, maxSpatialCost uint32) uint32 {
	best := uint64(maxSpatialCost) + 1
	haveAny := false
	neighbors := [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}
	for _, n := range neighbors {
		nx, ny := tx+n[0], ty+n[1]
		if nx < 0 || ny < 0 || nx >= mask.W || ny >= mask.H {
			continue
		}
		if !mask.IsTarget(nx, ny) {
			continue
		}
		nsx, nsy, ok := m.Get(nx, ny)
		if !ok {
			continue
		}
		haveAny = true
		idealX := nsx - float64(n[0])
		idealY := nsy - float64(n[1])
		ddx := sx - idealX
		ddy := sy - idealY
		v := ddx*ddx + ddy*ddy
		vi := uint64(v)
		if vi < best {
			best = vi
		}
	}
	if !haveAny {
		return 0
	}
	if best > uint64(maxSpatialCost) {
		return maxSpatialCost
	}
	return uint32(best)
}

func (m *IntegerMapping) Apply(dst, src *Frame, mask *Mask, bbox BoundingBox) {
	if bbox.Empty {
		return
	}
	for y := bbox.MinY; y < bbox.MaxY; y++ {
		for x := bbox.MinX; x < bbox.MaxX; x++ {
			if mask.IsSource(x, y) {
				continue
			}
			sx, sy, ok := m.GetInt(x, y)
			if !ok {
				continue
			}
			dst.CopyPixel(x, y, src, sx, sy)
		}
	}
}

func (m *IntegerMapping) Clone() Mapping {
	out := &IntegerMapping{w: m.w, h: m.h, channels: m.channels, na: m.na, ns: m.ns}
	out.sx = append([]int32(nil), m.sx...)
	out.sy = append([]int32(nil), m.sy...)
	return out
}
