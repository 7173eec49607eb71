package synthesis

import "math"

// FloatMapping stores, for every pixel, a sub-pixel source coordinate
// with bilinear sampling semantics. It is used at the finest pyramid
// level for smooth results.
type FloatMapping struct {
	w, h, channels int
	na, ns         float64
	sx, sy         []float64
	valid          []bool
}

func NewFloatMapping(w, h, channels int) *FloatMapping {
	m := &FloatMapping{
		w: w, h: h, channels: channels,
		na: normA(w, h, channels), ns: normS(w, h, channels),
		sx: make([]float64, w*h), sy: make([]float64, w*h), valid: make([]bool, w*h),
	}
	return m
}

func (m *FloatMapping) W() int         { return m.w }
func (m *FloatMapping) H() int         { return m.h }
func (m *FloatMapping) Channels() int  { return m.channels }
func (m *FloatMapping) NormA() float64 { return m.na }
func (m *FloatMapping) NormS() float64 { return m.ns }
func (m *FloatMapping) idx(x, y int) int { return y*m.w + x }

func (m *FloatMapping) Reset() {
	for i := range m.valid {
		m.sx[i], m.sy[i], m.valid[i] = 0, 0, false
	}
}

func (m *FloatMapping) Get(tx, ty int) (float64, float64, bool) {
	i := m.idx(tx, ty)
	return m.sx[i], m.sy[i], m.valid[i]
}

func (m *FloatMapping) Set(tx, ty int, sx, sy float64) {
	i := m.idx(tx, ty)
	m.sx[i], m.sy[i], m.valid[i] = sx, sy, true
}

func (m *FloatMapping) Invalidate(tx, ty int) {
	m.valid[m.idx(tx, ty)] = false
}

// sampleBilinear returns up to 4 channel samples of frame at fractional
// coordinates (x,y), clamping the four contributing corners to bounds.
// Mirrors the bilinear kernel of the teacher's pkg/stdimg/resample.go,
// generalized from *image.NRGBA to an arbitrary-channel Frame.
func sampleBilinear(frame *Frame, x, y float64) [4]float64 {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	x1 := x0 + 1
	y1 := y0 + 1
	xFrac := x - float64(x0)
	yFrac := y - float64(y0)

	c00 := frame.At(clampCoord(x0, 0, frame.W-1), clampCoord(y0, 0, frame.H-1))
	c10 := frame.At(clampCoord(x1, 0, frame.W-1), clampCoord(y0, 0, frame.H-1))
	c01 := frame.At(clampCoord(x0, 0, frame.W-1), clampCoord(y1, 0, frame.H-1))
	c11 := frame.At(clampCoord(x1, 0, frame.W-1), clampCoord(y1, 0, frame.H-1))

	var out [4]float64
	for c := 0; c < frame.Channels; c++ {
		top := float64(c00[c])*(1-xFrac) + float64(c10[c])*xFrac
		bot := float64(c01[c])*(1-xFrac) + float64(c11[c])*xFrac
		out[c] = top*(1-yFrac) + bot*yFrac
	}
	return out
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func (m *FloatMapping) AppearanceCost(frame *Frame, mask *Mask, tx, ty int, sx, sy float64, borderFactor int, centerOmit bool) uint64 {
	var total uint64
	for _, off := range patchOffsets {
		dx, dy := off[0], off[1]
		if centerOmit && dx == 0 && dy == 0 {
			continue
		}
		tX, tY := tx+dx, ty+dy
		tcX := clampCoord(tX, 0, frame.W-1)
		tcY := clampCoord(tY, 0, frame.H-1)
		tp := frame.At(tcX, tcY)
		sp := sampleBilinear(frame, sx+float64(dx), sy+float64(dy))
		var ssd uint64
		for c := 0; c < frame.Channels; c++ {
			d := float64(tp[c]) - sp[c]
			ssd += uint64(d * d)
		}
		if neighborIsTarget(mask, tX, tY) {
			ssd *= uint64(borderFactor)
		}
		total += ssd
	}
	return total
}

func (m *FloatMapping) SpatialCost(mask *Mask, tx, ty int, sx, sy float64, maxSpatialCost uint32) uint32 {
	return spatialCostGeneric(m, mask, tx, ty, sx, sy, maxSpatialCost)
}

func (m *FloatMapping) Apply(dst, src *Frame, mask *Mask, bbox BoundingBox) {
	if bbox.Empty {
		return
	}
	for y := bbox.MinY; y < bbox.MaxY; y++ {
		for x := bbox.MinX; x < bbox.MaxX; x++ {
			if mask.IsSource(x, y) {
				continue
			}
			sx, sy, ok := m.Get(x, y)
			if !ok {
				continue
			}
			sample := sampleBilinear(src, sx, sy)
			var c [4]uint8
			for ch := 0; ch < dst.Channels; ch++ {
				c[ch] = clampByte(sample[ch])
			}
			dst.Set(x, y, c)
		}
	}
}

func (m *FloatMapping) Clone() Mapping {
	out := &FloatMapping{w: m.w, h: m.h, channels: m.channels, na: m.na, ns: m.ns}
	out.sx = append([]float64(nil), m.sx...)
	out.sy = append([]float64(nil), m.sy...)
	out.valid = append([]bool(nil), m.valid...)
	return out
}
