package synthesis

// BoundingBox is the tight axis-aligned rectangle around every target
// pixel in a Mask, cached per Layer so row/column work that touches no
// target pixel can be skipped entirely.
type BoundingBox struct {
	MinX, MinY, MaxX, MaxY int // MaxX/MaxY exclusive
	Empty                  bool
}

// ComputeBoundingBox scans mask and returns the tight box around every
// target pixel.
func ComputeBoundingBox(mask *Mask) BoundingBox {
	minX, minY := mask.W, mask.H
	maxX, maxY := 0, 0
	found := false
	for y := 0; y < mask.H; y++ {
		for x := 0; x < mask.W; x++ {
			if mask.IsTarget(x, y) {
				found = true
				if x < minX {
					minX = x
				}
				if y < minY {
					minY = y
				}
				if x+1 > maxX {
					maxX = x + 1
				}
				if y+1 > maxY {
					maxY = y + 1
				}
			}
		}
	}
	if !found {
		return BoundingBox{Empty: true}
	}
	return BoundingBox{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// Width and Height of the box.
func (b BoundingBox) Width() int  { return b.MaxX - b.MinX }
func (b BoundingBox) Height() int { return b.MaxY - b.MinY }

// Scaled doubles the box coordinates, mapping a coarser pyramid level's
// box onto the next finer level's, with MaxX/MaxY clamped to w and h.
func (b BoundingBox) Scaled(w, h int) BoundingBox {
	if b.Empty {
		return b
	}
	minX := b.MinX * 2
	minY := b.MinY * 2
	maxX := b.MaxX * 2
	maxY := b.MaxY * 2
	if maxX > w {
		maxX = w
	}
	if maxY > h {
		maxY = h
	}
	return BoundingBox{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}
