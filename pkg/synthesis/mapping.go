package synthesis

// invalidCoord is the sentinel used by IntegerMapping for "no mapping yet",
// matching spec.md's "all bits 1" integer sentinel (we use -1 rather than
// an unsigned all-ones pattern since Go coordinates are signed ints; both
// are unreachable valid coordinates).
const invalidCoord = -1

// Mapping is the per-pixel target-to-source coordinate table shared by
// IntegerMapping and FloatMapping. Every target pixel stores a source
// location; source pixels' entries are unused. Channels() reports the
// channel count fixed at construction; the cost kernels loop over the
// frame's own channel count.
type Mapping interface {
	W() int
	H() int
	Channels() int

	// NormA, NormS are the cached appearance/spatial normalization
	// constants (exactly one of the two equals 1).
	NormA() float64
	NormS() float64

	// Reset invalidates every entry.
	Reset()

	// Get returns the source coordinate mapped from (tx,ty) and whether
	// it has been set. Integer mappings always return coordinates with
	// zero fractional part.
	Get(tx, ty int) (sx, sy float64, valid bool)

	// Set stores (sx,sy) as the source for (tx,ty).
	Set(tx, ty int, sx, sy float64)

	// Invalidate clears the entry for (tx,ty).
	Invalidate(tx, ty int)

	// AppearanceCost is the 5x5 SSD between the patch centered at (tx,ty)
	// in frame and the patch centered at (sx,sy), per spec.md 4.A.
	// centerOmit skips the (0,0) offset (the "center pixel variant").
	AppearanceCost(frame *Frame, mask *Mask, tx, ty int, sx, sy float64, borderFactor int, centerOmit bool) uint64

	// SpatialCost is the minimum, over the 4 axial neighbors of (tx,ty)
	// that are themselves target pixels, of the squared deviation of
	// (sx,sy) from the neighbor's own mapping shifted back by the
	// neighbor-to-(tx,ty) displacement. Capped at maxSpatialCost.
	SpatialCost(mask *Mask, tx, ty int, sx, sy float64, maxSpatialCost uint32) uint32

	// Apply writes, for every target pixel in bbox, the content sampled
	// from src at the mapped source coordinate into dst (dst and src may
	// be the same Frame for an in-place optimizer update, or distinct
	// frames when a Creator writes synthesized output separately from
	// the frame being read).
	Apply(dst, src *Frame, mask *Mask, bbox BoundingBox)

	// Clone returns an independent deep copy.
	Clone() Mapping
}

// normA, normS compute the two normalization constants of spec.md 4.A from
// the frame dimensions and channel count. Exactly one of the two equals 1.
func normA(w, h, channels int) float64 {
	v := float64(channels) * 255.0 * 255.0 / float64(w*w+h*h)
	if v < 1 {
		return 1
	}
	return v
}

func normS(w, h, channels int) float64 {
	v := float64(w*w+h*h) / (float64(channels) * 255.0 * 255.0)
	if v < 1 {
		return 1
	}
	return v
}

// CombinedCost folds spatial and appearance cost into the single
// normalized total used by every optimizer to rank candidates:
//
//	pixelCost = weightFactor * spatialCost * Na + appearanceCost * Ns
func CombinedCost(weightFactor float64, spatialCost uint32, appearanceCost uint64, na, ns float64) uint64 {
	return uint64(weightFactor*float64(spatialCost)*na) + uint64(float64(appearanceCost)*ns)
}

// patchOffsets enumerates the 25 offsets of a 5x5 patch in row-major
// order, so (0,0) sits in the middle at index 12; the center-omit variant
// is handled by checking centerOmit per offset in the cost kernels.
var patchOffsets = func() [25][2]int {
	var offs [25][2]int
	i := 0
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			offs[i] = [2]int{dx, dy}
			i++
		}
	}
	return offs
}()
