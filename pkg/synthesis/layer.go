package synthesis

// Layer ties together one pyramid level: it borrows its Frame (the caller
// retains ownership and the Layer never reallocates it), owns its Mask
// and Mapping, and caches a bounding box around the target region so
// row/column work outside it can be skipped. W and H agree across Frame,
// Mask and Mapping by construction.
type Layer struct {
	W, H    int
	Frame   *Frame // borrowed
	Mask    *Mask  // owned
	Filter  *Filter // owned, optional
	Mapping Mapping // owned
	BBox    BoundingBox
}

// NewLayer constructs a Layer around a borrowed frame and an owned copy of
// mask (and filter, if present), allocating a fresh Mapping of the
// requested numeric kind.
func NewLayer(frame *Frame, mask *Mask, filter *Filter, useFloat bool) (*Layer, error) {
	if frame.W != mask.W || frame.H != mask.H {
		return nil, &Error{Kind: InvalidInput, Msg: "frame/mask dimension mismatch"}
	}
	if filter != nil && (filter.W != mask.W || filter.H != mask.H) {
		return nil, &Error{Kind: InvalidInput, Msg: "frame/filter dimension mismatch"}
	}
	l := &Layer{
		W: frame.W, H: frame.H,
		Frame:  frame,
		Mask:   mask.Clone(),
		BBox:   ComputeBoundingBox(mask),
	}
	if filter != nil {
		l.Filter = filter.Clone()
	}
	if useFloat {
		l.Mapping = NewFloatMapping(frame.W, frame.H, frame.Channels)
	} else {
		l.Mapping = NewIntegerMapping(frame.W, frame.H, frame.Channels)
	}
	return l, nil
}

// RefreshBoundingBox recomputes BBox from the current Mask, used after a
// shrinking initializer mutates the mask in place.
func (l *Layer) RefreshBoundingBox() {
	l.BBox = ComputeBoundingBox(l.Mask)
}
