package synthesis

// Creator reads a converged Mapping and emits derived data: the
// synthesized frame itself, a cost-visualization mask, or a scalar
// diagnostic total (spec.md §4.E).
type Creator interface {
	Create(layer *Layer) (interface{}, error)
}

// CreatorInpaintingContent writes, for every target pixel T in the
// bounding box, out[T] = in[M(T)] — a bilinear sample for FloatMapping,
// an exact pixel copy for IntegerMapping — leaving source pixels
// untouched in out. out and in may be distinct frames (a fresh output
// buffer) or, for an in-place pass, the same frame.
type CreatorInpaintingContent struct {
	Out *Frame
	In  *Frame
}

func (c CreatorInpaintingContent) Create(layer *Layer) (interface{}, error) {
	layer.Mapping.Apply(c.Out, c.In, layer.Mask, layer.BBox)
	return c.Out, nil
}
