package synthesis

import "math"

// ConstraintKind tags the two constraint geometries spec.md §9 names
// ("a tagged sum over {InfiniteLine, FiniteLine}, extensible").
type ConstraintKind int

const (
	InfiniteLineConstraint ConstraintKind = iota
	FiniteLineConstraint
)

// Constraint is a single structural constraint: a weighted geometric
// penalty term an optimizer can add to a candidate's cost, modelled as a
// tagged sum rather than a polymorphic base class (spec.md §9).
type Constraint struct {
	Kind ConstraintKind

	// Impact scales the returned penalty.
	Impact float64

	// Radius is the falloff distance beyond which the penalty saturates.
	Radius float64

	// P0, P1 are the line's two endpoints (both used for InfiniteLine,
	// which only uses them to define direction through P0; both define
	// the finite segment for FiniteLine).
	P0, P1 [2]float64
}

// Cost returns the constraint's penalty for a pixel at (x,y). For
// FiniteLineConstraint, a point beyond the segment's ends (not just its
// infinite extension) is charged the maximum penalty, matching spec.md
// §4.D's "returning a penalty if the point falls outside a finite
// segment".
func (c Constraint) Cost(x, y float64) float64 {
	dx := c.P1[0] - c.P0[0]
	dy := c.P1[1] - c.P0[1]
	length := math.Hypot(dx, dy)
	if length < 1e-9 {
		return c.Impact
	}
	ux, uy := dx/length, dy/length
	relx, rely := x-c.P0[0], y-c.P0[1]
	along := relx*ux + rely*uy
	perp := math.Abs(relx*uy - rely*ux)

	if c.Kind == FiniteLineConstraint && (along < 0 || along > length) {
		return c.Impact
	}

	d := perp
	if c.Radius <= 0 {
		return c.Impact * d
	}
	t := d / c.Radius
	if t > 1 {
		t = 1
	}
	return c.Impact * t
}

// noConstraint marks "no constraint selected" in a DecisionFrame.
const noConstraint uint8 = 0xFF

// DecisionFrame is a 1-byte-per-target-pixel index into a Constraints
// slice, precomputed once during initialization so the structural-
// constrained optimizer can look the active constraint up in O(1)
// (spec.md §9).
type DecisionFrame struct {
	W, H        int
	Index       []uint8
	Constraints []Constraint
}

// BuildDecisionFrame selects, for every pixel, whichever constraint
// imposes the largest penalty AT THAT PIXEL (not merely the globally
// largest Impact). A constraint's penalty grows with distance from its
// line up to its Impact, so a far high-impact constraint outranks a
// nearby low-impact one. len(constraints) must be
// < 0xFF; BuildDecisionFrame panics otherwise, since the index byte
// reserves 0xFF for "no constraint selected".
func BuildDecisionFrame(w, h int, constraints []Constraint) *DecisionFrame {
	if len(constraints) >= int(noConstraint) {
		panic("synthesis: too many constraints for DecisionFrame's byte index")
	}
	df := &DecisionFrame{W: w, H: h, Index: make([]uint8, w*h), Constraints: constraints}
	for i := range df.Index {
		df.Index[i] = noConstraint
	}
	if len(constraints) == 0 {
		return df
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			bestIdx := -1
			bestCost := -1.0
			for ci, c := range constraints {
				cost := c.Cost(float64(x), float64(y))
				if cost > bestCost {
					bestCost = cost
					bestIdx = ci
				}
			}
			if bestIdx >= 0 && bestCost > 0 {
				df.Index[y*w+x] = uint8(bestIdx)
			}
		}
	}
	return df
}

// CostAt returns the precomputed constraint's penalty at (x,y), or 0 if
// none was selected for that pixel.
func (df *DecisionFrame) CostAt(x, y int) float64 {
	idx := df.Index[y*df.W+x]
	if idx == noConstraint {
		return 0
	}
	return df.Constraints[idx].Cost(float64(x), float64(y))
}
