package synthesis

import "testing"

func TestInfiniteLineConstraintCostGrowsWithDistance(t *testing.T) {
	c := Constraint{Kind: InfiniteLineConstraint, Impact: 10, Radius: 5, P0: [2]float64{0, 0}, P1: [2]float64{10, 0}}
	near := c.Cost(5, 1)
	far := c.Cost(5, 4)
	if !(near < far) {
		t.Fatalf("cost should grow with perpendicular distance: near=%v far=%v", near, far)
	}
	onLine := c.Cost(5, 0)
	if onLine != 0 {
		t.Fatalf("cost on the line itself should be 0, got %v", onLine)
	}
}

func TestFiniteLineConstraintPenalizesBeyondSegment(t *testing.T) {
	c := Constraint{Kind: FiniteLineConstraint, Impact: 7, Radius: 2, P0: [2]float64{0, 0}, P1: [2]float64{10, 0}}
	inSegment := c.Cost(5, 0)
	beyond := c.Cost(15, 0)
	if inSegment != 0 {
		t.Fatalf("point on the finite segment should cost 0, got %v", inSegment)
	}
	if beyond != c.Impact {
		t.Fatalf("point beyond the finite segment should cost the full Impact, got %v want %v", beyond, c.Impact)
	}
}

func TestBuildDecisionFramePicksDominantConstraintPerPixel(t *testing.T) {
	weak := Constraint{Kind: InfiniteLineConstraint, Impact: 1, Radius: 5, P0: [2]float64{0, 0}, P1: [2]float64{20, 0}}
	strong := Constraint{Kind: InfiniteLineConstraint, Impact: 100, Radius: 5, P0: [2]float64{0, 20}, P1: [2]float64{20, 20}}

	df := BuildDecisionFrame(20, 20, []Constraint{weak, strong})

	// Near y=0, weak's line is close (low perp distance) and strong's is
	// far away (saturates at full Impact) — strong should still win
	// because it saturates at a far larger value.
	costNearWeak := df.CostAt(10, 2)
	if costNearWeak <= weak.Cost(10, 2) {
		t.Fatalf("expected the saturated strong constraint to dominate even far away, got %v", costNearWeak)
	}
}

func TestBuildDecisionFrameNoConstraintsLeavesIndexEmpty(t *testing.T) {
	df := BuildDecisionFrame(4, 4, nil)
	if df.CostAt(1, 1) != 0 {
		t.Fatalf("expected 0 cost with no constraints configured")
	}
}

func TestBuildDecisionFramePanicsOnTooManyConstraints(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected a panic for 0xFF or more constraints")
		}
	}()
	cs := make([]Constraint, 0xFF)
	BuildDecisionFrame(4, 4, cs)
}
