package synthesis

// Homography is a row-major 3x3 projective transform used to warp a
// prior video frame's Mapping into the current frame's coordinate
// system (spec.md §6 "Optional prior-frame Mapping plus a 3x3
// homography").
type Homography [9]float64

// IdentityHomography returns the 3x3 identity transform.
func IdentityHomography() Homography {
	return Homography{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Apply maps (x,y) through the homography, returning the projected
// point.
func (h Homography) Apply(x, y float64) (px, py float64) {
	w := h[6]*x + h[7]*y + h[8]
	if w == 0 {
		return x, y
	}
	px = (h[0]*x + h[1]*y + h[2]) / w
	py = (h[3]*x + h[4]*y + h[5]) / w
	return px, py
}

// Invert returns the matrix inverse of h, and false if h is singular
// (spec.md §7 "homography non-invertible" is an InvalidInput error).
func (h Homography) Invert() (Homography, bool) {
	a, b, c := h[0], h[1], h[2]
	d, e, f := h[3], h[4], h[5]
	g, i, j := h[6], h[7], h[8]

	det := a*(e*j-f*i) - b*(d*j-f*g) + c*(d*i-e*g)
	if det == 0 {
		return Homography{}, false
	}
	invDet := 1 / det
	return Homography{
		(e*j - f*i) * invDet,
		(c*i - b*j) * invDet,
		(b*f - c*e) * invDet,
		(f*g - d*j) * invDet,
		(a*j - c*g) * invDet,
		(c*d - a*f) * invDet,
		(d*i - e*g) * invDet,
		(b*g - a*i) * invDet,
		(a*e - b*d) * invDet,
	}, true
}
