package synthesis

import "math/rand"

// newRNG builds a deterministic random source from seed, special-casing
// seed==0 to a fixed non-zero seed so callers that pass an unset seed
// still get reproducible output — the same convention pkg/stdimg/noise.go
// uses for AddNoise.
func newRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	return rand.New(rand.NewSource(seed))
}
