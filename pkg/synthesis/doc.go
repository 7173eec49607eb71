// Package synthesis implements a coarse-to-fine, patch-based pixel
// synthesis engine: given a frame and a mask marking a region to remove,
// it fills the masked region by copying 5x5 patches from elsewhere in the
// frame (or a reference frame), using a randomized PatchMatch-style search
// regularized by a spatial-coherence term.
//
// The package is organized as one flat set of files per component family
// (mapping, layer, initializer, optimizer, creator, pyramid) rather than
// sub-packages, the way pkg/stdimg groups many single-concern files under
// one package.
package synthesis
