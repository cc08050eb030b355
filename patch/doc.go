// Package patch slices square images into overlapping square patches using
// a sliding window, the way the bag of patches network consumes them.
//
// Patches of one image are always contiguous and in row-major window order,
// so that a batch of B images yields B blocks of NbrPatch patches each. Every
// downstream component relies on that layout to find bag boundaries.
package patch
