// Package bag aggregates per-patch class probabilities of an image (a bag of
// patches) into a training loss and an image level decision.
//
// Training uses a multi-instance assumption: an image is of its class if at
// least one of its patches strongly says so, hence the loss takes the max over
// the bag. Evaluation uses the summed probability of each class over the bag
// (a soft majority vote). Both aggregations are kept as they are.
//
// All functions take flat batches where bag b occupies the contiguous block
// [b*nbrPatch, (b+1)*nbrPatch).
package bag
