// Package trainer drives the bag of patches experiment: training steps on
// the multi-instance loss, batch-synchronous evaluation with majority vote
// decoding, and the persistence of model weights between runs.
package trainer
