// Package inference defines the per-patch classifier contract that the bag
// level code depends on, and the Context that owns a classifier for the
// duration of a run.
package inference
