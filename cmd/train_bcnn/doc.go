// Package main trains the bag of patches CNN on a run configuration, saves
// the weights to the model directory and prints the evaluation report of
// the held out test images.
package main
