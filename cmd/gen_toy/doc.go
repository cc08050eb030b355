// Package main writes a synthetic two source dataset (one IDX file per
// class) and a matching run configuration, so the experiment runs without
// real image files.
package main
