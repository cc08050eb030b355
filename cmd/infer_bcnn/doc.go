// Package main evaluates saved bag of patches CNN weights, either on the
// test split of the configured sources or on given IDX files.
package main
