// Package datasets loads labeled square images for the bag of patches
// experiment: IDX files (optionally gzipped), one file per class, a seeded
// train/test split and a synthetic toy generator.
package datasets
