// Package brdf implements the kernel-driven BRDF model used to convert
// Sentinel-2 surface reflectance to nadir BRDF-adjusted reflectance (NBAR).
//
// The model follows Roy et al. (2017) with the RossThick volumetric and
// LiSparse-Reciprocal geometric kernels of Lucht et al. (2000). All angles
// are radians. Functions are pure and safe for concurrent use.
//
// Degenerate geometry (a secant at 90 degrees, sza+vza equal to pi, a zero
// modeled reflectance) yields Inf or NaN rather than an error so that a few
// bad pixels never abort a tile.
package brdf
