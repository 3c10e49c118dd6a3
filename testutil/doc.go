// Package testutil provides testing utilities for fieldtopo.
//
// This package is intended for use in tests only. It provides closed-form
// fields with known nulls, helpers to sample them on a grid, and a seeded,
// thread-safe random source.
//
// # Analytic Fields
//
//	fn := testutil.Saddle(r3.Vec{})            // null at the origin, fan in xy
//	vf := testutil.SampleCube(t, 16, 1, fn)    // 16³ samples on [-1, 1]³
//
// # Random Points
//
//	rng := testutil.NewRNG(seed)
//	p := rng.Vec(vf.Grid().Bounds())
package testutil
