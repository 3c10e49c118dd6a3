// Package separatrix approximates the fan surfaces of classified nulls as an
// edge graph of stitched rings.
//
// A ring of points is seeded in the fan plane of each null and advected along
// the field. Rings are resampled so neighbouring points stay within one step
// of each other, points leaving the domain are dropped, and every ring is
// stitched to its successor by nearest-neighbour edges.
package separatrix
