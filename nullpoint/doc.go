// Package nullpoint finds and classifies the null points of a sampled vector
// field.
//
// The pipeline has four stages, each usable on its own:
//
//   - Scan flags the cells whose corners bracket a sign change in all three
//     components.
//   - Locate fits a trilinear model to every flagged cell, seeds zeros on its
//     faces, refines them with Newton and averages the accepted hits.
//   - Deduplicate merges positions closer than one grid spacing.
//   - Classify estimates the Jacobian at each position and derives the
//     eigenstructure, the trace sign, the fan plane and its normal.
//
// Nulls that cannot be classified (singular Jacobian, no fan pair, spiral
// nulls when disabled) are returned as Rejections, never as errors.
package nullpoint
