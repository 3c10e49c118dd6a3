// Package trilinear models a vector field inside one grid cell as the
// trilinear interpolant of its 8 corner values and finds the zeros of that
// model.
//
// Local coordinates (u, v, w) span the unit cube; the model is
//
//	F(u,v,w) = c0 + c1·u + c2·v + c3·uv + c4·w + c5·uw + c6·vw + c7·uvw
//
// Zeros are seeded on the six cube faces, where two components restricted to
// the face are bilinear and their common zeros reduce to a quadratic, then
// refined in 3-D with a bounded Newton iteration.
package trilinear
