// Package field holds the sampled input of a skeleton analysis: a regular
// grid and a three-component vector field on it.
//
// The field is stored component-major over (z, y, x) grid indices, the layout
// most simulation snapshots use on disk:
//
//	data[((c*nz+k)*ny+j)*nx+i] = F_c(x[i], y[j], z[k])
//
// # Interpolation
//
// VectorField implements Interpolator with trilinear interpolation inside the
// cell containing the query point. Queries outside the grid extrapolate from
// the nearest boundary cell; callers that care must test Contains first.
//
//	g, _ := field.NewUniformGrid([3]int{32, 32, 32}, r3.Vec{X: -1, Y: -1, Z: -1}, r3.Vec{X: 1, Y: 1, Z: 1})
//	vf := field.Sample(g, func(p r3.Vec) r3.Vec { return r3.Vec{X: p.X, Y: p.Y, Z: -2 * p.Z} })
//	b := vf.Interpolate(r3.Vec{X: 0.1, Y: 0.2, Z: 0.3})
package field
