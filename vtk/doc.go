// Package vtk reads and writes skeleton geometry as legacy VTK ASCII files.
//
// Three record kinds are supported:
//
//   - nulls: an UNSTRUCTURED_GRID point cloud with one FIELD array per
//     attribute (eigen_value_{d}, eigen_vector_{d}, fan_vector_{d},
//     sign_trace, normal, kind);
//   - separatrices: an UNSTRUCTURED_GRID of VTK_LINE cells plus a per-point
//     ring id;
//   - spines: POLYDATA with one polyline per spine and a per-cell direction.
//
// Floats are written in shortest round-trip form, so a write followed by a
// read reproduces every value exactly.
package vtk
