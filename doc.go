// Package fieldtopo extracts the topological skeleton of a sampled 3-D vector
// field: its null points, the separatrix surfaces spanned by their fans and
// the spines leaving along their normals.
//
// # Quick Start
//
//	vf, _ := field.NewVectorField(grid, data)
//
//	an, _ := fieldtopo.New(
//	    fieldtopo.WithDelta(0.05),
//	    fieldtopo.WithIterMax(200),
//	    fieldtopo.WithLogLevel(slog.LevelInfo),
//	)
//	sk, _ := an.Analyze(ctx, vf)
//	fmt.Println(len(sk.Nulls), len(sk.Separatrices.Vertices), len(sk.Spines))
//
// # Pipeline
//
// Analyze runs four stages, each available on its own:
//
//	nulls, rejected, _ := an.FindNulls(ctx, vf)      // scan, locate, deduplicate, classify
//	mesh, _ := an.Separatrices(ctx, vf, nulls)        // ring tracing
//	spines, _ := an.Spines(ctx, vf, nulls)            // spine tracing
//
// Separatrices and Spines accept any field.Interpolator, so nulls found on a
// coarse grid can be traced through a finer model of the same field.
// Candidates that fail classification are returned as rejections and logged;
// they never abort the analysis.
//
// # Concurrency
//
// Stages fan out over WithWorkers goroutines. Analyzers that share a
// resource.Controller (WithResourceController) draw their workers from one
// pool:
//
//	rc := resource.NewController(resource.Config{MaxWorkers: 8})
//	a1, _ := fieldtopo.New(fieldtopo.WithResourceController(rc))
//	a2, _ := fieldtopo.New(fieldtopo.WithResourceController(rc))
//
// # Persistence
//
// A Store archives skeletons in any blobstore.BlobStore. Every skeleton is
// kept as a binary snapshot plus a JSON manifest:
//
//	st := fieldtopo.NewStore(blobstore.NewLocalStore("./skeletons"),
//	    fieldtopo.WithCompression(persistence.CompressionZSTD))
//	_ = st.SaveSkeleton(ctx, "run-42", sk)
//	sk, _ = st.LoadSkeleton(ctx, "run-42")
//
// The vtk package writes the same geometry as legacy VTK files for
// visualization tools.
package fieldtopo
