// Package cudsviz turns simulation containers (meshes, particle systems and
// lattices) into canonical visualization datasets and persists them as
// legacy VTK files or columnar attribute tables.
//
// # Architecture
//
// A conversion flows through four layers:
//
// 1. Containers: pkg/cuds holds the in-memory mesh, particle and lattice
// containers and decodes them from YAML or JSON documents.
//
// 2. Attribute vocabulary: pkg/cuba defines the closed set of CUBA keys and
// the Registry that decides which keys become typed attribute columns.
//
// 3. Conversion: pkg/converter maps every container kind onto a dataset
// shape from pkg/dataset, accumulating sparse item data into dense columns
// with pkg/columnar and classifying cells with pkg/topology.
//
// 4. Persistence: pkg/formats/vtk writes legacy VTK, pkg/formats/columnar
// writes Arrow, Parquet and Avro tables, pkg/compression wraps either
// stream and pkg/sink places it on local disk, S3 or GCS.
//
// # Quick Start
//
// Convert a document to a VTK file:
//
//	import (
//	    "github.com/ajitpratap0/cudsviz/pkg/converter"
//	    "github.com/ajitpratap0/cudsviz/pkg/cuds"
//	    "github.com/ajitpratap0/cudsviz/pkg/formats/vtk"
//	)
//
//	container, _ := cuds.DecodeFile("mesh.yaml")
//	ds, _ := converter.Convert(container)
//	_ = vtk.WriteFile("mesh.vtk", ds, nil)
//
// # Key Packages
//
//	pkg/cuba         - CUBA keys, keyword table and type registry
//	pkg/cuds         - Mesh, particle and lattice containers
//	pkg/columnar     - Attribute accumulator and column tables
//	pkg/converter    - Container to dataset conversion
//	pkg/dataset      - Unstructured grids, poly data and structured points
//	pkg/bridge       - Engine hand-off, selections and default styles
//	pkg/config       - YAML configuration with environment overrides
//	pkg/vizerrors    - Structured error handling
//	pkg/logger       - Structured logging
//	pkg/metrics      - Prometheus collectors
//
// # Command Line
//
// The cudsviz command wraps the library:
//
//	cudsviz convert mesh.yaml -o s3://results/mesh.vtk.zst
//	cudsviz batch runs/*.yaml --out-dir gs://viz/runs --workers 8
//	cudsviz inspect particles.json --plot TEMPERATURE
//	cudsviz export mesh.yaml --format parquet --data cell
//	cudsviz keys --all
package cudsviz
