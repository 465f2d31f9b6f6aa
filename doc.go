// Package datafile provides loading, in-memory editing, and persistence of
// structured configuration files.
//
// A configuration file is represented as a Document: an order-preserving
// data tree addressed by dotted paths, with guarded mutation operations,
// deep merging, change tracking, and key reordering. Documents serialize
// back in their source format (JSON or YAML) and save through a pluggable
// storage backend, optionally skipping the write when nothing changed.
//
// # Overview
//
// The module consists of the root package plus five collaborator packages:
//
//   - codec: format detection and order-preserving JSON/YAML codecs
//   - storage: file-system and in-memory storage backends
//   - discovery: cosmiconfig-style configuration search
//   - formatter: optional output formatting (prettier-style)
//   - dferrors: the error taxonomy shared by all of the above
//
// # Quick Start
//
// Load a file, edit it, and save it back:
//
//	doc, err := datafile.Load(ctx, "app.config.json",
//	    datafile.WithDefaultData(map[string]any{"version": 1}))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc.Set(datafile.ParsePath("server.port"), datafile.Literal(8080)).
//	    Delete(datafile.ParsePath("legacy"))
//	if err := doc.Save(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Values can be computed from current state, and mutations can be guarded:
//
//	doc.Set(datafile.ParsePath("license"), datafile.Literal("MIT"),
//	    datafile.WithIfExpr("!exists"))
//	doc.Set(datafile.ParsePath("build.count"), datafile.Computed(
//	    func(c datafile.ValueContext) any {
//	        n, _ := c.Value.(float64)
//	        return n + 1
//	    }))
//
// Batch work across many files goes through a Manager, which caches one
// Document per resolved path:
//
//	mgr := datafile.NewManager(datafile.ManagerConfig{Root: projectDir})
//	docs, err := mgr.LoadAll(ctx, []string{"package.json", ".eslintrc.json"})
//	...
//	err = mgr.SaveAll(ctx)
//
// # Read-only documents
//
// Documents loaded from code-format (.js) files through a CodeLoader are
// permanently read-only: they can be inspected and edited in memory, but
// Save refuses to write them.
package datafile
