// Package analyzer coordinates the code extraction pipeline:
// walk, classify, parse, pack, manifest.
//
// Files are discovered in deterministic lexical walk order, an
// externally observable contract, since walk order determines chunk
// contents and indices. Extraction runs on a bounded worker pool
// (per-file extraction is independent), and results are re-slotted into
// canonical walk order before packing; packing itself is sequential by
// design, since every decision depends on the running accumulator.
//
//	a := analyzer.New()
//	res, err := a.AnalyzeDir(ctx, "/path/to/repo", &analyzer.Config{Budget: 4000})
//	fmt.Printf("%d files, %d chunks\n", res.Stats.FilesParsed, len(res.Chunks))
//
// Per-file failures (unreadable files, syntax errors) are recorded as
// warnings and never abort the run; only configuration errors are fatal,
// and those surface before any file is touched.
package analyzer
