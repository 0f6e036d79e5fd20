// Package parser extracts structural units from Go source files.
//
// The parser walks a file's top-level declarations only. Methods are
// absorbed into their receiver type's unit as children and member
// signatures; they are never flattened to top level. Each unit carries an
// accurate line span, a deterministic size estimate, a truncated leading
// doc comment, and (for container kinds) embedded base names.
//
//	e := parser.New()
//	res, err := e.ExtractFile("modeling_bert.go", tier)
//	if err != nil {
//	    // unreadable input: skip and record, never abort the run
//	}
//	for _, u := range res.Units {
//	    fmt.Printf("%s %s lines %d-%d\n", u.Kind, u.Name, u.StartLine, u.EndLine)
//	}
//
// Syntax errors are non-fatal: the parser records a warning on the result
// and harvests whatever partial AST the Go parser produced. Files matched
// by the skip list (tests, generated code, doc-only files) are filtered
// before parsing is attempted: a relevance filter, not a correctness one.
package parser
