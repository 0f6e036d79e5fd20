// Package mcp exposes the packing pipelines over the Model Context
// Protocol on stdio.
//
// # Tools
//
//   - analyze_code: run the code pipeline over a Go tree and persist the
//     resulting chunks
//   - chunk_paper: chunk a local or downloaded paper by section priority
//   - get_manifest: return the chunk index of a stored run
//   - get_chunk: return one chunk's content from a stored run
//   - get_status: statistics for one run, or a listing of all runs
//
// Runs are persisted through internal/storage so a client can analyze
// once and request chunks selectively across sessions. The source
// parameter of the retrieval tools accepts either a run ID or the
// original input path; the most recent run wins for a path.
//
// # Protocol Notes
//
// The server speaks MCP over stdio, so stdout is reserved for protocol
// frames. All logging must go to stderr.
//
// Errors use JSON-RPC codes: standard -32602/-32603 for parameter and
// internal failures, and server-specific codes in the -32000 range for
// missing runs, out-of-range chunk indexes, and failed downloads.
package mcp
