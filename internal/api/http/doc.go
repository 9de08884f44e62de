// Package http implements the REST handlers of the markscan server.
//
// Routes (registered by the server package):
//
//	GET  /               liveness
//	GET  /health         configuration and counters
//	GET  /metrics/json   metrics snapshot
//	POST /extract        HTML extraction
//	POST /tokenize       generic markup tokenization
//	GET  /tools          registered tools, ?q= ranks, ?category= filters
//	POST /tools/execute  {"tool_id": ..., "params": {...}}
//	GET  /results        stored result IDs
//	GET  /results/:id    one stored report
//
// /extract and /tokenize take either a JSON body ({"html": ...} or
// {"content": ...}) or the raw document in any charset. Oversized input is
// rejected with 413 and parse failures with 422.
package http
