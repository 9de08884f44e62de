// Package storage holds the file-level collaborators of the parsers: locked
// reads and writes, checksums, compression codecs and the result store.
//
// Parsing itself never touches the filesystem. Callers read a document
// through this package, decompress it if needed, hand the text to the
// extractor or tokenizer, and persist the result with a ResultStore.
//
// Example Usage:
//
//	data, err := storage.ReadFile("page.html.gz")
//	data, err = storage.Decompress(storage.DetectFormat(data), data, maxBytes)
//	store, err := storage.NewResultStore(dir, storage.CodecJSON, storage.None, logger)
//	rid, err := store.Save(report)
package storage
