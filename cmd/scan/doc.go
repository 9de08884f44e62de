// Command scan runs the HTML extractor or the markup tokenizer over files
// and directories.
//
// Usage:
//
//	scan [flags] <path>...
//
//	# Extract every HTML page under site/ to stdout as JSON
//	scan site/
//
//	# Tokenize gzipped XML feeds and store YAML reports
//	scan -mode markup -pattern '**/*.xml.gz' -format yaml -out reports/ feeds/
//
// Directories are walked concurrently and filtered with -pattern, a
// doublestar glob matched against paths relative to the directory. Files
// named on the command line are always scanned. The exit status is 1 when
// any file fails to parse.
package main
