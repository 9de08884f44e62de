// Package markup provides the character-level scanner and tag parser shared by
// the HTML extractor and the generic markup tokenizer.
//
// This package is organized into small pieces:
//   - entities: fixed named-entity table and fixed-point decoding
//   - attributes: lower-cased attribute set with quoting and rendering
//   - tag: tag name, end/self-closing flags and the attribute tokenizer
//   - scanner: alternating '<' / '>' boundary scanner yielding tag and text tokens
//   - tokenizer: generic (XML-flavored) token list with encoding capture
//
// Parsing is synchronous and operates on a fully loaded string. A parse either
// returns a complete result or a single *ParseFailure.
//
// Example Usage:
//
//	doc, err := markup.Tokenize(`<?xml encoding="UTF-8"?><a>hi</a>`)
//	if err != nil {
//		return err
//	}
//	fmt.Println(*doc.Encoding, doc.Content())
package markup
