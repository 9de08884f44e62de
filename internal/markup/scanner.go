package markup

import (
	"errors"
	"io"
	"iter"
	"strings"
)

// Scanner splits a buffer alternately into tag text and character data.
//
// The separator starts at '>' and flips on every boundary found. A segment
// closed by '>' is tag text, a segment closed by '<' is character data.
// Scanning stops when the separator is not found past the cursor; a match at
// buffer position 0 also ends the scan, so input beginning with '>' yields
// nothing.
type Scanner struct {
	buf   string
	index int
	sep   byte
	done  bool
}

// NewScanner scans s from its first byte. Text before the first '>' is
// treated as tag text, which is how the HTML path sees "<html".
func NewScanner(s string) *Scanner {
	return &Scanner{buf: s, index: -1, sep: tagClose}
}

// NewScannerAtFirstTag skips everything up to and including the first '<'.
func NewScannerAtFirstTag(s string) *Scanner {
	return &Scanner{buf: s, index: strings.IndexByte(s, tagOpen), sep: tagClose}
}

// Next returns the next token, or io.EOF once the input is exhausted.
// A tag that cannot be parsed stops the scanner and is returned as error.
func (s *Scanner) Next() (Token, error) {
	for !s.done {
		offset := s.index + 1
		idx := -1
		if rel := strings.IndexByte(s.buf[offset:], s.sep); rel >= 0 {
			idx = offset + rel
		}
		if idx <= 0 {
			s.done = true
			break
		}

		segment := trimToken(s.buf[offset:idx])
		closed := s.sep
		s.index = idx
		s.flip()

		if closed == tagClose {
			tag, err := ParseTag(segment)
			if err != nil {
				s.done = true
				var tpe *TagParseError
				if errors.As(err, &tpe) {
					tpe.Offset = offset
				}
				return nil, err
			}
			return tag, nil
		}
		if segment != "" {
			return NewText(segment), nil
		}
	}
	return nil, io.EOF
}

// All yields every token. Iteration stops after the first error.
func (s *Scanner) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := s.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(tok, err) || err != nil {
				return
			}
		}
	}
}

func (s *Scanner) flip() {
	if s.sep == tagOpen {
		s.sep = tagClose
	} else {
		s.sep = tagOpen
	}
}

// trimToken drops leading and trailing runes <= ' ', matching how segments
// were always trimmed. Non-breaking spaces survive.
func trimToken(s string) string {
	return strings.TrimFunc(s, func(r rune) bool { return r <= ' ' })
}
