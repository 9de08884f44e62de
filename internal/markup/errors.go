package markup

import (
	"errors"
	"fmt"
)

// Reasons carried by TagParseError.
const (
	ReasonEmptyTag    = "empty tag text"
	ReasonMissingName = "missing tag name"
)

var (
	// ErrEmptyTag matches a TagParseError for blank tag text, as in <>.
	ErrEmptyTag = errors.New("empty tag")
	// ErrMissingTagName matches a TagParseError for tag text that holds no
	// name, as in </> or <"">.
	ErrMissingTagName = errors.New("missing tag name")
)

// TagParseError reports tag text that cannot be tokenized into at least a name.
// Offset is the byte offset of the tag text in the scanned buffer.
type TagParseError struct {
	Raw    string
	Reason string
	Offset int
}

func (e *TagParseError) Error() string {
	if e.Raw == "" {
		return fmt.Sprintf("tag parse error at offset %d: %s", e.Offset, e.Reason)
	}
	return fmt.Sprintf("tag parse error at offset %d: %s in %q", e.Offset, e.Reason, e.Raw)
}

// Is maps the failure reason to ErrEmptyTag or ErrMissingTagName.
func (e *TagParseError) Is(target error) bool {
	switch target {
	case ErrEmptyTag:
		return e.Reason == ReasonEmptyTag
	case ErrMissingTagName:
		return e.Reason == ReasonMissingName
	}
	return false
}

// ParseFailure is the single top-level error returned when a parse aborts.
// Source names the consumer that ran the scan ("html" or "markup").
type ParseFailure struct {
	Source string
	Err    error
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("%s parse failed: %s", e.Source, innermost(e.Err).Error())
}

func (e *ParseFailure) Unwrap() error {
	return e.Err
}

// Fail wraps err into a ParseFailure unless it already is one.
func Fail(source string, err error) error {
	if err == nil {
		return nil
	}
	var pf *ParseFailure
	if errors.As(err, &pf) {
		return err
	}
	return &ParseFailure{Source: source, Err: err}
}

func innermost(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
