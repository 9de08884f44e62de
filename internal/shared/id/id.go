// Package id generates the ULIDs used to name stored results and to correlate
// traces and spans in logs.
//
// ULIDs sort lexicographically by creation time, so a directory listing of
// stored results is also a timeline.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ResultID names one persisted extraction or tokenization result.
type ResultID string

// TraceID identifies a trace.
type TraceID string

// SpanID identifies one span inside a trace.
type SpanID string

const (
	TracePrefix = "trace"
	SpanPrefix  = "span"
)

// Generator generates ULIDs with optional prefixes.
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the process-wide generator.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator with monotonic, cryptographically random
// entropy: IDs created within the same millisecond still sort in order.
func NewGenerator() *Generator {
	return &Generator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// Generate creates a new ULID stamped with the current time.
func (g *Generator) Generate() ulid.ULID {
	return g.GenerateAt(time.Now())
}

// GenerateAt creates a new ULID stamped with t.
func (g *Generator) GenerateAt(t time.Time) ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), g.entropy)
}

// GenerateString creates a new ULID as a string.
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a "prefix_ULID" string.
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewResultID generates a bare ULID; result IDs double as file names.
func NewResultID() ResultID {
	return ResultID(Default().GenerateString())
}

// NewTraceID generates a prefixed trace ID.
func NewTraceID() TraceID {
	return TraceID(Default().GenerateWithPrefix(TracePrefix))
}

// NewSpanID generates a prefixed span ID.
func NewSpanID() SpanID {
	return SpanID(Default().GenerateWithPrefix(SpanPrefix))
}

func (id ResultID) String() string { return string(id) }
func (id TraceID) String() string  { return string(id) }
func (id SpanID) String() string   { return string(id) }

// IsValid reports whether s is a ULID, with or without a "prefix_".
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Parse parses a ULID, stripping a "prefix_" if present.
func Parse(s string) (ulid.ULID, error) {
	if i := strings.LastIndexByte(s, '_'); i >= 0 {
		s = s[i+1:]
	}
	return ulid.Parse(s)
}

// Timestamp extracts the creation time from an ID.
func Timestamp(s string) (time.Time, error) {
	parsed, err := Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
