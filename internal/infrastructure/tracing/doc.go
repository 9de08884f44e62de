/*
Package tracing provides lightweight request tracing.

Each request gets a span whose trace ID is either taken from the incoming
X-Trace-ID header or freshly generated. Finished spans are handed to a
buffered collector that writes them to the structured log.

# Usage

	tracer := tracing.New("markscan", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	err := tracer.Trace(ctx, "tokenize", func(ctx context.Context, span *tracing.Span) error {
		span.SetTag("bytes", strconv.Itoa(len(input)))
		_, err := markup.Tokenize(input)
		return err
	})

# Headers

  - X-Trace-ID: identifier for the whole request flow
  - X-Span-ID: identifier for the current operation

When the buffer of 1000 spans is full new spans are dropped with a warning.
*/
package tracing
