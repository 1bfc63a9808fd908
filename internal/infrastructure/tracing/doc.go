/*
Package tracing provides lightweight request tracing for the judge server
and its client.

A trace id follows a submission from the judge CLI through the HTTP API and
into the evaluation engine. Spans are logged through zap by a collector
goroutine.

	tracer := tracing.New("judge-server", logger)
	defer tracer.Close()
	router.Use(tracing.HTTPMiddleware(tracer))

	// Inside a handler
	if span := tracing.SpanFromContext(ctx); span != nil {
		span.SetTag("evaluation.id", report.ID)
	}

	// Client side
	headers := map[string]string{}
	tracing.InjectTraceContext(ctx, headers)

Propagation uses the X-Trace-ID and X-Span-ID headers.
*/
package tracing
