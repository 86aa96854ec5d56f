package logger

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "bmgrades-tracker"

// SpanContext is a started span plus the context that carries it.
type SpanContext struct {
	ctx  context.Context
	span trace.Span
}

// StartSpan starts a child span of ctx. The context's LogFields are copied
// onto the span, so traces can be filtered by user, subject or scan mode.
//
//	sc := logger.StartSpan(ctx, "extraction.describe")
//	defer sc.End()
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) *SpanContext {
	opts = append(opts, trace.WithAttributes(spanAttrs(GetLogFields(ctx))...))
	ctx, span := otel.Tracer(tracerName).Start(ctx, name, opts...)
	return &SpanContext{ctx: ctx, span: span}
}

func spanAttrs(f LogFields) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if f.UserID != nil {
		attrs = append(attrs, attribute.Int64("tracker.user_id", *f.UserID))
	}
	if f.Subject != nil {
		attrs = append(attrs, attribute.String("tracker.subject", *f.Subject))
	}
	if f.ScanMode != nil {
		attrs = append(attrs, attribute.String("tracker.scan_mode", *f.ScanMode))
	}
	if f.Semester != nil {
		attrs = append(attrs, attribute.Int("tracker.semester", *f.Semester))
	}
	return attrs
}

func (sc *SpanContext) Context() context.Context {
	return sc.ctx
}

// End is safe to call more than once.
func (sc *SpanContext) End() {
	if sc.span != nil {
		sc.span.End()
	}
}

// RecordError records err and marks the span failed.
func (sc *SpanContext) RecordError(err error) {
	if sc.span == nil || err == nil {
		return
	}
	sc.span.RecordError(err)
	sc.span.SetStatus(codes.Error, err.Error())
}

func (sc *SpanContext) Span() trace.Span {
	return sc.span
}
