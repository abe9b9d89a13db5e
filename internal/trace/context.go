package trace

import "context"

// scopeState is what a context carries: the tracer and the innermost open
// span. Both travel under one key so a child span never loses its tracer.
type scopeState struct {
	tracer Tracer
	span   SpanContext
}

type stateKey struct{}

// SpanContext identifies the open span a new span or point nests under.
type SpanContext struct {
	SpanID uint64
	GID    uint64
}

func stateOf(ctx context.Context) scopeState {
	if ctx != nil {
		if st, ok := ctx.Value(stateKey{}).(scopeState); ok {
			return st
		}
	}
	return scopeState{tracer: Nop}
}

// FromContext returns the tracer stored in ctx, Nop when none is.
func FromContext(ctx context.Context) Tracer {
	return stateOf(ctx).tracer
}

// WithTracer stores t in ctx; the open span, if any, is kept.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	st := stateOf(ctx)
	st.tracer = t
	return context.WithValue(ctx, stateKey{}, st)
}

// CurrentSpan returns the innermost span opened through StartSpan; zero at
// the root.
func CurrentSpan(ctx context.Context) SpanContext {
	return stateOf(ctx).span
}

func withSpan(ctx context.Context, sc SpanContext) context.Context {
	st := stateOf(ctx)
	st.span = sc
	return context.WithValue(ctx, stateKey{}, st)
}
