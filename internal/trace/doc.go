// Package trace records what the generator is doing and for how long.
//
// Enable it from the command line:
//
//	rid generate --trace=- --trace-level=phase
//
// Tracers:
//
//   - Nop: disabled tracing
//   - StreamTracer: writes every event as it happens (file or stderr)
//   - RingTracer: keeps the latest events for a dump on failure
//   - MultiTracer: fans out to several tracers
//
// Levels, coarse to fine: off, error, phase (driver and passes), detail
// (per input file), debug (per item).
//
// A tracer travels through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "plan", 0)
//	defer span.End("")
package trace
