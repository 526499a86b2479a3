package dsl

import (
	"context"

	valigo "github.com/reoring/valigo"
)

// FallbackSchema replaces a failed result of its wrapped schema with a fallback value.
type FallbackSchema struct {
	valigo.SchemaMeta
	wrapped    valigo.Schema
	value      any
	onFallback func(valigo.Issues)
}

// FallbackOption customizes Fallback.
type FallbackOption func(*FallbackSchema)

// OnFallback registers a callback receiving the issues discarded by a fallback,
// e.g. valigo.ZapIssueLogger.
func OnFallback(fn func(valigo.Issues)) FallbackOption {
	return func(f *FallbackSchema) { f.onFallback = fn }
}

// Fallback runs wrapped and, when it reports issues, returns a typed issue-free dataset
// holding the fallback instead. value is a constant, a func(input any, issues valigo.Issues) any,
// or a func(context.Context, any, valigo.Issues) any (which makes the schema async).
func Fallback(wrapped valigo.Schema, value any, opts ...FallbackOption) *FallbackSchema {
	f := &FallbackSchema{wrapped: wrapped, value: value}
	for _, opt := range opts {
		opt(f)
	}
	_, ctxFn := value.(func(context.Context, any, valigo.Issues) any)
	f.SchemaMeta = valigo.SchemaMeta{
		Name:     wrapped.Type(),
		Expected: wrapped.Expects(),
		IsAsync:  wrapped.Async() || ctxFn,
	}
	return f
}

// Wrapped returns the inner schema.
func (f *FallbackSchema) Wrapped() valigo.Schema { return f.wrapped }

// Run implements valigo.Step.
func (f *FallbackSchema) Run(ctx context.Context, ds valigo.Dataset, cfg valigo.Config) valigo.Dataset {
	input := ds.Value
	out := f.wrapped.Run(ctx, ds, cfg)
	if len(out.Issues) == 0 {
		return out
	}
	if f.onFallback != nil {
		f.onFallback(out.Issues)
	}
	return valigo.Dataset{Value: f.resolve(ctx, input, out.Issues), Typed: true}
}

func (f *FallbackSchema) resolve(ctx context.Context, input any, issues valigo.Issues) any {
	switch fn := f.value.(type) {
	case func(any, valigo.Issues) any:
		return fn(input, issues)
	case func(context.Context, any, valigo.Issues) any:
		return fn(ctx, input, issues)
	}
	return f.value
}

// GetDefault returns the default of an Optional, Nullable or Nullish schema (looking through
// pipes), or valigo.Undefined when s declares none. Context-aware defaults run with
// context.Background; use GetDefaultAsync to pass a context.
func GetDefault(s valigo.Schema) any { return GetDefaultAsync(context.Background(), s) }

// GetDefaultAsync is GetDefault with ctx handed to context-aware defaults.
func GetDefaultAsync(ctx context.Context, s valigo.Schema) any {
	if o, ok := unwrapPipe(s).(*OptionalSchema); ok {
		if v, has := o.defaultValue(ctx); has {
			return v
		}
	}
	return valigo.Undefined
}

// GetDefaults builds the default tree of s: objects yield a map[string]any with one entry per
// declared key, tuples a []any per item; any other schema yields GetDefault.
func GetDefaults(s valigo.Schema) any { return GetDefaultsAsync(context.Background(), s) }

// GetDefaultsAsync is GetDefaults with ctx handed to context-aware defaults.
func GetDefaultsAsync(ctx context.Context, s valigo.Schema) any {
	return collectTree(ctx, s, GetDefaultAsync)
}

// GetFallback returns the fallback of a Fallback schema (looking through pipes), or
// valigo.Undefined. Fallback functions receive valigo.Undefined and nil issues.
func GetFallback(s valigo.Schema) any { return GetFallbackAsync(context.Background(), s) }

// GetFallbackAsync is GetFallback with ctx handed to context-aware fallbacks.
func GetFallbackAsync(ctx context.Context, s valigo.Schema) any {
	if f, ok := unwrapPipe(s).(*FallbackSchema); ok {
		return f.resolve(ctx, valigo.Undefined, nil)
	}
	return valigo.Undefined
}

// GetFallbacks builds the fallback tree of s. A schema with its own fallback yields it;
// otherwise objects and tuples are walked like GetDefaults does.
func GetFallbacks(s valigo.Schema) any { return GetFallbacksAsync(context.Background(), s) }

// GetFallbacksAsync is GetFallbacks with ctx handed to context-aware fallbacks.
func GetFallbacksAsync(ctx context.Context, s valigo.Schema) any {
	return collectTree(ctx, s, GetFallbackAsync)
}

func collectTree(ctx context.Context, s valigo.Schema, leaf func(context.Context, valigo.Schema) any) any {
	if v := leaf(ctx, s); !valigo.IsUndefined(v) {
		return v
	}
	switch t := unwrapPipe(s).(type) {
	case *ObjectSchema:
		out := make(map[string]any, len(t.entries))
		for _, e := range t.entries {
			out[e.Key] = collectTree(ctx, e.Schema, leaf)
		}
		return out
	case *TupleSchema:
		out := make([]any, len(t.items))
		for i, it := range t.items {
			out[i] = collectTree(ctx, it, leaf)
		}
		return out
	}
	return valigo.Undefined
}
