package dsl

import (
	"context"

	valigo "github.com/reoring/valigo"
)

// absence selects which inputs a wrapper treats as missing.
type absence int

const (
	absentUndefined absence = iota + 1
	absentNull
	absentBoth
)

func (a absence) matches(v any) bool {
	switch a {
	case absentUndefined:
		return valigo.IsUndefined(v)
	case absentNull:
		return v == nil
	case absentBoth:
		return v == nil || valigo.IsUndefined(v)
	}
	return false
}

func (a absence) describe() string {
	switch a {
	case absentUndefined:
		return "undefined"
	case absentNull:
		return "null"
	}
	return "null | undefined"
}

// OptionalSchema lets a missing value through, or substitutes its default.
// Optional, Nullable and Nullish all return it.
type OptionalSchema struct {
	valigo.SchemaMeta
	wrapped valigo.Schema
	absent  absence
	def     any
	hasDef  bool
}

// Optional accepts valigo.Undefined besides what wrapped accepts. An optional default
// replaces Undefined without being validated. The default is a value, a func() any,
// or a func(context.Context) any (which makes the schema async).
func Optional(wrapped valigo.Schema, def ...any) *OptionalSchema {
	return newOptional("optional", wrapped, absentUndefined, def)
}

// Nullable accepts nil besides what wrapped accepts.
func Nullable(wrapped valigo.Schema, def ...any) *OptionalSchema {
	return newOptional("nullable", wrapped, absentNull, def)
}

// Nullish accepts nil and valigo.Undefined besides what wrapped accepts.
func Nullish(wrapped valigo.Schema, def ...any) *OptionalSchema {
	return newOptional("nullish", wrapped, absentBoth, def)
}

func newOptional(name string, wrapped valigo.Schema, a absence, def []any) *OptionalSchema {
	if len(def) > 1 {
		panic("dsl: " + name + " takes at most one default")
	}
	o := &OptionalSchema{wrapped: wrapped, absent: a}
	if len(def) == 1 {
		o.def, o.hasDef = def[0], true
	}
	o.SchemaMeta = valigo.SchemaMeta{
		Name:     name,
		Expected: valigo.JoinExpects([]string{wrapped.Expects(), a.describe()}),
		IsAsync:  wrapped.Async() || isAsyncValue(o.def),
	}
	return o
}

// Wrapped returns the inner schema.
func (o *OptionalSchema) Wrapped() valigo.Schema { return o.wrapped }

// Run implements valigo.Step.
func (o *OptionalSchema) Run(ctx context.Context, ds valigo.Dataset, cfg valigo.Config) valigo.Dataset {
	if !o.absent.matches(ds.Value) {
		return o.wrapped.Run(ctx, ds, cfg)
	}
	if o.hasDef {
		ds.Value = resolveDefault(ctx, o.def)
	}
	ds.Typed = true
	return ds
}

func (o *OptionalSchema) defaultValue(ctx context.Context) (any, bool) {
	if !o.hasDef {
		return nil, false
	}
	return resolveDefault(ctx, o.def), true
}

type nonSchema struct {
	valigo.SchemaMeta
	wrapped valigo.Schema
	absent  absence
}

// NonOptional rejects valigo.Undefined, then defers to wrapped.
func NonOptional(wrapped valigo.Schema, msg ...valigo.Message) valigo.Schema {
	return newNon("non_optional", "!undefined", wrapped, absentUndefined, msg)
}

// NonNullable rejects nil, then defers to wrapped.
func NonNullable(wrapped valigo.Schema, msg ...valigo.Message) valigo.Schema {
	return newNon("non_nullable", "!null", wrapped, absentNull, msg)
}

// NonNullish rejects nil and valigo.Undefined, then defers to wrapped.
func NonNullish(wrapped valigo.Schema, msg ...valigo.Message) valigo.Schema {
	return newNon("non_nullish", "(!null & !undefined)", wrapped, absentBoth, msg)
}

func newNon(name, expected string, wrapped valigo.Schema, a absence, msgs []valigo.Message) *nonSchema {
	return &nonSchema{
		SchemaMeta: valigo.SchemaMeta{Name: name, Expected: expected, Msg: valigo.FirstMessage(msgs), IsAsync: wrapped.Async()},
		wrapped:    wrapped,
		absent:     a,
	}
}

func (n *nonSchema) Run(ctx context.Context, ds valigo.Dataset, cfg valigo.Config) valigo.Dataset {
	if !n.absent.matches(ds.Value) {
		ds = n.wrapped.Run(ctx, ds, cfg)
	}
	if n.absent.matches(ds.Value) {
		ds.AddIssue(n, "type", cfg)
	}
	return ds
}

func resolveDefault(ctx context.Context, def any) any {
	switch f := def.(type) {
	case func() any:
		return f()
	case func(context.Context) any:
		return f(ctx)
	}
	return def
}

func isAsyncValue(def any) bool {
	_, ok := def.(func(context.Context) any)
	return ok
}
