package dsl

import (
	"context"
	"fmt"

	valigo "github.com/reoring/valigo"
)

// UnionSchema accepts the output of the first option that validates without issues.
type UnionSchema struct {
	valigo.SchemaMeta
	options []valigo.Schema
}

// Union tries options in declaration order. When none matches, a single "union" issue is
// reported whose Issues hold the concatenated issues of every option.
func Union(options ...valigo.Schema) *UnionSchema {
	if len(options) == 0 {
		panic("dsl: Union requires at least one option")
	}
	exp := make([]string, len(options))
	for i, o := range options {
		exp[i] = o.Expects()
	}
	return &UnionSchema{
		SchemaMeta: valigo.SchemaMeta{Name: "union", Expected: valigo.JoinExpects(exp), IsAsync: valigo.AnyAsync(options...)},
		options:    append([]valigo.Schema(nil), options...),
	}
}

// WithMessage returns a copy of u reporting with m.
func (u *UnionSchema) WithMessage(m valigo.Message) *UnionSchema {
	cp := *u
	cp.Msg = m
	return &cp
}

// Options returns the alternatives in declaration order.
func (u *UnionSchema) Options() []valigo.Schema { return append([]valigo.Schema(nil), u.options...) }

// Run implements valigo.Step.
func (u *UnionSchema) Run(ctx context.Context, ds valigo.Dataset, cfg valigo.Config) valigo.Dataset {
	var collected valigo.Issues
	for _, opt := range u.options {
		out := opt.Run(ctx, valigo.NewDataset(ds.Value), cfg)
		if len(out.Issues) == 0 && out.Typed {
			return out
		}
		collected = append(collected, out.Issues...)
	}
	ds.AddIssue(u, "type", cfg, valigo.WithSubIssues(collected))
	return ds
}

// VariantSchema dispatches object inputs on the value of a discriminant key.
type VariantSchema struct {
	valigo.SchemaMeta
	key            string
	options        []valigo.Schema
	discriminators []valigo.Schema
	discExpects    string
}

// Variant selects the first option whose entry for key accepts the input's key value, then
// runs that option alone. Every option must be an object schema (optionally piped) declaring key.
func Variant(key string, options ...valigo.Schema) *VariantSchema {
	if len(options) == 0 {
		panic("dsl: Variant requires at least one option")
	}
	v := &VariantSchema{key: key, options: append([]valigo.Schema(nil), options...)}
	exp := make([]string, 0, len(options))
	for i, o := range options {
		disc, ok := entrySchema(o, key)
		if !ok {
			panic(fmt.Sprintf("dsl: variant option %d has no %q entry", i, key))
		}
		v.discriminators = append(v.discriminators, disc)
		exp = append(exp, disc.Expects())
	}
	v.discExpects = valigo.JoinExpects(exp)
	v.SchemaMeta = valigo.SchemaMeta{Name: "variant", Expected: "Object", IsAsync: valigo.AnyAsync(options...)}
	return v
}

// WithMessage returns a copy of v reporting with m.
func (v *VariantSchema) WithMessage(m valigo.Message) *VariantSchema {
	cp := *v
	cp.Msg = m
	return &cp
}

// Key returns the discriminant key.
func (v *VariantSchema) Key() string { return v.key }

// Run implements valigo.Step.
func (v *VariantSchema) Run(ctx context.Context, ds valigo.Dataset, cfg valigo.Config) valigo.Dataset {
	raw := ds.Value
	input, ok := valigo.AsObject(raw)
	if !ok {
		ds.AddIssue(v, "type", cfg)
		return ds
	}
	disc, present := input[v.key]
	if !present {
		disc = valigo.Undefined
	}
	for i, d := range v.discriminators {
		if probe := d.Run(ctx, valigo.NewDataset(disc), cfg); len(probe.Issues) == 0 {
			return v.options[i].Run(ctx, valigo.NewDataset(raw), cfg)
		}
	}
	ds.AddIssue(v, "type", cfg,
		valigo.WithInput(disc),
		valigo.WithExpected(v.discExpects),
		valigo.WithPath(valigo.PathItem{Type: valigo.PathObject, Origin: valigo.OriginValue, Input: raw, Key: v.key, Value: disc}),
	)
	return ds
}

// entrySchema finds the schema declared for key in an object schema, looking through pipes.
func entrySchema(s valigo.Schema, key string) (valigo.Schema, bool) {
	o, ok := unwrapPipe(s).(*ObjectSchema)
	if !ok {
		return nil, false
	}
	for _, e := range o.entries {
		if e.Key == key {
			return e.Schema, true
		}
	}
	return nil, false
}
