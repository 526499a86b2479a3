package dsl

import (
	"context"
	"sort"

	valigo "github.com/reoring/valigo"
)

// Entry binds an object key to its schema.
type Entry struct {
	Key    string
	Schema valigo.Schema
}

// Field declares an object entry.
func Field(key string, schema valigo.Schema) Entry { return Entry{Key: key, Schema: schema} }

// ObjectSchema validates string-keyed objects entry by entry, in declaration order.
// Inputs may be map[string]any, any string-keyed map, or a struct; the output is
// always a fresh map[string]any.
type ObjectSchema struct {
	valigo.SchemaMeta
	entries []Entry
	known   map[string]struct{}
	policy  valigo.UnknownPolicy
	rest    valigo.Schema
}

// Object strips unknown keys from the output.
func Object(entries ...Entry) *ObjectSchema {
	return newObject("object", entries, valigo.UnknownStrip, nil)
}

// LooseObject copies unknown keys to the output untouched.
func LooseObject(entries ...Entry) *ObjectSchema {
	return newObject("loose_object", entries, valigo.UnknownPassthrough, nil)
}

// StrictObject rejects inputs carrying unknown keys with a single issue for the first one
// (keys are visited in sorted order).
func StrictObject(entries ...Entry) *ObjectSchema {
	return newObject("strict_object", entries, valigo.UnknownStrict, nil)
}

// ObjectWithRest validates every unknown key against rest.
func ObjectWithRest(rest valigo.Schema, entries ...Entry) *ObjectSchema {
	if rest == nil {
		panic("dsl: ObjectWithRest requires a rest schema")
	}
	return newObject("object_with_rest", entries, valigo.UnknownRest, rest)
}

func newObject(name string, entries []Entry, policy valigo.UnknownPolicy, rest valigo.Schema) *ObjectSchema {
	o := &ObjectSchema{
		entries: append([]Entry(nil), entries...),
		known:   make(map[string]struct{}, len(entries)),
		policy:  policy,
		rest:    rest,
	}
	async := rest != nil && rest.Async()
	for _, e := range entries {
		if e.Schema == nil {
			panic("dsl: nil schema for object key " + e.Key)
		}
		if _, dup := o.known[e.Key]; dup {
			panic("dsl: duplicate object key " + e.Key)
		}
		o.known[e.Key] = struct{}{}
		async = async || e.Schema.Async()
	}
	o.SchemaMeta = valigo.SchemaMeta{Name: name, Expected: "Object", IsAsync: async}
	return o
}

// with returns a copy of o with the same policy and message over new entries.
func (o *ObjectSchema) with(entries []Entry) *ObjectSchema {
	out := newObject(o.Name, entries, o.policy, o.rest)
	out.Msg = o.Msg
	return out
}

// WithMessage returns a copy of o reporting type and unknown-key issues with m.
func (o *ObjectSchema) WithMessage(m valigo.Message) *ObjectSchema {
	out := o.with(o.entries)
	out.Msg = m
	return out
}

// Entries returns the declared entries in order.
func (o *ObjectSchema) Entries() []Entry { return append([]Entry(nil), o.entries...) }

// Policy reports how unknown keys are handled.
func (o *ObjectSchema) Policy() valigo.UnknownPolicy { return o.policy }

// Run implements valigo.Step.
func (o *ObjectSchema) Run(ctx context.Context, ds valigo.Dataset, cfg valigo.Config) valigo.Dataset {
	raw := ds.Value
	input, ok := valigo.AsObject(raw)
	if !ok {
		ds.AddIssue(o, "type", cfg)
		return ds
	}
	ds.Typed = true
	before := len(ds.Issues)
	out := make(map[string]any, len(input))

	for _, e := range o.entries {
		value, present := input[e.Key]
		if !present {
			value = valigo.Undefined
		}
		child := e.Schema.Run(ctx, valigo.NewDataset(value), cfg)
		if len(child.Issues) > 0 {
			ds.Issues = valigo.PrefixIssues(ds.Issues, child.Issues, valigo.PathItem{
				Type: valigo.PathObject, Origin: valigo.OriginValue, Input: raw, Key: e.Key, Value: value,
			})
			if cfg.AbortEarly {
				ds.Typed = false
				ds.Value = out
				return ds
			}
		}
		if !child.Typed {
			ds.Typed = false
		}
		if present || !valigo.IsUndefined(child.Value) {
			out[e.Key] = child.Value
		}
	}

	if len(ds.Issues) == before || !cfg.AbortEarly {
		o.runUnknown(ctx, &ds, raw, input, out, cfg)
	}
	ds.Value = out
	return ds
}

func (o *ObjectSchema) runUnknown(ctx context.Context, ds *valigo.Dataset, raw any, input, out map[string]any, cfg valigo.Config) {
	if o.policy == valigo.UnknownStrip {
		return
	}
	unknown := collectUnknown(input, o.known)
	switch o.policy {
	case valigo.UnknownPassthrough:
		for _, k := range unknown {
			out[k] = input[k]
		}
	case valigo.UnknownStrict:
		if len(unknown) == 0 {
			return
		}
		k := unknown[0]
		ds.AddIssue(o, "key", cfg,
			valigo.WithInput(k),
			valigo.WithExpected("never"),
			valigo.WithPath(valigo.PathItem{Type: valigo.PathObject, Origin: valigo.OriginKey, Input: raw, Key: k, Value: input[k]}),
		)
	case valigo.UnknownRest:
		for _, k := range unknown {
			value := input[k]
			child := o.rest.Run(ctx, valigo.NewDataset(value), cfg)
			if len(child.Issues) > 0 {
				ds.Issues = valigo.PrefixIssues(ds.Issues, child.Issues, valigo.PathItem{
					Type: valigo.PathObject, Origin: valigo.OriginValue, Input: raw, Key: k, Value: value,
				})
				if cfg.AbortEarly {
					ds.Typed = false
					return
				}
			}
			if !child.Typed {
				ds.Typed = false
			}
			out[k] = child.Value
		}
	}
}

// collectUnknown returns the keys of input outside known, sorted for a stable report order.
func collectUnknown(input map[string]any, known map[string]struct{}) []string {
	var unknown []string
	for k := range input {
		if _, ok := known[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return unknown
}
