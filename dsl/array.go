package dsl

import (
	"context"

	valigo "github.com/reoring/valigo"
)

type arraySchema struct {
	valigo.SchemaMeta
	item valigo.Schema
}

// Array validates every element of a slice or array against item.
// The output is a fresh []any.
func Array(item valigo.Schema, msg ...valigo.Message) valigo.Schema {
	return &arraySchema{
		SchemaMeta: valigo.SchemaMeta{Name: "array", Expected: "Array", Msg: valigo.FirstMessage(msg), IsAsync: item.Async()},
		item:       item,
	}
}

func (a *arraySchema) Run(ctx context.Context, ds valigo.Dataset, cfg valigo.Config) valigo.Dataset {
	raw := ds.Value
	list, ok := valigo.AsList(raw)
	if !ok {
		ds.AddIssue(a, "type", cfg)
		return ds
	}
	ds.Typed = true
	out := make([]any, 0, len(list))
	for i, v := range list {
		child := a.item.Run(ctx, valigo.NewDataset(v), cfg)
		if len(child.Issues) > 0 {
			ds.Issues = valigo.PrefixIssues(ds.Issues, child.Issues, valigo.PathItem{
				Type: valigo.PathArray, Origin: valigo.OriginValue, Input: raw, Key: i, Value: v,
			})
			if cfg.AbortEarly {
				ds.Typed = false
				break
			}
		}
		if !child.Typed {
			ds.Typed = false
		}
		out = append(out, child.Value)
	}
	ds.Value = out
	return ds
}

// TupleSchema validates positional items; the policy decides what happens to extra items.
type TupleSchema struct {
	valigo.SchemaMeta
	items  []valigo.Schema
	policy valigo.UnknownPolicy
	rest   valigo.Schema
}

// Tuple validates items by position and drops extra items.
func Tuple(items ...valigo.Schema) *TupleSchema {
	return newTuple("tuple", items, valigo.UnknownStrip, nil)
}

// LooseTuple validates items by position and keeps extra items unchanged.
func LooseTuple(items ...valigo.Schema) *TupleSchema {
	return newTuple("loose_tuple", items, valigo.UnknownPassthrough, nil)
}

// StrictTuple rejects inputs longer than items with a single issue for the first extra item.
func StrictTuple(items ...valigo.Schema) *TupleSchema {
	return newTuple("strict_tuple", items, valigo.UnknownStrict, nil)
}

// TupleWithRest validates extra items against rest.
func TupleWithRest(rest valigo.Schema, items ...valigo.Schema) *TupleSchema {
	if rest == nil {
		panic("dsl: TupleWithRest requires a rest schema")
	}
	return newTuple("tuple_with_rest", items, valigo.UnknownRest, rest)
}

func newTuple(name string, items []valigo.Schema, policy valigo.UnknownPolicy, rest valigo.Schema) *TupleSchema {
	async := valigo.AnyAsync(items...) || (rest != nil && rest.Async())
	return &TupleSchema{
		SchemaMeta: valigo.SchemaMeta{Name: name, Expected: "Array", IsAsync: async},
		items:      append([]valigo.Schema(nil), items...),
		policy:     policy,
		rest:       rest,
	}
}

// WithMessage returns a copy of t reporting type and extra-item issues with m.
func (t *TupleSchema) WithMessage(m valigo.Message) *TupleSchema {
	cp := *t
	cp.Msg = m
	return &cp
}

// Items returns the positional schemas.
func (t *TupleSchema) Items() []valigo.Schema { return append([]valigo.Schema(nil), t.items...) }

// Run implements valigo.Step.
func (t *TupleSchema) Run(ctx context.Context, ds valigo.Dataset, cfg valigo.Config) valigo.Dataset {
	raw := ds.Value
	list, ok := valigo.AsList(raw)
	if !ok {
		ds.AddIssue(t, "type", cfg)
		return ds
	}
	ds.Typed = true
	before := len(ds.Issues)
	out := make([]any, 0, len(list))

	for i, item := range t.items {
		var v any = valigo.Undefined
		if i < len(list) {
			v = list[i]
		}
		child := item.Run(ctx, valigo.NewDataset(v), cfg)
		if len(child.Issues) > 0 {
			ds.Issues = valigo.PrefixIssues(ds.Issues, child.Issues, valigo.PathItem{
				Type: valigo.PathTuple, Origin: valigo.OriginValue, Input: raw, Key: i, Value: v,
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
		out = append(out, child.Value)
	}

	if len(list) > len(t.items) && (len(ds.Issues) == before || !cfg.AbortEarly) {
		out = t.runExtra(ctx, &ds, raw, list, out, cfg)
	}
	ds.Value = out
	return ds
}

func (t *TupleSchema) runExtra(ctx context.Context, ds *valigo.Dataset, raw any, list, out []any, cfg valigo.Config) []any {
	n := len(t.items)
	switch t.policy {
	case valigo.UnknownPassthrough:
		out = append(out, list[n:]...)
	case valigo.UnknownStrict:
		ds.AddIssue(t, "item", cfg,
			valigo.WithInput(list[n]),
			valigo.WithExpected("never"),
			valigo.WithPath(valigo.PathItem{Type: valigo.PathTuple, Origin: valigo.OriginValue, Input: raw, Key: n, Value: list[n]}),
		)
	case valigo.UnknownRest:
		for i := n; i < len(list); i++ {
			v := list[i]
			child := t.rest.Run(ctx, valigo.NewDataset(v), cfg)
			if len(child.Issues) > 0 {
				ds.Issues = valigo.PrefixIssues(ds.Issues, child.Issues, valigo.PathItem{
					Type: valigo.PathTuple, Origin: valigo.OriginValue, Input: raw, Key: i, Value: v,
				})
				if cfg.AbortEarly {
					ds.Typed = false
					return out
				}
			}
			if !child.Typed {
				ds.Typed = false
			}
			out = append(out, child.Value)
		}
	}
	return out
}
