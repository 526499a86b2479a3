package dsl

import (
	"context"

	valigo "github.com/reoring/valigo"
)

// PipeSchema runs a base schema followed by validation and transformation actions.
type PipeSchema struct {
	valigo.SchemaMeta
	base  valigo.Schema
	items []valigo.Step
}

// Pipe composes base with items. Nested pipes, as base or as items, are flattened into one
// sequence so they behave exactly like a single pipe with the concatenated items.
//
// Once an item reports issues, the remaining schema and transformation items are skipped and
// the result is untyped; validations keep collecting issues unless AbortPipeEarly or
// AbortEarly is set.
func Pipe(base valigo.Schema, items ...valigo.Step) *PipeSchema {
	if base == nil {
		panic("dsl: Pipe requires a base schema")
	}
	var steps []valigo.Step
	if inner, ok := base.(*PipeSchema); ok {
		base = inner.base
		steps = append(steps, inner.items...)
	}
	for _, it := range items {
		if inner, ok := it.(*PipeSchema); ok {
			steps = append(steps, inner.base)
			steps = append(steps, inner.items...)
			continue
		}
		steps = append(steps, it)
	}
	return &PipeSchema{
		SchemaMeta: valigo.SchemaMeta{
			Name:     base.Type(),
			Expected: base.Expects(),
			IsAsync:  base.Async() || valigo.AnyAsync(steps...),
		},
		base:  base,
		items: steps,
	}
}

// Base returns the leading schema.
func (p *PipeSchema) Base() valigo.Schema { return p.base }

// Items returns the flattened actions following the base.
func (p *PipeSchema) Items() []valigo.Step { return append([]valigo.Step(nil), p.items...) }

// Run implements valigo.Step.
func (p *PipeSchema) Run(ctx context.Context, ds valigo.Dataset, cfg valigo.Config) valigo.Dataset {
	ds = p.base.Run(ctx, ds, cfg)
	for i, item := range p.items {
		if !ds.Typed {
			break
		}
		if len(ds.Issues) > 0 {
			if cfg.AbortEarly || cfg.AbortPipeEarly {
				if reshapes(p.items[i:]) {
					ds.Typed = false
				}
				break
			}
			if item.Kind() != valigo.KindValidation {
				ds.Typed = false
				break
			}
		}
		ds = item.Run(ctx, ds, cfg)
	}
	return ds
}

// reshapes reports whether any of steps is a schema or a transformation.
func reshapes(steps []valigo.Step) bool {
	for _, s := range steps {
		if s.Kind() != valigo.KindValidation {
			return true
		}
	}
	return false
}

// unwrapPipe returns the base schema of a pipe, or s itself.
func unwrapPipe(s valigo.Schema) valigo.Schema {
	if p, ok := s.(*PipeSchema); ok {
		return p.base
	}
	return s
}
