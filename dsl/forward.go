package dsl

import (
	"context"

	valigo "github.com/reoring/valigo"
)

type forwardAction struct {
	valigo.Validation
	path []any
}

// Forward runs action and re-homes the issues it raises under path, so a check over a whole
// object reports on one of its children. Keys are strings for objects and ints for lists:
//
//	dsl.Forward(dsl.Check(passwordsMatch, valigo.Text("mismatch")), "confirm")
func Forward(action valigo.Validation, path ...any) valigo.Validation {
	return &forwardAction{Validation: action, path: append([]any(nil), path...)}
}

func (f *forwardAction) Run(ctx context.Context, ds valigo.Dataset, cfg valigo.Config) valigo.Dataset {
	before := len(ds.Issues)
	ds = f.Validation.Run(ctx, ds, cfg)
	if len(ds.Issues) == before {
		return ds
	}
	items := f.walk(ds.Value)
	for i := before; i < len(ds.Issues); i++ {
		p := make([]valigo.PathItem, 0, len(ds.Issues[i].Path)+len(items))
		p = append(p, ds.Issues[i].Path...)
		ds.Issues[i].Path = append(p, items...)
	}
	return ds
}

// walk follows path through value, stopping after the first key that finds nothing.
func (f *forwardAction) walk(value any) []valigo.PathItem {
	items := make([]valigo.PathItem, 0, len(f.path))
	input := value
	for _, key := range f.path {
		child := lookup(input, key)
		items = append(items, valigo.PathItem{
			Type: valigo.PathUnknown, Origin: valigo.OriginValue, Input: input, Key: key, Value: child,
		})
		if child == nil || valigo.IsUndefined(child) {
			break
		}
		input = child
	}
	return items
}

func lookup(container, key any) any {
	switch k := key.(type) {
	case string:
		if m, ok := valigo.AsObject(container); ok {
			if v, ok := m[k]; ok {
				return v
			}
		}
	case int:
		if l, ok := valigo.AsList(container); ok && k >= 0 && k < len(l) {
			return l[k]
		}
	}
	return valigo.Undefined
}
