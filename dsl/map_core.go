package dsl

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	valigo "github.com/reoring/valigo"
)

type recordSchema struct {
	valigo.SchemaMeta
	key   valigo.Schema
	value valigo.Schema
}

// Record validates a string-keyed object whose keys and values all follow the given schemas.
// Keys are visited in sorted order; key issues carry OriginKey.
func Record(key, value valigo.Schema, msg ...valigo.Message) valigo.Schema {
	return &recordSchema{
		SchemaMeta: valigo.SchemaMeta{Name: "record", Expected: "Object", Msg: valigo.FirstMessage(msg), IsAsync: key.Async() || value.Async()},
		key:        key,
		value:      value,
	}
}

func (r *recordSchema) Run(ctx context.Context, ds valigo.Dataset, cfg valigo.Config) valigo.Dataset {
	raw := ds.Value
	input, ok := valigo.AsObject(raw)
	if !ok {
		ds.AddIssue(r, "type", cfg)
		return ds
	}
	ds.Typed = true
	out := make(map[string]any, len(input))
	keys := make([]string, 0, len(input))
	for k := range input {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := input[k]
		kd := r.key.Run(ctx, valigo.NewDataset(k), cfg)
		if len(kd.Issues) > 0 {
			ds.Issues = valigo.PrefixIssues(ds.Issues, kd.Issues, valigo.PathItem{
				Type: valigo.PathObject, Origin: valigo.OriginKey, Input: raw, Key: k, Value: v,
			})
			if cfg.AbortEarly {
				ds.Typed = false
				break
			}
		}
		vd := r.value.Run(ctx, valigo.NewDataset(v), cfg)
		if len(vd.Issues) > 0 {
			ds.Issues = valigo.PrefixIssues(ds.Issues, vd.Issues, valigo.PathItem{
				Type: valigo.PathObject, Origin: valigo.OriginValue, Input: raw, Key: k, Value: v,
			})
			if cfg.AbortEarly {
				ds.Typed = false
				break
			}
		}
		if !kd.Typed || !vd.Typed {
			ds.Typed = false
		}
		outKey := k
		if s, ok := kd.Value.(string); ok {
			outKey = s
		}
		out[outKey] = vd.Value
	}
	ds.Value = out
	return ds
}

type mapSchema struct {
	valigo.SchemaMeta
	key   valigo.Schema
	value valigo.Schema
}

// Map validates any Go map entry by entry. Entries are visited in the order of fmt.Sprint
// of their keys; the output is a fresh map[any]any.
func Map(key, value valigo.Schema, msg ...valigo.Message) valigo.Schema {
	return &mapSchema{
		SchemaMeta: valigo.SchemaMeta{Name: "map", Expected: "Map", Msg: valigo.FirstMessage(msg), IsAsync: key.Async() || value.Async()},
		key:        key,
		value:      value,
	}
}

func (m *mapSchema) Run(ctx context.Context, ds valigo.Dataset, cfg valigo.Config) valigo.Dataset {
	raw := ds.Value
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Map {
		ds.AddIssue(m, "type", cfg)
		return ds
	}
	ds.Typed = true
	out := make(map[any]any, rv.Len())
	for _, k := range sortedMapKeys(rv) {
		key := k.Interface()
		v := rv.MapIndex(k).Interface()
		kd := m.key.Run(ctx, valigo.NewDataset(key), cfg)
		if len(kd.Issues) > 0 {
			ds.Issues = valigo.PrefixIssues(ds.Issues, kd.Issues, valigo.PathItem{
				Type: valigo.PathMap, Origin: valigo.OriginKey, Input: raw, Key: key, Value: v,
			})
			if cfg.AbortEarly {
				ds.Typed = false
				break
			}
		}
		vd := m.value.Run(ctx, valigo.NewDataset(v), cfg)
		if len(vd.Issues) > 0 {
			ds.Issues = valigo.PrefixIssues(ds.Issues, vd.Issues, valigo.PathItem{
				Type: valigo.PathMap, Origin: valigo.OriginValue, Input: raw, Key: key, Value: v,
			})
			if cfg.AbortEarly {
				ds.Typed = false
				break
			}
		}
		if !kd.Typed || !vd.Typed {
			ds.Typed = false
		}
		outKey := key
		if hashable(kd.Value) {
			outKey = kd.Value
		}
		out[outKey] = vd.Value
	}
	ds.Value = out
	return ds
}

type setSchema struct {
	valigo.SchemaMeta
	value valigo.Schema
}

// Set validates the members of a Go set, i.e. a map whose element type is struct{}.
// The output is a fresh map[any]struct{}; path items of member issues carry a nil Key.
func Set(value valigo.Schema, msg ...valigo.Message) valigo.Schema {
	return &setSchema{
		SchemaMeta: valigo.SchemaMeta{Name: "set", Expected: "Set", Msg: valigo.FirstMessage(msg), IsAsync: value.Async()},
		value:      value,
	}
}

func (s *setSchema) Run(ctx context.Context, ds valigo.Dataset, cfg valigo.Config) valigo.Dataset {
	raw := ds.Value
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Map || rv.Type().Elem().Size() != 0 {
		ds.AddIssue(s, "type", cfg)
		return ds
	}
	ds.Typed = true
	out := make(map[any]struct{}, rv.Len())
	for _, k := range sortedMapKeys(rv) {
		v := k.Interface()
		vd := s.value.Run(ctx, valigo.NewDataset(v), cfg)
		if len(vd.Issues) > 0 {
			ds.Issues = valigo.PrefixIssues(ds.Issues, vd.Issues, valigo.PathItem{
				Type: valigo.PathSet, Origin: valigo.OriginValue, Input: raw, Value: v,
			})
			if cfg.AbortEarly {
				ds.Typed = false
				break
			}
		}
		if !vd.Typed {
			ds.Typed = false
		}
		member := v
		if hashable(vd.Value) {
			member = vd.Value
		}
		out[member] = struct{}{}
	}
	ds.Value = out
	return ds
}

func sortedMapKeys(rv reflect.Value) []reflect.Value {
	keys := rv.MapKeys()
	sort.SliceStable(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})
	return keys
}

// hashable reports whether v can be used as a map key without panicking.
func hashable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).Comparable()
}
