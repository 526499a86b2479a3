package dsl

import (
	valigo "github.com/reoring/valigo"
)

// Partial returns a copy of o whose entries are wrapped in Optional. With keys, only those
// entries are wrapped. Unknown keys panic.
func Partial(o *ObjectSchema, keys ...string) *ObjectSchema {
	return modifyEntries(o, keys, func(s valigo.Schema) valigo.Schema { return Optional(s) })
}

// Required returns a copy of o whose entries are wrapped in NonOptional. With keys, only
// those entries are wrapped.
func Required(o *ObjectSchema, keys ...string) *ObjectSchema {
	return modifyEntries(o, keys, func(s valigo.Schema) valigo.Schema { return NonOptional(s) })
}

// RequiredWith is Required with a caller-chosen wrapper:
//
//	dsl.RequiredWith(o, func(s valigo.Schema) valigo.Schema { return dsl.NonNullish(s) })
func RequiredWith(o *ObjectSchema, modifier func(valigo.Schema) valigo.Schema, keys ...string) *ObjectSchema {
	return modifyEntries(o, keys, modifier)
}

// Pick returns a copy of o restricted to keys, in o's declaration order.
func Pick(o *ObjectSchema, keys ...string) *ObjectSchema {
	want := keySet(o, keys)
	out := make([]Entry, 0, len(keys))
	for _, e := range o.entries {
		if _, ok := want[e.Key]; ok {
			out = append(out, e)
		}
	}
	return o.with(out)
}

// Omit returns a copy of o without keys.
func Omit(o *ObjectSchema, keys ...string) *ObjectSchema {
	drop := keySet(o, keys)
	out := make([]Entry, 0, len(o.entries))
	for _, e := range o.entries {
		if _, ok := drop[e.Key]; !ok {
			out = append(out, e)
		}
	}
	return o.with(out)
}

func modifyEntries(o *ObjectSchema, keys []string, modifier func(valigo.Schema) valigo.Schema) *ObjectSchema {
	var only map[string]struct{}
	if len(keys) > 0 {
		only = keySet(o, keys)
	}
	out := make([]Entry, len(o.entries))
	for i, e := range o.entries {
		out[i] = e
		if only == nil {
			out[i].Schema = modifier(e.Schema)
			continue
		}
		if _, ok := only[e.Key]; ok {
			out[i].Schema = modifier(e.Schema)
		}
	}
	return o.with(out)
}

func keySet(o *ObjectSchema, keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := o.known[k]; !ok {
			panic("dsl: unknown object key " + k)
		}
		set[k] = struct{}{}
	}
	return set
}
