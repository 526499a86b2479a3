package dsl

import (
	"context"
	"math"
	"reflect"
	"time"

	valigo "github.com/reoring/valigo"
)

// leafSchema types a raw value with a single predicate.
type leafSchema struct {
	valigo.SchemaMeta
	accept func(v any) bool
}

func newLeaf(name, expected string, accept func(any) bool, msgs []valigo.Message) *leafSchema {
	return &leafSchema{
		SchemaMeta: valigo.SchemaMeta{Name: name, Expected: expected, Msg: valigo.FirstMessage(msgs)},
		accept:     accept,
	}
}

func (s *leafSchema) Run(_ context.Context, ds valigo.Dataset, cfg valigo.Config) valigo.Dataset {
	if s.accept(ds.Value) {
		ds.Typed = true
		return ds
	}
	ds.AddIssue(s, "type", cfg)
	return ds
}

// String accepts Go strings.
func String(msg ...valigo.Message) valigo.Schema {
	return newLeaf("string", "string", func(v any) bool {
		_, ok := v.(string)
		return ok
	}, msg)
}

// Number accepts every Go numeric kind except NaN.
func Number(msg ...valigo.Message) valigo.Schema {
	return newLeaf("number", "number", func(v any) bool {
		f, ok := toFloat(v)
		return ok && !math.IsNaN(f)
	}, msg)
}

// Boolean accepts bool.
func Boolean(msg ...valigo.Message) valigo.Schema {
	return newLeaf("boolean", "boolean", func(v any) bool {
		_, ok := v.(bool)
		return ok
	}, msg)
}

// Null accepts only nil.
func Null(msg ...valigo.Message) valigo.Schema {
	return newLeaf("null", "null", func(v any) bool { return v == nil }, msg)
}

// Undefined accepts only valigo.Undefined, i.e. a missing object entry.
func Undefined(msg ...valigo.Message) valigo.Schema {
	return newLeaf("undefined", "undefined", valigo.IsUndefined, msg)
}

// Any accepts every input, including Undefined.
func Any() valigo.Schema {
	return newLeaf("any", "any", func(any) bool { return true }, nil)
}

// Unknown accepts every input, including Undefined.
func Unknown() valigo.Schema {
	return newLeaf("unknown", "unknown", func(any) bool { return true }, nil)
}

// Never rejects every input.
func Never(msg ...valigo.Message) valigo.Schema {
	return newLeaf("never", "never", func(any) bool { return false }, msg)
}

// Date accepts time.Time and non-nil *time.Time values.
func Date(msg ...valigo.Message) valigo.Schema {
	return newLeaf("date", "Date", func(v any) bool {
		switch t := v.(type) {
		case time.Time:
			return true
		case *time.Time:
			return t != nil
		}
		return false
	}, msg)
}

// Literal accepts values equal to want. Numbers compare by value across Go kinds.
func Literal(want any, msg ...valigo.Message) valigo.Schema {
	return newLeaf("literal", valigo.Stringify(want), func(v any) bool { return equalValues(v, want) }, msg)
}

// Picklist accepts values equal to one of options.
func Picklist(options ...any) *PicklistSchema {
	exp := make([]string, len(options))
	for i, o := range options {
		exp[i] = valigo.Stringify(o)
	}
	p := &PicklistSchema{options: options}
	p.leafSchema = *newLeaf("picklist", valigo.JoinExpects(exp), p.contains, nil)
	return p
}

// PicklistSchema is returned by Picklist so callers can attach a message.
type PicklistSchema struct {
	leafSchema
	options []any
}

// WithMessage returns a copy of the picklist reporting with m.
func (p *PicklistSchema) WithMessage(m valigo.Message) *PicklistSchema {
	cp := *p
	cp.Msg = m
	cp.accept = cp.contains
	return &cp
}

// Options returns the accepted values in declaration order.
func (p *PicklistSchema) Options() []any { return append([]any(nil), p.options...) }

func (p *PicklistSchema) contains(v any) bool {
	for _, o := range p.options {
		if equalValues(v, o) {
			return true
		}
	}
	return false
}

// Custom accepts inputs for which check returns true.
func Custom(check func(v any) bool, msg ...valigo.Message) valigo.Schema {
	return newLeaf("custom", "unknown", check, msg)
}

// lazySchema resolves its schema from the input on every run; used for recursive shapes.
type lazySchema struct {
	valigo.SchemaMeta
	getter func(input any) valigo.Schema
}

// Lazy defers schema construction to run time. Lazy itself reports Async()==false; a getter
// returning an async schema outside ParseAsync/SafeParseAsync raises a "lazy" issue.
func Lazy(getter func(input any) valigo.Schema) valigo.Schema {
	return &lazySchema{SchemaMeta: valigo.SchemaMeta{Name: "lazy", Expected: "unknown"}, getter: getter}
}

func (s *lazySchema) Run(ctx context.Context, ds valigo.Dataset, cfg valigo.Config) valigo.Dataset {
	inner := s.getter(ds.Value)
	if inner.Async() && !valigo.AsyncRun(ctx) {
		ds.AddIssue(s, "schema", cfg, valigo.WithExpected("sync schema"), valigo.WithReceived("async schema"))
		return ds
	}
	return inner.Run(ctx, ds, cfg)
}

// toFloat converts any Go numeric kind to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func equalValues(a, b any) bool {
	fa, okA := toFloat(a)
	fb, okB := toFloat(b)
	if okA && okB {
		return fa == fb
	}
	if okA != okB {
		return false
	}
	return reflect.DeepEqual(a, b)
}
