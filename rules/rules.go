// Package rules provides cross-field validation actions for typed object values:
// conditional execution, collection constraints and rule combinators. Paths are
// JSON Pointers ("/items/0/sku") over object keys and list indices.
package rules

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	valigo "github.com/reoring/valigo"
)

// Op defines simple comparison operators for If(...).Then(...)
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

// Condition is a predicate over the value at a path, or a composite of conditions.
type Condition struct {
	path []string
	op   Op
	want any
	all  []Condition // composite AND
	any  []Condition // composite OR
}

// If builds a condition that compares the value at pointer with want.
func If(pointer string, op Op, want any) Condition {
	return Condition{path: splitPointer(pointer), op: op, want: want}
}

// IfAll builds a condition that requires all conditions to hold.
func IfAll(conds ...Condition) Condition { return Condition{all: conds} }

// IfAny builds a condition that requires any condition to hold.
func IfAny(conds ...Condition) Condition { return Condition{any: conds} }

// And combines the receiver with additional conditions using logical AND.
func (c Condition) And(others ...Condition) Condition {
	return IfAll(append([]Condition{c}, others...)...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Condition) Or(others ...Condition) Condition {
	return IfAny(append([]Condition{c}, others...)...)
}

// Holds evaluates the condition against v. A missing path never holds.
func (c Condition) Holds(v any) bool {
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !it.Holds(v) {
				return false
			}
		}
		return true
	}
	if len(c.any) > 0 {
		for _, it := range c.any {
			if it.Holds(v) {
				return true
			}
		}
		return false
	}
	cur, _, ok := resolve(v, c.path)
	if !ok {
		return false
	}
	return compare(cur, c.op, c.want)
}

type conditional struct {
	valigo.ValidationMeta
	cond    Condition
	actions []valigo.Validation
}

// Then returns a validation running actions only when the condition holds.
func (c Condition) Then(actions ...valigo.Validation) valigo.Validation {
	return &conditional{
		ValidationMeta: valigo.ValidationMeta{Name: "if", IsAsync: valigo.AnyAsync(actions...)},
		cond:           c,
		actions:        actions,
	}
}

func (c *conditional) Run(ctx context.Context, ds valigo.Dataset, cfg valigo.Config) valigo.Dataset {
	if !ds.Typed || !c.cond.Holds(ds.Value) {
		return ds
	}
	return runAll(ctx, ds, cfg, c.actions)
}

// ---------- Collection rules ----------

type atLeastOne struct {
	valigo.ValidationMeta
	path []string
}

// AtLeastOne requires the collection at pointer to hold at least one element.
// A missing path or a value that is not a collection is left to the schema.
func AtLeastOne(pointer string, msg ...valigo.Message) valigo.Validation {
	return &atLeastOne{
		ValidationMeta: valigo.ValidationMeta{Name: "at_least_one", Expected: ">=1", Req: 1, Msg: valigo.FirstMessage(msg)},
		path:           splitPointer(pointer),
	}
}

func (a *atLeastOne) Run(_ context.Context, ds valigo.Dataset, cfg valigo.Config) valigo.Dataset {
	if !ds.Typed {
		return ds
	}
	val, items, ok := resolve(ds.Value, a.path)
	if !ok {
		return ds
	}
	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		if rv.Len() == 0 {
			ds.AddIssue(a, "length", cfg, valigo.WithInput(val), valigo.WithReceived("0"), valigo.WithPath(items...))
		}
	}
	return ds
}

type uniqueBy struct {
	valigo.ValidationMeta
	collection []string
	key        []string
}

// UniqueBy requires the elements of the collection at collectionPointer to have distinct
// values at keyPath, a path relative to each element ("sku" or "/sku"). Keys compare by
// fmt.Sprint, so keep them to a single type. Every duplicate after the first is reported.
func UniqueBy(collectionPointer, keyPath string, msg ...valigo.Message) valigo.Validation {
	return &uniqueBy{
		ValidationMeta: valigo.ValidationMeta{Name: "unique", Expected: "unique", Req: keyPath, Msg: valigo.FirstMessage(msg)},
		collection:     splitPointer(collectionPointer),
		key:            splitPointer(keyPath),
	}
}

func (u *uniqueBy) Run(_ context.Context, ds valigo.Dataset, cfg valigo.Config) valigo.Dataset {
	if !ds.Typed {
		return ds
	}
	val, items, ok := resolve(ds.Value, u.collection)
	if !ok {
		return ds
	}
	list, ok := valigo.AsList(val)
	if !ok {
		return ds
	}
	seen := map[string]int{}
	for i, elem := range list {
		kv, keyItems, ok := resolve(elem, u.key)
		if !ok {
			continue
		}
		key := fmt.Sprint(kv)
		if _, dup := seen[key]; !dup {
			seen[key] = i
			continue
		}
		path := make([]valigo.PathItem, 0, len(items)+1+len(keyItems))
		path = append(path, items...)
		path = append(path, valigo.PathItem{Type: valigo.PathArray, Origin: valigo.OriginValue, Input: val, Key: i, Value: elem})
		path = append(path, keyItems...)
		ds.AddIssue(u, "value", cfg, valigo.WithInput(kv), valigo.WithPath(path...))
		if cfg.AbortEarly || cfg.AbortPipeEarly {
			return ds
		}
	}
	return ds
}

// ---------- Rule combinators ----------

type and struct {
	valigo.ValidationMeta
	actions []valigo.Validation
}

// And runs every action and keeps all of their issues. AbortEarly and AbortPipeEarly stop
// at the first failing action.
func And(actions ...valigo.Validation) valigo.Validation {
	return &and{ValidationMeta: valigo.ValidationMeta{Name: "and", IsAsync: valigo.AnyAsync(actions...)}, actions: actions}
}

func (a *and) Run(ctx context.Context, ds valigo.Dataset, cfg valigo.Config) valigo.Dataset {
	if !ds.Typed {
		return ds
	}
	return runAll(ctx, ds, cfg, a.actions)
}

type or struct {
	valigo.ValidationMeta
	actions []valigo.Validation
}

// Or succeeds when any action reports no issue. When all fail, the issues of the branch
// with the fewest issues are kept.
func Or(actions ...valigo.Validation) valigo.Validation {
	return &or{ValidationMeta: valigo.ValidationMeta{Name: "or", IsAsync: valigo.AnyAsync(actions...)}, actions: actions}
}

func (o *or) Run(ctx context.Context, ds valigo.Dataset, cfg valigo.Config) valigo.Dataset {
	if !ds.Typed || len(o.actions) == 0 {
		return ds
	}
	var best valigo.Issues
	for i, a := range o.actions {
		branch := a.Run(ctx, valigo.Dataset{Value: ds.Value, Typed: true}, cfg)
		if len(branch.Issues) == 0 {
			return ds
		}
		if i == 0 || len(branch.Issues) < len(best) {
			best = branch.Issues
		}
	}
	ds.Issues = valigo.AppendIssues(ds.Issues, best...)
	return ds
}

func runAll(ctx context.Context, ds valigo.Dataset, cfg valigo.Config, actions []valigo.Validation) valigo.Dataset {
	for _, a := range actions {
		before := len(ds.Issues)
		ds = a.Run(ctx, ds, cfg)
		if len(ds.Issues) > before && (cfg.AbortEarly || cfg.AbortPipeEarly) {
			return ds
		}
	}
	return ds
}

// ------- helpers -------

func splitPointer(p string) []string {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return nil
	}
	parts := strings.Split(p, "/")
	for i, s := range parts {
		parts[i] = strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
	}
	return parts
}

// resolve navigates v (maps, structs, lists) along path and returns the value found
// with the path items leading to it.
func resolve(v any, path []string) (any, []valigo.PathItem, bool) {
	items := make([]valigo.PathItem, 0, len(path))
	cur := v
	for _, seg := range path {
		if list, ok := valigo.AsList(cur); ok {
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(list) {
				return nil, nil, false
			}
			items = append(items, valigo.PathItem{Type: valigo.PathArray, Origin: valigo.OriginValue, Input: cur, Key: idx, Value: list[idx]})
			cur = list[idx]
			continue
		}
		obj, ok := valigo.AsObject(cur)
		if !ok {
			return nil, nil, false
		}
		next, ok := obj[seg]
		if !ok || valigo.IsUndefined(next) {
			return nil, nil, false
		}
		items = append(items, valigo.PathItem{Type: valigo.PathObject, Origin: valigo.OriginValue, Input: cur, Key: seg, Value: next})
		cur = next
	}
	return cur, items, true
}

func compare(cur any, op Op, want any) bool {
	switch op {
	case Eq:
		return equal(cur, want)
	case Ne:
		return !equal(cur, want)
	case Lt, Le, Gt, Ge:
		return compareOrdered(cur, op, want)
	default:
		return false
	}
}

func equal(a, b any) bool {
	fa, okA := toFloat64(a)
	fb, okB := toFloat64(b)
	if okA && okB {
		return fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func compareOrdered(cur any, op Op, want any) bool {
	a, okA := toFloat64(cur)
	b, okB := toFloat64(want)
	if !okA || !okB {
		return false
	}
	switch op {
	case Lt:
		return a < b
	case Le:
		return a <= b
	case Gt:
		return a > b
	case Ge:
		return a >= b
	}
	return false
}

func toFloat64(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}
