package dsl

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	valigo "github.com/reoring/valigo"
)

// checkAction is a validation driven by a predicate over the typed value.
// label names the checked property in default messages; received, when set, renders
// the failing value instead of valigo.Stringify.
type checkAction struct {
	valigo.ValidationMeta
	label    string
	ok       func(ctx context.Context, v any) bool
	received func(v any) string
}

func (a *checkAction) Run(ctx context.Context, ds valigo.Dataset, cfg valigo.Config) valigo.Dataset {
	if !ds.Typed || a.ok(ctx, ds.Value) {
		return ds
	}
	if a.received != nil {
		ds.AddIssue(a, a.label, cfg, valigo.WithReceived(a.received(ds.Value)))
		return ds
	}
	ds.AddIssue(a, a.label, cfg)
	return ds
}

func newCheck(name, label, expected string, req any, ok func(context.Context, any) bool, msgs []valigo.Message) *checkAction {
	return &checkAction{
		ValidationMeta: valigo.ValidationMeta{Name: name, Expected: expected, Req: req, Msg: valigo.FirstMessage(msgs)},
		label:          label,
		ok:             ok,
	}
}

func syncCheck(fn func(any) bool) func(context.Context, any) bool {
	return func(_ context.Context, v any) bool { return fn(v) }
}

// MinLength requires at least n runes (strings) or n items (slices, arrays, maps).
func MinLength(n int, msg ...valigo.Message) valigo.Validation {
	mustNonNegative("MinLength", n)
	return lengthCheck("min_length", ">="+strconv.Itoa(n), n, func(l int) bool { return l >= n }, msg)
}

// MaxLength requires at most n runes or items.
func MaxLength(n int, msg ...valigo.Message) valigo.Validation {
	mustNonNegative("MaxLength", n)
	return lengthCheck("max_length", "<="+strconv.Itoa(n), n, func(l int) bool { return l <= n }, msg)
}

// Length requires exactly n runes or items.
func Length(n int, msg ...valigo.Message) valigo.Validation {
	mustNonNegative("Length", n)
	return lengthCheck("length", strconv.Itoa(n), n, func(l int) bool { return l == n }, msg)
}

// NonEmpty requires at least one rune or item.
func NonEmpty(msg ...valigo.Message) valigo.Validation {
	return lengthCheck("non_empty", "!0", nil, func(l int) bool { return l > 0 }, msg)
}

func lengthCheck(name, expected string, req any, pred func(int) bool, msgs []valigo.Message) *checkAction {
	a := newCheck(name, "length", expected, req, func(_ context.Context, v any) bool {
		l, ok := lengthOf(v)
		return !ok || pred(l)
	}, msgs)
	a.received = func(v any) string {
		l, _ := lengthOf(v)
		return strconv.Itoa(l)
	}
	return a
}

func mustNonNegative(fn string, n int) {
	if n < 0 {
		panic(fmt.Sprintf("dsl: %s requires a non-negative bound, got %d", fn, n))
	}
}

// lengthOf counts runes for strings and elements for slices, arrays and maps.
func lengthOf(v any) (int, bool) {
	if s, ok := v.(string); ok {
		return utf8.RuneCountInString(s), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}

// MinValue requires a value >= min. Numbers, strings and time.Time values are comparable.
func MinValue(min any, msg ...valigo.Message) valigo.Validation {
	a := newCheck("min_value", "value", ">="+describeValue(min), min, func(_ context.Context, v any) bool {
		c, ok := compareValues(v, min)
		return !ok || c >= 0
	}, msg)
	a.received = describeValue
	return a
}

// MaxValue requires a value <= max.
func MaxValue(max any, msg ...valigo.Message) valigo.Validation {
	a := newCheck("max_value", "value", "<="+describeValue(max), max, func(_ context.Context, v any) bool {
		c, ok := compareValues(v, max)
		return !ok || c <= 0
	}, msg)
	a.received = describeValue
	return a
}

// Integer requires a number without a fractional part.
func Integer(msg ...valigo.Message) valigo.Validation {
	return newCheck("integer", "integer", "", nil, syncCheck(func(v any) bool {
		f, ok := toFloat(v)
		return ok && !math.IsInf(f, 0) && f == math.Trunc(f)
	}), msg)
}

// Regex requires a string matching pattern. An invalid pattern panics.
func Regex(pattern string, msg ...valigo.Message) valigo.Validation {
	re := regexp.MustCompile(pattern)
	return newCheck("regex", "format", "/"+pattern+"/", re, syncCheck(func(v any) bool {
		s, ok := v.(string)
		return ok && re.MatchString(s)
	}), msg)
}

var emailRegex = regexp.MustCompile(`^[\w+-]+(?:\.[\w+-]+)*@[\da-z]+(?:[.-][\da-z]+)*\.[a-z]{2,}$`)

// Email requires a plausible email address.
func Email(msg ...valigo.Message) valigo.Validation {
	return newCheck("email", "email", "", emailRegex, syncCheck(func(v any) bool {
		s, ok := v.(string)
		return ok && emailRegex.MatchString(strings.ToLower(s))
	}), msg)
}

// UUID requires a canonical 36-character UUID string.
func UUID(msg ...valigo.Message) valigo.Validation {
	return newCheck("uuid", "UUID", "", nil, syncCheck(func(v any) bool {
		s, ok := v.(string)
		if !ok || len(s) != 36 {
			return false
		}
		_, err := uuid.Parse(s)
		return err == nil
	}), msg)
}

// Check requires fn to return true for the typed value.
func Check(fn func(v any) bool, msg ...valigo.Message) valigo.Validation {
	return newCheck("check", "input", "", fn, syncCheck(fn), msg)
}

// CheckAsync is Check with a context-aware predicate; it makes the enclosing schema async.
func CheckAsync(fn func(ctx context.Context, v any) bool, msg ...valigo.Message) valigo.Validation {
	a := newCheck("check", "input", "", fn, fn, msg)
	a.IsAsync = true
	return a
}

func describeValue(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case *time.Time:
		if t != nil {
			return t.Format(time.RFC3339Nano)
		}
	}
	return valigo.Stringify(v)
}

// compareValues orders a against b; ok is false when the kinds are not comparable.
func compareValues(a, b any) (int, bool) {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		if !ok || math.IsNaN(fa) || math.IsNaN(fb) {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	}
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case time.Time:
		y, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return x.Compare(y), true
	}
	return 0, false
}
