package dsl

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	valigo "github.com/reoring/valigo"
)

// transformAction replaces the typed value. A failing apply reports an issue through
// ds.AddIssue, which leaves the dataset untyped.
type transformAction struct {
	valigo.TransformationMeta
	label string
	apply func(ctx context.Context, v any) (any, error)
}

func (t *transformAction) Run(ctx context.Context, ds valigo.Dataset, cfg valigo.Config) valigo.Dataset {
	if !ds.Typed {
		return ds
	}
	out, err := t.apply(ctx, ds.Value)
	if err != nil {
		ds.AddIssue(t, t.label, cfg, valigo.WithReceived(`"`+err.Error()+`"`))
		return ds
	}
	ds.Value = out
	return ds
}

func newTransform(name, label string, apply func(context.Context, any) (any, error), msgs []valigo.Message) *transformAction {
	return &transformAction{
		TransformationMeta: valigo.TransformationMeta{Name: name, Msg: valigo.FirstMessage(msgs)},
		label:              label,
		apply:              apply,
	}
}

// Transform replaces the value with fn(value). It cannot fail.
func Transform(fn func(v any) any) valigo.Transformation {
	return newTransform("transform", "input", func(_ context.Context, v any) (any, error) { return fn(v), nil }, nil)
}

// TransformAsync is Transform with a context-aware function; it makes the enclosing schema async.
func TransformAsync(fn func(ctx context.Context, v any) any) valigo.Transformation {
	t := newTransform("transform", "input", func(ctx context.Context, v any) (any, error) { return fn(ctx, v), nil }, nil)
	t.IsAsync = true
	return t
}

func stringTransform(name string, fn func(string) string) valigo.Transformation {
	return newTransform(name, "input", func(_ context.Context, v any) (any, error) {
		if s, ok := v.(string); ok {
			return fn(s), nil
		}
		return v, nil
	}, nil)
}

// Trim removes leading and trailing white space from strings.
func Trim() valigo.Transformation { return stringTransform("trim", strings.TrimSpace) }

// ToLowerCase lower-cases strings.
func ToLowerCase() valigo.Transformation { return stringTransform("to_lower_case", strings.ToLower) }

// ToUpperCase upper-cases strings.
func ToUpperCase() valigo.Transformation { return stringTransform("to_upper_case", strings.ToUpper) }

// ParseJSON decodes a JSON string (or []byte) into maps, slices and float64 numbers.
func ParseJSON(msg ...valigo.Message) valigo.Transformation {
	return newTransform("parse_json", "JSON", func(_ context.Context, v any) (any, error) {
		var raw []byte
		switch t := v.(type) {
		case string:
			raw = []byte(t)
		case []byte:
			raw = t
		default:
			return nil, fmt.Errorf("cannot decode %s", valigo.Stringify(v))
		}
		var out any
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, err
		}
		return out, nil
	}, msg)
}

// StringifyJSON encodes the value as a JSON string.
func StringifyJSON(msg ...valigo.Message) valigo.Transformation {
	return newTransform("stringify_json", "JSON", func(_ context.Context, v any) (any, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	}, msg)
}
