package dsl

import (
	"context"
	"fmt"
	"time"

	valigo "github.com/reoring/valigo"
)

// ToDate decodes an RFC3339 string into a time.Time. time.Time values pass through;
// other inputs and malformed strings raise a "to_date" issue.
func ToDate(msg ...valigo.Message) valigo.Transformation {
	return newTransform("to_date", "date", func(_ context.Context, v any) (any, error) {
		switch t := v.(type) {
		case time.Time:
			return t, nil
		case string:
			return parseRFC3339(t)
		default:
			return nil, fmt.Errorf("cannot decode %s", valigo.Stringify(v))
		}
	}, msg)
}

// ToISOString encodes a time.Time as a canonical RFC3339 string in UTC.
func ToISOString(msg ...valigo.Message) valigo.Transformation {
	return newTransform("to_iso_string", "date", func(_ context.Context, v any) (any, error) {
		switch t := v.(type) {
		case time.Time:
			return formatRFC3339Canonical(t), nil
		case *time.Time:
			if t != nil {
				return formatRFC3339Canonical(*t), nil
			}
		}
		return nil, fmt.Errorf("cannot encode %s", valigo.Stringify(v))
	}, msg)
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, fmt.Errorf("invalid RFC3339 time %q", s)
	}
	return t, nil
}

func formatRFC3339Canonical(t time.Time) string {
	// Normalize to UTC and format using RFC3339Nano (Go trims trailing zeros)
	return t.UTC().Format(time.RFC3339Nano)
}
