package dsl_test

import (
	"testing"
	"time"

	valigo "github.com/reoring/valigo"
	g "github.com/reoring/valigo/dsl"
)

func TestToDate(t *testing.T) {
	s := g.Pipe(g.String(), g.ToDate(), g.MinValue(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))
	out, err := valigo.Parse(s, "2024-05-01T10:00:00.5+09:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2024, 5, 1, 1, 0, 0, 500_000_000, time.UTC)
	if got := out.(time.Time); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	res := valigo.SafeParse(s, "yesterday")
	if res.Success || res.Typed || res.Issues[0].Type != "to_date" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Issues[0].Kind != valigo.KindTransformation {
		t.Fatalf("unexpected kind %q", res.Issues[0].Kind)
	}

	res = valigo.SafeParse(s, "2019-12-31T23:59:59Z")
	if res.Success || res.Issues[0].Type != "min_value" {
		t.Fatalf("validations run on the decoded time: %v", res.Issues)
	}
}

func TestToISOString(t *testing.T) {
	s := g.Pipe(g.Date(), g.ToISOString())
	in := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("JST", 9*3600))
	out, err := valigo.Parse(s, in)
	if err != nil || out != "2024-05-01T01:00:00Z" {
		t.Fatalf("got %v, %v", out, err)
	}
}
