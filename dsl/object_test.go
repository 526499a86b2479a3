package dsl_test

import (
	"reflect"
	"testing"

	valigo "github.com/reoring/valigo"
	g "github.com/reoring/valigo/dsl"
)

func TestObject_WrongFieldType(t *testing.T) {
	s := g.Object(g.Field("name", g.String()), g.Field("age", g.Number()))

	_, err := valigo.Parse(s, map[string]any{"name": "Al", "age": "30"})
	if err == nil {
		t.Fatalf("expected error")
	}
	iss, ok := valigo.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected one issue, got %v", err)
	}
	if iss[0].Type != "number" || iss[0].Kind != valigo.KindSchema {
		t.Fatalf("unexpected issue: %+v", iss[0])
	}
	if len(iss[0].Path) != 1 || iss[0].Path[0].Key != "age" || iss[0].Path[0].Type != valigo.PathObject {
		t.Fatalf("unexpected path: %+v", iss[0].Path)
	}
	if iss[0].Path[0].Value != "30" {
		t.Fatalf("path value should be the child input, got %v", iss[0].Path[0].Value)
	}
	if iss[0].Message != `Invalid type: Expected number but received "30"` {
		t.Fatalf("unexpected message: %q", iss[0].Message)
	}
}

func TestObject_StripsUnknownAndKeepsDeclared(t *testing.T) {
	s := g.Object(g.Field("a", g.String()))
	out, err := valigo.Parse(s, map[string]any{"a": "x", "b": 1})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(out, map[string]any{"a": "x"}) {
		t.Fatalf("unexpected output: %#v", out)
	}
}

func TestObject_MissingKeyIsUndefined(t *testing.T) {
	s := g.Object(g.Field("a", g.String()), g.Field("b", g.Optional(g.String())))

	res := valigo.SafeParse(s, map[string]any{"a": "x"})
	if !res.Success {
		t.Fatalf("unexpected issues: %v", res.Issues)
	}
	if _, ok := res.Output.(map[string]any)["b"]; ok {
		t.Fatalf("absent optional key must stay absent: %#v", res.Output)
	}

	res = valigo.SafeParse(s, map[string]any{})
	if res.Success || len(res.Issues) != 1 {
		t.Fatalf("expected one issue, got %v", res.Issues)
	}
	if res.Issues[0].Received != "undefined" {
		t.Fatalf("missing key should be received as undefined: %+v", res.Issues[0])
	}
}

func TestObject_AcceptsStructs(t *testing.T) {
	type user struct {
		Name  string `json:"name"`
		Email string `valigo:"name=mail"`
		skip  int
	}
	s := g.Object(g.Field("name", g.String()), g.Field("mail", g.Pipe(g.String(), g.Email())))
	out, err := valigo.Parse(s, user{Name: "Al", Email: "al@example.com", skip: 1})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(out, map[string]any{"name": "Al", "mail": "al@example.com"}) {
		t.Fatalf("unexpected output: %#v", out)
	}
}

func TestStrictObject_SingleIssueForFirstUnknownKey(t *testing.T) {
	s := g.StrictObject(g.Field("a", g.String()))

	_, err := valigo.Parse(s, map[string]any{"a": "x", "c": 2, "b": 1})
	iss, ok := valigo.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected exactly one issue, got %v", err)
	}
	it := iss[0]
	if it.Type != "strict_object" || it.Expected != "never" || it.Input != "b" {
		t.Fatalf("unexpected issue: %+v", it)
	}
	if len(it.Path) != 1 || it.Path[0].Key != "b" || it.Path[0].Origin != valigo.OriginKey {
		t.Fatalf("unexpected path: %+v", it.Path)
	}
}

func TestLooseObject_KeepsUnknown(t *testing.T) {
	s := g.LooseObject(g.Field("a", g.String()))
	out, err := valigo.Parse(s, map[string]any{"a": "x", "b": 1})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(out, map[string]any{"a": "x", "b": 1}) {
		t.Fatalf("unexpected output: %#v", out)
	}
}

func TestObjectWithRest_ValidatesUnknown(t *testing.T) {
	s := g.ObjectWithRest(g.Number(), g.Field("name", g.String()))

	out, err := valigo.Parse(s, map[string]any{"name": "n", "x": 1, "y": 2.5})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(out, map[string]any{"name": "n", "x": 1, "y": 2.5}) {
		t.Fatalf("unexpected output: %#v", out)
	}

	res := valigo.SafeParse(s, map[string]any{"name": "n", "x": "no"})
	if res.Success || len(res.Issues) != 1 || res.Issues[0].Path[0].Key != "x" {
		t.Fatalf("expected rest issue at x, got %v", res.Issues)
	}
}

func TestObject_AbortEarlyStopsAtFirstEntry(t *testing.T) {
	s := g.Object(g.Field("a", g.String()), g.Field("b", g.String()))
	input := map[string]any{"a": 1, "b": 2}

	res := valigo.SafeParse(s, input)
	if len(res.Issues) != 2 {
		t.Fatalf("expected two issues, got %v", res.Issues)
	}

	res = valigo.SafeParse(s, input, valigo.Config{AbortEarly: true})
	if len(res.Issues) != 1 || res.Typed {
		t.Fatalf("expected one issue and untyped output, got typed=%v %v", res.Typed, res.Issues)
	}
	if !res.Issues[0].AbortEarly {
		t.Fatalf("issue should echo the config")
	}
}

func TestObject_NotAnObject(t *testing.T) {
	res := valigo.SafeParse(g.Object(), []any{1})
	if res.Success || res.Issues[0].Expected != "Object" || res.Issues[0].Received != "Array" {
		t.Fatalf("unexpected issues: %v", res.Issues)
	}
}

func TestObjectHelpers_PartialRequiredPickOmit(t *testing.T) {
	base := g.Object(g.Field("a", g.String()), g.Field("b", g.Number()), g.Field("c", g.Boolean()))

	if !valigo.Is(g.Partial(base), map[string]any{}) {
		t.Fatalf("partial object should accept an empty input")
	}
	if valigo.Is(g.Partial(base, "a"), map[string]any{}) {
		t.Fatalf("only a should become optional")
	}

	req := g.Required(g.Partial(base))
	res := valigo.SafeParse(req, map[string]any{"a": "x", "b": 1})
	if res.Success || len(res.Issues) != 1 || res.Issues[0].Type != "non_optional" {
		t.Fatalf("expected non_optional issue for c, got %v", res.Issues)
	}

	nullable := g.Object(g.Field("a", g.Nullable(g.String())), g.Field("b", g.Nullable(g.Number())))
	nonNull := g.RequiredWith(nullable, func(s valigo.Schema) valigo.Schema { return g.NonNullable(s) }, "a")
	res = valigo.SafeParse(nonNull, map[string]any{"a": nil, "b": nil})
	if res.Success || len(res.Issues) != 1 || res.Issues[0].Type != "non_nullable" {
		t.Fatalf("expected non_nullable issue for a, got %v", res.Issues)
	}

	picked := g.Pick(base, "c", "a")
	keys := []string{}
	for _, e := range picked.Entries() {
		keys = append(keys, e.Key)
	}
	if !reflect.DeepEqual(keys, []string{"a", "c"}) {
		t.Fatalf("pick should keep declaration order, got %v", keys)
	}

	omitted := g.Omit(base, "b")
	if len(omitted.Entries()) != 2 || omitted.Policy() != valigo.UnknownStrip {
		t.Fatalf("unexpected omit result: %+v", omitted.Entries())
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for an unknown key")
		}
	}()
	g.Pick(base, "zzz")
}
