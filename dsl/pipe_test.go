package dsl_test

import (
	"testing"

	valigo "github.com/reoring/valigo"
	g "github.com/reoring/valigo/dsl"
)

func TestPipe_MinLengthIssue(t *testing.T) {
	res := valigo.SafeParse(g.Pipe(g.String(), g.MinLength(5)), "hi")
	if res.Success || len(res.Issues) != 1 {
		t.Fatalf("expected one issue, got %v", res.Issues)
	}
	it := res.Issues[0]
	if it.Type != "min_length" || it.Kind != valigo.KindValidation {
		t.Fatalf("unexpected issue: %+v", it)
	}
	if it.Requirement != 5 || it.Received != "2" || it.Expected != ">=5" {
		t.Fatalf("unexpected details: req=%v received=%q expected=%q", it.Requirement, it.Received, it.Expected)
	}
	if it.Message != "Invalid length: Expected >=5 but received 2" {
		t.Fatalf("unexpected message: %q", it.Message)
	}
	// validation issues keep the value typed
	if !res.Typed || res.Output != "hi" {
		t.Fatalf("expected typed output, got typed=%v out=%v", res.Typed, res.Output)
	}
}

func TestPipe_CollectsAllValidationIssues(t *testing.T) {
	s := g.Pipe(g.String(), g.MinLength(5), g.Email(), g.Regex(`^\d+$`))

	res := valigo.SafeParse(s, "ab")
	if len(res.Issues) != 3 {
		t.Fatalf("expected three issues, got %v", res.Issues)
	}

	res = valigo.SafeParse(s, "ab", valigo.Config{AbortPipeEarly: true})
	if len(res.Issues) != 1 || res.Issues[0].Type != "min_length" {
		t.Fatalf("abortPipeEarly should stop at the first issue, got %v", res.Issues)
	}
	if !res.Issues[0].AbortPipeEarly {
		t.Fatalf("issue should echo abortPipeEarly")
	}
}

func TestPipe_SkipsTransformationsAfterIssues(t *testing.T) {
	called := false
	s := g.Pipe(g.String(), g.MinLength(3), g.Transform(func(v any) any {
		called = true
		return v
	}), g.MaxLength(1))

	res := valigo.SafeParse(s, "ab")
	if called {
		t.Fatalf("transformation must not run after an issue")
	}
	if res.Typed {
		t.Fatalf("skipped transformation leaves the result untyped")
	}
	if len(res.Issues) != 1 {
		t.Fatalf("validations after the skipped transformation must not run: %v", res.Issues)
	}
}

func TestPipe_StopsWhenBaseFails(t *testing.T) {
	s := g.Pipe(g.String(), g.MinLength(3))
	res := valigo.SafeParse(s, 42)
	if len(res.Issues) != 1 || res.Issues[0].Type != "string" || res.Typed {
		t.Fatalf("expected a single untyped type issue, got %v", res.Issues)
	}
}

func TestPipe_NestedPipesFlatten(t *testing.T) {
	inner := g.Pipe(g.String(), g.Trim())
	nested := g.Pipe(inner, g.MinLength(3), g.ToUpperCase())
	flat := g.Pipe(g.String(), g.Trim(), g.MinLength(3), g.ToUpperCase())

	for _, in := range []any{"  abc ", " a ", 7} {
		a := valigo.SafeParse(nested, in)
		b := valigo.SafeParse(flat, in)
		if a.Success != b.Success || a.Typed != b.Typed || a.Output != b.Output || len(a.Issues) != len(b.Issues) {
			t.Fatalf("nested and flat pipes differ for %v: %+v vs %+v", in, a, b)
		}
	}
	if len(nested.Items()) != 3 || nested.Type() != "string" {
		t.Fatalf("unexpected flattened pipe: type=%s items=%d", nested.Type(), len(nested.Items()))
	}

	tail := g.Pipe(g.String(), g.Pipe(g.String(), g.MinLength(2)))
	if len(tail.Items()) != 2 {
		t.Fatalf("pipes in the tail must be inlined, got %d items", len(tail.Items()))
	}
}

func TestPipe_TransformationIssueMakesUntyped(t *testing.T) {
	s := g.Pipe(g.String(), g.ParseJSON(), g.Check(func(any) bool { return true }))

	res := valigo.SafeParse(s, "{oops")
	if res.Success || res.Typed {
		t.Fatalf("failed transformation must leave an untyped failure")
	}
	if len(res.Issues) != 1 || res.Issues[0].Kind != valigo.KindTransformation || res.Issues[0].Type != "parse_json" {
		t.Fatalf("unexpected issues: %v", res.Issues)
	}

	out, err := valigo.Parse(s, `{"a":[1,2]}`)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if m, ok := out.(map[string]any); !ok || len(m["a"].([]any)) != 2 {
		t.Fatalf("unexpected output: %#v", out)
	}
}

func TestPipe_TypedNeverFlipsBack(t *testing.T) {
	s := g.Object(
		g.Field("a", g.Pipe(g.String(), g.Transform(func(v any) any { return len(v.(string)) }))),
		g.Field("b", g.Number()),
	)
	res := valigo.SafeParse(s, map[string]any{"a": 1, "b": 2})
	if res.Typed {
		t.Fatalf("an untyped child keeps the parent untyped")
	}
	res = valigo.SafeParse(s, map[string]any{"a": "xyz", "b": 2})
	if !res.Success || res.Output.(map[string]any)["a"] != 3 {
		t.Fatalf("unexpected result: %+v", res)
	}
}
