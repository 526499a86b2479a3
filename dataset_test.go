package valigo_test

import (
	"testing"

	valigo "github.com/reoring/valigo"
	"github.com/reoring/valigo/dsl"
	"github.com/reoring/valigo/i18n"
)

func TestMessage_ResolutionOrder(t *testing.T) {
	global := valigo.Config{Message: valigo.Text("global")}

	// step message beats the global message
	res := valigo.SafeParse(dsl.String(valigo.Text("step")), 1, global)
	if res.Issues[0].Message != "step" {
		t.Fatalf("unexpected message: %q", res.Issues[0].Message)
	}

	// the global message beats the default
	res = valigo.SafeParse(dsl.String(), 1, global)
	if res.Issues[0].Message != "global" {
		t.Fatalf("unexpected message: %q", res.Issues[0].Message)
	}

	// the translator beats the global message, falling through when it has no entry
	cfg := valigo.Config{Lang: "ja", Translator: i18n.Builtin(), Message: valigo.Text("global")}
	res = valigo.SafeParse(dsl.String(), 1, cfg)
	if res.Issues[0].Message != "型が不正です: 文字列が必要です" || res.Issues[0].Lang != "ja" {
		t.Fatalf("unexpected message: %q", res.Issues[0].Message)
	}
	res = valigo.SafeParse(dsl.Date(), 1, cfg)
	if res.Issues[0].Message != "global" {
		t.Fatalf("unexpected message: %q", res.Issues[0].Message)
	}

	// default message
	res = valigo.SafeParse(dsl.String(), 1)
	if res.Issues[0].Message != "Invalid type: Expected string but received 1" {
		t.Fatalf("unexpected message: %q", res.Issues[0].Message)
	}
}

func TestMessage_FunctionSeesIssue(t *testing.T) {
	msg := func(it valigo.Issue) string { return it.Type + " needs " + it.Expected }
	res := valigo.SafeParse(dsl.Pipe(dsl.String(), dsl.MaxLength(2, msg)), "abc")
	if res.Issues[0].Message != "max_length needs <=2" {
		t.Fatalf("unexpected message: %q", res.Issues[0].Message)
	}
}

func TestStringify(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, "null"},
		{valigo.Undefined, "undefined"},
		{"x", `"x"`},
		{1.5, "1.5"},
		{true, "true"},
		{map[string]any{}, "Object"},
		{map[int]int{}, "Map"},
		{map[int]struct{}{}, "Set"},
		{map[string]struct{}{"a": {}}, "Set"},
		{[]int{1}, "Array"},
		{func() {}, "Function"},
		{struct{ A int }{}, "Object"},
	}
	for _, c := range cases {
		if got := valigo.Stringify(c.in); got != c.want {
			t.Fatalf("Stringify(%#v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestJoinExpects(t *testing.T) {
	if got := valigo.JoinExpects([]string{"string", "", "number", "string"}); got != "string | number" {
		t.Fatalf("unexpected: %q", got)
	}
}
