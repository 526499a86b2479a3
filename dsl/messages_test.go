package dsl_test

import (
	"testing"

	valigo "github.com/reoring/valigo"
	g "github.com/reoring/valigo/dsl"
	"github.com/reoring/valigo/i18n"
)

func TestBuiltinCatalog_StrictFailures(t *testing.T) {
	en := valigo.Config{Translator: i18n.Builtin()}
	ja := valigo.Config{Translator: i18n.Builtin(), Lang: "ja"}
	obj := g.StrictObject(g.Field("a", g.String()))
	tup := g.StrictTuple(g.String())

	cases := []struct {
		name  string
		s     valigo.Schema
		input any
		cfg   valigo.Config
		want  string
	}{
		{"object type", obj, 5, en, "Invalid type: Expected Object but received 5"},
		{"object unknown key", obj, map[string]any{"a": "x", "b": 1}, en, `Unknown key: Received "b"`},
		{"tuple type", tup, "x", en, `Invalid type: Expected Array but received "x"`},
		{"tuple extra item", tup, []any{"x", true}, en, "Too many items: Received true"},
		{"object type ja", obj, 5, ja, "型が不正です: オブジェクトが必要です"},
		{"object unknown key ja", obj, map[string]any{"a": "x", "b": 1}, ja, "未知のキーです"},
		{"tuple type ja", tup, "x", ja, "型が不正です: 配列が必要です"},
		{"tuple extra item ja", tup, []any{"x", true}, ja, "要素が多すぎます"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := valigo.SafeParse(tc.s, tc.input, tc.cfg)
			if len(res.Issues) != 1 || res.Issues[0].Message != tc.want {
				t.Fatalf("got %v, want message %q", res.Issues, tc.want)
			}
		})
	}
}
