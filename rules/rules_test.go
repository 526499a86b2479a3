package rules_test

import (
	"testing"

	valigo "github.com/reoring/valigo"
	g "github.com/reoring/valigo/dsl"
	"github.com/reoring/valigo/rules"
)

func orderSchema(actions ...valigo.Step) valigo.Schema {
	base := g.Object(
		g.Field("status", g.Picklist("draft", "shipped")),
		g.Field("tracking", g.Optional(g.String())),
		g.Field("total", g.Number()),
		g.Field("items", g.Array(g.Object(g.Field("sku", g.String()), g.Field("qty", g.Number())))),
	)
	return g.Pipe(base, actions...)
}

func TestIfThen(t *testing.T) {
	hasTracking := g.Forward(g.Check(func(v any) bool {
		_, ok := v.(map[string]any)["tracking"]
		return ok
	}, valigo.Text("tracking is required once shipped")), "tracking")
	s := orderSchema(rules.If("/status", rules.Eq, "shipped").Then(hasTracking))

	draft := map[string]any{"status": "draft", "total": 1, "items": []any{}}
	if !valigo.Is(s, draft) {
		t.Fatalf("condition does not hold for drafts")
	}
	shipped := map[string]any{"status": "shipped", "total": 1, "items": []any{}}
	res := valigo.SafeParse(s, shipped)
	if res.Success || res.Issues[0].Message != "tracking is required once shipped" {
		t.Fatalf("unexpected issues: %v", res.Issues)
	}
}

func TestConditionComposition(t *testing.T) {
	v := map[string]any{"status": "shipped", "total": 120, "items": []any{map[string]any{"sku": "a"}}}

	if !rules.If("/total", rules.Gt, 100).And(rules.If("/status", rules.Ne, "draft")).Holds(v) {
		t.Fatalf("AND should hold")
	}
	if rules.IfAll(rules.If("/total", rules.Lt, 100), rules.If("/status", rules.Eq, "shipped")).Holds(v) {
		t.Fatalf("AND should not hold")
	}
	if !rules.If("/total", rules.Le, 10).Or(rules.If("/items/0/sku", rules.Eq, "a")).Holds(v) {
		t.Fatalf("OR should hold")
	}
	if rules.If("/missing", rules.Eq, nil).Holds(v) {
		t.Fatalf("a missing path never holds")
	}
	if !rules.If("/total", rules.Eq, 120.0).Holds(v) {
		t.Fatalf("numbers compare by value")
	}
}

func TestAtLeastOne(t *testing.T) {
	s := orderSchema(rules.AtLeastOne("/items"))
	res := valigo.SafeParse(s, map[string]any{"status": "draft", "total": 1, "items": []any{}})
	if res.Success || len(res.Issues) != 1 || res.Issues[0].Type != "at_least_one" {
		t.Fatalf("unexpected issues: %v", res.Issues)
	}
	if key, ok := valigo.GetDotPath(res.Issues[0]); !ok || key != "items" {
		t.Fatalf("unexpected path %q", key)
	}
}

func TestUniqueBy(t *testing.T) {
	s := orderSchema(rules.UniqueBy("/items", "sku"))
	res := valigo.SafeParse(s, map[string]any{
		"status": "draft", "total": 1,
		"items": []any{
			map[string]any{"sku": "a", "qty": 1},
			map[string]any{"sku": "b", "qty": 1},
			map[string]any{"sku": "a", "qty": 2},
		},
	})
	if res.Success || len(res.Issues) != 1 {
		t.Fatalf("expected one duplicate, got %v", res.Issues)
	}
	if key, _ := valigo.GetDotPath(res.Issues[0]); key != "items.2.sku" {
		t.Fatalf("unexpected path %q", key)
	}
	if res.Issues[0].Received != `"a"` {
		t.Fatalf("unexpected received: %q", res.Issues[0].Received)
	}
}

func TestAndOr(t *testing.T) {
	big := g.Check(func(v any) bool { return v.(map[string]any)["total"].(int) > 100 }, valigo.Text("small"))
	shipped := g.Check(func(v any) bool { return v.(map[string]any)["status"] == "shipped" }, valigo.Text("draft"))
	in := map[string]any{"status": "draft", "total": 1, "items": []any{}}

	res := valigo.SafeParse(orderSchema(rules.And(big, shipped)), in)
	if len(res.Issues) != 2 {
		t.Fatalf("And keeps every issue, got %v", res.Issues)
	}
	res = valigo.SafeParse(orderSchema(rules.And(big, shipped)), in, valigo.Config{AbortPipeEarly: true})
	if len(res.Issues) != 1 {
		t.Fatalf("And stops early when asked, got %v", res.Issues)
	}

	if valigo.Is(orderSchema(rules.Or(big, shipped)), in) {
		t.Fatalf("Or fails when every branch fails")
	}
	in["total"] = 500
	if !valigo.Is(orderSchema(rules.Or(big, shipped)), in) {
		t.Fatalf("Or passes when one branch passes")
	}
}
