package valigo_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	valigo "github.com/reoring/valigo"
	"github.com/reoring/valigo/dsl"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParse_ReturnsValidationError(t *testing.T) {
	s := dsl.Object(dsl.Field("name", dsl.String()), dsl.Field("age", dsl.Number()))
	_, err := valigo.Parse(s, map[string]any{"name": "Al", "age": "30"})

	var ve *valigo.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if err.Error() != `age: Invalid type: Expected number but received "30"` {
		t.Fatalf("unexpected error text: %q", err.Error())
	}
	var iss valigo.Issues
	if !errors.As(err, &iss) || iss[0].Type != "number" {
		t.Fatalf("issues should be reachable through errors.As")
	}
}

func TestIssues_ErrorSummary(t *testing.T) {
	s := dsl.Object(
		dsl.Field("a", dsl.String()), dsl.Field("b", dsl.String()),
		dsl.Field("c", dsl.String()), dsl.Field("d", dsl.String()),
	)
	res := valigo.SafeParse(s, map[string]any{})
	if got := res.Issues.Error(); got != "string at a; string at b; string at c; ... (total 4)" {
		t.Fatalf("unexpected summary: %q", got)
	}
	_, err := valigo.Parse(s, map[string]any{})
	if !strings.HasSuffix(err.Error(), "(and 3 more)") {
		t.Fatalf("unexpected error text: %q", err.Error())
	}
}

func TestParseInto_Projects(t *testing.T) {
	type user struct {
		Name string   `json:"name"`
		Tags []string `json:"tags"`
	}
	s := dsl.Object(
		dsl.Field("name", dsl.Pipe(dsl.String(), dsl.Trim())),
		dsl.Field("tags", dsl.Array(dsl.String())),
	)
	u, err := valigo.ParseInto[user](s, map[string]any{"name": " Al ", "tags": []any{"x"}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if u.Name != "Al" || len(u.Tags) != 1 || u.Tags[0] != "x" {
		t.Fatalf("unexpected projection: %+v", u)
	}

	if _, err := valigo.ParseInto[user](s, map[string]any{"name": 1}); err == nil {
		t.Fatalf("invalid input must fail")
	}

	n, err := valigo.ParseInto[string](dsl.String(), "direct")
	if err != nil || n != "direct" {
		t.Fatalf("direct assertion failed: %v %v", n, err)
	}
}

func TestProject(t *testing.T) {
	type point struct {
		X int `json:"x"`
		Y int `json:"y"`
	}
	p, err := valigo.Project[point](map[string]any{"x": 1.0, "y": 2.0})
	if err != nil || p != (point{X: 1, Y: 2}) {
		t.Fatalf("unexpected projection: %+v %v", p, err)
	}
	same, err := valigo.Project[point](point{X: 3})
	if err != nil || same.X != 3 {
		t.Fatalf("a T passes through: %+v %v", same, err)
	}
	if _, err := valigo.Project[point]("nope"); err == nil || !strings.Contains(err.Error(), "project output onto") {
		t.Fatalf("expected projection error, got %v", err)
	}
}

func TestParse_NilSchemaPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	valigo.SafeParse(nil, 1)
}

type recordingObserver struct {
	schema string
	issues int
	calls  int
}

func (r *recordingObserver) ParseDone(schema string, issues valigo.Issues, _ time.Duration) {
	r.schema, r.issues = schema, len(issues)
	r.calls++
}

func TestParse_ObserverAndLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	obs := &recordingObserver{}
	cfg := valigo.Config{Logger: zap.New(core), Observer: obs}

	valigo.SafeParse(dsl.Pipe(dsl.String(), dsl.Email()), "nope", cfg)
	if obs.calls != 1 || obs.schema != "string" || obs.issues != 1 {
		t.Fatalf("unexpected observer state: %+v", obs)
	}
	entries := logs.FilterMessage("validation failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one debug entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["schema"] != "string" {
		t.Fatalf("unexpected fields: %v", entries[0].ContextMap())
	}

	valigo.SafeParse(dsl.String(), "fine", cfg)
	if obs.calls != 2 || logs.Len() != 1 {
		t.Fatalf("successful parses notify the observer without logging")
	}
}

func TestZapIssueLogger(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := dsl.Object(dsl.Field("port", dsl.Fallback(dsl.Number(), 8080,
		dsl.OnFallback(valigo.ZapIssueLogger(zap.New(core), "fallback applied")))))

	out, err := valigo.Parse(s, map[string]any{"port": "http"})
	if err != nil || out.(map[string]any)["port"] != 8080 {
		t.Fatalf("unexpected result %v err=%v", out, err)
	}
	entries := logs.All()
	if len(entries) != 1 || entries[0].ContextMap()["type"] != "number" {
		t.Fatalf("unexpected log entries: %v", entries)
	}
}
