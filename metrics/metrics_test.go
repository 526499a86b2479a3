package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	valigo "github.com/reoring/valigo"
	"github.com/reoring/valigo/dsl"
)

func TestCollector_CountsOutcomesAndIssues(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg, "test")
	cfg := valigo.Config{Observer: c}

	s := dsl.Object(
		dsl.Field("email", dsl.Pipe(dsl.String(), dsl.Email())),
		dsl.Field("age", dsl.Number()),
	)
	valigo.SafeParse(s, map[string]any{"email": "a@example.com", "age": 3}, cfg)
	valigo.SafeParse(s, map[string]any{"email": "nope", "age": "x"}, cfg)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.parses.WithLabelValues("object", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.parses.WithLabelValues("object", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.issues.WithLabelValues("validation", "email")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.issues.WithLabelValues("schema", "number")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.duration))
}

func TestCollector_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg, "")
	assert.Panics(t, func() { New(reg, "") })
}
