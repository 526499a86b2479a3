package valigo

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Result is the outcome of SafeParse.
type Result struct {
	Success bool
	// Typed reports whether Output has the schema's shape even when Success is false.
	Typed  bool
	Output any
	Issues Issues
}

// Parse validates input against s and returns the output value.
// On failure it returns a *ValidationError carrying every issue.
// It panics with ErrAsyncSchema when s contains async steps.
func Parse(s Schema, input any, cfg ...Config) (any, error) {
	c := pickConfig(cfg)
	mustBeSync(s)
	ds := run(context.Background(), s, input, c)
	if len(ds.Issues) > 0 {
		return nil, &ValidationError{Issues: ds.Issues}
	}
	return ds.Value, nil
}

// SafeParse validates input against s and never returns an error for invalid input.
// It panics with ErrAsyncSchema when s contains async steps.
func SafeParse(s Schema, input any, cfg ...Config) Result {
	c := pickConfig(cfg)
	mustBeSync(s)
	return toResult(run(context.Background(), s, input, c))
}

// ParseAsync is Parse for schemas that may contain async steps. When ctx is done before the
// run completes, the in-flight result is discarded and ctx.Err() is returned.
func ParseAsync(ctx context.Context, s Schema, input any, cfg ...Config) (any, error) {
	ds, err := runAsync(ctx, s, input, pickConfig(cfg))
	if err != nil {
		return nil, err
	}
	if len(ds.Issues) > 0 {
		return nil, &ValidationError{Issues: ds.Issues}
	}
	return ds.Value, nil
}

// SafeParseAsync is SafeParse for schemas that may contain async steps.
// The error is non-nil only when ctx ends before the run completes.
func SafeParseAsync(ctx context.Context, s Schema, input any, cfg ...Config) (Result, error) {
	ds, err := runAsync(ctx, s, input, pickConfig(cfg))
	if err != nil {
		return Result{}, err
	}
	return toResult(ds), nil
}

// Is reports whether input satisfies s.
func Is(s Schema, input any, cfg ...Config) bool {
	return SafeParse(s, input, cfg...).Success
}

// ParseInto parses input and projects the output onto T. Outputs that are not already a T
// are converted through their JSON representation (struct tags apply).
func ParseInto[T any](s Schema, input any, cfg ...Config) (T, error) {
	var zero T
	out, err := Parse(s, input, cfg...)
	if err != nil {
		return zero, err
	}
	return Project[T](out)
}

// Project converts a schema output onto T. Outputs that are not already a T go through
// their JSON representation.
func Project[T any](out any) (T, error) {
	if v, ok := out.(T); ok {
		return v, nil
	}
	var v T
	b, err := json.Marshal(out)
	if err != nil {
		return v, fmt.Errorf("valigo: project output onto %T: %w", v, err)
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return v, fmt.Errorf("valigo: project output onto %T: %w", v, err)
	}
	return v, nil
}

type asyncRunKey struct{}

// AsyncRun reports whether ctx belongs to a ParseAsync or SafeParseAsync run, where
// async steps may execute.
func AsyncRun(ctx context.Context) bool {
	v, _ := ctx.Value(asyncRunKey{}).(bool)
	return v
}

// ---- helpers ----

func pickConfig(cfg []Config) Config {
	if len(cfg) > 0 {
		return cfg[len(cfg)-1]
	}
	return Config{}
}

func mustBeSync(s Schema) {
	if s == nil {
		panic("valigo: nil schema")
	}
	if s.Async() {
		panic(ErrAsyncSchema)
	}
}

func run(ctx context.Context, s Schema, input any, cfg Config) Dataset {
	start := time.Now()
	ds := s.Run(ctx, NewDataset(input), cfg)
	elapsed := time.Since(start)
	if n := len(ds.Issues); n > 0 {
		cfg.logger().Debug("validation failed",
			zap.String("schema", s.Type()),
			zap.Int("issues", n),
			zap.String("first", ds.Issues[0].Message),
			zap.Duration("elapsed", elapsed))
	}
	if cfg.Observer != nil {
		cfg.Observer.ParseDone(s.Type(), ds.Issues, elapsed)
	}
	return ds
}

func runAsync(ctx context.Context, s Schema, input any, cfg Config) (Dataset, error) {
	if s == nil {
		panic("valigo: nil schema")
	}
	if err := ctx.Err(); err != nil {
		return Dataset{}, err
	}
	done := make(chan Dataset, 1)
	runCtx := context.WithValue(ctx, asyncRunKey{}, true)
	go func() { done <- run(runCtx, s, input, cfg) }()
	select {
	case ds := <-done:
		return ds, nil
	case <-ctx.Done():
		return Dataset{}, ctx.Err()
	}
}

func toResult(ds Dataset) Result {
	return Result{
		Success: len(ds.Issues) == 0,
		Typed:   ds.Typed,
		Output:  ds.Value,
		Issues:  ds.Issues,
	}
}
