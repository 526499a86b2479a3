package dsl

import (
	"context"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/itchyny/gojq"
	valigo "github.com/reoring/valigo"
)

// Expr requires a boolean expr-lang expression to hold for the typed value, bound as `input`:
//
//	dsl.Expr(`input.start <= input.end`)
//
// The expression is compiled once; a compile error panics. A runtime error fails the check.
func Expr(expression string, msg ...valigo.Message) valigo.Validation {
	prog := mustCompileExpr(expression)
	return newCheck("expr", "input", "", expression, syncCheck(func(v any) bool {
		out, err := expr.Run(prog, map[string]any{"input": v})
		if err != nil {
			return false
		}
		ok, _ := out.(bool)
		return ok
	}), msg)
}

func mustCompileExpr(expression string) *vm.Program {
	prog, err := expr.Compile(expression,
		expr.Env(map[string]any{}),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		panic(fmt.Sprintf("dsl: compile expr %q: %v", expression, err))
	}
	return prog
}

// Glob requires a string matching a doublestar pattern ("**/*.yaml"). An invalid pattern panics.
func Glob(pattern string, msg ...valigo.Message) valigo.Validation {
	if !doublestar.ValidatePattern(pattern) {
		panic(fmt.Sprintf("dsl: invalid glob pattern %q", pattern))
	}
	return newCheck("glob", "path", pattern, pattern, syncCheck(func(v any) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		matched, err := doublestar.Match(pattern, s)
		return err == nil && matched
	}), msg)
}

// JQ replaces the value with the result of a jq query. A query yielding several values
// produces a []any, none produces nil. The value must be JSON-shaped (maps with string keys,
// []any, numbers, strings, bools, nil); a query error is reported as a transformation issue.
func JQ(query string, msg ...valigo.Message) valigo.Transformation {
	parsed, err := gojq.Parse(query)
	if err != nil {
		panic(fmt.Sprintf("dsl: parse jq %q: %v", query, err))
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		panic(fmt.Sprintf("dsl: compile jq %q: %v", query, err))
	}
	return newTransform("jq", "input", func(ctx context.Context, v any) (any, error) {
		iter := code.RunWithContext(ctx, v)
		var results []any
		for {
			out, ok := iter.Next()
			if !ok {
				break
			}
			if err, isErr := out.(error); isErr {
				return nil, err
			}
			results = append(results, out)
		}
		switch len(results) {
		case 0:
			return nil, nil
		case 1:
			return results[0], nil
		}
		return results, nil
	}, msg)
}
