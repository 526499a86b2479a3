// Package dsl provides the schema and action constructors of valigo.
//
// Overview
//   - Leaf schemas: String()/Number()/Boolean()/Null()/Literal()/Picklist()/Date()/Custom() type a raw value.
//   - Composites: Object()/Array()/Tuple()/Record()/Map()/Set() recurse into children and re-home child issues under a PathItem.
//   - Dispatch: Union() tries options in order; Variant() selects options by a discriminant key.
//   - Pipe(schema, actions...): runs validations and transformations once the schema typed the value.
//   - Wrappers: Optional()/Nullable()/Nullish() substitute defaults; Fallback() replaces a failed result.
//   - Utilities: Forward() re-homes a check on a child path; GetDefaults()/GetFallbacks() build substitute trees.
//
// File layout (roles)
//   - primitives.go: leaf schemas.
//   - object_core.go: ObjectSchema (strip/loose/strict/rest policies); object_builder.go: Partial/Required/Pick/Omit.
//   - array.go: Array and the Tuple variants.
//   - map_core.go: Record, Map and Set.
//   - union.go: Union and Variant.
//   - pipe.go: Pipe and its flattening.
//   - adapter.go: Optional/Nullable/Nullish and their Non* counterparts.
//   - fallback.go: Fallback, GetDefault(s), GetFallback(s).
//   - actions.go / transforms.go: validation and transformation actions; rules.go: Expr/Glob/JQ.
//   - codec_time.go: ToDate/ToISOString (RFC3339).
//   - forward.go: Forward.
//
// Example (quickstart)
//
//	user := dsl.Pipe(
//	    dsl.Object(
//	        dsl.Field("email", dsl.Pipe(dsl.String(), dsl.Trim(), dsl.Email())),
//	        dsl.Field("password", dsl.Pipe(dsl.String(), dsl.MinLength(8))),
//	        dsl.Field("confirm", dsl.String()),
//	    ),
//	    dsl.Forward(dsl.Check(func(v any) bool {
//	        m := v.(map[string]any)
//	        return m["password"] == m["confirm"]
//	    }, valigo.Text("passwords do not match")), "confirm"),
//	)
//	res := valigo.SafeParse(user, input)
//	_ = valigo.Flatten(res.Issues) // Nested["confirm"] == ["passwords do not match"]
//
// Example (defaults and fallbacks)
//
//	settings := dsl.Object(
//	    dsl.Field("theme", dsl.Optional(dsl.Picklist("light", "dark"), "light")),
//	    dsl.Field("pageSize", dsl.Fallback(dsl.Pipe(dsl.Number(), dsl.MinValue(1)), 20)),
//	)
//	out, _ := valigo.Parse(settings, map[string]any{"pageSize": -3})
//	_ = out // map[theme:light pageSize:20]
//	_ = dsl.GetFallbacks(settings) // map[theme:undefined pageSize:20]
package dsl
