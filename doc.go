// Package valigo validates and transforms in-memory values against composable schemas.
//
// - A Schema types an unknown input; Validation and Transformation actions refine or reshape it
// - Every step threads a Dataset (value, typed flag, issues) and reports failures as Issues
// - Issues carry a path of PathItems from the root to the failing value
// - Parse/SafeParse (and the Async variants) drive a schema and report the outcome
//
// Design policy:
// - Keep the protocol and entry points in the root package; builders live under dsl/.
// - Localized messages live under i18n/, input materialization under source/.
// - Cross-field rules live under rules/, HTTP boundaries under middleware/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	s := dsl.Object(
//	    dsl.Field("name", dsl.String()),
//	    dsl.Field("age", dsl.Number()),
//	)
//	out, err := valigo.Parse(s, input)
//	res := valigo.SafeParse(s, input, valigo.Config{AbortEarly: true})
//	flat := valigo.Flatten(res.Issues)
package valigo
