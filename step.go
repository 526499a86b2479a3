package valigo

import "context"

// Step is the unit of composition: a schema or an action with its run behavior.
//
// Run reads ds.Value and may replace it. It may flip ds.Typed from true to false, never the
// other way once a run has marked it false. New issues are appended; existing ones are kept.
// Validation failures are reported as issues, never as panics.
type Step interface {
	Kind() Kind
	Type() string
	// Expects describes the accepted input for messages; empty when the step has no single description.
	Expects() string
	// Async reports whether Run may block on external work and must be driven by ParseAsync.
	Async() bool
	Run(ctx context.Context, ds Dataset, cfg Config) Dataset
}

// Schema types an unknown input. Implementations embed SchemaMeta.
type Schema interface {
	Step
	isSchema()
}

// Validation refines a typed value without changing it. Implementations embed ValidationMeta.
type Validation interface {
	Step
	Requirement() any
	isValidation()
}

// Transformation replaces a typed value. Implementations embed TransformationMeta.
type Transformation interface {
	Step
	isTransformation()
}

// IssueSource is the metadata AddIssue reads from the step raising an issue.
type IssueSource interface {
	Kind() Kind
	Type() string
	Expects() string
	Requirement() any
	Message() Message
}

// SchemaMeta carries the static metadata of a schema.
type SchemaMeta struct {
	Name     string
	Expected string
	Msg      Message
	IsAsync  bool
}

func (m SchemaMeta) Kind() Kind        { return KindSchema }
func (m SchemaMeta) Type() string      { return m.Name }
func (m SchemaMeta) Expects() string   { return m.Expected }
func (m SchemaMeta) Async() bool       { return m.IsAsync }
func (m SchemaMeta) Requirement() any  { return nil }
func (m SchemaMeta) Message() Message  { return m.Msg }
func (SchemaMeta) isSchema()           {}

// ValidationMeta carries the static metadata of a validation action.
type ValidationMeta struct {
	Name     string
	Expected string
	Req      any
	Msg      Message
	IsAsync  bool
}

func (m ValidationMeta) Kind() Kind       { return KindValidation }
func (m ValidationMeta) Type() string     { return m.Name }
func (m ValidationMeta) Expects() string  { return m.Expected }
func (m ValidationMeta) Async() bool      { return m.IsAsync }
func (m ValidationMeta) Requirement() any { return m.Req }
func (m ValidationMeta) Message() Message { return m.Msg }
func (ValidationMeta) isValidation()      {}

// TransformationMeta carries the static metadata of a transformation action.
type TransformationMeta struct {
	Name     string
	Expected string
	Msg      Message
	IsAsync  bool
}

func (m TransformationMeta) Kind() Kind       { return KindTransformation }
func (m TransformationMeta) Type() string     { return m.Name }
func (m TransformationMeta) Expects() string  { return m.Expected }
func (m TransformationMeta) Async() bool      { return m.IsAsync }
func (m TransformationMeta) Requirement() any { return nil }
func (m TransformationMeta) Message() Message { return m.Msg }
func (TransformationMeta) isTransformation()  {}

// AnyAsync reports whether at least one of the steps is async.
func AnyAsync[S Step](steps ...S) bool {
	for _, s := range steps {
		if s.Async() {
			return true
		}
	}
	return false
}

// FirstMessage returns the first non-nil message, or nil.
func FirstMessage(msgs []Message) Message {
	for _, m := range msgs {
		if m != nil {
			return m
		}
	}
	return nil
}
