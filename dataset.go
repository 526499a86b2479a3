package valigo

import (
	"fmt"
	"reflect"
	"strings"
)

// Dataset is the value threaded through every step of a run.
type Dataset struct {
	// Value starts as the raw input and ends as the output (or the last typed value).
	Value any
	// Typed reports whether Value has the shape of the schema output, regardless of refinements.
	Typed bool
	// Issues is nil when no problem was found.
	Issues Issues
}

// NewDataset returns the initial dataset for a raw input.
func NewDataset(input any) Dataset { return Dataset{Value: input} }

// OK reports whether the dataset is typed and carries no issues.
func (ds Dataset) OK() bool { return ds.Typed && len(ds.Issues) == 0 }

// IssueOption customizes an issue raised by AddIssue.
type IssueOption func(*issueOpts)

type issueOpts struct {
	input       any
	hasInput    bool
	received    *string
	expected    *string
	requirement any
	hasReq      bool
	path        []PathItem
	issues      Issues
	message     Message
}

// WithInput overrides the failing input (defaults to the dataset value).
func WithInput(v any) IssueOption {
	return func(o *issueOpts) { o.input, o.hasInput = v, true }
}

// WithReceived overrides the received description (defaults to Stringify(input)).
func WithReceived(s string) IssueOption {
	return func(o *issueOpts) { o.received = &s }
}

// WithExpected overrides the expected description (defaults to the step's Expects).
func WithExpected(s string) IssueOption {
	return func(o *issueOpts) { o.expected = &s }
}

// WithRequirement overrides the echoed requirement.
func WithRequirement(v any) IssueOption {
	return func(o *issueOpts) { o.requirement, o.hasReq = v, true }
}

// WithPath sets the initial path of the issue.
func WithPath(items ...PathItem) IssueOption {
	return func(o *issueOpts) { o.path = items }
}

// WithSubIssues attaches nested issues (used by unions).
func WithSubIssues(iss Issues) IssueOption {
	return func(o *issueOpts) { o.issues = iss }
}

// WithMessage overrides every other message source for this issue.
func WithMessage(m Message) IssueOption {
	return func(o *issueOpts) { o.message = m }
}

// AddIssue records an issue raised by src. label names the failing property in the default
// message ("type", "length", "email"...). Schema and transformation issues mark the dataset untyped.
func (ds *Dataset) AddIssue(src IssueSource, label string, cfg Config, opts ...IssueOption) {
	var o issueOpts
	for _, fn := range opts {
		fn(&o)
	}
	input := ds.Value
	if o.hasInput {
		input = o.input
	}
	received := Stringify(input)
	if o.received != nil {
		received = *o.received
	}
	expected := src.Expects()
	if o.expected != nil {
		expected = *o.expected
	}
	req := src.Requirement()
	if o.hasReq {
		req = o.requirement
	}
	it := Issue{
		Kind:           src.Kind(),
		Type:           src.Type(),
		Input:          input,
		Expected:       expected,
		Received:       received,
		Requirement:    req,
		Path:           o.path,
		Issues:         o.issues,
		Lang:           cfg.Lang,
		AbortEarly:     cfg.AbortEarly,
		AbortPipeEarly: cfg.AbortPipeEarly,
	}
	it.Message = resolveMessage(it, label, src, o.message, cfg)
	if it.Kind == KindSchema || it.Kind == KindTransformation {
		ds.Typed = false
	}
	ds.Issues = AppendIssues(ds.Issues, it)
}

func resolveMessage(it Issue, label string, src IssueSource, override Message, cfg Config) string {
	if override != nil {
		return override(it)
	}
	if m := src.Message(); m != nil {
		return m(it)
	}
	if cfg.Translator != nil {
		data := map[string]string{"expected": it.Expected, "received": it.Received, "label": label}
		if it.Requirement != nil {
			data["requirement"] = fmt.Sprint(it.Requirement)
		}
		// "<type>.<label>" selects a failure-specific entry ("strict_object.key").
		for _, code := range [...]string{it.Type + "." + label, it.Type} {
			if msg := cfg.Translator.Message(cfg.Lang, code, data); msg != "" {
				return msg
			}
		}
	}
	if cfg.Message != nil {
		return cfg.Message(it)
	}
	return defaultMessage(label, it.Expected, it.Received)
}

// defaultMessage renders "Invalid <label>: Expected <x> but received <y>".
func defaultMessage(label, expected, received string) string {
	if expected != "" {
		return fmt.Sprintf("Invalid %s: Expected %s but received %s", label, expected, received)
	}
	return fmt.Sprintf("Invalid %s: Received %s", label, received)
}

// Stringify renders a value for the received/expected part of a message:
// strings are quoted, scalars printed, containers named by their kind.
func Stringify(v any) string {
	if v == nil {
		return "null"
	}
	if IsUndefined(v) {
		return "undefined"
	}
	switch t := v.(type) {
	case string:
		return `"` + t + `"`
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(t)
	case fmt.Stringer:
		if rv := reflect.ValueOf(v); rv.Kind() != reflect.Struct {
			return t.String()
		}
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Elem().Size() == 0 {
			return "Set"
		}
		if rv.Type().Key().Kind() == reflect.String {
			return "Object"
		}
		return "Map"
	case reflect.Slice, reflect.Array:
		return "Array"
	case reflect.Func:
		return "Function"
	case reflect.Pointer:
		if rv.IsNil() {
			return "null"
		}
		return Stringify(rv.Elem().Interface())
	case reflect.Struct:
		if name := rv.Type().Name(); name != "" {
			return name
		}
		return "Object"
	}
	return rv.Kind().String()
}

// JoinExpects renders alternatives as "a | b | c", dropping duplicates.
func JoinExpects(parts []string) string {
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return strings.Join(out, " | ")
}
