package valigo

import (
	"time"

	"github.com/reoring/valigo/i18n"
	"go.uber.org/zap"
)

// Kind tags a step (and the issues it raises) as structural, refining or reshaping.
type Kind string

const (
	KindSchema         Kind = "schema"         // Types an unknown input.
	KindValidation     Kind = "validation"     // Refines an already typed value.
	KindTransformation Kind = "transformation" // Reshapes an already typed value.
)

// IssueKind is the Kind of the step that raised an issue.
type IssueKind = Kind

// UnknownPolicy controls how object schemas handle keys outside their declared entries.
type UnknownPolicy int

const (
	UnknownStrip       UnknownPolicy = iota // Drop unknown keys.
	UnknownStrict                           // Reject the first unknown key with a single issue.
	UnknownPassthrough                      // Copy unknown keys to the output untouched.
	UnknownRest                             // Validate unknown keys against a rest schema.
)

// PathType records the kind of container a PathItem steps into.
type PathType string

const (
	PathObject  PathType = "object"
	PathArray   PathType = "array"
	PathTuple   PathType = "tuple"
	PathMap     PathType = "map"
	PathSet     PathType = "set"
	PathUnknown PathType = "unknown"
)

// PathOrigin tells whether a map/record issue concerns the key or the value.
type PathOrigin string

const (
	OriginKey   PathOrigin = "key"
	OriginValue PathOrigin = "value"
)

// PathItem is one segment of an issue path.
type PathItem struct {
	Type   PathType
	Origin PathOrigin
	Input  any // The container being validated.
	Key    any // string for objects/records, int for arrays/tuples, any for maps, nil for sets.
	Value  any // The child value found at Key.
}

// undefined is the type of Undefined.
type undefined struct{}

func (undefined) String() string { return "undefined" }

// MarshalJSON renders Undefined as null.
func (undefined) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// Undefined marks an absent value. It differs from nil, which models an explicit null.
// Object schemas pass Undefined to entries whose key is missing from the input.
var Undefined any = undefined{}

// IsUndefined reports whether v is the Undefined sentinel.
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// Message renders the final message of an issue.
type Message func(Issue) string

// Text returns a Message that always yields s.
func Text(s string) Message {
	return func(Issue) string { return s }
}

// Observer receives the outcome of every top-level parse.
type Observer interface {
	ParseDone(schemaType string, issues Issues, elapsed time.Duration)
}

// Config is the read-only option bag passed down a validation run. The zero value is the default.
type Config struct {
	// Lang selects the message catalog entry of the Translator.
	Lang string
	// Message overrides the built-in message for every issue without a more specific one.
	Message Message
	// AbortEarly stops the whole run at the first issue.
	AbortEarly bool
	// AbortPipeEarly stops the current pipe at the first issue.
	AbortPipeEarly bool
	// Translator supplies localized messages keyed by issue type.
	Translator i18n.Translator
	// Logger receives debug entries about failed parses. Nil disables logging.
	Logger *zap.Logger
	// Observer is notified after every top-level parse. Optional.
	Observer Observer
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
