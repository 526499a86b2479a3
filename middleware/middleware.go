// Package middleware validates JSON request bodies against valigo schemas at HTTP
// boundaries. The echo and gin submodules adapt Decode to their frameworks.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	valigo "github.com/reoring/valigo"
	"github.com/reoring/valigo/source"
)

// ctxKeyDecoded is a typed context key for storing decoded values.
// Using a generic struct type ensures uniqueness per T.
type ctxKeyDecoded[T any] struct{}

// ContextWithDecoded attaches a decoded T to the context.
func ContextWithDecoded[T any](ctx context.Context, v T) context.Context {
	return context.WithValue(ctx, ctxKeyDecoded[T]{}, v)
}

// DecodedFromContext retrieves a decoded T from context.
func DecodedFromContext[T any](ctx context.Context) (T, bool) {
	v, ok := ctx.Value(ctxKeyDecoded[T]{}).(T)
	return v, ok
}

// Options tune request decoding.
type Options struct {
	Config valigo.Config
	// AllowDuplicateKeys accepts bodies in which an object repeats a key (last one wins).
	AllowDuplicateKeys bool
	// MaxBytes caps the body size; zero means DefaultMaxBytes.
	MaxBytes int64
}

// DefaultMaxBytes is the body limit used when Options.MaxBytes is zero.
const DefaultMaxBytes = 1 << 20

// DefaultOptions returns a recommended default for HTTP JSON boundaries:
// duplicate keys are errors and every issue is collected.
func DefaultOptions() Options {
	return Options{MaxBytes: DefaultMaxBytes}
}

// Decode reads a JSON body and validates it against s, honoring ctx for async schemas.
// Invalid input yields a *valigo.ValidationError; other failures are decoding errors.
func Decode(ctx context.Context, s valigo.Schema, body io.Reader, opt Options) (any, error) {
	limit := opt.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("middleware: read body: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("middleware: body exceeds %d bytes", limit)
	}
	var input any
	if opt.AllowDuplicateKeys {
		input, err = source.JSON(data)
	} else {
		input, err = source.JSONStrict(data)
	}
	if err != nil {
		return nil, err
	}
	return valigo.ParseAsync(ctx, s, input, opt.Config)
}

// ValidateJSON parses the request JSON using schema s, stores the output projected onto T in
// the request context, and on failure answers 400 with ErrorPayload.
func ValidateJSON[T any](s valigo.Schema, opt Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			out, err := Decode(r.Context(), s, r.Body, opt)
			if err != nil {
				WriteError(w, err)
				return
			}
			v, err := valigo.Project[T](out)
			if err != nil {
				WriteJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithDecoded(r.Context(), v)))
		})
	}
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(issues valigo.Issues) map[string]any {
	flat := valigo.Flatten(issues)
	out := map[string]any{"issues": issueViews(issues)}
	if len(flat.Root) > 0 {
		out["root"] = flat.Root
	}
	if len(flat.Nested) > 0 {
		out["nested"] = flat.Nested
	}
	if len(flat.Other) > 0 {
		out["other"] = flat.Other
	}
	return out
}

// Status maps a Decode error to an HTTP status.
func Status(err error) int {
	if _, ok := valigo.AsIssues(err); ok {
		return http.StatusBadRequest
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadRequest
}

// Body builds the response payload for a Decode error.
func Body(err error) map[string]any {
	if iss, ok := valigo.AsIssues(err); ok {
		return ErrorPayload(iss)
	}
	return map[string]any{"error": err.Error()}
}

// WriteError answers with the status and payload of a Decode error.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, Status(err), Body(err))
}

// WriteJSON writes v as a JSON response.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type issueView struct {
	Type     string `json:"type"`
	Path     string `json:"path,omitempty"`
	Pointer  string `json:"pointer,omitempty"`
	Message  string `json:"message"`
	Expected string `json:"expected,omitempty"`
	Received string `json:"received"`
}

func issueViews(issues valigo.Issues) []issueView {
	out := make([]issueView, 0, len(issues))
	for _, it := range issues {
		path, _ := valigo.GetDotPath(it)
		ptr, _ := valigo.GetPointer(it)
		out = append(out, issueView{Type: it.Type, Path: path, Pointer: ptr, Message: it.Message, Expected: it.Expected, Received: it.Received})
	}
	return out
}
