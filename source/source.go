// Package source materializes serialized documents into the in-memory values valigo
// schemas validate: objects become map[string]any, arrays []any.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned by JSONAt when the path selects nothing.
var ErrNotFound = errors.New("source: path not found")

// JSON decodes a JSON document; numbers become float64.
func JSON(data []byte) (any, error) {
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("source: decode json: %w", err)
	}
	return out, nil
}

// JSONReader decodes a single JSON document from r.
func JSONReader(r io.Reader) (any, error) {
	var out any
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("source: decode json: %w", err)
	}
	return out, nil
}

// JSONStrict is JSON but rejects documents in which an object repeats a key.
func JSONStrict(data []byte) (any, error) {
	if err := checkDuplicateKeys(json.NewDecoder(bytes.NewReader(data))); err != nil {
		return nil, err
	}
	return JSON(data)
}

// JSONAt decodes the part of a JSON document selected by a gjson path ("spec.containers.0").
func JSONAt(data []byte, path string) (any, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("source: invalid json")
	}
	res := gjson.GetBytes(data, path)
	if !res.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return res.Value(), nil
}

// YAML decodes a YAML document. Mappings become map[string]any whatever their key type,
// so they validate as objects.
func YAML(data []byte) (any, error) {
	var out any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("source: decode yaml: %w", err)
	}
	return normalize(out), nil
}

func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalize(e)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	case []any:
		for i, e := range t {
			t[i] = normalize(e)
		}
		return t
	}
	return v
}
