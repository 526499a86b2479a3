// Package config loads valigo run options from YAML or TOML files.
//
// A file is validated with a valigo schema before use:
//
//	lang = "ja"
//	abort_pipe_early = true
//	log_level = "debug"
//	catalog = "messages.yaml"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	valigo "github.com/reoring/valigo"
	"github.com/reoring/valigo/dsl"
	"github.com/reoring/valigo/i18n"
	"github.com/reoring/valigo/source"
)

// File is the decoded form of a config document.
type File struct {
	Lang           string `json:"lang"`
	AbortEarly     bool   `json:"abort_early"`
	AbortPipeEarly bool   `json:"abort_pipe_early"`
	LogLevel       string `json:"log_level"`
	// Catalog is a YAML message catalog; relative paths resolve against the config file.
	Catalog string `json:"catalog"`
}

var fileSchema = dsl.StrictObject(
	dsl.Field("lang", dsl.Optional(dsl.Pipe(dsl.String(), dsl.Regex(`^[A-Za-z]{2,3}(-[A-Za-z0-9]+)*$`)), "en")),
	dsl.Field("abort_early", dsl.Optional(dsl.Boolean(), false)),
	dsl.Field("abort_pipe_early", dsl.Optional(dsl.Boolean(), false)),
	dsl.Field("log_level", dsl.Optional(dsl.Picklist("debug", "info", "warn", "error"), "info")),
	dsl.Field("catalog", dsl.Optional(dsl.Pipe(dsl.String(), dsl.Glob("**/*.{yaml,yml}")))),
)

// Schema returns the schema config documents must satisfy.
func Schema() valigo.Schema { return fileSchema }

// Decode reads a config document without validating it. The format follows the extension
// (.yaml, .yml or .toml).
func Decode(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return source.YAML(data)
	case ".toml":
		return decodeTOML(data)
	}
	return nil, fmt.Errorf("config: unsupported file type %q", filepath.Ext(path))
}

// Load reads, validates and builds the run options stored at path.
func Load(path string) (valigo.Config, error) {
	raw, err := Decode(path)
	if err != nil {
		return valigo.Config{}, err
	}
	f, err := validate(raw)
	if err != nil {
		return valigo.Config{}, err
	}
	if f.Catalog != "" && !filepath.IsAbs(f.Catalog) {
		f.Catalog = filepath.Join(filepath.Dir(path), f.Catalog)
	}
	return f.Build()
}

// FromYAML validates a YAML config document.
func FromYAML(data []byte) (File, error) {
	raw, err := source.YAML(data)
	if err != nil {
		return File{}, err
	}
	return validate(raw)
}

// FromTOML validates a TOML config document.
func FromTOML(data []byte) (File, error) {
	raw, err := decodeTOML(data)
	if err != nil {
		return File{}, err
	}
	return validate(raw)
}

func decodeTOML(data []byte) (any, error) {
	var m map[string]any
	if _, err := toml.Decode(string(data), &m); err != nil {
		return nil, fmt.Errorf("config: decode toml: %w", err)
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

func validate(raw any) (File, error) {
	if raw == nil {
		raw = map[string]any{}
	}
	f, err := valigo.ParseInto[File](fileSchema, raw)
	if err != nil {
		return File{}, fmt.Errorf("config: %w", err)
	}
	return f, nil
}

// Build turns the file into valigo run options: a zap logger at LogLevel and the
// catalog (or the built-in one) as translator.
func (f File) Build() (valigo.Config, error) {
	level := zapcore.InfoLevel
	if f.LogLevel != "" {
		lvl, err := zapcore.ParseLevel(f.LogLevel)
		if err != nil {
			return valigo.Config{}, fmt.Errorf("config: %w", err)
		}
		level = lvl
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	logger, err := zc.Build()
	if err != nil {
		return valigo.Config{}, fmt.Errorf("config: build logger: %w", err)
	}

	var tr i18n.Translator = i18n.Builtin()
	if f.Catalog != "" {
		data, err := os.ReadFile(f.Catalog)
		if err != nil {
			return valigo.Config{}, fmt.Errorf("config: %w", err)
		}
		cat, err := i18n.LoadYAML(data)
		if err != nil {
			return valigo.Config{}, fmt.Errorf("config: %w", err)
		}
		tr = cat
	}

	return valigo.Config{
		Lang:           f.Lang,
		AbortEarly:     f.AbortEarly,
		AbortPipeEarly: f.AbortPipeEarly,
		Translator:     tr,
		Logger:         logger,
	}, nil
}
