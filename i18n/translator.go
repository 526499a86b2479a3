package i18n

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Translator retrieves localized messages for issue types. Issues are looked up as
// "<type>.<label>" first ("strict_object.key" for unknown keys), then as "<type>".
// data carries the placeholders available to templates ("expected", "received",
// "requirement", "label"). An empty result means no entry exists.
type Translator interface {
	Message(lang, code string, data map[string]string) string
}

// Catalog is a dictionary-based Translator. Requested languages are negotiated
// against the catalog languages, so "ja-JP" resolves to a "ja" dictionary.
type Catalog struct {
	langs   []string
	matcher language.Matcher
	dicts   map[string]map[string]string
}

// NewCatalog builds a Catalog from lang -> issue type -> template. Templates may use
// {expected}, {received}, {requirement} and {label}. Language keys must be BCP 47 tags.
func NewCatalog(dicts map[string]map[string]string) (*Catalog, error) {
	if len(dicts) == 0 {
		return nil, fmt.Errorf("i18n: empty catalog")
	}
	langs := make([]string, 0, len(dicts))
	for l := range dicts {
		langs = append(langs, l)
	}
	// "en" leads so it becomes the fallback of the matcher.
	sort.Slice(langs, func(i, j int) bool {
		if (langs[i] == "en") != (langs[j] == "en") {
			return langs[i] == "en"
		}
		return langs[i] < langs[j]
	})
	tags := make([]language.Tag, 0, len(langs))
	for _, l := range langs {
		tag, err := language.Parse(l)
		if err != nil {
			return nil, fmt.Errorf("i18n: invalid language %q: %w", l, err)
		}
		tags = append(tags, tag)
	}
	return &Catalog{langs: langs, matcher: language.NewMatcher(tags), dicts: dicts}, nil
}

// MustCatalog is like NewCatalog but panics on error.
func MustCatalog(dicts map[string]map[string]string) *Catalog {
	c, err := NewCatalog(dicts)
	if err != nil {
		panic(err)
	}
	return c
}

// LoadYAML reads a catalog document shaped as:
//
//	ja:
//	  min_length: "{requirement} 文字以上で入力してください"
func LoadYAML(data []byte) (*Catalog, error) {
	var dicts map[string]map[string]string
	if err := yaml.Unmarshal(data, &dicts); err != nil {
		return nil, fmt.Errorf("i18n: decode catalog: %w", err)
	}
	return NewCatalog(dicts)
}

// Languages lists the catalog languages, fallback first.
func (c *Catalog) Languages() []string { return append([]string(nil), c.langs...) }

// Message implements Translator.
func (c *Catalog) Message(lang, code string, data map[string]string) string {
	if c == nil {
		return ""
	}
	dict := c.dicts[c.langs[0]]
	if lang != "" {
		_, idx := language.MatchStrings(c.matcher, lang)
		dict = c.dicts[c.langs[idx]]
	}
	tmpl, ok := dict[code]
	if !ok {
		return ""
	}
	return render(tmpl, data)
}

func render(tmpl string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// Builtin returns the bundled English and Japanese dictionaries.
func Builtin() *Catalog { return builtin }

var builtin = MustCatalog(map[string]map[string]string{
	"en": {
		"object":            "Invalid type: Expected {expected} but received {received}",
		"strict_object":     "Invalid type: Expected {expected} but received {received}",
		"strict_object.key": "Unknown key: Received {received}",
		"strict_tuple":      "Invalid type: Expected {expected} but received {received}",
		"strict_tuple.item": "Too many items: Received {received}",
		"union":             "Invalid type: Expected {expected} but received {received}",
		"variant":           "Invalid discriminator: Expected {expected} but received {received}",
		"min_length":        "Invalid length: Expected {expected} but received {received}",
		"max_length":        "Invalid length: Expected {expected} but received {received}",
		"email":             "Invalid email: Received {received}",
		"uuid":              "Invalid UUID: Received {received}",
	},
	"ja": {
		"string":            "型が不正です: 文字列が必要です",
		"number":            "型が不正です: 数値が必要です",
		"boolean":           "型が不正です: 真偽値が必要です",
		"object":            "型が不正です: オブジェクトが必要です",
		"array":             "型が不正です: 配列が必要です",
		"strict_object":     "型が不正です: オブジェクトが必要です",
		"strict_object.key": "未知のキーです",
		"strict_tuple":      "型が不正です: 配列が必要です",
		"strict_tuple.item": "要素が多すぎます",
		"union":             "いずれの型にも一致しません",
		"variant":           "判別キーが不正です",
		"non_optional":      "必須プロパティが不足しています",
		"min_length":        "短すぎます: {requirement} 以上が必要です",
		"max_length":        "長すぎます: {requirement} 以下が必要です",
		"email":             "メールアドレスの形式が不正です",
		"uuid":              "UUID の形式が不正です",
		"parse_json":        "JSON の解析に失敗しました",
	},
})
