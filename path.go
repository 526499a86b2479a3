package valigo

import (
	"reflect"
	"strconv"
)

// PrefixIssues appends child issues to dst, each re-homed under item.
// The child's path slice is never written to; a fresh slice is built per issue.
func PrefixIssues(dst Issues, child Issues, item PathItem) Issues {
	for _, it := range child {
		p := make([]PathItem, 0, len(it.Path)+1)
		p = append(p, item)
		p = append(p, it.Path...)
		it.Path = p
		dst = AppendIssues(dst, it)
	}
	return dst
}

// GetDotPath joins the keys of an issue path with dots ("items.0.name").
// It reports false for root issues and for paths with a key that is neither a string nor an integer.
func GetDotPath(it Issue) (string, bool) {
	if len(it.Path) == 0 {
		return "", false
	}
	key := ""
	for i, item := range it.Path {
		seg, ok := dotSegment(item.Key)
		if !ok {
			return "", false
		}
		if i > 0 {
			key += "."
		}
		key += seg
	}
	return key, true
}

func dotSegment(k any) (string, bool) {
	switch t := k.(type) {
	case string:
		return t, true
	case int:
		return strconv.Itoa(t), true
	case nil:
		return "", false
	}
	rv := reflect.ValueOf(k)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	}
	return "", false
}

// FlatErrors groups issue messages by location.
type FlatErrors struct {
	Root   []string            // Issues without a path.
	Nested map[string][]string // Issues whose path converts to a dot path.
	Other  []string            // Issues whose path contains a non-representable key.
}

// Flatten partitions issues into root, nested and other buckets, keeping encounter order.
func Flatten(issues Issues) FlatErrors {
	var out FlatErrors
	for _, it := range issues {
		if len(it.Path) == 0 {
			out.Root = append(out.Root, it.Message)
			continue
		}
		key, ok := GetDotPath(it)
		if !ok {
			out.Other = append(out.Other, it.Message)
			continue
		}
		if out.Nested == nil {
			out.Nested = make(map[string][]string)
		}
		out.Nested[key] = append(out.Nested[key], it.Message)
	}
	return out
}
