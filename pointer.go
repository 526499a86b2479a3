package valigo

import "strings"

// GetPointer renders the path of an issue as an RFC 6901 JSON Pointer ("/items/0/name").
// Root issues yield "/". It reports false when a key is neither a string nor an integer.
func GetPointer(it Issue) (string, bool) {
	if len(it.Path) == 0 {
		return "/", true
	}
	b := &strings.Builder{}
	for _, item := range it.Path {
		seg, ok := dotSegment(item.Key)
		if !ok {
			return "", false
		}
		b.WriteByte('/')
		// escape '~' -> '~0', '/' -> '~1' per RFC6901
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(seg, "~", "~0"), "/", "~1"))
	}
	return b.String(), true
}
