package source

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// DuplicateKeyError reports an object key that occurs twice.
type DuplicateKeyError struct {
	Key  string
	Path string // Dot path of the object holding Key; empty for the root object.
}

func (e *DuplicateKeyError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("source: duplicate key %q", e.Key)
	}
	return fmt.Sprintf("source: duplicate key %q at %s", e.Key, e.Path)
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type dupFrame struct {
	kind         containerKind
	keys         map[string]struct{}
	expectingKey bool
	seg          string // Segment of this container within its parent.
	key          string // Last key read (objects).
	index        int    // Next element index (arrays).
}

// checkDuplicateKeys walks the token stream of dec and stops at the first repeated key.
func checkDuplicateKeys(dec *json.Decoder) error {
	var stack []dupFrame

	// childSeg names the value about to be read inside the top container and advances it.
	childSeg := func() string {
		if len(stack) == 0 {
			return ""
		}
		top := &stack[len(stack)-1]
		if top.kind == kindArray {
			s := strconv.Itoa(top.index)
			top.index++
			return s
		}
		top.expectingKey = true
		return top.key
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("source: decode json: %w", err)
		}

		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				stack = append(stack, dupFrame{kind: kindObject, keys: make(map[string]struct{}), expectingKey: true, seg: childSeg()})
			case '[':
				stack = append(stack, dupFrame{kind: kindArray, seg: childSeg()})
			case '}', ']':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
			}
		case string:
			if len(stack) > 0 {
				top := &stack[len(stack)-1]
				if top.kind == kindObject && top.expectingKey {
					if _, ok := top.keys[v]; ok {
						return &DuplicateKeyError{Key: v, Path: dotPath(stack)}
					}
					top.keys[v] = struct{}{}
					top.key = v
					top.expectingKey = false
					continue
				}
			}
			childSeg()
		default:
			childSeg()
		}
	}
}

func dotPath(stack []dupFrame) string {
	segs := make([]string, 0, len(stack))
	for _, f := range stack[1:] {
		segs = append(segs, f.seg)
	}
	return strings.Join(segs, ".")
}
