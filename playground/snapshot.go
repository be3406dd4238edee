package playground

import (
	"errors"
	"fmt"
	"strings"

	"github.com/benz9527/xlist/lib/list"
)

type Op string

const (
	OpCreate      Op = "create"
	OpClear       Op = "clear"
	OpInsertBegin Op = "insert-begin"
	OpInsertEnd   Op = "insert-end"
	OpInsertAt    Op = "insert-at"
	OpDeleteBegin Op = "delete-begin"
	OpDeleteEnd   Op = "delete-end"
	OpDeleteValue Op = "delete"
	OpSearch      Op = "search"
	OpTraverse    Op = "traverse"
	OpForward     Op = "forward"
	OpBackward    Op = "backward"
	OpSize        Op = "size"
)

func (op Op) mutates() bool {
	switch op {
	case OpInsertBegin, OpInsertEnd, OpInsertAt, OpDeleteBegin, OpDeleteEnd, OpDeleteValue, OpClear:
		return true
	default:
	}
	return false
}

// Snapshot is what the UI layer redraws after every operation.
type Snapshot struct {
	Variant list.Variant
	Op      Op
	Values  []string
	Size    int64
	// Removed is the value taken out by a delete.
	Removed string
	// Index is the search result or the requested insert position, -1 otherwise.
	Index int64
	Err   error
}

func (s Snapshot) OK() bool {
	return s.Err == nil
}

// Message turns the snapshot into the line shown to the learner.
func (s Snapshot) Message() string {
	switch {
	case errors.Is(s.Err, list.ErrOutOfRange):
		return fmt.Sprintf("index %d is out of range, valid positions are [0, %d]", s.Index, s.Size)
	case errors.Is(s.Err, list.ErrEmptyCollection):
		return "the list is empty, there is nothing to delete"
	case errors.Is(s.Err, list.ErrValueNotFound):
		return "value not found"
	case s.Err != nil:
		return s.Err.Error()
	default:
	}

	switch s.Op {
	case OpCreate:
		return fmt.Sprintf("created an empty %s linked list", s.Variant)
	case OpClear:
		return "list cleared"
	case OpInsertBegin, OpInsertEnd, OpInsertAt:
		return fmt.Sprintf("inserted, size=%d", s.Size)
	case OpDeleteBegin, OpDeleteEnd, OpDeleteValue:
		return fmt.Sprintf("removed %s, size=%d", s.Removed, s.Size)
	case OpSearch:
		return fmt.Sprintf("found at index %d", s.Index)
	case OpSize:
		return fmt.Sprintf("size=%d", s.Size)
	default:
	}
	return "[" + strings.Join(s.Values, ", ") + "]"
}

// Render draws the chain, e.g. "[a] -> [b] -> nil". A chain cut short
// by a traverse bound ends with "...".
func (s Snapshot) Render() string {
	if len(s.Values) == 0 {
		return "(empty)"
	}
	boxes := make([]string, 0, len(s.Values))
	for _, v := range s.Values {
		boxes = append(boxes, "["+v+"]")
	}
	truncated := int64(len(s.Values)) < s.Size
	switch s.Variant {
	case list.Doubly:
		if truncated {
			return "nil <- " + strings.Join(boxes, " <-> ") + " <-> ..."
		}
		return "nil <- " + strings.Join(boxes, " <-> ") + " -> nil"
	case list.Circular:
		if truncated {
			return strings.Join(boxes, " -> ") + " -> ..."
		}
		return strings.Join(boxes, " -> ") + " -> (head)"
	default:
	}
	if truncated {
		return strings.Join(boxes, " -> ") + " -> ..."
	}
	return strings.Join(boxes, " -> ") + " -> nil"
}
