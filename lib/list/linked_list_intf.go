package list

import "strings"

// Note that none of the linked lists are thread safe.
// A list is owned by exactly one playground session and every
// operation runs to completion before the next one starts.

type Variant uint8

const (
	Singly Variant = iota
	Doubly
	Circular
	_variantMax
)

var variantNames = [_variantMax]string{
	Singly:   "singly",
	Doubly:   "doubly",
	Circular: "circular",
}

func (v Variant) String() string {
	if v >= _variantMax {
		return "unknown"
	}
	return variantNames[v]
}

func ParseVariant(name string) (Variant, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for v := Singly; v < _variantMax; v++ {
		if variantNames[v] == name {
			return v, nil
		}
	}
	return _variantMax, ErrUnknownVariant
}

// Variants returns all supported variants in declaration order.
func Variants() []Variant {
	return []Variant{Singly, Doubly, Circular}
}

type ListErr string

const (
	// ErrOutOfRange is returned by indexed insertion outside [0, Len()].
	ErrOutOfRange ListErr = "index out of range"
	// ErrEmptyCollection is returned by deletion on an empty list.
	ErrEmptyCollection ListErr = "list is empty"
	// ErrValueNotFound is returned by search and delete-by-value.
	ErrValueNotFound  ListErr = "value not found"
	ErrUnknownVariant ListErr = "unknown linked list variant"
	// ErrModifiedInForeach is returned by Foreach when fn mutates the list
	// other than deleting the visited value.
	ErrModifiedInForeach ListErr = "list modified during foreach"
)

func (err ListErr) Error() string {
	return string(err)
}

// ListEngine is the operation surface shared by all variants.
// Failed operations never mutate the list.
type ListEngine[T comparable] interface {
	Variant() Variant
	// Len returns the number of nodes in O(1).
	Len() int64
	// InsertAtBeginning links a new node before the head and returns the new length.
	InsertAtBeginning(v T) int64
	// InsertAtEnd links a new node after the last node and returns the new length.
	InsertAtEnd(v T) int64
	// InsertAtIndex inserts v so that it becomes the element at idx.
	// The idx must be in [0, Len()], otherwise ErrOutOfRange.
	InsertAtIndex(v T, idx int64) (int64, error)
	DeleteFromBeginning() (T, error)
	DeleteFromEnd() (T, error)
	// DeleteByValue removes the first node whose value equals v.
	DeleteByValue(v T) error
	// Search returns the index of the first node whose value equals v.
	Search(v T) (int64, error)
	// Traverse returns the values from head to the natural end.
	// A positive max bounds the number of values. The circular list
	// never returns more than Len() values whatever the bound is.
	Traverse(max ...int64) []T
	// Foreach visits the values in order and stops at the first error fn returns.
	Foreach(fn func(idx int64, v T) error) error
	// Clear discards every node.
	Clear()
}

// DoublyListEngine is the doubly linked list which is able to walk backward.
type DoublyListEngine[T comparable] interface {
	ListEngine[T]
	TraverseForward() []T
	TraverseBackward() []T
}

func NewListEngine[T comparable](variant Variant) (ListEngine[T], error) {
	switch variant {
	case Singly:
		return NewSinglyLinkedList[T](), nil
	case Doubly:
		return NewDoublyLinkedList[T](), nil
	case Circular:
		return NewCircularLinkedList[T](), nil
	default:
	}
	return nil, ErrUnknownVariant
}

func traverseBound(length int64, max []int64) int64 {
	if len(max) > 0 && max[0] > 0 && max[0] < length {
		return max[0]
	}
	return length
}
