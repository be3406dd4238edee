package list

var _ ListEngine[struct{}] = (*singlyLinkedList[struct{}])(nil) // Type check assertion

// singlyNode is shared by the singly and the circular linked list.
type singlyNode[T comparable] struct {
	next  *singlyNode[T]
	value T
}

type singlyLinkedList[T comparable] struct {
	head *singlyNode[T]
	len  int64
	mods uint64
}

func NewSinglyLinkedList[T comparable]() ListEngine[T] {
	return &singlyLinkedList[T]{}
}

func (l *singlyLinkedList[T]) Variant() Variant {
	return Singly
}

func (l *singlyLinkedList[T]) Len() int64 {
	return l.len
}

// nodeAt walks idx steps from the head. The idx must be in [0, len).
func (l *singlyLinkedList[T]) nodeAt(idx int64) *singlyNode[T] {
	iterator := l.head
	for i := int64(0); i < idx; i++ {
		iterator = iterator.next
	}
	return iterator
}

func (l *singlyLinkedList[T]) InsertAtBeginning(v T) int64 {
	l.head = &singlyNode[T]{value: v, next: l.head}
	l.len++
	l.mods++
	return l.len
}

func (l *singlyLinkedList[T]) InsertAtEnd(v T) int64 {
	if l.head == nil {
		return l.InsertAtBeginning(v)
	}
	last := l.nodeAt(l.len - 1)
	last.next = &singlyNode[T]{value: v}
	l.len++
	l.mods++
	return l.len
}

func (l *singlyLinkedList[T]) InsertAtIndex(v T, idx int64) (int64, error) {
	if idx < 0 || idx > l.len {
		return l.len, ErrOutOfRange
	}
	if idx == 0 {
		return l.InsertAtBeginning(v), nil
	}
	prev := l.nodeAt(idx - 1)
	prev.next = &singlyNode[T]{value: v, next: prev.next}
	l.len++
	l.mods++
	return l.len, nil
}

func (l *singlyLinkedList[T]) DeleteFromBeginning() (T, error) {
	if l.head == nil {
		return *new(T), ErrEmptyCollection
	}
	first := l.head
	l.head = first.next
	first.next = nil // avoid memory leaks
	l.len--
	l.mods++
	return first.value, nil
}

func (l *singlyLinkedList[T]) DeleteFromEnd() (T, error) {
	if l.len <= 1 {
		return l.DeleteFromBeginning()
	}
	prev := l.nodeAt(l.len - 2)
	last := prev.next
	prev.next = nil
	l.len--
	l.mods++
	return last.value, nil
}

func (l *singlyLinkedList[T]) DeleteByValue(v T) error {
	var prev *singlyNode[T]
	for iterator := l.head; iterator != nil; prev, iterator = iterator, iterator.next {
		if iterator.value != v {
			continue
		}
		if prev == nil {
			l.head = iterator.next
		} else {
			prev.next = iterator.next
		}
		iterator.next = nil
		l.len--
		l.mods++
		return nil
	}
	return ErrValueNotFound
}

func (l *singlyLinkedList[T]) Search(v T) (int64, error) {
	var idx int64
	for iterator := l.head; iterator != nil; iterator = iterator.next {
		if iterator.value == v {
			return idx, nil
		}
		idx++
	}
	return -1, ErrValueNotFound
}

func (l *singlyLinkedList[T]) Traverse(max ...int64) []T {
	bound := traverseBound(l.len, max)
	values := make([]T, 0, bound)
	for iterator := l.head; iterator != nil && int64(len(values)) < bound; iterator = iterator.next {
		values = append(values, iterator.value)
	}
	return values
}

// Foreach allows the fn to delete the visited value. Any other mutation
// from fn ends the walk with ErrModifiedInForeach.
func (l *singlyLinkedList[T]) Foreach(fn func(idx int64, v T) error) error {
	if fn == nil {
		return nil
	}
	var (
		idx  int64
		prev *singlyNode[T]
	)
	for iterator := l.head; iterator != nil; idx++ {
		next, mods, size := iterator.next, l.mods, l.len
		if err := fn(idx, iterator.value); err != nil {
			return err
		}
		switch {
		case l.mods == mods:
			prev = iterator
		case l.mods == mods+1 && l.len == size-1 && l.successor(prev) == next:
			// The visited node is gone, prev is still its predecessor.
		default:
			return ErrModifiedInForeach
		}
		iterator = next
	}
	return nil
}

func (l *singlyLinkedList[T]) successor(prev *singlyNode[T]) *singlyNode[T] {
	if prev == nil {
		return l.head
	}
	return prev.next
}

func (l *singlyLinkedList[T]) Clear() {
	for l.head != nil {
		n := l.head
		l.head = n.next
		n.next = nil
	}
	l.len = 0
	l.mods++
}
