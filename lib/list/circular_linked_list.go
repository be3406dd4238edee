package list

var _ ListEngine[struct{}] = (*circularLinkedList[struct{}])(nil) // Type check assertion

// circularLinkedList is a singly linked ring, the last node links back
// to the head. There is no nil sentinel to stop at, so every scan counts
// the visited nodes and stops after len steps.
type circularLinkedList[T comparable] struct {
	head *singlyNode[T]
	len  int64
	mods uint64
}

func NewCircularLinkedList[T comparable]() ListEngine[T] {
	return &circularLinkedList[T]{}
}

func (l *circularLinkedList[T]) Variant() Variant {
	return Circular
}

func (l *circularLinkedList[T]) Len() int64 {
	return l.len
}

// nodeAt walks idx steps from the head. The idx must be in [0, len).
func (l *circularLinkedList[T]) nodeAt(idx int64) *singlyNode[T] {
	iterator := l.head
	for i := int64(0); i < idx; i++ {
		iterator = iterator.next
	}
	return iterator
}

// last returns the node whose next is the head.
func (l *circularLinkedList[T]) last() *singlyNode[T] {
	return l.nodeAt(l.len - 1)
}

func (l *circularLinkedList[T]) insertIntoEmpty(v T) int64 {
	e := &singlyNode[T]{value: v}
	e.next = e
	l.head = e
	l.len = 1
	l.mods++
	return l.len
}

// InsertAtBeginning runs in O(1) without looking for the last node:
// a node is spliced in right after the head and takes over the head's
// value, then the head carries v.
func (l *circularLinkedList[T]) InsertAtBeginning(v T) int64 {
	if l.head == nil {
		return l.insertIntoEmpty(v)
	}
	l.head.next = &singlyNode[T]{value: l.head.value, next: l.head.next}
	l.head.value = v
	l.len++
	l.mods++
	return l.len
}

func (l *circularLinkedList[T]) InsertAtEnd(v T) int64 {
	if l.head == nil {
		return l.insertIntoEmpty(v)
	}
	last := l.last()
	last.next = &singlyNode[T]{value: v, next: l.head}
	l.len++
	l.mods++
	return l.len
}

func (l *circularLinkedList[T]) InsertAtIndex(v T, idx int64) (int64, error) {
	switch {
	case idx < 0 || idx > l.len:
		return l.len, ErrOutOfRange
	case idx == 0:
		return l.InsertAtBeginning(v), nil
	case idx == l.len:
		return l.InsertAtEnd(v), nil
	default:
	}
	prev := l.nodeAt(idx - 1)
	prev.next = &singlyNode[T]{value: v, next: prev.next}
	l.len++
	l.mods++
	return l.len, nil
}

// unlink removes at whose predecessor is prev and repairs the closure.
func (l *circularLinkedList[T]) unlink(prev, at *singlyNode[T]) T {
	if l.len == 1 {
		l.head = nil
	} else {
		prev.next = at.next
		if at == l.head {
			l.head = at.next
		}
	}
	at.next = nil // avoid memory leaks
	l.len--
	l.mods++
	return at.value
}

func (l *circularLinkedList[T]) DeleteFromBeginning() (T, error) {
	if l.head == nil {
		return *new(T), ErrEmptyCollection
	}
	return l.unlink(l.last(), l.head), nil
}

func (l *circularLinkedList[T]) DeleteFromEnd() (T, error) {
	switch l.len {
	case 0:
		return *new(T), ErrEmptyCollection
	case 1:
		return l.unlink(l.head, l.head), nil
	default:
	}
	prev := l.nodeAt(l.len - 2)
	return l.unlink(prev, prev.next), nil
}

func (l *circularLinkedList[T]) DeleteByValue(v T) error {
	if l.head == nil {
		return ErrValueNotFound
	}
	prev, iterator := l.last(), l.head
	for i := int64(0); i < l.len; i++ {
		if iterator.value == v {
			l.unlink(prev, iterator)
			return nil
		}
		prev, iterator = iterator, iterator.next
	}
	return ErrValueNotFound
}

func (l *circularLinkedList[T]) Search(v T) (int64, error) {
	iterator := l.head
	for i := int64(0); i < l.len; i++ {
		if iterator.value == v {
			return i, nil
		}
		iterator = iterator.next
	}
	return -1, ErrValueNotFound
}

// Traverse never returns more than len values. If the max is larger
// than len, it stops once the head would be revisited.
func (l *circularLinkedList[T]) Traverse(max ...int64) []T {
	bound := traverseBound(l.len, max)
	values := make([]T, 0, bound)
	iterator := l.head
	for i := int64(0); i < bound; i++ {
		values = append(values, iterator.value)
		iterator = iterator.next
	}
	return values
}

// Foreach is bounded by the length captured before the first visit.
// The fn may delete the visited value, a node in the ring never links
// to nil so the removed one is recognized by its cleared next. Any other
// mutation from fn ends the walk with ErrModifiedInForeach.
func (l *circularLinkedList[T]) Foreach(fn func(idx int64, v T) error) error {
	if fn == nil || l.head == nil {
		return nil
	}
	var (
		bound    = l.len
		iterator = l.head
	)
	for idx := int64(0); idx < bound; idx++ {
		next, mods, size := iterator.next, l.mods, l.len
		if err := fn(idx, iterator.value); err != nil {
			return err
		}
		if l.mods != mods && (l.mods != mods+1 || l.len != size-1 || iterator.next != nil) {
			return ErrModifiedInForeach
		}
		iterator = next
	}
	return nil
}

func (l *circularLinkedList[T]) Clear() {
	iterator := l.head
	for i := int64(0); i < l.len; i++ {
		next := iterator.next
		iterator.next = nil
		iterator = next
	}
	l.head = nil
	l.len = 0
	l.mods++
}
