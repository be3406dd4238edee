package list

var _ DoublyListEngine[struct{}] = (*doublyLinkedList[struct{}])(nil) // Type check assertion

type doublyNode[T comparable] struct {
	prev, next *doublyNode[T]
	value      T
}

type nodeInListStatus uint8

const (
	theOnlyOne nodeInListStatus = iota
	theFirstButNotTheLast
	theLastButNotTheFirst
	inMiddle
)

// The head.prev and tail.next are always nil. The prev link is only a
// back reference for traversal, the chain is owned through next.
type doublyLinkedList[T comparable] struct {
	head, tail *doublyNode[T]
	len        int64
	mods       uint64
}

func NewDoublyLinkedList[T comparable]() DoublyListEngine[T] {
	return &doublyLinkedList[T]{}
}

func (l *doublyLinkedList[T]) Variant() Variant {
	return Doubly
}

func (l *doublyLinkedList[T]) Len() int64 {
	return l.len
}

func (l *doublyLinkedList[T]) status(e *doublyNode[T]) nodeInListStatus {
	// mem address compare
	switch {
	case e == l.head && e == l.tail:
		return theOnlyOne
	case e == l.head:
		return theFirstButNotTheLast
	case e == l.tail:
		return theLastButNotTheFirst
	default:
	}
	return inMiddle
}

// nodeAt walks from the nearer end. The idx must be in [0, len).
func (l *doublyLinkedList[T]) nodeAt(idx int64) *doublyNode[T] {
	if idx < l.len>>1 {
		iterator := l.head
		for i := int64(0); i < idx; i++ {
			iterator = iterator.next
		}
		return iterator
	}
	iterator := l.tail
	for i := l.len - 1; i > idx; i-- {
		iterator = iterator.prev
	}
	return iterator
}

func (l *doublyLinkedList[T]) InsertAtBeginning(v T) int64 {
	e := &doublyNode[T]{value: v, next: l.head}
	if l.head == nil {
		l.tail = e
	} else {
		l.head.prev = e
	}
	l.head = e
	l.len++
	l.mods++
	return l.len
}

func (l *doublyLinkedList[T]) InsertAtEnd(v T) int64 {
	e := &doublyNode[T]{value: v, prev: l.tail}
	if l.tail == nil {
		l.head = e
	} else {
		l.tail.next = e
	}
	l.tail = e
	l.len++
	l.mods++
	return l.len
}

func (l *doublyLinkedList[T]) InsertAtIndex(v T, idx int64) (int64, error) {
	switch {
	case idx < 0 || idx > l.len:
		return l.len, ErrOutOfRange
	case idx == 0:
		return l.InsertAtBeginning(v), nil
	case idx == l.len:
		return l.InsertAtEnd(v), nil
	default:
	}
	// Insert before the node at idx, it is neither the head nor nil.
	at := l.nodeAt(idx)
	e := &doublyNode[T]{value: v, prev: at.prev, next: at}
	at.prev.next = e
	at.prev = e
	l.len++
	l.mods++
	return l.len, nil
}

func (l *doublyLinkedList[T]) remove(at *doublyNode[T]) T {
	switch l.status(at) {
	case theOnlyOne:
		l.head, l.tail = nil, nil
	case theFirstButNotTheLast:
		l.head = at.next
		l.head.prev = nil
	case theLastButNotTheFirst:
		l.tail = at.prev
		l.tail.next = nil
	case inMiddle:
		at.prev.next = at.next
		at.next.prev = at.prev
	}
	// avoid memory leaks
	at.prev, at.next = nil, nil
	l.len--
	l.mods++
	return at.value
}

func (l *doublyLinkedList[T]) DeleteFromBeginning() (T, error) {
	if l.head == nil {
		return *new(T), ErrEmptyCollection
	}
	return l.remove(l.head), nil
}

func (l *doublyLinkedList[T]) DeleteFromEnd() (T, error) {
	if l.tail == nil {
		return *new(T), ErrEmptyCollection
	}
	return l.remove(l.tail), nil
}

func (l *doublyLinkedList[T]) find(v T) (*doublyNode[T], int64) {
	var idx int64
	for iterator := l.head; iterator != nil; iterator = iterator.next {
		if iterator.value == v {
			return iterator, idx
		}
		idx++
	}
	return nil, -1
}

func (l *doublyLinkedList[T]) DeleteByValue(v T) error {
	at, _ := l.find(v)
	if at == nil {
		return ErrValueNotFound
	}
	l.remove(at)
	return nil
}

func (l *doublyLinkedList[T]) Search(v T) (int64, error) {
	if at, idx := l.find(v); at != nil {
		return idx, nil
	}
	return -1, ErrValueNotFound
}

func (l *doublyLinkedList[T]) Traverse(max ...int64) []T {
	bound := traverseBound(l.len, max)
	values := make([]T, 0, bound)
	for iterator := l.head; iterator != nil && int64(len(values)) < bound; iterator = iterator.next {
		values = append(values, iterator.value)
	}
	return values
}

func (l *doublyLinkedList[T]) TraverseForward() []T {
	return l.Traverse()
}

func (l *doublyLinkedList[T]) TraverseBackward() []T {
	values := make([]T, 0, l.len)
	for iterator := l.tail; iterator != nil; iterator = iterator.prev {
		values = append(values, iterator.value)
	}
	return values
}

// Foreach allows the fn to delete the visited value. Any other mutation
// from fn ends the walk with ErrModifiedInForeach.
func (l *doublyLinkedList[T]) Foreach(fn func(idx int64, v T) error) error {
	if fn == nil {
		return nil
	}
	var idx int64
	for iterator := l.head; iterator != nil; idx++ {
		next, mods, size := iterator.next, l.mods, l.len
		if err := fn(idx, iterator.value); err != nil {
			return err
		}
		if l.mods != mods && (l.mods != mods+1 || l.len != size-1 || !l.detached(iterator)) {
			return ErrModifiedInForeach
		}
		iterator = next
	}
	return nil
}

// detached reports whether e has been removed from the list.
func (l *doublyLinkedList[T]) detached(e *doublyNode[T]) bool {
	return e.prev == nil && e.next == nil && l.head != e
}

func (l *doublyLinkedList[T]) Clear() {
	for l.head != nil {
		n := l.head
		l.head = n.next
		n.prev, n.next = nil, nil
	}
	l.tail = nil
	l.len = 0
	l.mods++
}
