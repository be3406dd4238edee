package list

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCircularLinkedList_TraverseStopsAtSize(t *testing.T) {
	clist := NewCircularLinkedList[int]()
	clist.InsertAtEnd(10)
	clist.InsertAtEnd(20)
	clist.InsertAtEnd(30)
	require.Equal(t, []int{10, 20, 30}, clist.Traverse(20))
	require.Equal(t, []int{10}, clist.Traverse(1))
}

func TestCircularLinkedList_Closure(t *testing.T) {
	clist := NewCircularLinkedList[int]().(*circularLinkedList[int])

	clist.InsertAtEnd(1)
	require.Same(t, clist.head, clist.head.next)

	clist.InsertAtBeginning(0)
	clist.InsertAtEnd(2)
	require.Equal(t, []int{0, 1, 2}, clist.Traverse())
	checkInvariants[int](t, clist)

	head := clist.head
	iterator := head
	for i := int64(0); i < clist.Len(); i++ {
		iterator = iterator.next
	}
	require.Same(t, head, iterator)

	v, err := clist.DeleteFromEnd()
	require.NoError(t, err)
	require.Equal(t, 2, v)
	v, err = clist.DeleteFromBeginning()
	require.NoError(t, err)
	require.Equal(t, 0, v)
	// A singleton points to itself.
	require.Same(t, clist.head, clist.head.next)
	checkInvariants[int](t, clist)

	v, err = clist.DeleteFromBeginning()
	require.NoError(t, err)
	require.Equal(t, 1, v)
	require.Nil(t, clist.head)
}

func TestCircularLinkedList_ScansAreBounded(t *testing.T) {
	clist := NewCircularLinkedList[string]()
	for _, v := range []string{"a", "b", "c"} {
		clist.InsertAtEnd(v)
	}
	// Absent values must not loop forever.
	_, err := clist.Search("z")
	require.ErrorIs(t, err, ErrValueNotFound)
	require.ErrorIs(t, clist.DeleteByValue("z"), ErrValueNotFound)

	visited := 0
	require.NoError(t, clist.Foreach(func(idx int64, v string) error {
		visited++
		return nil
	}))
	require.Equal(t, 3, visited)

	require.NoError(t, clist.DeleteByValue("c"))
	require.NoError(t, clist.DeleteByValue("a"))
	require.Equal(t, []string{"b"}, clist.Traverse(10))
	checkInvariants(t, clist)
}
