package list

import (
	"container/list"
	randv2 "math/rand/v2"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestDoublyLinkedList_TraverseBothWays(t *testing.T) {
	dlist := NewDoublyLinkedList[int]()
	dlist.InsertAtEnd(1)
	dlist.InsertAtEnd(2)
	dlist.InsertAtEnd(3)
	require.Equal(t, []int{1, 2, 3}, dlist.TraverseForward())
	require.Equal(t, []int{3, 2, 1}, dlist.TraverseBackward())
}

func TestDoublyLinkedList_CompareWithSDK(t *testing.T) {
	dlist := NewDoublyLinkedList[int]()
	dlist2 := list.New()
	checkItems := func() {
		require.Equal(t, int64(dlist2.Len()), dlist.Len())
		expected := make([]int, 0, dlist2.Len())
		for e := dlist2.Front(); e != nil; e = e.Next() {
			expected = append(expected, e.Value.(int))
		}
		require.Equal(t, expected, dlist.TraverseForward())
		require.Equal(t, lo.Reverse(expected), dlist.TraverseBackward())
		checkInvariants[int](t, dlist)
	}

	rng := randv2.New(randv2.NewPCG(7, 11))
	for i := 0; i < 1000; i++ {
		v := rng.IntN(100)
		switch rng.IntN(4) {
		case 0:
			dlist.InsertAtBeginning(v)
			dlist2.PushFront(v)
		case 1:
			dlist.InsertAtEnd(v)
			dlist2.PushBack(v)
		case 2:
			got, err := dlist.DeleteFromBeginning()
			if front := dlist2.Front(); front != nil {
				require.NoError(t, err)
				require.Equal(t, dlist2.Remove(front), got)
			} else {
				require.ErrorIs(t, err, ErrEmptyCollection)
			}
		case 3:
			got, err := dlist.DeleteFromEnd()
			if back := dlist2.Back(); back != nil {
				require.NoError(t, err)
				require.Equal(t, dlist2.Remove(back), got)
			} else {
				require.ErrorIs(t, err, ErrEmptyCollection)
			}
		}
		checkItems()
	}
}

func TestDoublyLinkedList_RemovedNodeReleased(t *testing.T) {
	dlist := NewDoublyLinkedList[int]().(*doublyLinkedList[int])
	for i := 1; i <= 5; i++ {
		dlist.InsertAtEnd(i)
	}
	head, middle, tail := dlist.head, dlist.head.next.next, dlist.tail

	require.NoError(t, dlist.DeleteByValue(3))
	_, _ = dlist.DeleteFromBeginning()
	_, _ = dlist.DeleteFromEnd()
	require.Equal(t, []int{2, 4}, dlist.TraverseForward())

	for _, e := range []*doublyNode[int]{head, middle, tail} {
		require.Nil(t, e.prev)
		require.Nil(t, e.next)
	}
}

func TestDoublyLinkedList_InsertAtIndexFromBothEnds(t *testing.T) {
	dlist := NewDoublyLinkedList[int]()
	for i := 0; i < 10; i++ {
		dlist.InsertAtEnd(i * 10)
	}
	_, err := dlist.InsertAtIndex(15, 2)
	require.NoError(t, err)
	_, err = dlist.InsertAtIndex(85, 9)
	require.NoError(t, err)
	require.Equal(t, []int{0, 10, 15, 20, 30, 40, 50, 60, 70, 85, 80, 90}, dlist.TraverseForward())
	require.Equal(t, lo.Reverse(dlist.TraverseForward()), dlist.TraverseBackward())
	checkInvariants[int](t, dlist)
}

func BenchmarkDoublyLinkedList_InsertAtEnd(b *testing.B) {
	dlist := NewDoublyLinkedList[int]()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		dlist.InsertAtEnd(i)
	}
	b.ReportAllocs()
}

func BenchmarkSDKLinkedList_PushBack(b *testing.B) {
	dlist := list.New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		dlist.PushBack(i)
	}
	b.ReportAllocs()
}
