// Package sorter sorts chains by rewiring Next links.
//
// Every function takes ownership of the chain rooted at head and returns the
// head of the sorted chain. The nodes are the same instances; payloads are
// never copied and no node is allocated.
package sorter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/filesort/internal/chain"
	"github.com/roach88/filesort/internal/compare"
)

// Func is the shape shared by every algorithm in this package.
type Func func(head *chain.Node, cmp compare.Comparator) *chain.Node

// Algorithm names accepted by Lookup.
const (
	Insertion = "insertion"
	Quick     = "quick"
)

var registry = map[string]Func{
	Insertion: InsertionSort,
	Quick:     Quicksort,
}

// Names returns the registered algorithm names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the algorithm registered under name.
func Lookup(name string) (Func, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown algorithm %q: must be one of %s", name, strings.Join(Names(), ", "))
	}
	return fn, nil
}

// InsertionSort grows a sorted prefix at the front of the chain. Each node,
// taken in input order, is moved in front of the first prefix node that
// compares strictly greater than it, so equal nodes keep their input order.
//
// The prefix is always scanned from its start: O(n²) for every input.
func InsertionSort(head *chain.Node, cmp compare.Comparator) *chain.Node {
	if head == nil {
		return nil
	}

	last := head // tail of the sorted prefix
	for last.Next != nil {
		node := last.Next

		var prev *chain.Node
		at := head
		for at != node && cmp(node, at) >= 0 {
			prev = at
			at = at.Next
		}

		if at == node {
			// Already in place.
			last = node
			continue
		}

		last.Next = node.Next
		node.Next = at
		if prev == nil {
			head = node
		} else {
			prev.Next = node
		}
	}

	return head
}

// Quicksort detaches the head as pivot, partitions the rest into nodes that
// compare less-or-equal to it and nodes that compare greater, sorts both
// partitions recursively and returns lte ++ pivot ++ gt.
//
// The pivot is always the head, so already-sorted or reversed input takes
// O(n²) time and recursion depth n. Use BoundedQuicksort for large or
// untrusted input.
func Quicksort(head *chain.Node, cmp compare.Comparator) *chain.Node {
	return quicksort(head, cmp, -1)
}

// BoundedQuicksort returns a quicksort whose recursion stops at maxDepth.
// Partitions reached at that depth are finished with InsertionSort.
// A negative maxDepth means no bound.
func BoundedQuicksort(maxDepth int) Func {
	return func(head *chain.Node, cmp compare.Comparator) *chain.Node {
		return quicksort(head, cmp, maxDepth)
	}
}

func quicksort(head *chain.Node, cmp compare.Comparator, depth int) *chain.Node {
	if head == nil || head.Next == nil {
		return head
	}
	if depth == 0 {
		return InsertionSort(head, cmp)
	}

	pivot := head
	lte, gt := partition(pivot, cmp)

	left := quicksort(lte, cmp, depth-1)
	pivot.Next = quicksort(gt, cmp, depth-1)
	return chain.Concat(left, pivot)
}

// partition splits the nodes after pivot into two chains, preserving their
// relative order. pivot is left detached.
func partition(pivot *chain.Node, cmp compare.Comparator) (lte, gt *chain.Node) {
	var le, g chain.Builder

	rest := pivot.Next
	pivot.Next = nil
	for rest != nil {
		next := rest.Next
		if cmp(rest, pivot) <= 0 {
			le.Push(rest)
		} else {
			g.Push(rest)
		}
		rest = next
	}

	return le.Head(), g.Head()
}
