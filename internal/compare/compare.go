// Package compare holds the total orders used by the sort engine.
//
// Raw comparators work on payload values. Node comparators unwrap a
// chain.Node and delegate. Select picks the node comparator for a class once,
// so the sort engine never inspects payload types itself.
package compare

import (
	"cmp"
	"fmt"

	"github.com/roach88/filesort/internal/chain"
)

// Comparator is a three-way order over two nodes of the same variant.
// Negative means a sorts before b, zero means equal, positive means after.
type Comparator func(a, b *chain.Node) int

// Ints compares two integers without overflowing.
func Ints(a, b int32) int {
	return cmp.Compare(a, b)
}

// Bytes compares two byte strings lexicographically.
//
// A nil slice is an absent string. Two absent strings are equal. An absent
// string sorts before any present one, including an empty one. When one side
// runs out first, the first remaining byte of the other side gives the
// magnitude and the shorter side sorts first.
func Bytes(a, b []byte) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -presentWeight(b)
	case b == nil:
		return presentWeight(a)
	}

	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if d := int(a[i]) - int(b[i]); d != 0 {
			return d
		}
	}

	switch {
	case len(a) > n:
		return int(a[n])
	case len(b) > n:
		return -int(b[n])
	default:
		return 0
	}
}

// presentWeight is the magnitude of a present string against an absent one:
// its first byte, or 1 when it is empty so the result stays non-zero.
func presentWeight(s []byte) int {
	if len(s) == 0 || s[0] == 0 {
		return 1
	}
	return int(s[0])
}

// IntNodes orders two Int nodes.
func IntNodes(a, b *chain.Node) int {
	return Ints(intOf(a), intOf(b))
}

// StrNodes orders two Str nodes.
func StrNodes(a, b *chain.Node) int {
	return Bytes(strOf(a), strOf(b))
}

// Select returns StrNodes for Textual runs and IntNodes otherwise.
func Select(class chain.Class) Comparator {
	if class == chain.Textual {
		return StrNodes
	}
	return IntNodes
}

// Reverse inverts a comparator.
func Reverse(c Comparator) Comparator {
	return func(a, b *chain.Node) int {
		return c(b, a)
	}
}

func intOf(n *chain.Node) int32 {
	v, ok := n.Value.(chain.Int)
	if !ok {
		panic(fmt.Sprintf("compare: IntNodes called on %T payload", n.Value))
	}
	return int32(v)
}

func strOf(n *chain.Node) []byte {
	v, ok := n.Value.(chain.Str)
	if !ok {
		panic(fmt.Sprintf("compare: StrNodes called on %T payload", n.Value))
	}
	if v == nil {
		// A Str node is always present, even when it holds no bytes.
		return []byte{}
	}
	return []byte(v)
}
