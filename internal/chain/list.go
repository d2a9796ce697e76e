package chain

// Len counts the nodes reachable from head.
func Len(head *Node) int {
	count := 0
	for n := head; n != nil; n = n.Next {
		count++
	}
	return count
}

// Tail returns the last node of the chain, or nil for an empty chain.
func Tail(head *Node) *Node {
	if head == nil {
		return nil
	}
	n := head
	for n.Next != nil {
		n = n.Next
	}
	return n
}

// Append links node after the current tail of head and returns the head.
// Appending to an empty chain returns node.
func Append(head, node *Node) *Node {
	if head == nil {
		return node
	}
	Tail(head).Next = node
	return head
}

// Concat links the chains left and right, in that order, and returns the
// combined head. Either side may be empty. No nodes are allocated.
func Concat(left, right *Node) *Node {
	return Append(left, right)
}

// Builder accumulates nodes at the tail of a chain in O(1) per push.
// The zero value is an empty chain.
type Builder struct {
	head *Node
	tail *Node
	n    int
}

// Push detaches node from whatever followed it and appends it.
func (b *Builder) Push(node *Node) {
	node.Next = nil
	if b.tail == nil {
		b.head = node
	} else {
		b.tail.Next = node
	}
	b.tail = node
	b.n++
}

// Head returns the first node, or nil if nothing was pushed.
func (b *Builder) Head() *Node {
	return b.head
}

// Len returns the number of pushed nodes.
func (b *Builder) Len() int {
	return b.n
}

// Empty reports whether nothing has been pushed since the last Reset.
func (b *Builder) Empty() bool {
	return b.head == nil
}

// Reset drops the accumulated chain. The nodes are not modified.
func (b *Builder) Reset() {
	*b = Builder{}
}

// Bytes concatenates the payload bytes of a chain of Char nodes.
// Nodes of any other variant contribute nothing.
func Bytes(head *Node) []byte {
	buf := make([]byte, 0, Len(head))
	for n := head; n != nil; n = n.Next {
		if c, ok := n.Value.(Char); ok {
			buf = append(buf, byte(c))
		}
	}
	return buf
}
