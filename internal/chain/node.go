package chain

import (
	"fmt"
	"strconv"
)

// Payload is a sealed interface over the values a Node can hold.
// Only Int, Str and Char implement it.
type Payload interface {
	payload() // Sealed - only these types implement it
}

// Int is a numeric token value.
type Int int32

func (Int) payload() {}

// Str is a textual token value. The node owns the bytes.
type Str []byte

func (Str) payload() {}

// Char is a single accumulated byte. Char nodes only exist inside the
// classifier's accumulation buffer.
type Char byte

func (Char) payload() {}

// Class is the type flag of a tokenized run. The zero value is Textual.
type Class int

const (
	// Textual marks a run whose first token began with an ASCII letter.
	Textual Class = iota
	// Numeric marks a run whose first token began with an ASCII digit.
	Numeric
)

// String returns "string" or "numeric".
func (c Class) String() string {
	switch c {
	case Textual:
		return "string"
	case Numeric:
		return "numeric"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// ParseClass is the inverse of Class.String.
func ParseClass(s string) (Class, error) {
	switch s {
	case "string":
		return Textual, nil
	case "numeric":
		return Numeric, nil
	default:
		return Textual, fmt.Errorf("unknown class %q", s)
	}
}

// Node is one element of a chain.
type Node struct {
	Value Payload
	Next  *Node
}

// NewInt creates a detached node holding an Int.
func NewInt(n int32) *Node {
	return &Node{Value: Int(n)}
}

// NewStr creates a detached node holding a Str. The bytes are copied.
func NewStr(s string) *Node {
	return &Node{Value: Str(s)}
}

// NewChar creates a detached node holding a Char.
func NewChar(c byte) *Node {
	return &Node{Value: Char(c)}
}

// String renders the payload the way the printer does: Int as decimal,
// Str and Char as their raw bytes.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch v := n.Value.(type) {
	case Int:
		return strconv.FormatInt(int64(v), 10)
	case Str:
		return string(v)
	case Char:
		return string([]byte{byte(v)})
	default:
		return fmt.Sprintf("<unknown payload %T>", n.Value)
	}
}

// Payloads returns the payloads of a chain as plain Go values in chain order:
// int32 for Int, string for Str and Char. Used by printers and tests.
func Payloads(head *Node) []any {
	out := make([]any, 0, Len(head))
	for n := head; n != nil; n = n.Next {
		switch v := n.Value.(type) {
		case Int:
			out = append(out, int32(v))
		case Str:
			out = append(out, string(v))
		case Char:
			out = append(out, string([]byte{byte(v)}))
		}
	}
	return out
}
