// Package classify turns a comma-separated byte stream into a typed chain.
//
// The first alphanumeric byte of the stream fixes the run's class for good:
// a letter makes every token a chain.Str, a digit makes every token a
// chain.Int. Later tokens of the other lexical class are coerced into the
// chosen representation rather than classified on their own.
package classify

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/roach88/filesort/internal/chain"
)

// Separator ends a token.
const Separator = ','

// Result is the output of Tokenize.
type Result struct {
	Class chain.Class
	Head  *chain.Node
	Stats Stats
}

// Stats counts what the tokenizer saw.
type Stats struct {
	BytesRead       int // every byte consumed, including separators
	Tokens          int // tokens appended to the output chain
	Whitespace      int // '\n', ' ' and '\t' bytes
	Ignored         int // bytes matching no class
	EmptySeparators int // separators reached with nothing accumulated
	Unparsable      int // numeric tokens that degraded to 0
}

// Empty reports whether the stream produced no tokens.
func (r *Result) Empty() bool {
	return r.Head == nil
}

// Tokenize reads src one byte at a time until io.EOF.
//
// It never fails on content. The only error it returns is a non-EOF error
// from src, in which case the partial result is discarded.
func Tokenize(src io.ByteReader) (*Result, error) {
	t := &tokenizer{}
	for {
		c, err := src.ReadByte()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading byte %d: %w", t.stats.BytesRead, err)
		}
		t.stats.BytesRead++
		t.feed(c)
	}
	// A trailing token without a separator is kept.
	t.flush()

	return &Result{
		Class: t.class,
		Head:  t.out.Head(),
		Stats: t.stats,
	}, nil
}

type tokenizer struct {
	class   chain.Class
	decided bool
	acc     chain.Builder // transient Char nodes
	out     chain.Builder
	stats   Stats
}

func (t *tokenizer) feed(c byte) {
	switch {
	case isWhitespace(c):
		t.stats.Whitespace++
	case isDigit(c), isAlpha(c):
		if !t.decided {
			t.decided = true
			if isDigit(c) {
				t.class = chain.Numeric
			} else {
				t.class = chain.Textual
			}
		}
		t.acc.Push(chain.NewChar(c))
	case c == Separator:
		if t.acc.Empty() {
			t.stats.EmptySeparators++
			return
		}
		t.flush()
	default:
		t.stats.Ignored++
	}
}

// flush folds the accumulation buffer into one token node.
func (t *tokenizer) flush() {
	if t.acc.Empty() {
		return
	}
	text := chain.Bytes(t.acc.Head())
	t.acc.Reset()

	if t.class == chain.Textual {
		t.out.Push(&chain.Node{Value: chain.Str(text)})
	} else {
		t.out.Push(chain.NewInt(t.parseInt(text)))
	}
	t.stats.Tokens++
}

// parseInt reads text as a base-10 int32. Anything else, including an
// out-of-range value or a letter in the token, yields 0.
func (t *tokenizer) parseInt(text []byte) int32 {
	n, err := strconv.ParseInt(string(text), 10, 32)
	if err != nil {
		t.stats.Unparsable++
		return 0
	}
	return int32(n)
}

func isWhitespace(c byte) bool {
	return c == '\n' || c == ' ' || c == '\t'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
