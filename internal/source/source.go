// Package source opens the byte stream handed to the classifier.
//
// A Source is owned by whoever opened it. Callers defer Close immediately
// after a successful Open so the file is released on every exit path.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Supported encodings. The empty string means EncodingUTF8.
const (
	EncodingUTF8    = "utf-8"
	EncodingUTF16   = "utf-16"
	EncodingUTF16LE = "utf-16le"
	EncodingUTF16BE = "utf-16be"
	EncodingLatin1  = "latin1"
)

// Encodings lists the accepted --encoding values.
var Encodings = []string{EncodingUTF8, EncodingUTF16, EncodingUTF16LE, EncodingUTF16BE, EncodingLatin1}

// ErrUnknownEncoding is returned by Open for an unsupported encoding name.
var ErrUnknownEncoding = errors.New("unknown encoding")

// Source is a buffered, decoded byte stream over an open file.
type Source struct {
	Path string

	f      *os.File
	r      *bufio.Reader
	closed bool
}

// Open opens path for reading. Content is decoded from enc to UTF-8; a
// leading byte order mark is removed for all unicode encodings.
func Open(path, enc string) (*Source, error) {
	decoder, err := lookupEncoding(enc)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("open source: %s is a directory", path)
	}

	return &Source{
		Path: path,
		f:    f,
		r:    bufio.NewReader(transform.NewReader(f, decoder.NewDecoder())),
	}, nil
}

// ReadByte returns the next decoded byte, or io.EOF at end of stream.
func (s *Source) ReadByte() (byte, error) {
	if s.closed {
		return 0, fmt.Errorf("read %s: %w", s.Path, os.ErrClosed)
	}
	return s.r.ReadByte()
}

// Close releases the file. Closing twice is a no-op.
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.f.Close()
}

var _ io.ByteReader = (*Source)(nil)

func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "", EncodingUTF8, "utf8":
		return unicode.UTF8BOM, nil
	case EncodingUTF16:
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), nil
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM), nil
	case EncodingLatin1, "iso-8859-1":
		return charmap.ISO8859_1, nil
	default:
		return nil, fmt.Errorf("%w %q: must be one of %s", ErrUnknownEncoding, name, strings.Join(Encodings, ", "))
	}
}
