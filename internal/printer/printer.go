// Package printer writes a sorted chain for the operator.
package printer

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roach88/filesort/internal/chain"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatJSON, FormatYAML}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid format %q: must be one of %v", s, Formats)
}

// Document is the structured form of a sorted run.
type Document struct {
	Class     string `json:"class" yaml:"class"`
	Algorithm string `json:"algorithm" yaml:"algorithm"`
	Count     int    `json:"count" yaml:"count"`
	Values    []any  `json:"values" yaml:"values"`
}

// NewDocument snapshots the payloads of head in chain order.
func NewDocument(head *chain.Node, class chain.Class, algorithm string) Document {
	return Document{
		Class:     class.String(),
		Algorithm: algorithm,
		Count:     chain.Len(head),
		Values:    chain.Payloads(head),
	}
}

// Print writes doc to w. Text output is one payload per line with no
// header; JSON and YAML carry the whole document.
func Print(w io.Writer, format Format, doc Document) error {
	switch format {
	case FormatText, "":
		return printText(w, doc.Values)
	case FormatJSON:
		return json.NewEncoder(w).Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("invalid format %q", format)
	}
}

func printText(w io.Writer, values []any) error {
	for _, v := range values {
		if _, err := fmt.Fprintln(w, v); err != nil {
			return err
		}
	}
	return nil
}
