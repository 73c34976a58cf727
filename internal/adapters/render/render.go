// Package render writes extraction results in the formats the CLI and the
// batch processor support.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/baditaflorin/go_number_words/internal/core/domain"
	"github.com/baditaflorin/go_number_words/internal/ports"
)

// Supported formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// New returns the renderer for format.
func New(format string) (ports.Renderer, error) {
	switch format {
	case "", FormatText:
		return Text{}, nil
	case FormatJSON:
		return JSON{}, nil
	case FormatYAML:
		return YAML{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// Document is the structured form of one processed line.
type Document struct {
	Line    int                   `json:"line" yaml:"line"`
	Input   string                `json:"input" yaml:"input"`
	Records []domain.OutputRecord `json:"records" yaml:"records"`
	Numbers []domain.ParsedNumber `json:"numbers,omitempty" yaml:"numbers,omitempty"`
	Error   string                `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewDocument converts a line result to its structured form. Line numbers
// start at 1.
func NewDocument(line ports.LineResult) Document {
	doc := Document{
		Line:    line.Index + 1,
		Input:   line.Line,
		Records: line.Extraction.Records,
		Numbers: line.Extraction.Numbers,
	}
	if doc.Records == nil {
		doc.Records = []domain.OutputRecord{}
	}
	if line.Err != nil {
		doc.Error = line.Err.Error()
	}
	return doc
}

// Text prints label, phrase and numeral of each record on their own lines
// with a blank line after every record.
type Text struct {
	// Header prints "Output:" before the records.
	Header bool
}

// Render implements ports.Renderer.
func (t Text) Render(w io.Writer, line ports.LineResult) error {
	if line.Err != nil {
		_, err := fmt.Fprintf(w, "error: %v\n\n", line.Err)
		return err
	}
	if t.Header {
		if _, err := io.WriteString(w, "Output:\n"); err != nil {
			return err
		}
	}
	for _, r := range line.Extraction.Records {
		if _, err := fmt.Fprintf(w, "%s\n%s\n%s\n\n", r.Label, r.Phrase, r.Canonical); err != nil {
			return err
		}
	}
	return nil
}

// JSON writes one JSON document per line.
type JSON struct{}

// Render implements ports.Renderer.
func (JSON) Render(w io.Writer, line ports.LineResult) error {
	return json.NewEncoder(w).Encode(NewDocument(line))
}

// YAML writes one YAML document per line.
type YAML struct{}

// Render implements ports.Renderer.
func (YAML) Render(w io.Writer, line ports.LineResult) error {
	if _, err := io.WriteString(w, "---\n"); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(line)); err != nil {
		return err
	}
	return enc.Close()
}
