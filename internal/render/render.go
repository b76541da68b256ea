// Package render encodes a resolved configuration in the document shape the
// frontend dev server and bundler read.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/angeloszaimis/bingo-gateway/internal/resolver"
)

// Output formats accepted by Write.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrUnknownFormat is wrapped by Write for any format it cannot encode.
var ErrUnknownFormat = errors.New("unknown output format")

// Document is the serialized form of resolver.Resolved.
type Document struct {
	Rewrites  []resolver.RewriteRule `json:"rewrites" yaml:"rewrites"`
	Headers   []resolver.HeaderRule  `json:"headers" yaml:"headers"`
	Externals []string               `json:"externals" yaml:"externals"`
}

// NewDocument builds the document for res.
func NewDocument(res *resolver.Resolved) Document {
	return Document{
		Rewrites:  res.Rewrites,
		Headers:   res.Headers,
		Externals: res.Externals,
	}
}

// Write encodes doc to w in the given format.
func Write(w io.Writer, doc Document, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// ContentType returns the media type for format.
func ContentType(format string) string {
	if format == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}
