// Package parsers reads round catalogue documents into round definitions.
package parsers

import (
	"fmt"
	"strings"

	rounddomain "github.com/Black-And-White-Club/archery-scorer/app/modules/round/domain"
)

// Format names a catalogue document format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatHTML Format = "html"
)

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "html", "htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Parse dispatches to the parser for format.
func Parse(format Format, data []byte) ([]rounddomain.RoundDefinition, error) {
	switch format {
	case FormatYAML:
		return ParseYAML(data)
	case FormatHTML:
		return ParseHTML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
