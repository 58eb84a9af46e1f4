package report

import (
	"fmt"
	"strings"
)

// Format is an output format.
type Format string

// Supported formats
const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatCSV, FormatJSON, FormatYAML}

// ParseFormat validates a format name. "yml" is accepted as YAML and an empty
// name selects text.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatText, nil
	case "yml":
		return FormatYAML, nil
	case FormatText, FormatCSV, FormatJSON, FormatYAML:
		return f, nil
	default:
		names := make([]string, len(Formats))
		for i, format := range Formats {
			names[i] = string(format)
		}
		return "", fmt.Errorf("unsupported report format: %s (must be one of %s)", name, strings.Join(names, ", "))
	}
}
