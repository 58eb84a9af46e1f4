// Package parser defines the interfaces implemented by export-file parsers
// and the behaviour they share.
package parser

import (
	"io"

	"github.com/Brave-new-w0rld/streamlit-finance/internal/logging"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/models"
)

// Parser turns a raw export into canonical transactions, in source row order.
// Implementations return *parsererror.ParseError or
// *parsererror.InvalidFormatError for malformed input.
type Parser interface {
	Parse(r io.Reader) ([]models.Transaction, error)
}

// Validator checks whether an input looks like a format the parser understands
// without converting any rows.
type Validator interface {
	ValidateFormat(r io.Reader) (bool, error)
}

// FileParser parses transactions straight from a file path.
type FileParser interface {
	ParseFile(filePath string) ([]models.Transaction, error)
}

// LoggerConfigurable is implemented by parsers whose logger can be replaced.
type LoggerConfigurable interface {
	SetLogger(logger logging.Logger)
}

// FullParser combines all parser capabilities.
type FullParser interface {
	Parser
	Validator
	FileParser
	LoggerConfigurable
}
