package parser

import (
	"fmt"
	"io"
	"os"

	"github.com/Brave-new-w0rld/streamlit-finance/internal/logging"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/models"
)

// BaseParser provides functionality shared by parser implementations.
// Parsers embed it to inherit logger handling and file opening.
type BaseParser struct {
	logger logging.Logger
}

// NewBaseParser creates a BaseParser. A nil logger is replaced by a default
// info-level text logger.
func NewBaseParser(logger logging.Logger) BaseParser {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return BaseParser{logger: logger}
}

// SetLogger implements LoggerConfigurable.
func (b *BaseParser) SetLogger(logger logging.Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// GetLogger returns the current logger instance.
func (b *BaseParser) GetLogger() logging.Logger {
	return b.logger
}

// OpenAndParse opens filePath and hands its content to parse.
func (b *BaseParser) OpenAndParse(filePath string, parse func(io.Reader, string) ([]models.Transaction, error)) ([]models.Transaction, error) {
	b.logger.Debug("Opening input file", logging.Field{Key: logging.FieldFile, Value: filePath})

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening input file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			b.logger.WithError(closeErr).Warn("Failed to close file")
		}
	}()

	return parse(file, filePath)
}
