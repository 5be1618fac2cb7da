// Package presentation formats command line output as JSON.
package presentation

import (
	"encoding/json"
	"io"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatCatalog formats a registry listing as JSON
func (f *Formatter) FormatCatalog(catalog CatalogDTO) error {
	return f.encode(catalog)
}

// FormatHistory formats history entries as JSON
func (f *Formatter) FormatHistory(entries []HistoryEntryDTO) error {
	return f.encode(entries)
}

// FormatResult formats an execution result as JSON
func (f *Formatter) FormatResult(result ResultDTO) error {
	return f.encode(result)
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
