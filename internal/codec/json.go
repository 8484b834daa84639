package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"todos/internal/domain"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// ContentType returns the MIME type of exported documents
func (c *JSONCodec) ContentType() string {
	return "application/json"
}

// Parse imports tasks from JSON
func (c *JSONCodec) Parse(r io.Reader) ([]domain.CreateTask, error) {
	var doc document
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return toCreateInputs(doc.Todos), nil
}

// Export exports tasks to JSON
func (c *JSONCodec) Export(tasks []domain.Task, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if tasks == nil {
		tasks = []domain.Task{}
	}
	if err := encoder.Encode(document{Todos: tasks}); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
