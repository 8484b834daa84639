package codec

import (
	"errors"
	"fmt"
	"io"

	"todos/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// ContentType returns the MIME type of exported documents
func (c *YAMLCodec) ContentType() string {
	return "application/x-yaml"
}

// Parse imports tasks from YAML
func (c *YAMLCodec) Parse(r io.Reader) ([]domain.CreateTask, error) {
	var doc document
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.CreateTask{}, nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return toCreateInputs(doc.Todos), nil
}

// Export exports tasks to YAML
func (c *YAMLCodec) Export(tasks []domain.Task, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if tasks == nil {
		tasks = []domain.Task{}
	}
	if err := encoder.Encode(document{Todos: tasks}); err != nil {
		encoder.Close()
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return encoder.Close()
}
