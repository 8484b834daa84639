package codec

import (
	"fmt"
	"io"
	"strings"

	"todos/internal/domain"
)

// Codec imports and exports task lists in one format.
// Import yields create payloads: imported tasks get fresh IDs and start
// not completed, whatever the document says.
type Codec interface {
	Parse(r io.Reader) ([]domain.CreateTask, error)
	Export(tasks []domain.Task, w io.Writer) error
	Format() string
	ContentType() string
}

// document is the envelope shared by every format
type document struct {
	Todos []domain.Task `json:"todos" yaml:"todos"`
}

// ForFormat returns the codec for a format name ("json", "yaml" or "yml")
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// FormatFromContentType maps a Content-Type header to a format name
func FormatFromContentType(contentType string) string {
	ct := strings.ToLower(contentType)
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	switch strings.TrimSpace(ct) {
	case "application/x-yaml", "application/yaml", "text/yaml", "text/x-yaml":
		return "yaml"
	default:
		return "json"
	}
}

func toCreateInputs(tasks []domain.Task) []domain.CreateTask {
	inputs := make([]domain.CreateTask, 0, len(tasks))
	for _, t := range tasks {
		inputs = append(inputs, domain.CreateTask{Text: t.Text})
	}
	return inputs
}
