package resultdoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/roach88/testis/internal/canonical"
)

// ErrEmptyDocument is returned when a file holds no YAML documents.
var ErrEmptyDocument = errors.New("document is empty")

// Document is a parsed result file.
type Document map[string]any

// KeyError is returned when a required key is absent.
type KeyError struct {
	Key string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("key %q not found", e.Key)
}

// ReadYAML reads and parses the YAML document at path.
// A missing file yields an error satisfying errors.Is(err, fs.ErrNotExist).
func ReadYAML(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a YAML stream into a Document.
// Every non-empty document in the stream must be a mapping.
func Parse(data []byte) (Document, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))

	doc := Document{}
	count := 0
	for {
		var raw any
		err := decoder.Decode(&raw)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", count, err)
		}
		count++

		if raw == nil {
			continue
		}
		normalized, err := normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", count-1, err)
		}
		fields, ok := normalized.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("document %d: top level must be a mapping, got %T", count-1, raw)
		}
		for k, v := range fields {
			doc[k] = v
		}
	}

	if len(doc) == 0 {
		return nil, ErrEmptyDocument
	}
	return doc, nil
}

// Lookup returns the top-level value stored under key.
func (d Document) Lookup(key string) (any, error) {
	v, ok := d[norm.NFC.String(key)]
	if !ok {
		return nil, &KeyError{Key: key}
	}
	return v, nil
}

// Digest returns the content digest of the document.
// Documents with equal content have equal digests regardless of the
// key order or formatting of the source file.
func (d Document) Digest() (string, error) {
	return canonical.DigestValue(canonical.DomainDocument, map[string]any(d))
}

// YAML renders the document back to YAML.
func (d Document) YAML() ([]byte, error) {
	return yaml.Marshal(map[string]any(d))
}

// normalize converts decoder output into plain map[string]any / []any trees
// with NFC keys.
func normalize(v any) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			n, err := normalize(elem)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[norm.NFC.String(k)] = n
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			key := norm.NFC.String(fmt.Sprint(k))
			n, err := normalize(elem)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			out[key] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			n, err := normalize(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = n
		}
		return out, nil
	case time.Time:
		return val.Format(time.RFC3339Nano), nil
	case string, bool, int, int64, uint64, float64, nil:
		return val, nil
	default:
		return nil, fmt.Errorf("unsupported YAML value of type %T", v)
	}
}
