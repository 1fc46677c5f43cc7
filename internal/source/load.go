// Package source reads annotations from a JSON or YAML file and turns file
// changes into item lifecycle events.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/atomicstack/threadview/internal/annotation"
	"github.com/atomicstack/threadview/internal/logging/events"
)

// ErrMalformed is returned when a file decodes to neither a list of
// annotations nor an object holding one.
var ErrMalformed = errors.New("malformed annotation document")

// Format selects the decoder for an item file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// FormatFor picks the decoder from the file extension. Anything that is not
// .yaml or .yml is treated as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

type document struct {
	Annotations []annotation.Item `json:"annotations" yaml:"annotations"`
}

// tagNamespace seeds the name-based uuids given to items that carry neither
// an id nor a tag, so the same item keeps its tag across reloads.
var tagNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("threadview:annotation"))

// Load reads and decodes the item file at path.
func Load(path string) ([]annotation.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	items, err := Decode(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	events.Source.Load(path, len(items))
	return items, nil
}

// Decode parses a bare list of annotations or a document of the form
// {"annotations": [...]}. An empty input decodes to no items.
func Decode(data []byte, format Format) ([]annotation.Item, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	var (
		items []annotation.Item
		err   error
	)
	switch format {
	case FormatYAML:
		items, err = decodeYAML(trimmed)
	default:
		items, err = decodeJSON(trimmed)
	}
	if err != nil {
		return nil, err
	}
	assignTags(items)
	return items, nil
}

func decodeJSON(data []byte) (items []annotation.Item, err error) {
	// go-json can panic on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			items, err = nil, fmt.Errorf("%w: %v", ErrMalformed, r)
		}
	}()
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, err
		}
		return items, nil
	case '{':
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return doc.Annotations, nil
	default:
		return nil, ErrMalformed
	}
}

func decodeYAML(data []byte) ([]annotation.Item, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, nil
	}
	body := root.Content[0]
	switch body.Kind {
	case yaml.SequenceNode:
		var items []annotation.Item
		if err := body.Decode(&items); err != nil {
			return nil, err
		}
		return items, nil
	case yaml.MappingNode:
		var doc document
		if err := body.Decode(&doc); err != nil {
			return nil, err
		}
		return doc.Annotations, nil
	default:
		return nil, ErrMalformed
	}
}

func assignTags(items []annotation.Item) {
	for idx := range items {
		if items[idx].Key() != "" {
			continue
		}
		items[idx].Tag = GenerateTag(items[idx])
	}
}

// GenerateTag derives a client-local tag from an item's content.
func GenerateTag(item annotation.Item) string {
	var b strings.Builder
	b.WriteString(item.User)
	b.WriteByte(0)
	b.WriteString(item.Created.UTC().Format("2006-01-02T15:04:05.999999999Z"))
	b.WriteByte(0)
	b.WriteString(strings.Join(item.References, ","))
	b.WriteByte(0)
	b.WriteString(item.Quote)
	b.WriteByte(0)
	b.WriteString(item.Text)
	return "t:" + uuid.NewSHA1(tagNamespace, []byte(b.String())).String()
}
