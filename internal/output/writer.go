// Package output reads and writes the merged compose file on disk. The
// existing document is kept as a yaml.Node tree so top-level keys this tool
// does not manage (volumes, networks, x- extensions) survive a rewrite.
package output

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quantmind-br/composefetch-go/internal/compose"
	"github.com/quantmind-br/composefetch-go/internal/domain"
	"github.com/quantmind-br/composefetch-go/internal/utils"
)

// Existing is the on-disk output file: the full document tree plus the
// decoded version/services view used for merging.
type Existing struct {
	doc  *yaml.Node
	File *compose.File
}

// LoadExisting reads the output file at path. A missing file is not an
// error; it returns (nil, nil). A present but malformed file is an error,
// the file is never silently clobbered.
func LoadExisting(path string) (*Existing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDecode, path, err)
	}

	file, err := compose.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &Existing{doc: &doc, File: file}, nil
}

// Writer persists the merged compose document
type Writer struct {
	path   string
	dryRun bool
}

// WriterOptions contains options for the writer
type WriterOptions struct {
	Path   string
	DryRun bool
}

// NewWriter creates a new output writer
func NewWriter(opts WriterOptions) *Writer {
	if opts.Path == "" {
		opts.Path = "./docker-compose.yml"
	}
	return &Writer{
		path:   opts.Path,
		dryRun: opts.DryRun,
	}
}

// Path returns the output file path
func (w *Writer) Path() string {
	return w.path
}

// Write serializes the merged file to disk. When an existing document is
// given, only its version and services keys are replaced; every other
// top-level key keeps its place, content and comments.
func (w *Writer) Write(merged *compose.File, existing *Existing) error {
	data, err := w.Render(merged, existing)
	if err != nil {
		return err
	}

	if w.dryRun {
		return nil
	}

	if err := utils.EnsureDir(w.path); err != nil {
		return err
	}

	return os.WriteFile(w.path, data, 0644)
}

// Render produces the bytes Write would persist
func (w *Writer) Render(merged *compose.File, existing *Existing) ([]byte, error) {
	if existing == nil || existing.doc == nil {
		return compose.Encode(merged)
	}

	root := mappingRoot(existing.doc)
	if root == nil {
		// Existing document is not a mapping; nothing worth preserving.
		return compose.Encode(merged)
	}

	mergedNode := merged.ToNode()
	setKey(root, "version", findValue(mergedNode, "version"))
	setKey(root, "services", findValue(mergedNode, "services"))

	return marshalDocument(existing.doc)
}

// mappingRoot unwraps a document node down to its top-level mapping
func mappingRoot(doc *yaml.Node) *yaml.Node {
	node := doc
	for node != nil && node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	return node
}

// findValue returns the value node for key in a mapping, or nil
func findValue(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// setKey replaces the value for key in place, appends the pair when the key
// is absent, and removes the pair when value is nil.
func setKey(mapping *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			if value == nil {
				mapping.Content = append(mapping.Content[:i], mapping.Content[i+2:]...)
			} else {
				mapping.Content[i+1] = value
			}
			return
		}
	}
	if value == nil {
		return
	}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}

func marshalDocument(doc *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
