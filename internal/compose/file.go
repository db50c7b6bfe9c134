// Package compose decodes and encodes docker-compose files. Service bodies
// are kept as opaque yaml.Node values so that content this tool never touches
// survives a decode/encode round trip unchanged, comments included.
package compose

import (
	"bytes"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/quantmind-br/composefetch-go/internal/domain"
)

// File is the two-level compose document shape this tool understands: an
// optional version scalar plus a mapping of named services. Anything else in
// the source document is ignored here and preserved by the output writer.
type File struct {
	Version  string               `yaml:"version,omitempty"`
	Services map[string]yaml.Node `yaml:"services,omitempty"`
}

// Decode parses raw bytes into a File. Malformed YAML wraps domain.ErrDecode;
// the underlying codec error is carried along, not interpreted.
func Decode(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	return &f, nil
}

// Encode serializes a File with two-space indentation and services in sorted
// name order.
func Encode(f *File) ([]byte, error) {
	return marshalNode(f.ToNode())
}

// Service returns the named service body. The second return is false when the
// services mapping is absent, the name is not present, or the value is not
// itself a mapping; a malformed individual entry is skipped, never an error.
func (f *File) Service(name string) (*yaml.Node, bool) {
	if f.Services == nil {
		return nil, false
	}
	node, ok := f.Services[name]
	if !ok || node.Kind != yaml.MappingNode {
		return nil, false
	}
	return &node, true
}

// ServiceNames returns the service names in sorted order.
func (f *File) ServiceNames() []string {
	names := make([]string, 0, len(f.Services))
	for name := range f.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ToNode builds the document content as a mapping node, version first, then
// services in sorted name order.
func (f *File) ToNode() *yaml.Node {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if f.Version != "" {
		root.Content = append(root.Content,
			scalarNode("version"),
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Version, Style: yaml.DoubleQuotedStyle},
		)
	}
	if len(f.Services) > 0 {
		services := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, name := range f.ServiceNames() {
			node := f.Services[name]
			services.Content = append(services.Content, scalarNode(name), cloneNode(&node))
		}
		root.Content = append(root.Content, scalarNode("services"), services)
	}
	return root
}

func scalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func cloneNode(n *yaml.Node) *yaml.Node {
	clone := *n
	return &clone
}

func marshalNode(node *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
