// Package merge folds service definitions from multiple remote compose files
// into a single document.
package merge

import (
	"gopkg.in/yaml.v3"

	"github.com/quantmind-br/composefetch-go/internal/compose"
	"github.com/quantmind-br/composefetch-go/internal/domain"
)

// Merger accumulates requested services across fetched compose files.
//
// Version resolution is first-come: the first fetched file that declares a
// version sets it and later files cannot change it. Service resolution is
// last-come: a later file that defines an already-collected service name
// replaces it. Callers control the outcome by calling Add in declaration
// order.
type Merger struct {
	version  string
	services map[string]yaml.Node
}

// NewMerger creates an empty Merger
func NewMerger() *Merger {
	return &Merger{
		services: make(map[string]yaml.Node),
	}
}

// Add collects the named services from the fetched file. Names absent from
// the file, or present with a non-mapping body, are skipped silently; the
// other requested names are still collected.
func (m *Merger) Add(file *compose.File, names []string) {
	if file == nil {
		return
	}

	if m.version == "" && file.Version != "" {
		m.version = file.Version
	}

	for _, name := range names {
		node, ok := file.Service(name)
		if !ok {
			continue
		}
		m.services[name] = *node
	}
}

// Version returns the resolved version, or "" if no added file declared one
func (m *Merger) Version() string {
	return m.version
}

// ServiceCount returns the number of collected services
func (m *Merger) ServiceCount() int {
	return len(m.services)
}

// Finalize reconciles the collected services with an existing compose file
// and returns the document to write. Existing services are kept unless a
// collected service has the same name; collected services always win. The
// existing file's version is used only when no added file declared one. A
// nil existing file means there is nothing on disk yet.
//
// Returns domain.ErrNoVersion when neither the collected files nor the
// existing file declare a compose version.
func (m *Merger) Finalize(existing *compose.File) (*compose.File, error) {
	version := m.version
	if version == "" && existing != nil {
		version = existing.Version
	}
	if version == "" {
		return nil, domain.ErrNoVersion
	}

	services := make(map[string]yaml.Node)
	if existing != nil {
		for name, node := range existing.Services {
			services[name] = node
		}
	}
	for name, node := range m.services {
		services[name] = node
	}

	return &compose.File{
		Version:  version,
		Services: services,
	}, nil
}
