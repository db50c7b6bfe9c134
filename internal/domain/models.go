package domain

import "fmt"

// FileLocator identifies a single file in a remote repository. A locator is a
// plain value; fields are never mutated after construction.
type FileLocator struct {
	Project    string
	Repository string
	Branch     string
	Path       string
}

// RawURL returns the raw-content address for the locator.
func (l FileLocator) RawURL() string {
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/refs/heads/%s/%s",
		l.Project, l.Repository, l.Branch, l.Path)
}

// String returns the locator in spec form.
func (l FileLocator) String() string {
	return fmt.Sprintf("%s/%s+%s:%s", l.Project, l.Repository, l.Branch, l.Path)
}

// ServiceSpec pairs a file locator with the service names requested from it.
// Services preserves input order; duplicates are kept and processed
// independently, later ones overwriting earlier ones during the merge.
type ServiceSpec struct {
	Locator  FileLocator
	Services []string
}
