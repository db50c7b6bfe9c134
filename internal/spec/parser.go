// Package spec parses compose service specs of the form
//
//	project/repository[+branch]:path@service[,service...]
//
// into a file locator plus the list of requested service names.
package spec

import (
	"fmt"
	"strings"

	"github.com/quantmind-br/composefetch-go/internal/domain"
)

// DefaultBranch is the branch used when a spec does not name one.
const DefaultBranch = "master"

// Parser parses spec strings. The grammar is fixed, so a Parser carries only
// the fallback branch and is safe for concurrent use.
type Parser struct {
	defaultBranch string
}

// NewParser creates a parser with the given fallback branch.
func NewParser(defaultBranch string) *Parser {
	if defaultBranch == "" {
		defaultBranch = DefaultBranch
	}
	return &Parser{defaultBranch: defaultBranch}
}

// Parse parses a single spec string. It returns domain.ErrNoMatch when the
// input does not have the spec shape at all, and a domain.MissingFieldError
// when a delimiter is present but the field before or after it is empty.
//
// Field boundaries, in order:
//
//	project    up to the first '/'
//	repository up to the first '+' or ':'
//	branch     optional, between '+' and the next ':'
//	path       up to the first '@'
//	services   the remainder, split on ','
func (p *Parser) Parse(input string) (domain.ServiceSpec, error) {
	var zero domain.ServiceSpec

	slash := strings.IndexByte(input, '/')
	if slash < 0 {
		return zero, domain.ErrNoMatch
	}
	project := input[:slash]
	rest := input[slash+1:]

	cut := strings.IndexAny(rest, "+:")
	if cut < 0 {
		return zero, domain.ErrNoMatch
	}
	repository := rest[:cut]

	branch := p.defaultBranch
	if rest[cut] == '+' {
		tail := rest[cut+1:]
		colon := strings.IndexByte(tail, ':')
		if colon < 0 {
			return zero, domain.ErrNoMatch
		}
		// An explicit '+' with nothing before the ':' is not a valid branch.
		if colon == 0 {
			return zero, domain.ErrNoMatch
		}
		branch = tail[:colon]
		rest = tail[colon+1:]
	} else {
		rest = rest[cut+1:]
	}

	at := strings.IndexByte(rest, '@')
	if at < 0 {
		return zero, domain.ErrNoMatch
	}
	path := rest[:at]
	rawServices := rest[at+1:]

	switch {
	case project == "":
		return zero, domain.NewMissingFieldError("project")
	case repository == "":
		return zero, domain.NewMissingFieldError("repository")
	case path == "":
		return zero, domain.NewMissingFieldError("path")
	case rawServices == "":
		return zero, domain.NewMissingFieldError("services")
	}

	// Split verbatim: no trimming, no deduplication. Duplicates are processed
	// independently and the last occurrence wins during the merge.
	services := strings.Split(rawServices, ",")

	return domain.ServiceSpec{
		Locator: domain.FileLocator{
			Project:    project,
			Repository: repository,
			Branch:     branch,
			Path:       path,
		},
		Services: services,
	}, nil
}

// ParseAll parses every input in order, failing on the first invalid one.
func (p *Parser) ParseAll(inputs []string) ([]domain.ServiceSpec, error) {
	specs := make([]domain.ServiceSpec, 0, len(inputs))
	for _, input := range inputs {
		s, err := p.Parse(input)
		if err != nil {
			return nil, &ParseError{Input: input, Err: err}
		}
		specs = append(specs, s)
	}
	return specs, nil
}

// ParseError wraps a parse failure with the offending input.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid spec %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
