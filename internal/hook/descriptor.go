package hook

import (
	"fmt"
	"regexp"

	"github.com/fyrsmithlabs/gatehouse/internal/config"
)

// Source identifies where a hook's tool comes from. Remote and local hooks
// carry different fields; both resolve to a uniform Descriptor at load
// time, so nothing downstream dispatches on the variant.
type Source interface {
	// Label is the stable source half of a hook's identity.
	Label() string
	// Argv returns the base command the executor invokes.
	Argv() []string
}

// RemoteSource references a hook published in an external catalog at a
// pinned revision. The catalog is expected to have been materialized by an
// external installer; the orchestrator invokes the hook by name through it.
type RemoteSource struct {
	Repo string
	Rev  string
	Hook string
}

// Label returns repo@rev.
func (s RemoteSource) Label() string { return s.Repo + "@" + s.Rev }

// Argv invokes the named hook through the materialized catalog.
func (s RemoteSource) Argv() []string { return []string{s.Hook} }

// LocalSource is a hook defined in the repository itself.
type LocalSource struct {
	Entry string
}

// Label returns the fixed local marker.
func (s LocalSource) Label() string { return "local" }

// Argv invokes the local entry command.
func (s LocalSource) Argv() []string { return []string{s.Entry} }

// Descriptor is one hook's resolved, immutable definition.
type Descriptor struct {
	Name         string
	Source       Source
	Args         []string
	Types        []string
	Exclude      *regexp.Regexp
	PassFiles    bool
	MutatesFiles bool
}

// ID is the hook's identity: source label plus name.
func (d *Descriptor) ID() string {
	return d.Source.Label() + "#" + d.Name
}

// Store holds the hook catalog in declared order.
type Store struct {
	descriptors []*Descriptor
	registry    *CategoryRegistry
}

// NewStore resolves hook configuration into descriptors. Malformed entries
// fail the load with their index and field name; nothing executes on a
// partially loaded catalog.
func NewStore(hooks []config.HookConfig, registry *CategoryRegistry) (*Store, error) {
	if registry == nil {
		registry = NewCategoryRegistry(nil)
	}

	descriptors := make([]*Descriptor, 0, len(hooks))
	seen := make(map[string]bool, len(hooks))
	for i, h := range hooks {
		d, err := newDescriptor(h, registry)
		if err != nil {
			return nil, fmt.Errorf("hooks[%d]: %w", i, err)
		}
		if seen[d.ID()] {
			return nil, fmt.Errorf("hooks[%d]: field name: duplicate hook %q", i, d.ID())
		}
		seen[d.ID()] = true
		descriptors = append(descriptors, d)
	}

	return &Store{descriptors: descriptors, registry: registry}, nil
}

func newDescriptor(h config.HookConfig, registry *CategoryRegistry) (*Descriptor, error) {
	var src Source
	if h.Entry != "" {
		src = LocalSource{Entry: h.Entry}
	} else {
		src = RemoteSource{Repo: h.Repo, Rev: h.Rev, Hook: h.Name}
	}

	if err := registry.Check(h.Types); err != nil {
		return nil, fmt.Errorf("field types: %w", err)
	}

	var exclude *regexp.Regexp
	if h.Exclude != "" {
		re, err := regexp.Compile(h.Exclude)
		if err != nil {
			return nil, fmt.Errorf("field exclude: %w", err)
		}
		exclude = re
	}

	passFiles := true
	if h.PassFiles != nil {
		passFiles = *h.PassFiles
	}

	return &Descriptor{
		Name:         h.Name,
		Source:       src,
		Args:         h.Args,
		Types:        h.Types,
		Exclude:      exclude,
		PassFiles:    passFiles,
		MutatesFiles: h.MutatesFiles,
	}, nil
}

// Descriptors returns the catalog in declared order.
func (s *Store) Descriptors() []*Descriptor {
	return s.descriptors
}

// Registry returns the category registry the store was built with.
func (s *Store) Registry() *CategoryRegistry {
	return s.registry
}

// Lookup finds a descriptor by ID, or nil.
func (s *Store) Lookup(id string) *Descriptor {
	for _, d := range s.descriptors {
		if d.ID() == id {
			return d
		}
	}
	return nil
}
