package weapon

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

// CatalogFile is the on-disk list of weapon definitions, in JSON or YAML.
type CatalogFile struct {
	Weapons []ProfileConfig `json:"weapons" yaml:"weapons"`
}

// LoadJSON loads a catalog file from a JSON reader.
func LoadJSON(r io.Reader) (*CatalogFile, error) {
	var f CatalogFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadYAML loads a catalog file from a YAML reader.
func LoadYAML(r io.Reader) (*CatalogFile, error) {
	var f CatalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Build validates every definition and returns them by name. All invalid
// definitions are reported together.
func (f *CatalogFile) Build() (map[string]*Profile, error) {
	profiles := make(map[string]*Profile, len(f.Weapons))
	var errs []error
	for i, c := range f.Weapons {
		p, err := NewProfile(c)
		if err != nil {
			errs = append(errs, fmt.Errorf("weapon %d: %w", i, err))
			continue
		}
		if _, dup := profiles[p.Name()]; dup {
			errs = append(errs, fmt.Errorf("weapon %d: %w %q", i, ErrDuplicateProfile, p.Name()))
			continue
		}
		profiles[p.Name()] = p
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return profiles, nil
}

// Catalog holds the current set of profiles and swaps it atomically on Apply.
type Catalog struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

func NewCatalog() *Catalog {
	return &Catalog{profiles: make(map[string]*Profile)}
}

// Apply replaces the catalog contents with f. On error the previous contents
// are kept. It returns the sorted names that were added, removed or whose
// definition changed.
func (c *Catalog) Apply(f *CatalogFile) ([]string, error) {
	next, err := f.Build()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var changed []string
	for name, p := range next {
		if old, ok := c.profiles[name]; !ok || old.Fingerprint() != p.Fingerprint() {
			changed = append(changed, name)
		}
	}
	for name := range c.profiles {
		if _, ok := next[name]; !ok {
			changed = append(changed, name)
		}
	}
	// unchanged profiles keep their identity so holders can compare pointers
	for name, p := range next {
		if old, ok := c.profiles[name]; ok && old.Fingerprint() == p.Fingerprint() {
			next[name] = old
		}
	}
	c.profiles = next
	slices.Sort(changed)
	return changed, nil
}

// Get returns the profile registered under name.
func (c *Catalog) Get(name string) (*Profile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.profiles[name]
	return p, ok
}

// Names returns the sorted profile names.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.profiles))
	for name := range c.profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
