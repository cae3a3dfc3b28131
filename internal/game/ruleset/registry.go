package ruleset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Registry is the read-only template repository combat looks templates up in.
// It is populated once at startup and must not be mutated while a battle runs.
type Registry struct {
	actions    map[string]*ActionTemplate
	statuses   map[string]*StatusTemplate
	characters map[string]*CharacterTemplate
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		actions:    make(map[string]*ActionTemplate),
		statuses:   make(map[string]*StatusTemplate),
		characters: make(map[string]*CharacterTemplate),
	}
}

// RegisterAction adds a to the registry; the last registration for an id wins.
//
// Precondition: a must be non-nil with a non-empty ID.
func (r *Registry) RegisterAction(a *ActionTemplate) {
	if a == nil || a.ID == "" {
		panic("Registry.RegisterAction: precondition violated: action must be non-nil with an id")
	}
	r.actions[a.ID] = a
}

// RegisterStatus adds s to the registry; the last registration for an id wins.
//
// Precondition: s must be non-nil with a non-empty ID.
func (r *Registry) RegisterStatus(s *StatusTemplate) {
	if s == nil || s.ID == "" {
		panic("Registry.RegisterStatus: precondition violated: status must be non-nil with an id")
	}
	r.statuses[s.ID] = s
}

// RegisterCharacter adds c to the registry; the last registration for an id wins.
//
// Precondition: c must be non-nil with a non-empty ID.
func (r *Registry) RegisterCharacter(c *CharacterTemplate) {
	if c == nil || c.ID == "" {
		panic("Registry.RegisterCharacter: precondition violated: character must be non-nil with an id")
	}
	r.characters[c.ID] = c
}

// Action returns the action template for id.
func (r *Registry) Action(id string) (*ActionTemplate, bool) {
	a, ok := r.actions[id]
	return a, ok
}

// Status returns the status template for id.
func (r *Registry) Status(id string) (*StatusTemplate, bool) {
	s, ok := r.statuses[id]
	return s, ok
}

// Character returns the character template for id.
func (r *Registry) Character(id string) (*CharacterTemplate, bool) {
	c, ok := r.characters[id]
	return c, ok
}

// AllActions returns every action template sorted by id.
func (r *Registry) AllActions() []*ActionTemplate {
	return sortedValues(r.actions, func(a *ActionTemplate) string { return a.ID })
}

// AllStatuses returns every status template sorted by id.
func (r *Registry) AllStatuses() []*StatusTemplate {
	return sortedValues(r.statuses, func(s *StatusTemplate) string { return s.ID })
}

// AllCharacters returns every character template sorted by id.
func (r *Registry) AllCharacters() []*CharacterTemplate {
	return sortedValues(r.characters, func(c *CharacterTemplate) string { return c.ID })
}

func sortedValues[T any](m map[string]T, key func(T) string) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return key(out[i]) < key(out[j]) })
	return out
}

// Link resolves every cross-reference: action status and cleanse ids to templates, and
// character action and inventory ids to registered actions of the right kind.
//
// Postcondition: Returns nil iff every reference resolves; on success each action's
// Statuses and Cleanses slices mirror its StatusIDs and CleanseIDs.
func (r *Registry) Link() error {
	var errs []error
	resolve := func(a *ActionTemplate, ids []string) []*StatusTemplate {
		var out []*StatusTemplate
		for _, sid := range ids {
			s, ok := r.statuses[sid]
			if !ok {
				errs = append(errs, fmt.Errorf("action %q: unknown status %q", a.ID, sid))
				continue
			}
			out = append(out, s)
		}
		return out
	}
	for _, a := range r.AllActions() {
		a.Statuses = resolve(a, a.StatusIDs)
		a.Cleanses = resolve(a, a.CleanseIDs)
	}
	for _, c := range r.AllCharacters() {
		check := func(ids []string, kind ActionKind) {
			for _, id := range ids {
				a, ok := r.actions[id]
				switch {
				case !ok:
					errs = append(errs, fmt.Errorf("character %q: unknown action %q", c.ID, id))
				case a.Kind != kind:
					errs = append(errs, fmt.Errorf("character %q: action %q is a %s, listed as %s", c.ID, id, a.Kind, kind))
				}
			}
		}
		check(c.Attacks, KindAttack)
		check(c.Spells, KindSpell)
		check(c.Skills, KindSkill)
		check(c.Inventory, KindItem)
	}
	return errors.Join(errs...)
}

// LoadDirectory reads the actions/, statuses/ and characters/ subdirectories of dir,
// validates every template, and links the result. Missing subdirectories are skipped.
// A file may hold several templates as separate YAML documents.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a linked Registry, or an error naming the first offending file.
func LoadDirectory(dir string) (*Registry, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("reading content dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	if err := loadKind(filepath.Join(dir, "statuses"), func(s *StatusTemplate) error {
		if err := s.Validate(); err != nil {
			return err
		}
		reg.RegisterStatus(s)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := loadKind(filepath.Join(dir, "actions"), func(a *ActionTemplate) error {
		if err := a.Validate(); err != nil {
			return err
		}
		reg.RegisterAction(a)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := loadKind(filepath.Join(dir, "characters"), func(c *CharacterTemplate) error {
		if err := c.Validate(); err != nil {
			return err
		}
		reg.RegisterCharacter(c)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := reg.Link(); err != nil {
		return nil, fmt.Errorf("linking content in %q: %w", dir, err)
	}
	return reg, nil
}

func loadKind[T any](dir string, register func(*T) error) error {
	files, err := yamlFiles(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		for {
			v := new(T)
			err := dec.Decode(v)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return fmt.Errorf("parsing %s: %w", path, err)
			}
			if err := register(v); err != nil {
				return fmt.Errorf("loading %s: %w", path, err)
			}
		}
	}
	return nil
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
