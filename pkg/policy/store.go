package policy

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

const (
	// PermissionFamily is the name of the permission rule family.
	PermissionFamily = "p"

	// DefaultGrouping is the name of the grouping family declared when no
	// WithGrouping option is given.
	DefaultGrouping = "g"

	// DefaultPermissionArity covers (subject, object, action) tuples.
	DefaultPermissionArity = 3

	// DefaultGroupingArity covers (user, role) tuples.
	DefaultGroupingArity = 2
)

// Rule values are arbitrary strings, so the existence index joins them with a
// separator that cannot appear in practice.
const keySep = "\x00"

type family struct {
	arity int
	rules [][]string
	index map[string]struct{}
}

func newFamily(arity int) *family {
	return &family{
		arity: arity,
		index: make(map[string]struct{}),
	}
}

// Store is a thread-safe in-memory rule store with one permission family and
// any number of named grouping families.
type Store struct {
	mu         sync.RWMutex
	permission *family
	groupings  map[string]*family
	order      []string // grouping registration order
}

// Option configures a Store during construction.
type Option func(*Store)

// WithPermissionArity overrides the permission family arity (default 3).
func WithPermissionArity(arity int) Option {
	return func(s *Store) {
		s.permission = newFamily(arity)
	}
}

// WithGrouping declares a grouping family with the given name and arity.
// Declaring a name twice replaces the arity but keeps the original position
// in the registration order.
func WithGrouping(name string, arity int) Option {
	return func(s *Store) {
		if _, exists := s.groupings[name]; !exists {
			s.order = append(s.order, name)
		}
		s.groupings[name] = newFamily(arity)
	}
}

// New creates a rule store. Without options it declares the permission family
// "p" with arity 3 and the grouping family "g" with arity 2.
func New(opts ...Option) *Store {
	s := &Store{
		permission: newFamily(DefaultPermissionArity),
		groupings:  make(map[string]*family),
	}
	for _, opt := range opts {
		opt(s)
	}
	if len(s.groupings) == 0 {
		s.groupings[DefaultGrouping] = newFamily(DefaultGroupingArity)
		s.order = append(s.order, DefaultGrouping)
	}
	return s
}

// GroupingFamilies returns the grouping family names in registration order.
func (s *Store) GroupingFamilies() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}

// Arity returns the declared arity of the named family.
func (s *Store) Arity(name string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := s.family(name)
	if err != nil {
		return 0, err
	}
	return f.arity, nil
}

// Add inserts a rule into the named family. Returns false if the exact rule
// is already present.
func (s *Store) Add(name string, rule ...string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.family(name)
	if err != nil {
		return false, err
	}
	if len(rule) != f.arity {
		return false, arityError(name, f.arity, len(rule))
	}

	key := strings.Join(rule, keySep)
	if _, exists := f.index[key]; exists {
		return false, nil
	}
	f.rules = append(f.rules, slices.Clone(rule))
	f.index[key] = struct{}{}
	return true, nil
}

// Remove deletes an exact rule from the named family. Returns false if the
// rule is not present.
func (s *Store) Remove(name string, rule ...string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.family(name)
	if err != nil {
		return false, err
	}
	if len(rule) != f.arity {
		return false, arityError(name, f.arity, len(rule))
	}

	key := strings.Join(rule, keySep)
	if _, exists := f.index[key]; !exists {
		return false, nil
	}
	delete(f.index, key)
	for i := range f.rules {
		if slices.Equal(f.rules[i], rule) {
			f.rules = slices.Delete(f.rules, i, i+1)
			break
		}
	}
	return true, nil
}

// Has reports whether the exact rule is present in the named family.
func (s *Store) Has(name string, rule ...string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := s.family(name)
	if err != nil {
		return false, err
	}
	if len(rule) != f.arity {
		return false, arityError(name, f.arity, len(rule))
	}

	_, exists := f.index[strings.Join(rule, keySep)]
	return exists, nil
}

// Rules returns a copy of all rules in the named family, in insertion order.
func (s *Store) Rules(name string) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := s.family(name)
	if err != nil {
		return nil, err
	}
	return cloneRules(f.rules), nil
}

// Filtered returns the rules whose values starting at startIndex equal the
// given filter values, in insertion order. Empty filter values match any rule
// value at their position.
func (s *Store) Filtered(name string, startIndex int, values ...string) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := s.family(name)
	if err != nil {
		return nil, err
	}
	if err := checkFilter(name, f.arity, startIndex, values); err != nil {
		return nil, err
	}

	var out [][]string
	for _, rule := range f.rules {
		if matchesFilter(rule, startIndex, values) {
			out = append(out, slices.Clone(rule))
		}
	}
	return out, nil
}

// RemoveFiltered deletes every rule matching the filter and returns the
// removed rules in their original order. An empty filter removes all rules in
// the family.
func (s *Store) RemoveFiltered(name string, startIndex int, values ...string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.family(name)
	if err != nil {
		return nil, err
	}
	if err := checkFilter(name, f.arity, startIndex, values); err != nil {
		return nil, err
	}

	var removed [][]string
	kept := f.rules[:0]
	for _, rule := range f.rules {
		if matchesFilter(rule, startIndex, values) {
			removed = append(removed, rule)
			delete(f.index, strings.Join(rule, keySep))
		} else {
			kept = append(kept, rule)
		}
	}
	f.rules = kept
	return cloneRules(removed), nil
}

// Values returns the distinct values at the given field index across all
// rules in the named family, in first-appearance order.
func (s *Store) Values(name string, fieldIndex int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := s.family(name)
	if err != nil {
		return nil, err
	}
	if fieldIndex < 0 || fieldIndex >= f.arity {
		return nil, arityError(name, f.arity, fieldIndex)
	}
	return distinctField([][][]string{f.rules}, fieldIndex), nil
}

// GroupingValues returns the distinct values at the given field index across
// every grouping family, walking families in registration order. Families
// whose arity does not reach the index are skipped.
func (s *Store) GroupingValues(fieldIndex int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sets [][][]string
	for _, name := range s.order {
		f := s.groupings[name]
		if fieldIndex >= 0 && fieldIndex < f.arity {
			sets = append(sets, f.rules)
		}
	}
	return distinctField(sets, fieldIndex)
}

// Clear removes every rule from every family, keeping the declared schema.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.permission = newFamily(s.permission.arity)
	for name, f := range s.groupings {
		s.groupings[name] = newFamily(f.arity)
	}
}

// family resolves a family by name; callers hold the lock.
func (s *Store) family(name string) (*family, error) {
	if name == PermissionFamily {
		return s.permission, nil
	}
	if f, exists := s.groupings[name]; exists {
		return f, nil
	}
	return nil, errors.Join(ErrUnknownFamily, fmt.Errorf("family %q not declared", name))
}

func arityError(name string, want, got int) error {
	return errors.Join(ErrInvalidArity, fmt.Errorf("family %q expects %d values, got %d", name, want, got))
}

func checkFilter(name string, arity, startIndex int, values []string) error {
	if startIndex < 0 || startIndex+len(values) > arity {
		return arityError(name, arity, startIndex+len(values))
	}
	return nil
}

func matchesFilter(rule []string, startIndex int, values []string) bool {
	for i, v := range values {
		if v != "" && rule[startIndex+i] != v {
			return false
		}
	}
	return true
}

func cloneRules(rules [][]string) [][]string {
	out := make([][]string, len(rules))
	for i, rule := range rules {
		out[i] = slices.Clone(rule)
	}
	return out
}

func distinctField(sets [][][]string, fieldIndex int) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, rules := range sets {
		for _, rule := range rules {
			v := rule[fieldIndex]
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
