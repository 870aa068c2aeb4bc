package controller

import (
	"fmt"
	"slices"
	"strings"
)

// ConfigKey names a control by group and item, e.g. [Channel1],play.
type ConfigKey struct {
	Group string
	Item  string
}

// String renders the key as "group,item".
func (k ConfigKey) String() string {
	return k.Group + "," + k.Item
}

// ParseConfigKey parses the "group,item" form produced by String.
func ParseConfigKey(s string) (ConfigKey, error) {
	group, item, ok := strings.Cut(s, ",")
	if !ok || group == "" || item == "" {
		return ConfigKey{}, fmt.Errorf("ParseConfigKey: %q is not of the form group,item", s)
	}
	return ConfigKey{Group: group, Item: item}, nil
}

// Mapping binds an OSC address to a control.
type Mapping struct {
	Address     string
	Control     ConfigKey
	Description string
}

// MappingSet holds the input mappings of a controller, keyed by OSC address,
// and its output mappings, keyed by control. Several mappings may share a
// key. The zero value is ready to use. A MappingSet is not safe for
// concurrent modification.
type MappingSet struct {
	inputs  map[string][]Mapping
	outputs map[ConfigKey][]Mapping
	dirty   bool
}

// NewMappingSet returns an empty MappingSet.
func NewMappingSet() *MappingSet {
	return &MappingSet{}
}

// AddInputMapping adds m under its address.
func (s *MappingSet) AddInputMapping(m Mapping) {
	if s.inputs == nil {
		s.inputs = make(map[string][]Mapping)
	}
	s.inputs[m.Address] = append(s.inputs[m.Address], m)
	s.dirty = true
}

// RemoveInputMapping removes every input mapping for addr.
func (s *MappingSet) RemoveInputMapping(addr string) {
	delete(s.inputs, addr)
	s.dirty = true
}

// InputMappings returns the input mappings for addr.
func (s *MappingSet) InputMappings(addr string) []Mapping {
	return s.inputs[addr]
}

// AddOutputMapping adds m under its control.
func (s *MappingSet) AddOutputMapping(m Mapping) {
	if s.outputs == nil {
		s.outputs = make(map[ConfigKey][]Mapping)
	}
	s.outputs[m.Control] = append(s.outputs[m.Control], m)
	s.dirty = true
}

// RemoveOutputMapping removes every output mapping for key.
func (s *MappingSet) RemoveOutputMapping(key ConfigKey) {
	delete(s.outputs, key)
	s.dirty = true
}

// OutputMappings returns the output mappings for key.
func (s *MappingSet) OutputMappings(key ConfigKey) []Mapping {
	return s.outputs[key]
}

// AllInputMappings returns every input mapping, sorted by address. Mappings
// sharing an address keep the order they were added in.
func (s *MappingSet) AllInputMappings() []Mapping {
	keys := make([]string, 0, len(s.inputs))
	for k := range s.inputs {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var all []Mapping
	for _, k := range keys {
		all = append(all, s.inputs[k]...)
	}
	return all
}

// AllOutputMappings returns every output mapping, sorted by control.
func (s *MappingSet) AllOutputMappings() []Mapping {
	keys := make([]ConfigKey, 0, len(s.outputs))
	for k := range s.outputs {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b ConfigKey) int {
		return strings.Compare(a.String(), b.String())
	})

	var all []Mapping
	for _, k := range keys {
		all = append(all, s.outputs[k]...)
	}
	return all
}

// Dirty reports whether the set changed since the last SetDirty(false).
func (s *MappingSet) Dirty() bool {
	return s.dirty
}

func (s *MappingSet) SetDirty(dirty bool) {
	s.dirty = dirty
}

// Clone returns a deep copy of the set.
func (s *MappingSet) Clone() *MappingSet {
	c := &MappingSet{dirty: s.dirty}
	for k, v := range s.inputs {
		if c.inputs == nil {
			c.inputs = make(map[string][]Mapping, len(s.inputs))
		}
		c.inputs[k] = slices.Clone(v)
	}
	for k, v := range s.outputs {
		if c.outputs == nil {
			c.outputs = make(map[ConfigKey][]Mapping, len(s.outputs))
		}
		c.outputs[k] = slices.Clone(v)
	}
	return c
}
