package controller

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

type mappingFile struct {
	Inputs  []mappingEntry `yaml:"inputs"`
	Outputs []mappingEntry `yaml:"outputs"`
}

type mappingEntry struct {
	Address     string `yaml:"address"`
	Group       string `yaml:"group"`
	Item        string `yaml:"item"`
	Description string `yaml:"description,omitempty"`
}

func (e mappingEntry) mapping() (Mapping, error) {
	if !strings.HasPrefix(e.Address, "/") {
		return Mapping{}, fmt.Errorf("address %q must start with /", e.Address)
	}
	if e.Group == "" || e.Item == "" {
		return Mapping{}, fmt.Errorf("%s: group and item are required", e.Address)
	}
	return Mapping{
		Address:     e.Address,
		Control:     ConfigKey{Group: e.Group, Item: e.Item},
		Description: e.Description,
	}, nil
}

// ReadMappings decodes a YAML mapping file:
//
//	inputs:
//	  - address: /deck/1/play
//	    group: "[Channel1]"
//	    item: play
//	outputs:
//	  - address: /deck/1/play/led
//	    group: "[Channel1]"
//	    item: play
//
// The returned set is not dirty.
func ReadMappings(r io.Reader) (*MappingSet, error) {
	var f mappingFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("ReadMappings: %w", err)
	}

	set := NewMappingSet()
	for i, e := range f.Inputs {
		m, err := e.mapping()
		if err != nil {
			return nil, fmt.Errorf("ReadMappings: input %d: %w", i, err)
		}
		set.AddInputMapping(m)
	}
	for i, e := range f.Outputs {
		m, err := e.mapping()
		if err != nil {
			return nil, fmt.Errorf("ReadMappings: output %d: %w", i, err)
		}
		set.AddOutputMapping(m)
	}
	set.SetDirty(false)
	return set, nil
}

// WriteMappings encodes s in the format ReadMappings reads.
func WriteMappings(w io.Writer, s *MappingSet) error {
	var f mappingFile
	for _, m := range s.AllInputMappings() {
		f.Inputs = append(f.Inputs, entryOf(m))
	}
	for _, m := range s.AllOutputMappings() {
		f.Outputs = append(f.Outputs, entryOf(m))
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("WriteMappings: %w", err)
	}
	return enc.Close()
}

// Controls returns every control the set refers to, without duplicates.
func (s *MappingSet) Controls() []ConfigKey {
	seen := make(map[ConfigKey]bool)
	var keys []ConfigKey
	for _, m := range append(s.AllInputMappings(), s.AllOutputMappings()...) {
		if !seen[m.Control] {
			seen[m.Control] = true
			keys = append(keys, m.Control)
		}
	}
	return keys
}

func entryOf(m Mapping) mappingEntry {
	return mappingEntry{
		Address:     m.Address,
		Group:       m.Control.Group,
		Item:        m.Control.Item,
		Description: m.Description,
	}
}
