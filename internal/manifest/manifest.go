// Package manifest decodes TOML manifests that declare heap types and
// builds them with a typeready.Engine.
package manifest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is a list of type declarations built in file order.
type Manifest struct {
	// Module, if set, names the module every declared type belongs to.
	Module string     `toml:"module"`
	Types  []TypeDecl `toml:"type"`
}

// TypeDecl declares one heap type.
type TypeDecl struct {
	Name      string            `toml:"name"`
	BasicSize int64             `toml:"basic_size"`
	ItemSize  int64             `toml:"item_size"`
	Flags     []string          `toml:"flags"`
	Bases     []string          `toml:"bases"`
	Doc       string            `toml:"doc"`
	Slots     map[string]string `toml:"slots"` // slot name -> native function
	Methods   []MethodDecl      `toml:"methods"`
	Members   []MemberDecl      `toml:"members"`
	GetSets   []GetSetDecl      `toml:"getsets"`
}

type MethodDecl struct {
	Name  string   `toml:"name"`
	Func  string   `toml:"func"`
	Flags []string `toml:"flags"`
	Doc   string   `toml:"doc"`
}

type MemberDecl struct {
	Name     string `toml:"name"`
	Kind     string `toml:"kind"`
	Offset   int64  `toml:"offset"`
	ReadOnly bool   `toml:"readonly"`
	Doc      string `toml:"doc"`
}

type GetSetDecl struct {
	Name string `toml:"name"`
	Get  string `toml:"get"`
	Set  string `toml:"set"`
	Doc  string `toml:"doc"`
}

// Load decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	if err := checkDecoded(meta); err != nil {
		return nil, fmt.Errorf("load manifest %s: %w", path, err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Parse decodes a manifest held in memory.
func Parse(src string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.Decode(src, &m)
	if err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := checkDecoded(meta); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// checkDecoded rejects keys that do not map onto a declaration field.
func checkDecoded(meta toml.MetaData) error {
	undecoded := meta.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}
	sort.Strings(keys)
	return fmt.Errorf("unknown keys %s", strings.Join(keys, ", "))
}

func (m *Manifest) validate() error {
	seen := make(map[string]bool, len(m.Types))
	for i, d := range m.Types {
		if d.Name == "" {
			// Left to the builder, which reports a missing name.
			continue
		}
		if seen[d.Name] {
			return fmt.Errorf("manifest: type[%d]: %s declared twice", i, d.Name)
		}
		seen[d.Name] = true
	}
	return nil
}
