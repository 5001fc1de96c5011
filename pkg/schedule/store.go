package schedule

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Document is the on-disk shape of a schedule file.
type Document struct {
	Profiles []Profile `json:"profiles"`
}

// Store holds the parsed profiles for the lifetime of the process.
// It is immutable after Parse and safe for concurrent reads.
type Store struct {
	profiles []Profile
}

// NewStore builds a Store from already validated profiles. Most
// callers use Parse or LoadFile instead.
func NewStore(profiles []Profile) *Store {
	return &Store{profiles: profiles}
}

// Parse decodes a schedule document and validates every profile.
// Unknown fields are rejected so typos fail at startup instead of
// silently dropping a window.
func Parse(data []byte) (*Store, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("error parsing schedule document: %w", err)
	}
	if len(doc.Profiles) == 0 {
		return nil, fmt.Errorf("schedule document contains no profiles")
	}

	seen := make(map[string]bool, len(doc.Profiles))
	for _, p := range doc.Profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("duplicate profile name %q", p.Name)
		}
		seen[p.Name] = true
	}

	return &Store{profiles: doc.Profiles}, nil
}

// LoadFile parses the schedule document at path.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading schedule file: %w", err)
	}
	return Parse(data)
}

// Profiles returns the profiles in document order. The returned slice
// must not be modified.
func (s *Store) Profiles() []Profile {
	return s.profiles
}

// Len returns the number of profiles.
func (s *Store) Len() int {
	return len(s.profiles)
}

// Regions returns the distinct regions referenced by the profiles, in
// first-appearance order.
func (s *Store) Regions() []string {
	var regions []string
	seen := make(map[string]bool)
	for _, p := range s.profiles {
		if !seen[p.Region] {
			seen[p.Region] = true
			regions = append(regions, p.Region)
		}
	}
	return regions
}
