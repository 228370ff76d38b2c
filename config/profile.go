package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultMaxPages is used when neither the profile nor the flags set a limit.
const DefaultMaxPages = 3

// Profile describes one search-and-apply run.
type Profile struct {
	Term      string   `yaml:"term"`
	Location  string   `yaml:"location"`
	MaxPages  int      `yaml:"max_pages"`
	Blacklist []string `yaml:"blacklist"`
}

// LoadProfile reads a YAML run profile. An empty path yields an empty
// profile with default limits.
func LoadProfile(path string) (Profile, error) {
	p := Profile{MaxPages: DefaultMaxPages}
	if path == "" {
		return p, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read profile: %w", err)
	}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return p, fmt.Errorf("parse profile %s: %w", path, err)
	}
	if p.MaxPages <= 0 {
		p.MaxPages = DefaultMaxPages
	}
	return p, nil
}

// Validate checks that the profile can drive a run.
func (p Profile) Validate() error {
	if p.Term == "" {
		return fmt.Errorf("profile: search term is required")
	}
	if p.MaxPages < 1 {
		return fmt.Errorf("profile: max_pages must be at least 1, got %d", p.MaxPages)
	}
	return nil
}

// BlacklistSet returns the blacklist as a lookup set. Names match exactly.
func (p Profile) BlacklistSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.Blacklist))
	for _, name := range p.Blacklist {
		set[name] = struct{}{}
	}
	return set
}
