package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// ExportProfiles writes the config's profiles to path as a JSON array, the
// interchange format for sharing profiles between installations.
func (c *Config) ExportProfiles(path string) error {
	data, err := json.MarshalIndent(c.Profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profiles: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("export profiles: %w", err)
	}
	return nil
}

// ImportProfiles merges the profiles from a JSON file into the config.
// Profiles whose name is already taken are skipped; the number of profiles
// actually added is returned.
func (c *Config) ImportProfiles(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("import profiles: %w", err)
	}
	var incoming []Profile
	if err := json.Unmarshal(data, &incoming); err != nil {
		return 0, fmt.Errorf("parse profiles %s: %w", path, err)
	}
	added := 0
	for _, p := range incoming {
		if err := c.AddProfile(p); err != nil {
			continue
		}
		added++
	}
	return added, nil
}
