// Package tomlcat reads and writes a whole catalog as a single TOML file.
package tomlcat

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/altinkaya-opensource/odoo-addons/pkg/infrastructure/catalog"
)

// Load reads a catalog.toml file into a snapshot
func Load(path string) (*catalog.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	snap, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return snap, nil
}

// Parse decodes TOML catalog data. Decimal fields accept both numbers and strings.
func Parse(data []byte) (*catalog.Snapshot, error) {
	var snap catalog.Snapshot
	if err := toml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return &snap, nil
}

// Write encodes snap as TOML into path
func Write(path string, snap *catalog.Snapshot) error {
	data, err := toml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing catalog %s: %w", path, err)
	}
	return nil
}
