package db

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dsjohal14/quitoemprende/internal/scope/catalog"
	"gopkg.in/yaml.v3"
)

// Seed is a catalog import file
type Seed struct {
	Productos       []catalog.Product `json:"productos"`
	Emprendimientos []catalog.Venture `json:"emprendimientos"`
}

// ReadSeed parses a YAML or JSON seed file, chosen by extension
func ReadSeed(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("failed to read seed: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		// YAML goes through a generic value so the JSON field names and decoders apply
		var generic any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return Seed{}, fmt.Errorf("failed to parse seed yaml: %w", err)
		}
		if data, err = json.Marshal(generic); err != nil {
			return Seed{}, fmt.Errorf("failed to convert seed yaml: %w", err)
		}
	}

	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("failed to parse seed: %w", err)
	}
	return seed, nil
}

// LoadSeed replaces the catalog with the contents of a seed file
func (s *Store) LoadSeed(path string) (Seed, error) {
	seed, err := ReadSeed(path)
	if err != nil {
		return Seed{}, err
	}
	s.SetCatalog(seed.Productos, seed.Emprendimientos)
	return seed, nil
}
