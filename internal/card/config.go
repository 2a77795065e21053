package card

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// registryFile is the on-disk registry override format:
//
//	tolerance = 1.0e-6
//
//	[[card]]
//	name = "CROD"
//	id-fields = [0]
//	arity = 4
//	synonyms = ["CONROD"]
//
//	[[card]]
//	name = "CORD1R"
//	no-id = true
//
// Entries merge over the built-in defaults; tolerance replaces the
// default when present.
type registryFile struct {
	Tolerance float64     `toml:"tolerance"`
	Cards     []cardEntry `toml:"card"`
}

type cardEntry struct {
	Name     string   `toml:"name"`
	IDFields []int    `toml:"id-fields"`
	NoID     bool     `toml:"no-id"`
	Arity    int      `toml:"arity"`
	Synonyms []string `toml:"synonyms"`
}

// LoadRegistry reads a TOML registry file and merges it over the
// defaults. Unknown keys are rejected: a typo in domain configuration
// must not silently fall back to defaults.
func LoadRegistry(path string) (*Registry, error) {
	r := DefaultRegistry()
	if err := mergeRegistryFile(r, path); err != nil {
		return nil, err
	}
	return r, nil
}

func mergeRegistryFile(r *Registry, path string) error {
	var file registryFile
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return fmt.Errorf("registry %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("registry %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if file.Tolerance != 0 {
		if err := r.SetTolerance(file.Tolerance); err != nil {
			return fmt.Errorf("registry %s: %w", path, err)
		}
	}
	for _, entry := range file.Cards {
		if strings.TrimSpace(entry.Name) == "" {
			return fmt.Errorf("registry %s: card entry without a name", path)
		}
		if entry.NoID && len(entry.IDFields) > 0 {
			return fmt.Errorf("registry %s: card %s cannot be no-id and have id-fields", path, entry.Name)
		}
		r.Register(Spec{
			Name:     entry.Name,
			IDFields: entry.IDFields,
			NoID:     entry.NoID,
			Arity:    entry.Arity,
		})
		if len(entry.Synonyms) > 0 {
			if err := r.AddSynonyms(entry.Name, entry.Synonyms...); err != nil {
				return fmt.Errorf("registry %s: %w", path, err)
			}
		}
	}
	return nil
}
