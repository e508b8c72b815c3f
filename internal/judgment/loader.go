package judgment

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/DjordjeVuckovic/rank-eval/internal/apperr"
	"gopkg.in/yaml.v3"
)

// LoadFromFile reads a judgment file. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON.
func LoadFromFile(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.NewFile(path, err)
	}

	var set Set
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		set, err = ParseYAML(data)
	default:
		set, err = Parse(data)
	}
	if err != nil {
		var pe *apperr.ParseError
		if errors.As(err, &pe) && pe.Path == "" {
			pe.Path = path
		}
		return nil, err
	}
	return set, nil
}

// Parse decodes a JSON judgment document.
func Parse(data []byte) (Set, error) {
	var raw []rawGroup
	if err := json.Unmarshal(data, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, apperr.NewSchema(fmt.Sprintf("unexpected %s at %q", typeErr.Value, typeErr.Field))
		}
		return nil, apperr.NewParse("", err)
	}
	if raw == nil {
		return nil, apperr.NewSchema("top-level value must be an array")
	}
	return fromRaw(raw)
}

// ParseYAML decodes a YAML judgment document with the same shape as the JSON one.
func ParseYAML(data []byte) (Set, error) {
	var raw []rawGroup
	if err := yaml.Unmarshal(data, &raw); err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return nil, apperr.NewSchema(strings.Join(typeErr.Errors, "; "))
		}
		return nil, apperr.NewParse("", err)
	}
	if raw == nil {
		return nil, apperr.NewSchema("top-level value must be a sequence")
	}
	return fromRaw(raw)
}

func fromRaw(raw []rawGroup) (Set, error) {
	set := make(Set, 0, len(raw))
	for i, rg := range raw {
		if rg.Queries == nil {
			return nil, apperr.NewSchema(fmt.Sprintf("group %d: missing %q", i, "queries"))
		}
		if rg.Items == nil {
			return nil, apperr.NewSchema(fmt.Sprintf("group %d: missing %q", i, "items"))
		}

		for j, q := range *rg.Queries {
			if strings.TrimSpace(q) == "" {
				return nil, apperr.NewSchema(fmt.Sprintf("group %d: query %d is blank", i, j))
			}
		}

		items := make([]RatedDocument, 0, len(*rg.Items))
		for j, it := range *rg.Items {
			if it.Hash == nil {
				return nil, apperr.NewSchema(fmt.Sprintf("group %d item %d: missing %q", i, j, "hash"))
			}
			if it.Rating == nil {
				return nil, apperr.NewSchema(fmt.Sprintf("group %d item %d: missing %q", i, j, "rating"))
			}
			items = append(items, RatedDocument{Hash: *it.Hash, Rating: *it.Rating})
		}

		set = append(set, Group{Queries: *rg.Queries, Items: items})
	}
	return set, nil
}
