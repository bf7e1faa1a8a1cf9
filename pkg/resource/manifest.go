package resource

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest loading turns declarative YAML resource lists into Resources.
// This is a convenience front end for the build driver and tests; it is
// not the KDL language, which is parsed upstream.

type yamlManifest struct {
	Resources []yamlResource `yaml:"resources"`
}

type yamlResource struct {
	Type   string      `yaml:"type"`
	ID     int64       `yaml:"id"`
	Name   string      `yaml:"name"`
	Fields []yamlField `yaml:"fields"`
}

type yamlField struct {
	Name   string          `yaml:"name"`
	Values []yamlFieldItem `yaml:"values"`
}

type yamlFieldItem struct {
	Literal string `yaml:"literal"`
	Type    string `yaml:"type"`
}

// ParseManifest parses a YAML resource manifest.
func ParseManifest(data []byte) ([]*Resource, error) {
	var y yamlManifest
	if err := yaml.Unmarshal(data, &y); err != nil {
		return nil, fmt.Errorf("YAML parse error: %w", err)
	}

	resources := make([]*Resource, 0, len(y.Resources))
	for _, yr := range y.Resources {
		if yr.Type == "" {
			return nil, fmt.Errorf("resource #%d %q: missing type", yr.ID, yr.Name)
		}
		res := New(yr.Type, yr.ID, yr.Name)
		for _, yf := range yr.Fields {
			if yf.Name == "" {
				return nil, fmt.Errorf("resource %s #%d: field with no name", yr.Type, yr.ID)
			}
			values := make([]Value, 0, len(yf.Values))
			for _, yv := range yf.Values {
				vt, err := parseValueType(yv.Type)
				if err != nil {
					return nil, fmt.Errorf("resource %s #%d field %q: %w", yr.Type, yr.ID, yf.Name, err)
				}
				values = append(values, Value{Literal: yv.Literal, Type: vt})
			}
			res.AddField(NewField(yf.Name, values...))
		}
		resources = append(resources, res)
	}
	return resources, nil
}

// LoadManifest reads and parses a YAML resource manifest file.
func LoadManifest(path string) ([]*Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	resources, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return resources, nil
}

func parseValueType(name string) (ValueType, error) {
	switch name {
	case "integer", "":
		return ValueInteger, nil
	case "percentage":
		return ValuePercentage, nil
	case "resource-id", "resource_id":
		return ValueResourceID, nil
	case "string":
		return ValueString, nil
	case "identifier":
		return ValueIdentifier, nil
	case "file-reference", "file_reference":
		return ValueFileReference, nil
	case "color":
		return ValueColor, nil
	default:
		return 0, fmt.Errorf("unknown value type %q", name)
	}
}
