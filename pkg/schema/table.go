package schema

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/Thunderforge/kestrel-development-kit/pkg/rsrc"
	"github.com/Thunderforge/kestrel-development-kit/pkg/version"
)

// Table holds the field schemas for one resource type, in declaration
// order. Tables are built once (in code or from YAML) and shared
// read-only across assemblies.
type Table struct {
	// Type is the resource type tag the table applies to.
	Type string

	// Fields are the field schemas in declaration order. The assembler
	// walks them in this order, not in resource field order.
	Fields []FieldSchema
}

// IntegerDefault returns a default generator that writes value with the
// given width and signedness. Widths outside {1,2,4,8} write nothing;
// they are rejected earlier by table validation.
func IntegerDefault(value int64, size int, signed bool) DefaultValueFunc {
	return func(d *rsrc.Data) {
		if signed {
			switch size {
			case 1:
				d.WriteSignedByte(int8(value))
			case 2:
				d.WriteSignedWord(int16(value))
			case 4:
				d.WriteSignedLong(int32(value))
			case 8:
				d.WriteSignedQuad(value)
			}
			return
		}
		switch size {
		case 1:
			d.WriteByte(uint8(value))
		case 2:
			d.WriteWord(uint16(value))
		case 4:
			d.WriteLong(uint32(value))
		case 8:
			d.WriteQuad(uint64(value))
		}
	}
}

// yamlTable is the YAML document structure of a schema table.
type yamlTable struct {
	Version string      `yaml:"version"`
	Type    string      `yaml:"type"`
	Fields  []yamlField `yaml:"fields"`
}

type yamlField struct {
	Name       string      `yaml:"name"`
	Required   bool        `yaml:"required"`
	Deprecated bool        `yaml:"deprecated"`
	Values     []yamlValue `yaml:"values"`
}

type yamlValue struct {
	Name    string    `yaml:"name"`
	Types   []string  `yaml:"types"`
	Offset  int       `yaml:"offset"`
	Size    int       `yaml:"size"`
	Signed  bool      `yaml:"signed"`
	Symbols yaml.Node `yaml:"symbols"`
	Default *int64    `yaml:"default"`
}

// ParseTable parses a YAML schema table.
func ParseTable(data []byte) (*Table, error) {
	var y yamlTable
	if err := yaml.Unmarshal(data, &y); err != nil {
		return nil, fmt.Errorf("YAML parse error: %w", err)
	}
	if y.Type == "" {
		return nil, fmt.Errorf("schema table missing resource type")
	}
	// The version key is optional; absent tables are taken as current.
	if y.Version != "" {
		if err := version.CheckCurrent(y.Version); err != nil {
			return nil, fmt.Errorf("schema table %q: %w", y.Type, err)
		}
	}

	table := &Table{Type: y.Type}
	for _, yf := range y.Fields {
		if yf.Name == "" {
			return nil, fmt.Errorf("schema table %q: field with no name", y.Type)
		}

		fs := Named(yf.Name)
		if yf.Required {
			fs = fs.SetRequired()
		}
		if yf.Deprecated {
			fs = fs.SetDeprecated()
		}

		values := make([]ValueSchema, 0, len(yf.Values))
		for i, yv := range yf.Values {
			vs, err := parseYAMLValue(yf.Name, i, yv)
			if err != nil {
				return nil, err
			}
			values = append(values, vs)
		}
		fs = fs.SetValues(values...)
		table.Fields = append(table.Fields, fs)
	}
	return table, nil
}

// LoadTable reads and parses a YAML schema table file.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	table, err := ParseTable(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

func parseYAMLValue(field string, index int, yv yamlValue) (ValueSchema, error) {
	name := yv.Name
	if name == "" {
		name = field
	}

	var mask TypeMask
	for _, t := range yv.Types {
		bit, err := parseMaskName(t)
		if err != nil {
			return ValueSchema{}, fmt.Errorf("field %q value %d: %w", field, index, err)
		}
		mask |= bit
	}
	if mask == 0 {
		return ValueSchema{}, fmt.Errorf("field %q value %d: no types declared", field, index)
	}
	if yv.Offset < 0 {
		return ValueSchema{}, fmt.Errorf("field %q value %d: negative offset %d", field, index, yv.Offset)
	}

	// String slots may carry arbitrary widths (Pascal strings ignore the
	// declared size); integer-like slots must be 1, 2, 4 or 8 bytes.
	if !mask.Has(MaskString) {
		switch yv.Size {
		case 1, 2, 4, 8:
		default:
			return ValueSchema{}, fmt.Errorf("field %q value %d: illegal encoding width %d", field, index, yv.Size)
		}
	} else if yv.Size < 0 {
		return ValueSchema{}, fmt.Errorf("field %q value %d: negative size %d", field, index, yv.Size)
	}

	vs := Expect(name, mask, yv.Offset, yv.Size)
	if yv.Signed {
		vs = vs.WithSigned()
	}

	symbols, err := parseYAMLSymbols(yv.Symbols)
	if err != nil {
		return ValueSchema{}, fmt.Errorf("field %q value %d: %w", field, index, err)
	}
	if len(symbols) > 0 {
		vs = vs.WithSymbols(symbols...)
	}

	if yv.Default != nil {
		vs = vs.WithDefaultValue(IntegerDefault(*yv.Default, yv.Size, yv.Signed))
	}
	return vs, nil
}

func parseMaskName(name string) (TypeMask, error) {
	switch name {
	case "integer":
		return MaskInteger, nil
	case "bitmask":
		return MaskBitmask, nil
	case "string":
		return MaskString, nil
	case "color":
		return MaskColor, nil
	case "resource-reference", "resource_reference":
		return MaskResourceReference, nil
	case "cstr":
		return MaskCStr, nil
	default:
		return 0, fmt.Errorf("unknown value type %q", name)
	}
}

// parseYAMLSymbols walks the symbols mapping node directly so the table
// keeps document order; assembly resolves symbols by linear scan in that
// order.
func parseYAMLSymbols(node yaml.Node) ([]Symbol, error) {
	if node.Kind == 0 || node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: symbols must be a mapping", node.Line)
	}

	var symbols []Symbol
	for i := 0; i < len(node.Content)-1; i += 2 {
		key := node.Content[i]
		val := node.Content[i+1]

		// Base 0 admits hex symbol values like 0x0100.
		n, err := strconv.ParseInt(val.Value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: symbol %q: invalid value %q", val.Line, key.Value, val.Value)
		}
		symbols = append(symbols, Symbol{Name: key.Value, Value: n})
	}
	return symbols, nil
}
