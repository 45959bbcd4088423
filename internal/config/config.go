package config

import (
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"
)

// Emit targets
const (
	EmitGo     = "go"
	EmitSchema = "schema"
)

// Config represents the complete configuration for jsonshape
type Config struct {
	Naming     NamingConfig     `yaml:"naming"`
	Types      TypesConfig      `yaml:"types"`
	Output     OutputConfig     `yaml:"output"`
	Formatting FormattingConfig `yaml:"formatting"`
}

// NamingConfig controls declaration and member naming
type NamingConfig struct {
	Prefix           string            `yaml:"prefix"`
	PascalCaseFields bool              `yaml:"pascal_case_fields"`
	FieldMappings    map[string]string `yaml:"field_mappings"`
}

// TypesConfig maps primitive kinds to Go type names
type TypesConfig struct {
	Null   string `yaml:"null"`
	String string `yaml:"string"`
	Int    string `yaml:"int"`
	Float  string `yaml:"float"`
	Bool   string `yaml:"bool"`
}

// UnmarshalYAML decodes the types mapping. A bare null key is parsed by YAML
// as a null scalar rather than the string "null", so keys are matched on
// their resolved tag as well as their text.
func (t *TypesConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: types must be a mapping", node.Line)
	}

	targets := map[string]*string{
		"null":   &t.Null,
		"string": &t.String,
		"int":    &t.Int,
		"float":  &t.Float,
		"bool":   &t.Bool,
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		name := key.Value
		if key.Tag == "!!null" {
			name = "null"
		}
		target, ok := targets[name]
		if !ok {
			continue
		}
		if err := value.Decode(target); err != nil {
			return fmt.Errorf("line %d: types.%s: %w", value.Line, name, err)
		}
	}
	return nil
}

// OutputConfig controls what surrounds the emitted declarations
type OutputConfig struct {
	Package    string `yaml:"package"`
	RootName   string `yaml:"root_name"`
	FileHeader string `yaml:"file_header"`
	Emit       string `yaml:"emit"`
}

// FormattingConfig controls code formatting options
type FormattingConfig struct {
	Enabled bool `yaml:"enabled"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Naming: NamingConfig{
			Prefix:           "Type",
			PascalCaseFields: true,
			FieldMappings:    make(map[string]string),
		},
		Types: TypesConfig{
			Null:   "struct{}",
			String: "string",
			Int:    "int64",
			Float:  "float64",
			Bool:   "bool",
		},
		Output: OutputConfig{
			Emit: EmitGo,
		},
		Formatting: FormattingConfig{
			Enabled: true,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults so a partial file only overrides what it names
	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsonshape.yml", ".jsonshape.yaml", "jsonshape.yml", "jsonshape.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks that the configuration can produce valid output
func (c *Config) Validate() error {
	if !token.IsIdentifier(c.Naming.Prefix) || !isExported(c.Naming.Prefix) {
		return fmt.Errorf("naming prefix %q must be an exported Go identifier", c.Naming.Prefix)
	}
	if c.Output.Package != "" && !token.IsIdentifier(c.Output.Package) {
		return fmt.Errorf("package name %q is not a valid Go identifier", c.Output.Package)
	}
	if c.Output.RootName != "" && !token.IsIdentifier(c.Output.RootName) {
		return fmt.Errorf("root name %q is not a valid Go identifier", c.Output.RootName)
	}
	switch c.Output.Emit {
	case EmitGo, EmitSchema:
	default:
		return fmt.Errorf("emit target %q must be %q or %q", c.Output.Emit, EmitGo, EmitSchema)
	}

	primitives := []struct{ kind, name string }{
		{"null", c.Types.Null},
		{"string", c.Types.String},
		{"int", c.Types.Int},
		{"float", c.Types.Float},
		{"bool", c.Types.Bool},
	}
	for _, p := range primitives {
		if strings.TrimSpace(p.name) == "" {
			return fmt.Errorf("type name for %s must not be empty", p.kind)
		}
	}
	return nil
}

// GetFieldName returns the Go member name for a JSON key, applying naming
// rules. The result is always a valid, exported Go identifier.
func (c *Config) GetFieldName(jsonKey string) string {
	if mapped, exists := c.Naming.FieldMappings[jsonKey]; exists && token.IsIdentifier(mapped) {
		return mapped
	}

	name := jsonKey
	if c.Naming.PascalCaseFields {
		name = strcase.ToCamel(jsonKey)
	}
	return sanitizeIdentifier(name)
}

// sanitizeIdentifier drops runes that cannot appear in an identifier and
// makes sure the result starts with an upper-case letter.
func sanitizeIdentifier(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			sb.WriteRune(r)
		}
	}
	ident := sb.String()
	if ident == "" {
		return "Field"
	}

	first := []rune(ident)[0]
	switch {
	case unicode.IsUpper(first):
	case unicode.IsLetter(first):
		ident = string(unicode.ToUpper(first)) + ident[len(string(first)):]
	default:
		ident = "F" + ident
	}
	return ident
}

func isExported(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}

// Overrides carries values set on the command line. Empty strings and nil
// pointers mean "not set" and leave the loaded configuration untouched.
type Overrides struct {
	Package  string
	RootName string
	Prefix   string
	Emit     string
	Format   *bool
}

// ApplyOverrides merges CLI overrides into the configuration and validates
// the result.
func (c *Config) ApplyOverrides(o Overrides) error {
	if o.Package != "" {
		c.Output.Package = o.Package
	}
	if o.RootName != "" {
		c.Output.RootName = o.RootName
	}
	if o.Prefix != "" {
		c.Naming.Prefix = o.Prefix
	}
	if o.Emit != "" {
		c.Output.Emit = o.Emit
	}
	if o.Format != nil {
		c.Formatting.Enabled = *o.Format
	}
	return c.Validate()
}

// Load resolves the configuration used by a run: an explicit path wins,
// otherwise the nearest config file is used, otherwise defaults apply.
func Load(path string) (*Config, error) {
	if path == "" {
		path = FindConfigFile()
	}
	if path == "" {
		return NewConfig(), nil
	}
	return LoadConfig(path)
}
