package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mcncl/jsonshape/internal/config"
	"github.com/mcncl/jsonshape/internal/shape"
)

// Declaration is one emitted Go type declaration
type Declaration struct {
	Name string
	Kind shape.Kind
	Text string
}

// Result is the output of Declare: declarations in emission order and the
// type expression a user references to use the whole schema
type Result struct {
	Declarations []Declaration
	Root         string
}

// Texts returns the declaration bodies in emission order
func (r Result) Texts() []string {
	texts := make([]string, len(r.Declarations))
	for i, d := range r.Declarations {
		texts[i] = d.Text
	}
	return texts
}

// Generator emits Go declarations for inferred types
type Generator struct {
	config *config.Config
}

// NewGenerator creates a new Generator instance with default configuration
func NewGenerator() *Generator {
	return &Generator{config: config.NewConfig()}
}

// NewGeneratorWithConfig creates a new Generator instance with custom configuration
func NewGeneratorWithConfig(cfg *config.Config) *Generator {
	return &Generator{config: cfg}
}

// decls is the emission state of a single Declare call
type decls struct {
	cfg       *config.Config
	nextIndex int
	list      []Declaration
}

// Declare walks t and returns one declaration per object or variant node.
// Names are numbered in pre-order (a node is named when entered); a node's
// declaration is appended once its children have been declared, so nested
// declarations always precede the declaration that references them.
func (g *Generator) Declare(t shape.Type) Result {
	d := &decls{cfg: g.config}
	root := d.declare(t)
	return Result{Declarations: d.list, Root: root}
}

// Declare emits declarations for t using the default configuration
func Declare(t shape.Type) Result {
	return NewGenerator().Declare(t)
}

func (d *decls) declare(t shape.Type) string {
	if t.Kind().IsComposite() {
		if t.Kind() == shape.Object {
			return d.declareStruct(t)
		}
		return d.declareUnion(t)
	}

	switch t.Kind() {
	case shape.Null:
		return d.cfg.Types.Null
	case shape.String:
		return d.cfg.Types.String
	case shape.Int:
		return d.cfg.Types.Int
	case shape.Float:
		return d.cfg.Types.Float
	case shape.Bool:
		return d.cfg.Types.Bool
	default:
		return "[]" + d.declare(t.Elem())
	}
}

func (d *decls) newName() string {
	name := d.cfg.Naming.Prefix + strconv.Itoa(d.nextIndex)
	d.nextIndex++
	return name
}

func (d *decls) declareStruct(t shape.Type) string {
	name := d.newName()

	var sb strings.Builder
	fmt.Fprintf(&sb, "type %s struct {\n", name)
	used := make(map[string]int)
	for _, field := range t.Fields() {
		typeName := d.declare(field.Type)
		fmt.Fprintf(&sb, "\t%s %s %s\n", uniqueName(used, d.cfg.GetFieldName(field.Name)), typeName, jsonTag(field.Name))
	}
	sb.WriteString("}")

	d.list = append(d.list, Declaration{Name: name, Kind: shape.Object, Text: sb.String()})
	return name
}

func (d *decls) declareUnion(t shape.Type) string {
	name := d.newName()

	var sb strings.Builder
	fmt.Fprintf(&sb, "type %s struct {\n", name)
	for idx, option := range t.Options() {
		typeName := d.declare(option)
		fmt.Fprintf(&sb, "\tOption%d *%s\n", idx, typeName)
	}
	sb.WriteString("}")

	d.list = append(d.list, Declaration{Name: name, Kind: shape.Variant, Text: sb.String()})
	return name
}

// uniqueName returns name, or name with a numeric suffix when an earlier
// member of the same struct already took it.
func uniqueName(used map[string]int, name string) string {
	count := used[name]
	used[name] = count + 1
	if count == 0 {
		return name
	}
	candidate := fmt.Sprintf("%s%d", name, count+1)
	for used[candidate] > 0 {
		count++
		candidate = fmt.Sprintf("%s%d", name, count+1)
	}
	used[candidate] = 1
	return candidate
}

// jsonTag builds the struct tag that maps a member back to its verbatim key.
func jsonTag(key string) string {
	tag := "json:" + strconv.Quote(key)
	if strings.Contains(tag, "`") {
		return strconv.Quote(tag)
	}
	return "`" + tag + "`"
}
