package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/mcncl/jsonshape/internal/analyzer"
	"github.com/mcncl/jsonshape/internal/config"
	"github.com/mcncl/jsonshape/internal/errors"
	"github.com/mcncl/jsonshape/internal/formatter"
	"github.com/mcncl/jsonshape/internal/generator"
	"github.com/mcncl/jsonshape/internal/logging"
	"github.com/mcncl/jsonshape/internal/models"
	"github.com/mcncl/jsonshape/internal/parser"
	"github.com/mcncl/jsonshape/internal/query"
	"github.com/mcncl/jsonshape/internal/schema"
	"github.com/mcncl/jsonshape/internal/shape"
)

// CLI defines the command-line interface
var CLI struct {
	File     string           `arg:"" optional:"" help:"Path to input JSON file, or - for stdin. Reads stdin when omitted."`
	Output   string           `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Config   string           `help:"Path to a YAML config file. Defaults to the nearest .jsonshape.yml." short:"c" type:"path"`
	Package  string           `help:"Prepend a package clause with this name." short:"p"`
	RootName string           `help:"Declare an alias with this name for the root type." short:"r"`
	Prefix   string           `help:"Prefix for generated declaration names (default Type)."`
	Emit     string           `help:"Output kind: go or schema." short:"e"`
	Query    string           `help:"jq expression selecting the sub-document to infer from." short:"q"`
	Verify   bool             `help:"Validate the input against the inferred schema before writing output."`
	Format   bool             `help:"Format declarations with gofmt, even if disabled in config." xor:"format"`
	NoFormat bool             `help:"Leave declarations unformatted." xor:"format"`
	Debug    bool             `help:"Enable debug logging." short:"d"`
	LogFile  string           `help:"Write logs to this file, rotating it when large." type:"path"`
	Version  kong.VersionFlag `help:"Show version information." short:"v"`
}

// Context holds the runtime context
type Context struct {
	Config *config.Config
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Version information
const (
	Version = "0.2.0"
)

func main() {
	kong.Parse(&CLI,
		kong.Name("jsonshape"),
		kong.Description("Infer a structural type from a JSON document and emit Go declarations for it"),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("jsonshape version %s", Version)},
	)

	cleanup, err := setupLogging()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}
	defer func() { _ = cleanup() }()

	cfg, err := loadConfig()
	if err == nil {
		err = run(&Context{Config: cfg, Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsonshape --help\n")
		_ = cleanup()
		os.Exit(1)
	}
}

func setupLogging() (func() error, error) {
	logCfg := logging.DefaultConfig()
	if CLI.Debug {
		logCfg.Level = "debug"
	}
	logCfg.FilePath = CLI.LogFile

	cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return nil, errors.NewConfigError("failed to set up logging", err)
	}
	return cleanup, nil
}

// loadConfig resolves the config file and applies command-line overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return nil, errors.NewConfigError("failed to load configuration", err)
	}

	if CLI.Emit != "" && CLI.Emit != config.EmitGo && CLI.Emit != config.EmitSchema {
		return nil, errors.NewConfigError(
			fmt.Sprintf("emit target %q must be %q or %q", CLI.Emit, config.EmitGo, config.EmitSchema),
			errors.ErrUnknownEmitTarget,
		)
	}

	overrides := config.Overrides{
		Package:  CLI.Package,
		RootName: CLI.RootName,
		Prefix:   CLI.Prefix,
		Emit:     CLI.Emit,
	}
	switch {
	case CLI.Format:
		overrides.Format = &CLI.Format
	case CLI.NoFormat:
		enabled := false
		overrides.Format = &enabled
	}
	if err := cfg.ApplyOverrides(overrides); err != nil {
		return nil, errors.NewConfigError("invalid command-line options", err)
	}
	return cfg, nil
}

// run executes the main program logic. Output is assembled in memory and
// only written once every stage succeeded.
func run(ctx *Context) error {
	// A bad query fails before any input is read
	if CLI.Query != "" {
		if err := query.Validate(CLI.Query); err != nil {
			return err
		}
	}

	// 1. Parse JSON input
	ir, err := parseInput(ctx)
	if err != nil {
		return err
	}

	// 2. Select the sub-document
	doc := ir.Root
	if CLI.Query != "" {
		doc, err = query.Select(doc, CLI.Query)
		if err != nil {
			return err
		}
	}

	// 3. Infer its type
	typ := analyzer.Infer(doc)
	slog.Debug("inferred type", "type", typ.String())

	if CLI.Verify {
		if err := schema.Verify(typ, doc); err != nil {
			return err
		}
	}

	// 4. Emit declarations or a schema
	var out string
	if ctx.Config.Output.Emit == config.EmitSchema {
		out, err = renderSchema(typ)
	} else {
		out, err = renderGo(ctx.Config, typ)
	}
	if err != nil {
		return err
	}

	// 5. Output the result
	return writeOutput(ctx, out)
}

// renderGo lays out the emitted declarations as a Go source fragment
func renderGo(cfg *config.Config, typ shape.Type) (string, error) {
	result := generator.NewGeneratorWithConfig(cfg).Declare(typ)
	slog.Debug("emitted declarations", "count", len(result.Declarations), "root", result.Root)

	decls := result.Texts()
	for _, d := range result.Declarations {
		if d.Name == cfg.Output.RootName {
			return "", errors.NewConfigError(fmt.Sprintf("root name %q collides with a generated declaration", d.Name), nil)
		}
	}
	if cfg.Output.RootName != "" {
		decls = append(decls, fmt.Sprintf("type %s = %s", cfg.Output.RootName, result.Root))
	} else if !isDeclared(result) {
		decls = append(decls, "// root: "+result.Root)
	}

	if cfg.Formatting.Enabled {
		formatted, err := formatter.NewFormatter().FormatAll(decls)
		if err != nil {
			return "", errors.NewFormatError("failed to format Go code", err)
		}
		decls = formatted
	}

	var sb strings.Builder
	if header := strings.TrimSpace(cfg.Output.FileHeader); header != "" {
		sb.WriteString(header)
		sb.WriteString("\n\n")
	}
	if cfg.Output.Package != "" {
		fmt.Fprintf(&sb, "package %s\n\n", cfg.Output.Package)
	}
	sb.WriteString(strings.Join(decls, "\n\n"))
	sb.WriteString("\n")
	return sb.String(), nil
}

// isDeclared reports whether the root reference names the last declaration
func isDeclared(r generator.Result) bool {
	n := len(r.Declarations)
	return n > 0 && r.Declarations[n-1].Name == r.Root
}

func renderSchema(typ shape.Type) (string, error) {
	data, err := schema.Marshal(schema.FromType(typ))
	if err != nil {
		return "", errors.NewOutputError("failed to encode JSON Schema", err)
	}
	return string(data) + "\n", nil
}

// parseInput reads JSON from the file argument or stdin
func parseInput(ctx *Context) (models.IntermediateRepresentation, error) {
	switch CLI.File {
	case "-":
		return readStdin(ctx.Stdin)
	case "":
		if isTerminal(ctx.Stdin) {
			return readInteractiveInput(ctx)
		}
		return readStdin(ctx.Stdin)
	default:
		return parser.ParseFile(CLI.File)
	}
}

func readStdin(r io.Reader) (models.IntermediateRepresentation, error) {
	if r == nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("no input provided", errors.ErrNoInput)
	}
	jsonData, err := io.ReadAll(r)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("failed to read from stdin", err)
	}
	if len(jsonData) == 0 {
		return models.IntermediateRepresentation{}, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return parser.ParseString(string(jsonData))
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// readInteractiveInput lets users paste JSON and finish with Ctrl+D (EOF)
func readInteractiveInput(ctx *Context) (models.IntermediateRepresentation, error) {
	fmt.Fprintln(ctx.Stderr, "Paste JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(ctx.Stdin)
	var jsonBuilder strings.Builder
	for {
		line, err := reader.ReadString('\n')
		jsonBuilder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.IntermediateRepresentation{}, errors.NewInputError("error reading input", err)
		}
	}

	if strings.TrimSpace(jsonBuilder.String()) == "" {
		return models.IntermediateRepresentation{}, errors.NewInputError("no input provided", errors.ErrNoInput)
	}
	return parser.ParseString(jsonBuilder.String())
}

// writeOutput writes the rendered output to the output file or stdout
func writeOutput(ctx *Context, out string) error {
	if CLI.Output != "" {
		if err := os.WriteFile(CLI.Output, []byte(out), 0o644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(ctx.Stderr, "Output written to %s\n", CLI.Output)
		return nil
	}

	if _, err := io.WriteString(ctx.Stdout, out); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}
