package formatter

import (
	"fmt"
	"go/format"
	"strings"
)

// header turns a lone declaration into a source file go/format accepts
const header = "package p\n\n"

// Formatter applies gofmt to emitted declarations
type Formatter struct{}

// NewFormatter creates a new Formatter instance
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format returns decl formatted the way gofmt would lay it out in a file.
// decl holds one or more top-level declarations without a package clause.
func (f *Formatter) Format(decl string) (string, error) {
	if strings.TrimSpace(decl) == "" {
		return "", nil
	}

	formatted, err := format.Source([]byte(header + decl))
	if err != nil {
		return "", fmt.Errorf("failed to parse Go code: %w", err)
	}

	out := strings.TrimPrefix(string(formatted), header)
	return strings.TrimRight(out, "\n"), nil
}

// FormatAll formats each declaration in order, stopping at the first failure
func (f *Formatter) FormatAll(decls []string) ([]string, error) {
	out := make([]string, len(decls))
	for i, d := range decls {
		formatted, err := f.Format(d)
		if err != nil {
			return nil, err
		}
		out[i] = formatted
	}
	return out, nil
}
