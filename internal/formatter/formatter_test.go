package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsonshape/internal/analyzer"
	"github.com/mcncl/jsonshape/internal/generator"
	"github.com/mcncl/jsonshape/internal/parser"
)

func TestFormat_SimpleStruct(t *testing.T) {
	input := "type Person struct {\n" +
		"\tAge int64 `json:\"age\"`\n" +
		"\tIsActive bool `json:\"is_active\"`\n" +
		"\tName string `json:\"name\"`\n" +
		"}"

	formatted, err := NewFormatter().Format(input)
	require.NoError(t, err)

	expected := "type Person struct {\n" +
		"\tAge      int64  `json:\"age\"`\n" +
		"\tIsActive bool   `json:\"is_active\"`\n" +
		"\tName     string `json:\"name\"`\n" +
		"}"
	assert.Equal(t, expected, formatted)
}

func TestFormat_Union(t *testing.T) {
	input := "type Type1 struct {\n\tOption0 *struct{}\n\tOption1 *bool\n}"

	formatted, err := NewFormatter().Format(input)
	require.NoError(t, err)
	assert.Equal(t, input, formatted)
}

func TestFormat_EmptyStruct(t *testing.T) {
	input := "type Type0 struct {\n}"

	formatted, err := NewFormatter().Format(input)
	require.NoError(t, err)
	assert.Equal(t, input, formatted)
}

func TestFormat_QuotedTag(t *testing.T) {
	input := "type Type0 struct {\n\tAB string \"json:\\\"a`b\\\"\"\n\tLonger int64 `json:\"longer\"`\n}"

	formatted, err := NewFormatter().Format(input)
	require.NoError(t, err)

	expected := "type Type0 struct {\n" +
		"\tAB     string \"json:\\\"a`b\\\"\"\n" +
		"\tLonger int64  `json:\"longer\"`\n" +
		"}"
	assert.Equal(t, expected, formatted)
}

func TestFormat_EmptyInput(t *testing.T) {
	formatted, err := NewFormatter().Format("  \n")
	require.NoError(t, err)
	assert.Empty(t, formatted)
}

func TestFormat_InvalidCode(t *testing.T) {
	_, err := NewFormatter().Format("type Person struct {\n\tName string `json:\"name\"\n}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse Go code")
}

func TestFormatAll(t *testing.T) {
	formatted, err := NewFormatter().FormatAll([]string{
		"type A struct {\n\tX int64 `json:\"x\"`\n}",
		"type B struct {\n\tOption0 *string\n}",
	})
	require.NoError(t, err)
	assert.Len(t, formatted, 2)

	_, err = NewFormatter().FormatAll([]string{"type A struct {", "type B struct {\n}"})
	assert.Error(t, err)
}

func TestFormat_GeneratedDeclarations(t *testing.T) {
	ir, err := parser.ParseString(`{"user": {"id": 7, "tags": ["a"], "address": {"city": "Oslo"}}, "ok": true}`)
	require.NoError(t, err)

	result := generator.Declare(analyzer.Infer(ir.Root))
	formatted, err := NewFormatter().FormatAll(result.Texts())
	require.NoError(t, err)

	require.Len(t, formatted, 3)
	assert.Equal(t, "type Type2 struct {\n"+
		"\tCity string `json:\"city\"`\n"+
		"}", formatted[0])
	assert.Equal(t, "type Type1 struct {\n"+
		"\tAddress Type2    `json:\"address\"`\n"+
		"\tId      int64    `json:\"id\"`\n"+
		"\tTags    []string `json:\"tags\"`\n"+
		"}", formatted[1])
	assert.Equal(t, "type Type0 struct {\n"+
		"\tOk   bool  `json:\"ok\"`\n"+
		"\tUser Type1 `json:\"user\"`\n"+
		"}", formatted[2])
}
