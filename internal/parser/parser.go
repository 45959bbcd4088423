package parser

import (
	"bytes"
	"encoding/json"
	stderrors "errors" // Standard errors package
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/mcncl/jsonshape/internal/errors" // Custom errors package
	"github.com/mcncl/jsonshape/internal/models"
)

// Parse converts JSON data from an io.Reader into an IntermediateRepresentation.
// Number literals are kept verbatim as json.Number, including ones outside
// the float64 range.
func Parse(reader io.Reader) (models.IntermediateRepresentation, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("failed to read input", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return models.IntermediateRepresentation{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}

	rootValue, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return models.IntermediateRepresentation{}, decodeError(err)
	}

	rootValue = models.FromPlain(rootValue)
	ir := models.IntermediateRepresentation{
		Root: rootValue,
	}
	_, ir.RootIsArray = rootValue.(models.JSONArray)

	slog.Debug("parsed input", "root_is_array", ir.RootIsArray)
	return ir, nil
}

// decodeError classifies a decode failure. The input is fully buffered, so
// anything that is not a syntax error or a truncated document is data after
// the first value.
func decodeError(err error) error {
	var syntaxError *json.SyntaxError
	switch {
	case stderrors.As(err, &syntaxError):
		return errors.NewParsingError(
			fmt.Sprintf("JSON syntax error at offset %d: %s", syntaxError.Offset, syntaxError.Error()),
			errors.ErrInvalidJSON,
		)
	case stderrors.Is(err, io.ErrUnexpectedEOF):
		return errors.NewParsingError("JSON syntax error: unexpected end of input", errors.ErrInvalidJSON)
	default:
		return errors.NewParsingError("unexpected data after the first JSON value", errors.ErrMultipleJSON)
	}
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.IntermediateRepresentation, error) {
	if strings.TrimSpace(jsonString) == "" {
		return models.IntermediateRepresentation{}, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (models.IntermediateRepresentation, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.IntermediateRepresentation{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.IntermediateRepresentation{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			slog.Warn("error closing file", "path", filePath, "error", err)
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.IsDir() {
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("'%s' is a directory", filePath),
			errors.ErrInvalidFilePath,
		)
	}
	if stat.Size() == 0 {
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return Parse(file)
}
