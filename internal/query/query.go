// Package query selects a sub-document with a jq expression before inference.
package query

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"strconv"

	"github.com/itchyny/gojq"

	"github.com/mcncl/jsonshape/internal/errors"
	"github.com/mcncl/jsonshape/internal/models"
)

// Select runs expression against doc. A single result is returned as is;
// several results are collected into an array so their shapes unify as
// elements. No results is an error.
func Select(doc models.JSONValue, expression string) (models.JSONValue, error) {
	code, err := compile(expression)
	if err != nil {
		return nil, err
	}

	var results models.JSONArray
	iter := code.Run(toQueryValue(models.ToPlain(doc)))
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return nil, errors.NewQueryError(fmt.Sprintf("jq expression %q failed", expression), runtimeError(err))
		}
		results = append(results, fromQueryValue(v))
	}

	slog.Debug("selected sub-document", "expression", expression, "results", len(results))
	switch len(results) {
	case 0:
		return nil, errors.NewQueryError(fmt.Sprintf("jq expression %q produced no results", expression), errors.ErrNoResults)
	case 1:
		return results[0], nil
	default:
		return results, nil
	}
}

// Validate checks that expression parses and compiles without running it
func Validate(expression string) error {
	_, err := compile(expression)
	return err
}

func compile(expression string) (*gojq.Code, error) {
	q, err := gojq.Parse(expression)
	if err != nil {
		var parseErr *gojq.ParseError
		if stderrors.As(err, &parseErr) {
			return nil, errors.NewQueryError(fmt.Sprintf("invalid jq expression at position %d", parseErr.Offset), err)
		}
		return nil, errors.NewQueryError("invalid jq expression", err)
	}

	code, err := gojq.Compile(q)
	if err != nil {
		return nil, errors.NewQueryError("failed to compile jq expression", err)
	}
	return code, nil
}

func runtimeError(err error) error {
	var haltErr *gojq.HaltError
	if stderrors.As(err, &haltErr) && haltErr.Value() == nil {
		return fmt.Errorf("query halted")
	}
	return err
}

// toQueryValue rewrites json.Number into the numeric types gojq operates on.
func toQueryValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, e := range val {
			val[k] = toQueryValue(e)
		}
		return val
	case []any:
		for i, e := range val {
			val[i] = toQueryValue(e)
		}
		return val
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return int(i)
		}
		if b, ok := new(big.Int).SetString(string(val), 10); ok {
			return b
		}
		f, _ := strconv.ParseFloat(string(val), 64)
		return f
	default:
		return val
	}
}

// fromQueryValue turns gojq results back into the parser's value tree.
func fromQueryValue(v any) models.JSONValue {
	switch val := v.(type) {
	case map[string]any:
		out := make(models.JSONObject, len(val))
		for k, e := range val {
			out[k] = fromQueryValue(e)
		}
		return out
	case []any:
		out := make(models.JSONArray, len(val))
		for i, e := range val {
			out[i] = fromQueryValue(e)
		}
		return out
	case int:
		return json.Number(strconv.Itoa(val))
	case *big.Int:
		return json.Number(val.String())
	case float64:
		if math.IsInf(val, 0) || math.IsNaN(val) {
			return val
		}
		return json.Number(strconv.FormatFloat(val, 'g', -1, 64))
	default:
		return val
	}
}
