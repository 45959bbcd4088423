// Package analyzer infers the structural type of a JSON value tree.
package analyzer

import (
	"encoding/json"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/mcncl/jsonshape/internal/models"
	"github.com/mcncl/jsonshape/internal/shape"
)

// Infer returns the smallest type that describes v. Array elements are
// unified left to right; an empty array has an unknown element type.
func Infer(v models.JSONValue) shape.Type {
	switch val := v.(type) {
	case nil:
		return shape.NullType()
	case string:
		return shape.StringType()
	case bool:
		return shape.BoolType()
	case json.Number:
		return inferNumber(string(val))
	case float64:
		return inferFloat(val)
	case float32:
		return inferFloat(float64(val))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, *big.Int:
		return shape.IntType()
	case models.JSONObject:
		return inferObject(val)
	case map[string]any:
		return inferObject(val)
	case models.JSONArray:
		return inferArray(val)
	case []any:
		return inferArray(val)
	default:
		// Not produced by the parser. Keep Infer total.
		return shape.Unknown()
	}
}

func inferObject[M ~map[string]models.JSONValue](obj M) shape.Type {
	fields := make(map[string]shape.Type, len(obj))
	for key, value := range obj {
		fields[key] = Infer(value)
	}
	return shape.ObjectOf(fields)
}

func inferArray[S ~[]models.JSONValue](arr S) shape.Type {
	elem := shape.Unknown()
	for _, value := range arr {
		elem = Unify(elem, Infer(value))
	}
	return shape.ArrayOf(elem)
}

// inferNumber classifies a number literal. Literals outside the float64
// range are judged by their spelling.
func inferNumber(lit string) shape.Type {
	f, err := strconv.ParseFloat(lit, 64)
	if err == nil {
		return inferFloat(f)
	}
	if strings.ContainsAny(lit, ".eE") {
		return shape.FloatType()
	}
	return shape.IntType()
}

func inferFloat(f float64) shape.Type {
	if !math.IsInf(f, 0) && f == math.Floor(f) {
		return shape.IntType()
	}
	return shape.FloatType()
}

// Unify returns a type that can represent values of either a or b.
// It is commutative and idempotent, and the empty variant is its identity.
func Unify(a, b shape.Type) shape.Type {
	if shape.Equal(a, b) {
		return a
	}

	if a.Kind() == shape.Variant || b.Kind() == shape.Variant {
		return unifyVariant(a, b)
	}

	if isNumeric(a) && isNumeric(b) {
		return shape.FloatType()
	}

	if a.Kind() == shape.Object && b.Kind() == shape.Object {
		return unifyObjects(a, b)
	}

	return shape.VariantOf(a, b)
}

func isNumeric(t shape.Type) bool {
	return t.Kind() == shape.Int || t.Kind() == shape.Float
}

// unifyVariant folds the non-variant side, or every option of the second
// variant, into the first variant one member at a time.
func unifyVariant(a, b shape.Type) shape.Type {
	if a.Kind() != shape.Variant {
		a, b = b, a
	}
	if a.IsUnknown() {
		return b
	}
	if b.Kind() != shape.Variant {
		if a.Contains(b) {
			return a
		}
		return shape.VariantOf(append(a.Options(), b)...)
	}

	result := a
	for _, o := range b.Options() {
		result = unifyVariant(result, o)
	}
	return result
}

// unifyObjects merges two objects field by field. A field missing from one
// side becomes nullable; no field is ever dropped.
func unifyObjects(a, b shape.Type) shape.Type {
	merged := make(map[string]shape.Type)
	for _, f := range a.Fields() {
		other, ok := b.Field(f.Name)
		if !ok {
			other = shape.NullType()
		}
		merged[f.Name] = Unify(f.Type, other)
	}
	for _, f := range b.Fields() {
		if _, ok := merged[f.Name]; ok {
			continue
		}
		merged[f.Name] = Unify(f.Type, shape.NullType())
	}
	return shape.ObjectOf(merged)
}
