package models

// JSONValue is a generic type to represent any JSON value.
// This can be a string, json.Number, bool, nil, JSONObject or JSONArray.
type JSONValue = interface{}

// JSONObject represents a JSON object, which is a map of strings to JSONValues.
type JSONObject map[string]JSONValue

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// IntermediateRepresentation holds a parsed JSON document.
type IntermediateRepresentation struct {
	Root        JSONValue
	RootIsArray bool // True if the root of the JSON is an array
}

// ToPlain converts a value tree into the unnamed map[string]any / []any form
// expected by third-party JSON tooling. Numbers stay json.Number.
func ToPlain(v JSONValue) any {
	switch val := v.(type) {
	case JSONObject:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = ToPlain(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = ToPlain(e)
		}
		return out
	case JSONArray:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = ToPlain(e)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = ToPlain(e)
		}
		return out
	default:
		return val
	}
}

// FromPlain converts a plain map[string]any / []any tree back into model types.
func FromPlain(v any) JSONValue {
	switch val := v.(type) {
	case map[string]any:
		out := make(JSONObject, len(val))
		for k, e := range val {
			out[k] = FromPlain(e)
		}
		return out
	case []any:
		out := make(JSONArray, len(val))
		for i, e := range val {
			out[i] = FromPlain(e)
		}
		return out
	default:
		return val
	}
}
