package e2e_test

import (
	"fmt"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsonshape/internal/analyzer"
	"github.com/mcncl/jsonshape/internal/formatter"
	"github.com/mcncl/jsonshape/internal/generator"
	"github.com/mcncl/jsonshape/internal/parser"
)

// generateNestedJSON creates an object nested depth levels deep with width
// members per level
func generateNestedJSON(depth int, width int) map[string]any {
	result := make(map[string]any, width)
	for i := 0; i < width; i++ {
		key := fmt.Sprintf("field_%d", i)
		if depth > 1 {
			result[key] = generateNestedJSON(depth-1, width)
		} else {
			result[key] = i
		}
	}
	return result
}

// generateWideJSON creates a flat object cycling through every primitive kind
func generateWideJSON(fieldCount int) map[string]any {
	result := make(map[string]any, fieldCount)
	for i := 0; i < fieldCount; i++ {
		key := fmt.Sprintf("field_%d", i)
		switch i % 5 {
		case 0:
			result[key] = fmt.Sprintf("value_%d", i)
		case 1:
			result[key] = i
		case 2:
			result[key] = float64(i) + 0.5
		case 3:
			result[key] = i%2 == 0
		default:
			result[key] = nil
		}
	}
	return result
}

// benchmarkPipeline parses, infers, declares and formats input once per iteration
func benchmarkPipeline(b *testing.B, input []byte) {
	b.Helper()
	f := formatter.NewFormatter()
	b.SetBytes(int64(len(input)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		ir, err := parser.ParseString(string(input))
		require.NoError(b, err)

		result := generator.Declare(analyzer.Infer(ir.Root))
		_, err = f.FormatAll(result.Texts())
		require.NoError(b, err)
	}
}

func BenchmarkDeepNesting(b *testing.B) {
	depths := []struct {
		name  string
		depth int
		width int
	}{
		{"Depth3Width3", 3, 3},
		{"Depth5Width2", 5, 2},
		{"Depth2Width10", 2, 10},
	}

	for _, depth := range depths {
		b.Run(depth.name, func(b *testing.B) {
			data, err := json.Marshal(generateNestedJSON(depth.depth, depth.width))
			require.NoError(b, err)
			benchmarkPipeline(b, data)
		})
	}
}

func BenchmarkWideStructures(b *testing.B) {
	for _, count := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("%dFields", count), func(b *testing.B) {
			data, err := json.Marshal(generateWideJSON(count))
			require.NoError(b, err)
			benchmarkPipeline(b, data)
		})
	}
}

func BenchmarkArrayProcessing(b *testing.B) {
	for _, count := range []int{100, 1000, 10000} {
		b.Run(fmt.Sprintf("%dItems", count), func(b *testing.B) {
			benchmarkPipeline(b, generateLargeJSON(b, count))
		})
	}
}

func BenchmarkUnifyHeterogeneousArray(b *testing.B) {
	items := make([]any, 0, 1000)
	for i := 0; i < 1000; i++ {
		switch i % 4 {
		case 0:
			items = append(items, map[string]any{"id": i, "kind": "a"})
		case 1:
			items = append(items, map[string]any{"id": fmt.Sprint(i), "extra": true})
		case 2:
			items = append(items, []any{i, "x"})
		default:
			items = append(items, nil)
		}
	}
	data, err := json.Marshal(items)
	require.NoError(b, err)

	ir, err := parser.ParseString(string(data))
	require.NoError(b, err)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = analyzer.Infer(ir.Root)
	}
}
