package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/rzbill/coinlog/internal/codec"
)

// Extractor pulls a score from a snapshot record. ok=false excludes the record.
type Extractor func(codec.Record) (float64, bool)

// Field scores a record by one numeric top-level field.
func Field(name string) Extractor {
	return func(r codec.Record) (float64, bool) { return r.Float64(name) }
}

// New returns a CEL extractor when expr is set, otherwise a Field extractor.
func New(field, expr string) (Extractor, error) {
	if strings.TrimSpace(expr) != "" {
		return Expression(expr)
	}
	if field == "" {
		return nil, fmt.Errorf("scoring: field or expression required")
	}
	return Field(field), nil
}

// Expression compiles a CEL expression over the variable `snapshot` (the
// record's fields). Evaluation errors and non-numeric results exclude the
// record.
func Expression(expr string) (Extractor, error) {
	env, err := cel.NewEnv(
		cel.Variable("snapshot", cel.DynType),
	)
	if err != nil {
		return nil, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("scoring: parse %q: %w", expr, iss.Err())
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return nil, fmt.Errorf("scoring: check %q: %w", expr, iss2.Err())
	}
	prog, err := env.Program(checked)
	if err != nil {
		return nil, err
	}
	return func(r codec.Record) (float64, bool) {
		out, _, err := prog.Eval(map[string]any{"snapshot": normalize(r.Fields)})
		if err != nil {
			return 0, false
		}
		var f float64
		switch v := out.Value().(type) {
		case int64:
			f = float64(v)
		case uint64:
			f = float64(v)
		case float64:
			f = v
		default:
			return 0, false
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}, nil
}

// normalize replaces json.Number with int64 or float64 so CEL sees native
// numeric types.
func normalize(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	default:
		return v
	}
}
