package aggregate

import (
	"errors"
	"fmt"
	"math"

	"github.com/rzbill/coinlog/internal/codec"
)

// ErrOverflow is returned when an integer sum leaves the int64 range.
var ErrOverflow = errors.New("aggregate overflow")

// Reducer folds extracted values with an associative, order-independent
// Combine starting from Identity.
type Reducer[T any] struct {
	Name     string
	Extract  func(codec.Record) (T, bool)
	Combine  func(acc, v T) (T, error)
	Identity T
}

// Result is the folded value plus accounting for every input record.
type Result[T any] struct {
	Value T
	// Found is false when no record contributed a value.
	Found   bool
	Records int
	Used    int
	// Skipped counts records that failed to decode.
	Skipped int
	// Excluded counts decoded records the extractor declined.
	Excluded int
}

// Reduce decodes each raw record and folds it through r. Malformed records
// are skipped and counted; only a Combine error aborts the fold.
func Reduce[T any](dec codec.Decoder, raw [][]byte, r Reducer[T]) (Result[T], error) {
	res := Result[T]{Value: r.Identity, Records: len(raw)}
	for _, b := range raw {
		rec, err := dec.Decode(b)
		if err != nil {
			res.Skipped++
			continue
		}
		v, ok := r.Extract(rec)
		if !ok {
			res.Excluded++
			continue
		}
		next, err := r.Combine(res.Value, v)
		if err != nil {
			return res, fmt.Errorf("%s: %w", r.Name, err)
		}
		res.Value = next
		res.Used++
		res.Found = true
	}
	return res, nil
}

// Sum adds int64 values, failing with ErrOverflow instead of wrapping.
func Sum(name string, extract func(codec.Record) (int64, bool)) Reducer[int64] {
	return Reducer[int64]{
		Name:    name,
		Extract: extract,
		Combine: func(acc, v int64) (int64, error) {
			s := acc + v
			if (v > 0 && s < acc) || (v < 0 && s > acc) {
				return acc, ErrOverflow
			}
			return s, nil
		},
		Identity: 0,
	}
}

// Max keeps the largest value; Identity is below every finite score.
func Max(name string, extract func(codec.Record) (float64, bool)) Reducer[float64] {
	return Reducer[float64]{
		Name:    name,
		Extract: extract,
		Combine: func(acc, v float64) (float64, error) {
			return math.Max(acc, v), nil
		},
		Identity: math.Inf(-1),
	}
}

// Balance sums transaction amounts. Balances may go negative.
func Balance() Reducer[int64] {
	return Sum("balance", codec.Record.TransactionAmount)
}

// BestScore takes the maximum of whatever extract yields.
func BestScore(extract func(codec.Record) (float64, bool)) Reducer[float64] {
	return Max("best_score", extract)
}
