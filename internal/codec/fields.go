package codec

import (
	"encoding/json"
	"math"
	"strconv"
)

// Float64 returns the named field as a finite float. Booleans, strings and
// missing fields are not numeric.
func (r Record) Float64(field string) (float64, bool) {
	v, ok := r.Fields[field]
	if !ok {
		return 0, false
	}
	return Numeric(v)
}

// Int64 returns the named field when it is an integral number in int64 range.
func (r Record) Int64(field string) (int64, bool) {
	v, ok := r.Fields[field]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case json.Number:
		i, err := strconv.ParseInt(n.String(), 10, 64)
		return i, err == nil
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}

// TransactionAmount is the signed delta of a ledger record.
func (r Record) TransactionAmount() (int64, bool) { return r.Int64(AmountField) }

// Numeric converts a decoded JSON value to float64.
func Numeric(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		x, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = x
	case float64:
		f = n
	case int64:
		f = float64(n)
	case int:
		f = float64(n)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
