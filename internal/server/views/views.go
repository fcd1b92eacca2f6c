// Package views renders service results as plain JSON-shaped maps shared by
// the HTTP and gRPC transports.
package views

import (
	"encoding/json"
	"sort"

	"github.com/rzbill/coinlog/internal/codec"
	ledgersvc "github.com/rzbill/coinlog/internal/services/ledger"
	scoresvc "github.com/rzbill/coinlog/internal/services/scores"
)

// EmptyReportMessage accompanies a report over a namespace with no players.
const EmptyReportMessage = "no players found"

// Record flattens a record back into its stored shape.
func Record(r codec.Record) map[string]any {
	out := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		out[k] = normalize(v)
	}
	if r.RawTimestamp != "" {
		out[codec.TimestampField] = r.RawTimestamp
	} else if !r.Timestamp.IsZero() {
		out[codec.TimestampField] = r.Timestamp.Format(codec.TimestampLayout)
	}
	return out
}

// Written is the response to an append.
func Written(key string, r codec.Record) map[string]any {
	return map[string]any{"key": key, "record": Record(r)}
}

func LedgerWritten(w ledgersvc.Written) map[string]any { return Written(w.Key, w.Record) }

func SnapshotWritten(w scoresvc.Written) map[string]any { return Written(w.Key, w.Record) }

func Balance(b ledgersvc.Balance) map[string]any {
	return map[string]any{
		"player_id": b.PlayerID,
		"balance":   b.Balance,
		"records":   int64(b.Records),
		"skipped":   int64(b.Skipped),
		"excluded":  int64(b.Excluded),
	}
}

func History(h ledgersvc.History) map[string]any {
	recs := make([]any, 0, len(h.Records))
	for _, r := range h.Records {
		recs = append(recs, Record(r))
	}
	return map[string]any{
		"player_id": h.PlayerID,
		"records":   recs,
		"skipped":   int64(h.Skipped),
	}
}

// Best renders a null best_score when no snapshot held a valid score.
func Best(b scoresvc.Best) map[string]any {
	var score any
	if b.Found {
		score = b.Score
	}
	return map[string]any{
		"player_id":  b.PlayerID,
		"best_score": score,
		"found":      b.Found,
		"records":    int64(b.Records),
		"skipped":    int64(b.Skipped),
		"excluded":   int64(b.Excluded),
	}
}

func Report(r scoresvc.Report) map[string]any {
	ids := make([]string, 0, len(r.Scores))
	for id := range r.Scores {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	scores := make(map[string]any, len(ids))
	for _, id := range ids {
		scores[id] = r.Scores[id]
	}
	out := map[string]any{
		"namespace":  r.Namespace,
		"scores":     scores,
		"scanned":    int64(r.Scanned),
		"omitted":    int64(r.Omitted),
		"skipped":    int64(r.Skipped),
		"elapsed_ms": float64(r.Elapsed.Microseconds()) / 1000.0,
	}
	if r.Scanned == 0 {
		out["message"] = EmptyReportMessage
	}
	return out
}

// normalize replaces json.Number so the result also converts to structpb.
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
