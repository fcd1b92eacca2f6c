package views

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/rzbill/coinlog/internal/codec"
	ledgersvc "github.com/rzbill/coinlog/internal/services/ledger"
	scoresvc "github.com/rzbill/coinlog/internal/services/scores"
)

func TestRecordNormalizesNumbers(t *testing.T) {
	r := codec.Record{
		RawTimestamp: "01/02/2024 - 10:00:00",
		Fields: map[string]any{
			"coins":  json.Number("55"),
			"ratio":  json.Number("0.5"),
			"nested": map[string]any{"n": json.Number("3")},
		},
	}
	out := Record(r)
	assert.Equal(t, int64(55), out["coins"])
	assert.Equal(t, 0.5, out["ratio"])
	assert.Equal(t, map[string]any{"n": int64(3)}, out["nested"])
	assert.Equal(t, "01/02/2024 - 10:00:00", out[codec.TimestampField])

	_, err := structpb.NewStruct(Written("PlayerData:2002", r))
	require.NoError(t, err)
}

func TestBestWithoutScoreIsNull(t *testing.T) {
	out := Best(scoresvc.Best{PlayerID: "7", Records: 2, Excluded: 2})
	assert.Nil(t, out["best_score"])
	assert.Equal(t, false, out["found"])
	_, err := structpb.NewStruct(out)
	require.NoError(t, err)
}

func TestReportShapes(t *testing.T) {
	empty := Report(scoresvc.Report{Namespace: "PlayerData", Scores: map[string]float64{}})
	assert.Equal(t, EmptyReportMessage, empty["message"])
	assert.Empty(t, empty["scores"])

	full := Report(scoresvc.Report{
		Namespace: "PlayerData",
		Scores:    map[string]float64{"2002": 55},
		Scanned:   1,
		Elapsed:   1500 * time.Microsecond,
	})
	assert.NotContains(t, full, "message")
	assert.Equal(t, map[string]any{"2002": 55.0}, full["scores"])
	assert.Equal(t, 1.5, full["elapsed_ms"])
	_, err := structpb.NewStruct(full)
	require.NoError(t, err)
}

func TestLedgerViews(t *testing.T) {
	b := Balance(ledgersvc.Balance{PlayerID: "1001", Balance: 250, Records: 3})
	assert.Equal(t, int64(250), b["balance"])

	h := History(ledgersvc.History{PlayerID: "1001", Records: []codec.Record{
		{RawTimestamp: "x", Fields: map[string]any{codec.AmountField: json.Number("-50")}},
	}})
	recs := h["records"].([]any)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(-50), recs[0].(map[string]any)[codec.AmountField])
	_, err := structpb.NewStruct(h)
	require.NoError(t, err)
}
