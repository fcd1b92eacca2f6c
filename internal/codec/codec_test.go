package codec

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedCodec() *Codec {
	clock := func() time.Time { return time.Date(2024, 3, 7, 14, 5, 9, 500, time.UTC) }
	return New(WithClock(clock), WithLocation(time.UTC))
}

func TestEncodeTimestampLayout(t *testing.T) {
	c := fixedCodec()
	rec := c.Stamp(map[string]any{AmountField: int64(100)})
	b, err := c.Encode(rec)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Equal(t, "07/03/2024 - 14:05:09", raw[TimestampField])
	assert.EqualValues(t, 100, raw[AmountField])
}

func TestDecodeRoundTrip(t *testing.T) {
	c := fixedCodec()
	b, err := c.Encode(c.Stamp(map[string]any{AmountField: int64(-50), "note": "x"}))
	require.NoError(t, err)

	rec, err := c.Decode(b)
	require.NoError(t, err)
	amt, ok := rec.TransactionAmount()
	require.True(t, ok)
	assert.Equal(t, int64(-50), amt)
	assert.Equal(t, time.Date(2024, 3, 7, 14, 5, 9, 0, time.UTC), rec.Timestamp)
	assert.Equal(t, "07/03/2024 - 14:05:09", rec.RawTimestamp)
	_, hasTS := rec.Fields[TimestampField]
	assert.False(t, hasTS)
}

func TestDecodeMalformed(t *testing.T) {
	c := fixedCodec()
	for _, in := range []string{"", "not json", "[1,2]", "42", `"s"`, "null", `{"a":1} {"b":2}`, `{"a":`} {
		_, err := c.Decode([]byte(in))
		assert.True(t, errors.Is(err, ErrMalformedRecord), "input %q: %v", in, err)
	}
}

func TestDecodeLenientTimestamps(t *testing.T) {
	c := fixedCodec()
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2024-03-07T14:05:09.123456", time.Date(2024, 3, 7, 14, 5, 9, 123456000, time.UTC)},
		{"2024-03-07T14:05:09Z", time.Date(2024, 3, 7, 14, 5, 9, 0, time.UTC)},
		{"yesterday", time.Time{}},
	}
	for _, tt := range tests {
		rec, err := c.Decode([]byte(`{"coins":1,"timestamp":"` + tt.raw + `"}`))
		require.NoError(t, err)
		assert.True(t, tt.want.Equal(rec.Timestamp), "raw %q got %v", tt.raw, rec.Timestamp)
		assert.Equal(t, tt.raw, rec.RawTimestamp)
	}

	rec, err := c.Decode([]byte(`{"coins":1}`))
	require.NoError(t, err)
	assert.True(t, rec.Timestamp.IsZero())
}

func TestNumericFields(t *testing.T) {
	c := fixedCodec()
	rec, err := c.Decode([]byte(`{"coins":55,"ratio":1.5,"flag":true,"name":"bob","big":1e400,"frac":2.5}`))
	require.NoError(t, err)

	f, ok := rec.Float64("coins")
	assert.True(t, ok)
	assert.Equal(t, 55.0, f)
	f, ok = rec.Float64("ratio")
	assert.True(t, ok)
	assert.Equal(t, 1.5, f)

	for _, field := range []string{"flag", "name", "missing", "big"} {
		_, ok := rec.Float64(field)
		assert.False(t, ok, field)
	}

	i, ok := rec.Int64("coins")
	assert.True(t, ok)
	assert.Equal(t, int64(55), i)
	_, ok = rec.Int64("frac")
	assert.False(t, ok)
}

func TestDecodeAll(t *testing.T) {
	c := fixedCodec()
	raw := [][]byte{
		[]byte(`{"transaction_amount":1}`),
		[]byte(`garbage`),
		{},
		[]byte(`{"transaction_amount":2}`),
	}
	recs, skipped := DecodeAll(c, raw)
	assert.Len(t, recs, 2)
	assert.Equal(t, 2, skipped)
}
