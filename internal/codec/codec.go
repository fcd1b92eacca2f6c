package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrMalformedRecord is returned by Decode for bytes that are not a JSON object.
var ErrMalformedRecord = errors.New("malformed record")

const (
	// TimestampLayout is day/month/year - hour:minute:second.
	TimestampLayout = "02/01/2006 - 15:04:05"
	// TimestampField holds the formatted generation time in encoded records.
	TimestampField = "timestamp"
	// AmountField holds the signed delta of a ledger transaction.
	AmountField = "transaction_amount"
)

// lenient layouts accepted on decode, after TimestampLayout.
var fallbackLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999", // isoformat() without zone
	"2006-01-02 15:04:05.999999999",
}

// Record is one decoded event: a generation time plus payload fields.
// Numbers in Fields are json.Number after Decode.
type Record struct {
	Timestamp    time.Time
	RawTimestamp string
	Fields       map[string]any
}

// Decoder turns stored bytes back into a Record.
type Decoder interface {
	Decode(b []byte) (Record, error)
}

// Codec encodes and decodes records as JSON objects.
type Codec struct {
	loc *time.Location
	now func() time.Time
}

// Option configures a Codec.
type Option func(*Codec)

// WithClock overrides the generation clock.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// WithLocation sets the zone timestamps are formatted and parsed in.
func WithLocation(loc *time.Location) Option {
	return func(c *Codec) {
		if loc != nil {
			c.loc = loc
		}
	}
}

func New(opts ...Option) *Codec {
	c := &Codec{loc: time.Local, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Stamp builds a record from fields with the current generation time.
func (c *Codec) Stamp(fields map[string]any) Record {
	ts := c.now().In(c.loc).Truncate(time.Second)
	return Record{Timestamp: ts, RawTimestamp: ts.Format(TimestampLayout), Fields: fields}
}

// Encode renders r as a JSON object with a formatted timestamp field.
func (c *Codec) Encode(r Record) ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		out[k] = v
	}
	switch {
	case !r.Timestamp.IsZero():
		out[TimestampField] = r.Timestamp.In(c.loc).Format(TimestampLayout)
	case r.RawTimestamp != "":
		out[TimestampField] = r.RawTimestamp
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return b, nil
}

// Decode parses b. Anything other than a single JSON object is malformed; an
// unparseable or missing timestamp only leaves Timestamp zero.
func (c *Codec) Decode(b []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if fields == nil {
		return Record{}, fmt.Errorf("%w: not an object", ErrMalformedRecord)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Record{}, fmt.Errorf("%w: trailing data", ErrMalformedRecord)
	}
	r := Record{Fields: fields}
	if raw, ok := fields[TimestampField].(string); ok {
		delete(fields, TimestampField)
		r.RawTimestamp = raw
		r.Timestamp = c.parseTimestamp(raw)
	}
	return r, nil
}

func (c *Codec) parseTimestamp(raw string) time.Time {
	if t, err := time.ParseInLocation(TimestampLayout, raw, c.loc); err == nil {
		return t
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, raw, c.loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

// DecodeAll decodes every entry, dropping malformed ones and counting them.
func DecodeAll(dec Decoder, raw [][]byte) ([]Record, int) {
	out := make([]Record, 0, len(raw))
	skipped := 0
	for _, b := range raw {
		r, err := dec.Decode(b)
		if err != nil {
			skipped++
			continue
		}
		out = append(out, r)
	}
	return out, skipped
}
