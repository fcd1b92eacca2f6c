package eventlog

import "testing"

func TestFrameRoundtrip(t *testing.T) {
	header := entryHeader(1700000000123)
	payload := []byte(`{"transaction_amount":5}`)
	rec := EncodeFrame(header, payload)
	dec, ok := DecodeFrame(rec)
	if !ok {
		t.Fatalf("decode failed")
	}
	if appendedAtFromHeader(dec.Header) != 1700000000123 {
		t.Fatalf("header mismatch")
	}
	if string(dec.Payload) != string(payload) {
		t.Fatalf("payload mismatch")
	}
}

func TestFrameCRCFail(t *testing.T) {
	rec := EncodeFrame([]byte("x"), []byte("y"))
	rec[len(rec)-1] ^= 0xFF // corrupt one byte
	if _, ok := DecodeFrame(rec); ok {
		t.Fatalf("expected crc failure")
	}
}

func TestFrameTruncated(t *testing.T) {
	if _, ok := DecodeFrame([]byte{1, 2}); ok {
		t.Fatalf("expected short frame to fail")
	}
	if _, ok := DecodeFrame([]byte{50, 0, 0, 0, 0}); ok {
		t.Fatalf("expected oversize header length to fail")
	}
}
