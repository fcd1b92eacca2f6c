package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func newBufLogger(level Level, f Formatter) (Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewLogger(WithLevel(level), WithFormatter(f), WithOutput(NewWriterOutput(buf))), buf
}

func TestJSONFormatterFields(t *testing.T) {
	l, buf := newBufLogger(InfoLevel, &JSONFormatter{})
	l.With(Component("ledger")).Info("appended", Str("entity", "transactions:1001"), Int64("amount", 100))

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v (%s)", err, buf.String())
	}
	if got["msg"] != "appended" || got["level"] != "INFO" {
		t.Fatalf("unexpected entry: %v", got)
	}
	if got["component"] != "ledger" || got["entity"] != "transactions:1001" {
		t.Fatalf("missing fields: %v", got)
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newBufLogger(WarnLevel, &TextFormatter{})
	l.Info("quiet")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn: %q", buf.String())
	}
	l.Warn("loud")
	if !strings.Contains(buf.String(), "loud") {
		t.Fatalf("warn should be written")
	}
	l.SetLevel(DebugLevel)
	l.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Fatalf("debug should be written after SetLevel")
	}
}

func TestWithErrorAndContext(t *testing.T) {
	l, buf := newBufLogger(InfoLevel, &TextFormatter{})
	ctx := ContextWithRequestID(context.Background(), "req-1")
	l.WithContext(ctx).WithError(errors.New("boom")).Error("failed")
	out := buf.String()
	if !strings.Contains(out, "request_id=req-1") || !strings.Contains(out, "error=boom") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"debug": DebugLevel, "INFO": InfoLevel, "warning": WarnLevel, "error": ErrorLevel, "": InfoLevel} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestApplyConfigRedacts(t *testing.T) {
	l, err := ApplyConfig(&Config{Level: "info", Format: "json", Redact: []string{"password"}})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	buf := &bytes.Buffer{}
	bl := l.(*BaseLogger)
	bl.outputs = []Output{NewWriterOutput(buf)}
	l.Info("login", Str("password", "hunter2"))
	if strings.Contains(buf.String(), "hunter2") || !strings.Contains(buf.String(), "[REDACTED]") {
		t.Fatalf("expected redaction: %q", buf.String())
	}
	if _, err := ApplyConfig(&Config{Format: "xml"}); err == nil {
		t.Fatalf("expected unknown format error")
	}
}

func TestToStdLogger(t *testing.T) {
	l, buf := newBufLogger(InfoLevel, &TextFormatter{})
	ToStdLogger(l, WarnLevel).Print("from stdlib")
	if !strings.Contains(buf.String(), "WARN") || !strings.Contains(buf.String(), "from stdlib") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
