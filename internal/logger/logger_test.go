package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     Level
		wantDebug bool
		wantInfo  bool
	}{
		{"off", LevelOff, false, false},
		{"normal", LevelNormal, false, true},
		{"verbose", LevelVerbose, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(tt.level, &buf)
			log.Debug("dbg %d", 1)
			log.Info("inf %d", 2)

			out := buf.String()
			if got := strings.Contains(out, "dbg 1"); got != tt.wantDebug {
				t.Fatalf("debug visible = %v, want %v (%q)", got, tt.wantDebug, out)
			}
			if got := strings.Contains(out, "inf 2"); got != tt.wantInfo {
				t.Fatalf("info visible = %v, want %v (%q)", got, tt.wantInfo, out)
			}
		})
	}
}

func TestNamedSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	root := New(LevelOff, &buf)
	child := root.Named("ledger").Named("export")

	child.Warn("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output while off, got %q", buf.String())
	}

	root.SetLevel(LevelNormal)
	child.Warn("visible")
	if !strings.Contains(buf.String(), "[WRN] ") || !strings.Contains(buf.String(), "ledger.export: visible") {
		t.Fatalf("unexpected output %q", buf.String())
	}
	if child.GetLevel() != LevelNormal {
		t.Fatalf("child level = %v, want normal", child.GetLevel())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"", LevelNormal, false},
		{"verbose", LevelVerbose, false},
		{"DEBUG", LevelVerbose, false},
		{"off", LevelOff, false},
		{"loud", LevelNormal, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}
