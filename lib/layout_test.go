package rotateprimarylib

import (
	"bytes"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

func enumerated(t *testing.T, cfg DisplayConfig) DisplaySet {
	t.Helper()
	set, err := NewRotator(cfg).Enumerate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return set
}

func TestWriteTOML(t *testing.T) {
	set := enumerated(t, threeDisplays())

	var buf bytes.Buffer
	if err := WriteTOML(&buf, set); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "[[display]]") {
		t.Errorf("expected display tables, got:\n%s", buf.String())
	}

	var l Layout
	if _, err := toml.Decode(buf.String(), &l); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(l.Display) != len(set) {
		t.Fatalf("expected %d displays, got %d", len(set), len(l.Display))
	}
	for i, d := range set {
		e := l.Display[i]
		if e.Device != d.ID() || e.X != d.Position().X || e.Y != d.Position().Y {
			t.Errorf("display %d: expected %s at %s, got %+v", i, d.ID(), d.Position(), e)
		}
		if e.Primary != d.Primary {
			t.Errorf("display %d: expected primary=%v", i, d.Primary)
		}
	}
}

func TestWriteDisplays(t *testing.T) {
	set := enumerated(t, threeDisplays())

	var buf bytes.Buffer
	if err := WriteDisplays(&buf, set); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "primary") || strings.Contains(lines[1], "primary") {
		t.Errorf("only A should be marked primary:\n%s", buf.String())
	}
	if !strings.Contains(lines[2], "(-1024,0)") || !strings.Contains(lines[2], "1920x1080@60Hz") {
		t.Errorf("unexpected line for C: %q", lines[2])
	}
}
