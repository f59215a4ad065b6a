//go:build !windows
// +build !windows

package rotateprimarylib

import (
	"strings"
	"testing"

	"github.com/BurntSushi/xgb/randr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestClassifyOutputs(t *testing.T) {
	infos := []outputInfo{
		{output: 10, name: "eDP-1", connected: true, crtc: 1},
		{output: 11, name: "HDMI-1", connected: true, crtc: 2},
		{output: 12, name: "DP-1", connected: false},
		{output: 13, name: "DP-2", connected: true, crtc: 1},
		{output: 14, name: "DP-3", connected: true},
	}

	devices := classifyOutputs(infos, 11)

	tests := []struct {
		name      string
		eligible  bool
		mirroring bool
		primary   bool
	}{
		{"eDP-1", true, false, false},
		{"HDMI-1", true, false, true},
		{"DP-1", false, false, false},
		{"DP-2", false, true, false},
		{"DP-3", false, false, false},
	}

	for i, tt := range tests {
		d := devices[i]
		if d.Name != tt.name {
			t.Fatalf("expected %s at %d, got %s", tt.name, i, d.Name)
		}
		if d.Eligible() != tt.eligible || d.Mirroring != tt.mirroring || d.Primary != tt.primary {
			t.Errorf("%s: got eligible=%v mirroring=%v primary=%v",
				d.Name, d.Eligible(), d.Mirroring, d.Primary)
		}
	}
}

func TestNormalizeLayout(t *testing.T) {
	pending := []xStaged{
		{pos: Point{-1920, 0}, width: 1920, height: 1080},
		{pos: Point{0, 0}, width: 2560, height: 1440, primary: true},
		{pos: Point{-2944, 200}, width: 1024, height: 768},
	}

	shift, w, h := normalizeLayout(pending)
	if shift != (Point{2944, 0}) {
		t.Errorf("unexpected shift %s", shift)
	}
	if w != 2944+2560 || h != 1440 {
		t.Errorf("unexpected screen size %dx%d", w, h)
	}

	if shift, w, h = normalizeLayout(nil); shift != (Point{}) || w != 0 || h != 0 {
		t.Errorf("empty layout should need nothing, got %s %dx%d", shift, w, h)
	}
}

func TestRefreshRate(t *testing.T) {
	// 1920x1080 CEA timing
	m := randr.ModeInfo{DotClock: 148500000, Htotal: 2200, Vtotal: 1125}
	if got := refreshRate(m); got != 60 {
		t.Errorf("expected 60, got %d", got)
	}
	if got := refreshRate(randr.ModeInfo{}); got != 0 {
		t.Errorf("expected 0 for an unknown mode, got %d", got)
	}
}

func TestXStageRejectsForeignModes(t *testing.T) {
	x := &XRandR{}
	d := Device{Name: "HDMI-1", native: xOutput{output: 11, crtc: 2}}

	if err := x.Stage(d, Mode{}, 0); err == nil {
		t.Error("expected an error for a mode without CRTC state")
	}

	m := Mode{native: xMode{crtc: 2}}
	if err := x.Stage(d, m, StageSetPrimary); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := x.Stage(d, m, StageSetPrimary); err == nil {
		t.Error("expected an error when staging a second primary output")
	}
	if len(x.pending) != 1 {
		t.Errorf("expected 1 pending change, got %d", len(x.pending))
	}
}

func TestWarnNoPrimaryOutput(t *testing.T) {
	infos := []outputInfo{
		{output: 12, name: "DP-1", connected: false},
		{output: 11, name: "HDMI-1", connected: true, crtc: 2},
	}

	core, logs := observer.New(zapcore.WarnLevel)
	warnNoPrimaryOutput(zap.New(core), 11, classifyOutputs(infos, 11))
	if logs.Len() != 0 {
		t.Errorf("expected no warning with a primary output, got %d", logs.Len())
	}

	warnNoPrimaryOutput(zap.New(core), 0, classifyOutputs(infos, 0))
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(entries))
	}
	hint, _ := entries[0].ContextMap()["hint"].(string)
	if !strings.Contains(hint, "xrandr --output HDMI-1 --primary") {
		t.Errorf("unexpected hint %q", hint)
	}
}
