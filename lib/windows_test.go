//go:build windows
// +build windows

package rotateprimarylib

import (
	"errors"
	"testing"
	"unsafe"
)

func TestStructSizes(t *testing.T) {
	if s := unsafe.Sizeof(devMode{}); s != 220 {
		t.Errorf("DEVMODEW should be 220 bytes, got %d", s)
	}
	if s := unsafe.Sizeof(displayDevice{}); s != 840 {
		t.Errorf("DISPLAY_DEVICEW should be 840 bytes, got %d", s)
	}
	if o := unsafe.Offsetof(devMode{}.PositionX); o != 76 {
		t.Errorf("dmPosition should be at offset 76, got %d", o)
	}
}

func TestDispChangeResult(t *testing.T) {
	if err := dispChangeResult(0); err != nil {
		t.Errorf("DISP_CHANGE_SUCCESSFUL should not be an error, got %v", err)
	}

	// Only the low 32 bits of the LONG result are meaningful
	err := dispChangeResult(uintptr(^uint32(1)))
	var code DispChangeError
	if !errors.As(err, &code) || code != -2 {
		t.Fatalf("expected DISP_CHANGE_BADMODE, got %v", err)
	}
	if want := "ChangeDisplaySettingsEx returned DISP_CHANGE_BADMODE (-2)"; err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}

	if got := DispChangeError(-42).Error(); got != "ChangeDisplaySettingsEx returned DISP_CHANGE_UNKNOWN (-42)" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestStageRejectsForeignModes(t *testing.T) {
	err := Win32{}.Stage(Device{Name: `\\.\DISPLAY1`}, Mode{}, StageSetPrimary)
	if err == nil {
		t.Error("expected an error for a mode that was not read from the system")
	}
}
