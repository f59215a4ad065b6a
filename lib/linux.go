//go:build !windows
// +build !windows

package rotateprimarylib

import (
	"errors"
	"os"
	"regexp"
	"strings"
)

// Assumes a display ID of the form ":[0-9]+"
// True if it's definitely a local X session
func testXSession(display string) bool {
	_, err := os.Stat("/tmp/.X11-unix/X" + strings.TrimLeft(display, ":"))
	return err == nil
}

var displayRE = regexp.MustCompile(`^:[0-9]+`)

// Trims individual screens out of an X11 DISPLAY variable
func trimDisplay(display string) string {
	trimmed := displayRE.FindString(display)
	if trimmed != "" {
		return trimmed
	}
	return display
}

// The X server to configure. Remote displays are passed through untested.
func xDisplay() (string, error) {
	d := os.Getenv("DISPLAY")
	if d == "" {
		return "", errors.New("$DISPLAY is not set, no X session to configure")
	}

	if displayRE.MatchString(d) && !testXSession(trimDisplay(d)) {
		return "", errors.New(
			"$DISPLAY refers to a non-X session. Wayland is not yet supported")
	}
	return d, nil
}

// No-op
func AttachParentConsole() {}
