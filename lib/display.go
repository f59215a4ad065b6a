package rotateprimarylib

import "fmt"

// Point is a position in virtual desktop coordinates. Displays left of or
// above the primary have negative coordinates.
type Point struct {
	X int32
	Y int32
}

func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

func (p Point) Neg() Point {
	return Point{X: -p.X, Y: -p.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Device is a display device as reported by the OS, before its mode is read.
type Device struct {
	// Name addresses the device in every later call (\\.\DISPLAY1, HDMI-1, ...)
	Name        string
	Description string
	Attached    bool
	Primary     bool
	Mirroring   bool

	// Backend specific handle, carried back into Stage
	native interface{}
}

// Eligible reports whether the device takes part in rotation.
func (d Device) Eligible() bool {
	return d.Attached && !d.Mirroring
}

// Mode is the current settings of a device. Only Position is ever changed,
// everything else is passed back to the OS untouched.
type Mode struct {
	Position    Point
	Width       int
	Height      int
	RefreshRate int
	BitsPerPel  int
	Orientation int

	native interface{}
}

// WithPosition returns a copy of the mode moved to p.
func (m Mode) WithPosition(p Point) Mode {
	m.Position = p
	return m
}

type StageFlags uint32

const (
	// StageSetPrimary marks the staged device as the new primary display
	StageSetPrimary StageFlags = 1 << iota
)

// DisplayConfig is the OS display configuration surface. Stage never makes a
// change visible, CommitAll applies everything staged since the last commit.
type DisplayConfig interface {
	EnumDevices() ([]Device, error)
	CurrentMode(d Device) (Mode, error)
	Stage(d Device, m Mode, flags StageFlags) error
	CommitAll() error
}

// Display is one attached, non-mirroring display and its current mode.
type Display struct {
	Device  Device
	Mode    Mode
	Primary bool
}

func (d Display) ID() string {
	return d.Device.Name
}

func (d Display) Position() Point {
	return d.Mode.Position
}

// DisplaySet is in OS enumeration order. The order is only stable within a
// single run.
type DisplaySet []Display

func (s DisplaySet) IDs() []string {
	ids := make([]string, len(s))
	for i, d := range s {
		ids[i] = d.ID()
	}
	return ids
}
