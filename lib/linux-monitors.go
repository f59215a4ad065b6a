//go:build !windows
// +build !windows

package rotateprimarylib

import (
	"errors"
	"fmt"
	"io"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"go.uber.org/zap"
)

type xOutput struct {
	output randr.Output
	crtc   randr.Crtc
}

type xMode struct {
	crtc     randr.Crtc
	mode     randr.Mode
	rotation uint16
	outputs  []randr.Output
}

type xStaged struct {
	out     xOutput
	mode    xMode
	pos     Point
	width   int
	height  int
	primary bool
}

// XStatusError is a RandR request that was answered with a non-success status
type XStatusError struct {
	Request string
	Status  byte
}

var xStatusNames = map[byte]string{
	randr.SetConfigInvalidConfigTime: "InvalidConfigTime",
	randr.SetConfigInvalidTime:       "InvalidTime",
	randr.SetConfigFailed:            "Failed",
}

func (e XStatusError) Error() string {
	name, ok := xStatusNames[e.Status]
	if !ok {
		name = "Unknown"
	}
	return fmt.Sprintf("%s returned status %s (%d)", e.Request, name, e.Status)
}

// XRandR configures the CRTCs of an X screen. X has no staging of its own,
// so staged changes are buffered and sent together under a server grab.
type XRandR struct {
	X               *xgbutil.XUtil
	conn            *xgb.Conn
	root            xproto.Window
	configTimestamp xproto.Timestamp
	modes           map[randr.Mode]randr.ModeInfo
	pending         []xStaged
	log             *zap.Logger
}

func NewDisplayConfig() (DisplayConfig, error) {
	// Stop polluting stdout
	xgb.Logger.SetOutput(io.Discard)
	xgbutil.Logger.SetOutput(io.Discard)

	display, err := xDisplay()
	if err != nil {
		return nil, err
	}

	X, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, err
	}

	if err = randr.Init(X.Conn()); err != nil {
		X.Conn().Close()
		return nil, err
	}

	return &XRandR{
		X:     X,
		conn:  X.Conn(),
		root:  X.RootWin(),
		modes: map[randr.Mode]randr.ModeInfo{},
		log:   Logger(),
	}, nil
}

func (x *XRandR) Close() error {
	x.conn.Close()
	return nil
}

type outputInfo struct {
	output    randr.Output
	name      string
	connected bool
	crtc      randr.Crtc
}

// Outputs driving a CRTC that an earlier output already drives are clones
func classifyOutputs(infos []outputInfo, primary randr.Output) []Device {
	devices := make([]Device, 0, len(infos))
	seen := map[randr.Crtc]bool{}

	for _, info := range infos {
		attached := info.connected && info.crtc != 0
		mirroring := attached && seen[info.crtc]
		if attached {
			seen[info.crtc] = true
		}

		devices = append(devices, Device{
			Name:      info.name,
			Attached:  attached,
			Primary:   info.output == primary,
			Mirroring: mirroring,
			native:    xOutput{output: info.output, crtc: info.crtc},
		})
	}
	return devices
}

func (x *XRandR) EnumDevices() ([]Device, error) {
	res, err := randr.GetScreenResourcesCurrent(x.conn, x.root).Reply()
	if err != nil {
		return nil, err
	}
	x.configTimestamp = res.ConfigTimestamp

	for _, m := range res.Modes {
		x.modes[randr.Mode(m.Id)] = m
	}

	primary, err := randr.GetOutputPrimary(x.conn, x.root).Reply()
	if err != nil {
		return nil, err
	}

	infos := make([]outputInfo, 0, len(res.Outputs))
	for _, o := range res.Outputs {
		info, err := randr.GetOutputInfo(x.conn, o, res.ConfigTimestamp).Reply()
		if err != nil {
			return nil, err
		}

		infos = append(infos, outputInfo{
			output:    o,
			name:      string(info.Name),
			connected: info.Connection == randr.ConnectionConnected,
			crtc:      info.Crtc,
		})
	}

	devices := classifyOutputs(infos, primary.Output)
	warnNoPrimaryOutput(x.log, primary.Output, devices)
	return devices, nil
}

// Many X servers never have a primary output unless one is set explicitly
func warnNoPrimaryOutput(log *zap.Logger, primary randr.Output, devices []Device) {
	if primary != 0 {
		return
	}
	example := "NAME"
	for _, d := range devices {
		if d.Eligible() {
			example = d.Name
			break
		}
	}
	log.Warn("X server reports no primary output",
		zap.String("hint", fmt.Sprintf("xrandr --output %s --primary", example)))
}

func refreshRate(m randr.ModeInfo) int {
	if m.Htotal == 0 || m.Vtotal == 0 {
		return 0
	}
	dots := float64(m.Htotal) * float64(m.Vtotal)
	return int(float64(m.DotClock)/dots + 0.5)
}

func (x *XRandR) CurrentMode(d Device) (Mode, error) {
	o, ok := d.native.(xOutput)
	if !ok {
		return Mode{}, fmt.Errorf("device %s was not read from this X server", d.Name)
	}

	info, err := randr.GetCrtcInfo(x.conn, o.crtc, x.configTimestamp).Reply()
	if err != nil {
		return Mode{}, err
	}
	if info.Status != randr.SetConfigSuccess {
		return Mode{}, XStatusError{Request: "GetCrtcInfo", Status: info.Status}
	}

	return Mode{
		Position:    Point{X: int32(info.X), Y: int32(info.Y)},
		Width:       int(info.Width),
		Height:      int(info.Height),
		RefreshRate: refreshRate(x.modes[info.Mode]),
		Orientation: int(info.Rotation),
		native: xMode{
			crtc:     o.crtc,
			mode:     info.Mode,
			rotation: info.Rotation,
			outputs:  info.Outputs,
		},
	}, nil
}

func (x *XRandR) Stage(d Device, m Mode, flags StageFlags) error {
	o, ok := d.native.(xOutput)
	if !ok {
		return fmt.Errorf("device %s was not read from this X server", d.Name)
	}
	xm, ok := m.native.(xMode)
	if !ok || xm.crtc != o.crtc {
		return fmt.Errorf("mode for %s was not read from this X server", d.Name)
	}

	primary := flags&StageSetPrimary != 0
	if primary {
		for _, p := range x.pending {
			if p.primary {
				return errors.New("a primary output is already staged")
			}
		}
	}

	x.pending = append(x.pending, xStaged{
		out:     o,
		mode:    xm,
		pos:     m.Position,
		width:   m.Width,
		height:  m.Height,
		primary: primary,
	})
	return nil
}

// X11 has no negative CRTC origins, so the staged layout is shifted until its
// top left corner is at the origin. Returns the shift and the screen size the
// shifted layout needs.
func normalizeLayout(pending []xStaged) (shift Point, width, height int) {
	if len(pending) == 0 {
		return Point{}, 0, 0
	}

	origin := pending[0].pos
	for _, p := range pending[1:] {
		if p.pos.X < origin.X {
			origin.X = p.pos.X
		}
		if p.pos.Y < origin.Y {
			origin.Y = p.pos.Y
		}
	}
	shift = origin.Neg()

	for _, p := range pending {
		pos := p.pos.Add(shift)
		if r := int(pos.X) + p.width; r > width {
			width = r
		}
		if b := int(pos.Y) + p.height; b > height {
			height = b
		}
	}
	return shift, width, height
}

func (x *XRandR) CommitAll() error {
	pending := x.pending
	x.pending = nil
	if len(pending) == 0 {
		return nil
	}

	shift, width, height := normalizeLayout(pending)

	if err := xproto.GrabServerChecked(x.conn).Check(); err != nil {
		return err
	}
	defer xproto.UngrabServer(x.conn)

	screen := xproto.Setup(x.conn).DefaultScreen(x.conn)
	if width > int(screen.WidthInPixels) || height > int(screen.HeightInPixels) {
		if width < int(screen.WidthInPixels) {
			width = int(screen.WidthInPixels)
		}
		if height < int(screen.HeightInPixels) {
			height = int(screen.HeightInPixels)
		}

		// Keep the DPI the screen already reports
		mmWidth := uint32(width) * uint32(screen.WidthInMillimeters) /
			uint32(screen.WidthInPixels)
		mmHeight := uint32(height) * uint32(screen.HeightInMillimeters) /
			uint32(screen.HeightInPixels)

		err := randr.SetScreenSizeChecked(x.conn, x.root,
			uint16(width), uint16(height), mmWidth, mmHeight).Check()
		if err != nil {
			return err
		}
	}

	var primary randr.Output
	for _, p := range pending {
		pos := p.pos.Add(shift)
		reply, err := randr.SetCrtcConfig(
			x.conn,
			p.mode.crtc,
			xproto.TimeCurrentTime,
			x.configTimestamp,
			int16(pos.X),
			int16(pos.Y),
			p.mode.mode,
			p.mode.rotation,
			p.mode.outputs).Reply()
		if err != nil {
			return err
		}
		if reply.Status != randr.SetConfigSuccess {
			return XStatusError{Request: "SetCrtcConfig", Status: reply.Status}
		}

		if p.primary {
			primary = p.out.output
		}
	}

	if primary != 0 {
		return randr.SetOutputPrimaryChecked(x.conn, x.root, primary).Check()
	}
	return nil
}
