//go:build windows
// +build windows

package rotateprimarylib

import (
	"errors"
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Pulled from wingdi.h and winuser.h
const (
	displayDeviceAttachedToDesktop = 0x00000001
	displayDevicePrimaryDevice     = 0x00000004
	displayDeviceMirroringDriver   = 0x00000008

	enumCurrentSettings = ^uint32(0) // (DWORD)-1

	dmPosition = 0x00000020

	cdsUpdateRegistry = 0x00000001
	cdsSetPrimary     = 0x00000010
	cdsNoReset        = 0x10000000
)

type displayDevice struct {
	Cb           uint32
	DeviceName   [32]uint16
	DeviceString [128]uint16
	StateFlags   uint32
	DeviceID     [128]uint16
	DeviceKey    [128]uint16
}

// DEVMODEW with the display side of its unions
type devMode struct {
	DeviceName    [32]uint16
	SpecVersion   uint16
	DriverVersion uint16
	Size          uint16
	DriverExtra   uint16
	Fields        uint32

	PositionX          int32
	PositionY          int32
	DisplayOrientation uint32
	DisplayFixedOutput uint32

	Color       int16
	Duplex      int16
	YResolution int16
	TTOption    int16
	Collate     int16
	FormName    [32]uint16
	LogPixels   uint16
	BitsPerPel  uint32
	PelsWidth   uint32
	PelsHeight  uint32

	DisplayFlags     uint32
	DisplayFrequency uint32

	ICMMethod     uint32
	ICMIntent     uint32
	MediaType     uint32
	DitherType    uint32
	Reserved1     uint32
	Reserved2     uint32
	PanningWidth  uint32
	PanningHeight uint32
}

var moduser32 = windows.NewLazySystemDLL("user32.dll")
var procEnumDisplayDevicesW = moduser32.NewProc("EnumDisplayDevicesW")
var procEnumDisplaySettingsExW = moduser32.NewProc("EnumDisplaySettingsExW")
var procChangeDisplaySettingsExW = moduser32.NewProc("ChangeDisplaySettingsExW")

// DispChangeError is a failing DISP_CHANGE_* result of ChangeDisplaySettingsEx
type DispChangeError int32

var dispChangeNames = map[DispChangeError]string{
	1:  "DISP_CHANGE_RESTART",
	-1: "DISP_CHANGE_FAILED",
	-2: "DISP_CHANGE_BADMODE",
	-3: "DISP_CHANGE_NOTUPDATED",
	-4: "DISP_CHANGE_BADFLAGS",
	-5: "DISP_CHANGE_BADPARAM",
	-6: "DISP_CHANGE_BADDUALVIEW",
}

func (e DispChangeError) Error() string {
	name, ok := dispChangeNames[e]
	if !ok {
		name = "DISP_CHANGE_UNKNOWN"
	}
	return fmt.Sprintf("ChangeDisplaySettingsEx returned %s (%d)", name, int32(e))
}

// Win32 configures displays through ChangeDisplaySettingsEx. Staged changes
// are written to the registry with CDS_NORESET and only take effect on the
// final global call.
type Win32 struct{}

func NewDisplayConfig() (DisplayConfig, error) {
	for _, p := range []*windows.LazyProc{
		procEnumDisplayDevicesW,
		procEnumDisplaySettingsExW,
		procChangeDisplaySettingsExW,
	} {
		if err := p.Find(); err != nil {
			return nil, err
		}
	}
	return Win32{}, nil
}

func (Win32) EnumDevices() ([]Device, error) {
	var devices []Device

	for i := uint32(0); ; i++ {
		dd := displayDevice{}
		dd.Cb = uint32(unsafe.Sizeof(dd))

		r, _, _ := procEnumDisplayDevicesW.Call(
			0,
			uintptr(i),
			uintptr(unsafe.Pointer(&dd)),
			0)
		if r == 0 {
			// No more devices
			break
		}

		devices = append(devices, Device{
			Name:        windows.UTF16ToString(dd.DeviceName[:]),
			Description: windows.UTF16ToString(dd.DeviceString[:]),
			Attached:    dd.StateFlags&displayDeviceAttachedToDesktop != 0,
			Primary:     dd.StateFlags&displayDevicePrimaryDevice != 0,
			Mirroring:   dd.StateFlags&displayDeviceMirroringDriver != 0,
		})
	}

	return devices, nil
}

func (Win32) CurrentMode(d Device) (Mode, error) {
	name, err := windows.UTF16PtrFromString(d.Name)
	if err != nil {
		return Mode{}, err
	}

	dm := &devMode{}
	dm.Size = uint16(unsafe.Sizeof(*dm))

	r, _, errno := procEnumDisplaySettingsExW.Call(
		uintptr(unsafe.Pointer(name)),
		uintptr(enumCurrentSettings),
		uintptr(unsafe.Pointer(dm)),
		0)
	if r == 0 {
		return Mode{}, lastError("EnumDisplaySettingsEx", errno)
	}

	return Mode{
		Position:    Point{X: dm.PositionX, Y: dm.PositionY},
		Width:       int(dm.PelsWidth),
		Height:      int(dm.PelsHeight),
		RefreshRate: int(dm.DisplayFrequency),
		BitsPerPel:  int(dm.BitsPerPel),
		Orientation: int(dm.DisplayOrientation),
		native:      dm,
	}, nil
}

func (Win32) Stage(d Device, m Mode, flags StageFlags) error {
	orig, ok := m.native.(*devMode)
	if !ok {
		return fmt.Errorf("mode for %s was not read from this system", d.Name)
	}

	name, err := windows.UTF16PtrFromString(d.Name)
	if err != nil {
		return err
	}

	// Everything but the position goes back exactly as it was read
	dm := *orig
	dm.Fields |= dmPosition
	dm.PositionX = m.Position.X
	dm.PositionY = m.Position.Y

	cds := uintptr(cdsUpdateRegistry | cdsNoReset)
	if flags&StageSetPrimary != 0 {
		cds |= cdsSetPrimary
	}

	r, _, _ := procChangeDisplaySettingsExW.Call(
		uintptr(unsafe.Pointer(name)),
		uintptr(unsafe.Pointer(&dm)),
		0,
		cds,
		0)
	return dispChangeResult(r)
}

func (Win32) CommitAll() error {
	r, _, _ := procChangeDisplaySettingsExW.Call(0, 0, 0, 0, 0)
	return dispChangeResult(r)
}

func dispChangeResult(r uintptr) error {
	// LONG return value
	code := int32(r)
	if code == 0 {
		return nil
	}
	return DispChangeError(code)
}

func lastError(call string, err error) error {
	var errno windows.Errno
	if errors.As(err, &errno) && errno != 0 {
		return fmt.Errorf("%s failed. GetLastError=%d (%s)", call, uint32(errno), errno.Error())
	}
	return fmt.Errorf("%s failed", call)
}

const ATTACH_PARENT_PROCESS = uintptr(^uint32(0)) // (DWORD)-1

var modkernel32 = windows.NewLazySystemDLL("kernel32.dll")
var procAttachConsole = modkernel32.NewProc("AttachConsole")

// Attempts to attach to the parent console if one exists so we can get stdout
// Note that it's impossible to properly redirect stdin
// See https://stackoverflow.com/questions/23743217/
func AttachParentConsole() {
	r, _, _ := procAttachConsole.Call(ATTACH_PARENT_PROCESS)
	if r == 0 {
		return
	}

	hout, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	if err != nil || hout == 0 {
		hout, err = openConsoleOutput()
		if err != nil {
			return
		}
	}
	herr, err := windows.GetStdHandle(windows.STD_ERROR_HANDLE)
	if err != nil || herr == 0 {
		herr = hout
	}

	os.Stdout = os.NewFile(uintptr(hout), "/dev/stdout")
	os.Stderr = os.NewFile(uintptr(herr), "/dev/stderr")
}

// GUI subsystem binaries can attach with no standard handles set at all
func openConsoleOutput() (windows.Handle, error) {
	name, err := windows.UTF16PtrFromString("CONOUT$")
	if err != nil {
		return 0, err
	}
	return windows.CreateFile(
		name,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_EXISTING,
		0,
		0)
}
