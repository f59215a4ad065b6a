package rotateprimarylib

import "errors"

var errFake = errors.New("fake failure")

type stageCall struct {
	device string
	mode   Mode
	flags  StageFlags
}

// fakeConfig records every staging call. With apply set, CommitAll makes the
// staged layout current so a second run sees the result of the first.
type fakeConfig struct {
	devices  []Device
	modes    map[string]Mode
	modeErrs map[string]error

	enumErr   error
	stageErrs map[string]error
	commitErr error
	apply     bool

	staged  []stageCall
	pending []stageCall
	commits int
}

type fakeDisplay struct {
	name    string
	x, y    int32
	primary bool
}

func newFakeConfig(displays ...fakeDisplay) *fakeConfig {
	f := &fakeConfig{
		modes:     map[string]Mode{},
		modeErrs:  map[string]error{},
		stageErrs: map[string]error{},
	}
	for _, d := range displays {
		f.devices = append(f.devices, Device{
			Name:     d.name,
			Attached: true,
			Primary:  d.primary,
		})
		f.modes[d.name] = Mode{
			Position:    Point{X: d.x, Y: d.y},
			Width:       1920,
			Height:      1080,
			RefreshRate: 60,
			BitsPerPel:  32,
		}
	}
	return f
}

func (f *fakeConfig) EnumDevices() ([]Device, error) {
	if f.enumErr != nil {
		return nil, f.enumErr
	}
	return append([]Device(nil), f.devices...), nil
}

func (f *fakeConfig) CurrentMode(d Device) (Mode, error) {
	if err := f.modeErrs[d.Name]; err != nil {
		return Mode{}, err
	}
	m, ok := f.modes[d.Name]
	if !ok {
		return Mode{}, errFake
	}
	return m, nil
}

func (f *fakeConfig) Stage(d Device, m Mode, flags StageFlags) error {
	call := stageCall{device: d.Name, mode: m, flags: flags}
	f.staged = append(f.staged, call)
	if err := f.stageErrs[d.Name]; err != nil {
		return err
	}
	f.pending = append(f.pending, call)
	return nil
}

func (f *fakeConfig) CommitAll() error {
	f.commits++
	if f.commitErr != nil {
		return f.commitErr
	}
	if f.apply {
		for _, c := range f.pending {
			f.modes[c.device] = c.mode
			if c.flags&StageSetPrimary != 0 {
				for i := range f.devices {
					f.devices[i].Primary = f.devices[i].Name == c.device
				}
			}
		}
	}
	f.pending = nil
	return nil
}

func (f *fakeConfig) stagedDevices() []string {
	names := make([]string, len(f.staged))
	for i, c := range f.staged {
		names[i] = c.device
	}
	return names
}

func sliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
