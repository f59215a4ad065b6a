package rotateprimarylib

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/BurntSushi/toml"
)

type layoutEntry struct {
	Index       int    `toml:"index"`
	Device      string `toml:"device"`
	Description string `toml:"description,omitempty"`
	X           int32  `toml:"x"`
	Y           int32  `toml:"y"`
	Width       int    `toml:"width"`
	Height      int    `toml:"height"`
	RefreshRate int    `toml:"refresh_rate,omitempty"`
	Primary     bool   `toml:"primary"`
}

// Layout is the TOML form of a DisplaySet.
type Layout struct {
	Display []layoutEntry `toml:"display"`
}

func NewLayout(set DisplaySet) Layout {
	l := Layout{Display: make([]layoutEntry, len(set))}
	for i, d := range set {
		l.Display[i] = layoutEntry{
			Index:       i,
			Device:      d.ID(),
			Description: d.Device.Description,
			X:           d.Mode.Position.X,
			Y:           d.Mode.Position.Y,
			Width:       d.Mode.Width,
			Height:      d.Mode.Height,
			RefreshRate: d.Mode.RefreshRate,
			Primary:     d.Primary,
		}
	}
	return l
}

func WriteTOML(w io.Writer, set DisplaySet) error {
	return toml.NewEncoder(w).Encode(NewLayout(set))
}

// WriteDisplays prints one line per display.
func WriteDisplays(w io.Writer, set DisplaySet) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, d := range set {
		marker := ""
		if d.Primary {
			marker = "primary"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%dx%d@%dHz\t%s\n",
			i, d.ID(), d.Position(), d.Mode.Width, d.Mode.Height,
			d.Mode.RefreshRate, marker)
	}
	return tw.Flush()
}

// WriteLayout prints the move each display would make.
func WriteLayout(w io.Writer, set DisplaySet, positions []Point) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, d := range set {
		fmt.Fprintf(tw, "%s\t%s\t->\t%s\n", d.ID(), d.Position(), positions[i])
	}
	return tw.Flush()
}
