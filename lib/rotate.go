package rotateprimarylib

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// Rotator moves the primary display to the next display in enumeration order
// and translates the whole layout so the new primary sits at the origin.
// A Rotator is good for a single run.
type Rotator struct {
	cfg    DisplayConfig
	log    *zap.Logger
	out    io.Writer
	dryRun bool
	state  State
}

type Option func(*Rotator)

func WithLogger(l *zap.Logger) Option {
	return func(r *Rotator) {
		if l != nil {
			r.log = l
		}
	}
}

// WithOutput sets where progress and result text goes. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Rotator) {
		if w != nil {
			r.out = w
		}
	}
}

// WithDryRun stops Rotate after computing the new layout. Nothing is staged.
func WithDryRun(dryRun bool) Option {
	return func(r *Rotator) {
		r.dryRun = dryRun
	}
}

func NewRotator(cfg DisplayConfig, opts ...Option) *Rotator {
	r := &Rotator{
		cfg: cfg,
		log: zap.NewNop(),
		out: os.Stdout,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

type Result struct {
	Displays DisplaySet
	// Index of the primary display before the run
	Previous int
	// Index of the new primary display, -1 when nothing was selected
	Target int
	// New positions, parallel to Displays. Nil for no-op runs.
	Positions []Point
	State     State
	// Set for a single display, State is then StateUnchanged
	NoOp bool
}

func (res *Result) NewPrimary() string {
	if res.Target < 0 || res.Target >= len(res.Displays) {
		return ""
	}
	return res.Displays[res.Target].ID()
}

func (r *Rotator) State() State {
	return r.state
}

func (r *Rotator) transition(s State) {
	r.log.Debug("State transition",
		zap.Stringer("from", r.state),
		zap.Stringer("to", s))
	r.state = s
}

func (r *Rotator) fail(err error) error {
	r.transition(StateFailed)
	return err
}

// Enumerate returns every attached, non-mirroring display with its current
// mode. Devices whose mode can't be read are logged and left out.
func (r *Rotator) Enumerate() (DisplaySet, error) {
	devices, err := r.cfg.EnumDevices()
	if err != nil {
		return nil, r.fail(&Error{Kind: ErrNoDisplaysFound, Cause: err})
	}

	var set DisplaySet
	for _, d := range devices {
		if !d.Eligible() {
			r.log.Debug("Ignoring display device",
				zap.String("device", d.Name),
				zap.Bool("attached", d.Attached),
				zap.Bool("mirroring", d.Mirroring))
			continue
		}

		m, err := r.cfg.CurrentMode(d)
		if err != nil {
			r.log.Warn(ErrModeQuerySkipped.Error(),
				zap.String("device", d.Name),
				zap.Error(err))
			continue
		}

		r.log.Debug("Found display",
			zap.String("device", d.Name),
			zap.Int32("x", m.Position.X),
			zap.Int32("y", m.Position.Y),
			zap.Int("width", m.Width),
			zap.Int("height", m.Height),
			zap.Bool("primary", d.Primary))

		set = append(set, Display{Device: d, Mode: m, Primary: d.Primary})
	}

	if len(set) == 0 {
		return nil, r.fail(&Error{Kind: ErrNoDisplaysFound})
	}

	r.log.Debug("Enumerated displays", zap.Strings("displays", set.IDs()))
	r.transition(StateEnumerated)
	return set, nil
}

// FindCurrentPrimary returns the index of the first display flagged primary.
func FindCurrentPrimary(set DisplaySet) (int, error) {
	for i, d := range set {
		if d.Primary {
			return i, nil
		}
	}
	return -1, &Error{Kind: ErrPrimaryNotIdentified}
}

func countPrimaries(set DisplaySet) int {
	n := 0
	for _, d := range set {
		if d.Primary {
			n++
		}
	}
	return n
}

// SelectTarget returns the display after current, wrapping around. ok is
// false when there is no other display to switch to.
func SelectTarget(set DisplaySet, current int) (target int, ok bool) {
	if len(set) < 2 {
		return current, false
	}
	return (current + 1) % len(set), true
}

// Rebase translates every display by the negated position of the target, so
// the target ends up at (0,0) and all relative offsets are unchanged.
func Rebase(set DisplaySet, target int) []Point {
	origin := set[target].Position()

	positions := make([]Point, len(set))
	for i, d := range set {
		positions[i] = d.Position().Sub(origin)
	}
	return positions
}

// Apply stages the target as primary, stages everything else, then commits.
// It stops at the first failure and does not undo anything already staged.
func (r *Rotator) Apply(set DisplaySet, target int, positions []Point) error {
	if target < 0 || target >= len(set) {
		return r.fail(fmt.Errorf(
			"target %d is out of range for %d displays", target, len(set)))
	}
	if len(positions) != len(set) {
		return r.fail(fmt.Errorf(
			"have %d positions for %d displays", len(positions), len(set)))
	}

	t := set[target]
	err := r.cfg.Stage(
		t.Device, t.Mode.WithPosition(positions[target]), StageSetPrimary)
	if err != nil {
		return r.fail(&Error{Kind: ErrSetPrimaryFailed, Device: t.ID(), Cause: err})
	}
	r.transition(StateTargetApplied)

	for i, d := range set {
		if i == target {
			continue
		}

		err = r.cfg.Stage(d.Device, d.Mode.WithPosition(positions[i]), 0)
		if err != nil {
			return r.fail(&Error{Kind: ErrRepositionFailed, Device: d.ID(), Cause: err})
		}
		r.log.Debug("Staged display",
			zap.String("device", d.ID()),
			zap.Stringer("from", d.Position()),
			zap.Stringer("to", positions[i]))
	}
	r.transition(StateOthersApplied)

	if err = r.cfg.CommitAll(); err != nil {
		// Whatever the OS did with the staged changes is now live, or not
		r.log.Error("Display state after failed commit is undefined",
			zap.String("target", t.ID()),
			zap.Error(err))
		return r.fail(&Error{Kind: ErrApplyFailed, Cause: err})
	}
	r.transition(StateCommitted)

	fmt.Fprintf(r.out, "Primary display switched to: %s\n", t.ID())
	return nil
}

var errRotatorUsed = errors.New("rotator has already finished a run")

// Rotate runs the whole operation. The returned Result is never nil and
// describes how far the run got.
func (r *Rotator) Rotate() (*Result, error) {
	res := &Result{Previous: -1, Target: -1}
	if r.state.Terminal() {
		res.State = r.state
		return res, errRotatorUsed
	}
	defer func() { res.State = r.state }()

	set, err := r.Enumerate()
	if err != nil {
		return res, err
	}
	res.Displays = set

	current, err := FindCurrentPrimary(set)
	if err != nil {
		return res, r.fail(err)
	}
	if n := countPrimaries(set); n > 1 {
		r.log.Warn("More than one display is flagged primary, using the first",
			zap.Int("count", n),
			zap.String("device", set[current].ID()))
	}
	res.Previous = current
	r.transition(StatePrimaryFound)

	target, ok := SelectTarget(set, current)
	if !ok {
		fmt.Fprintln(r.out, "Only one display attached. Nothing to switch.")
		res.NoOp = true
		r.transition(StateUnchanged)
		return res, nil
	}
	res.Target = target
	r.transition(StateTargetSelected)

	res.Positions = Rebase(set, target)
	r.transition(StateRebased)

	if r.dryRun {
		fmt.Fprintf(r.out, "Would switch primary display to: %s\n", set[target].ID())
		if err = WriteLayout(r.out, set, res.Positions); err != nil {
			return res, r.fail(err)
		}
		r.transition(StateUnchanged)
		return res, nil
	}

	return res, r.Apply(set, target, res.Positions)
}
