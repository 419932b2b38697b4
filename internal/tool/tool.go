// Package tool implements the placement and drawing state machine of the editor.
package tool

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/scorelect/drillboard/internal/geo"
	"github.com/scorelect/drillboard/pkg/core"
)

var (
	// ErrDegenerateShape is returned when a two-click shape is smaller than the minimum size.
	ErrDegenerateShape = errors.New("shape is too small")
	// ErrUnknownKind is returned when selecting a tool that does not exist.
	ErrUnknownKind = errors.New("unknown object kind")
)

// State is the mode of the machine.
type State int

const (
	Idle State = iota
	ArmedSimple
	ArmedLine
	ArmedRect
	EditingText
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ArmedSimple:
		return "armed"
	case ArmedLine:
		return "armed-line"
	case ArmedRect:
		return "armed-rect"
	case EditingText:
		return "editing-text"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Preview is the dashed outline shown between the two clicks of a line or
// rectangle. It is never committed.
type Preview struct {
	Kind     core.Kind
	From, To geo.Point
	Color    string
}

// Rect returns the normalized rectangle spanned by the preview.
func (p Preview) Rect() geo.Rect { return geo.RectFromCorners(p.From, p.To) }

// Length returns the distance between the preview endpoints.
func (p Preview) Length() float64 { return geo.Distance(p.From, p.To) }

// Outcome reports what a pointer-down did.
type Outcome struct {
	// Handled is false when the machine was idle and the event belongs to selection.
	Handled bool
	// Object is the committed object, if any. The caller adds it to the current page.
	Object *core.Object
}

// Option configures a Machine.
type Option func(*Machine)

// WithIDGenerator replaces the object id generator.
func WithIDGenerator(fn func() string) Option {
	return func(m *Machine) { m.newID = fn }
}

// WithMinShapeSize sets the smallest accepted rectangle side and line length.
// Zero accepts every shape.
func WithMinShapeSize(size float64) Option {
	return func(m *Machine) { m.minSize = size }
}

// WithDefaults replaces the creation styles.
func WithDefaults(d Defaults) Option {
	return func(m *Machine) { m.defaults = d }
}

// Machine is the tool state machine. It is owned by one editor session and is
// not safe for concurrent use.
type Machine struct {
	state State
	kind  core.Kind
	first *geo.Point

	preview *Preview

	editing string
	buffer  string

	// Sport is copied into pitches when they are placed.
	Sport core.Sport

	defaults Defaults
	minSize  float64
	newID    func() string
}

// New returns an idle machine.
func New(opts ...Option) *Machine {
	m := &Machine{
		defaults: DefaultStyles,
		minSize:  2,
		newID:    uuid.NewString,
		Sport:    core.SportGAA,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Kind returns the armed kind, or "" when nothing is armed.
func (m *Machine) Kind() core.Kind { return m.kind }

// AwaitingSecondPoint reports whether a line or rectangle has its first point.
func (m *Machine) AwaitingSecondPoint() bool { return m.first != nil }

// FirstPoint returns the recorded first point of a two-click tool.
func (m *Machine) FirstPoint() (geo.Point, bool) {
	if m.first == nil {
		return geo.Point{}, false
	}
	return *m.first, true
}

// Preview returns the live preview, or nil.
func (m *Machine) Preview() *Preview { return m.preview }

// Editing returns the id of the object under edit.
func (m *Machine) Editing() (string, bool) {
	return m.editing, m.state == EditingText
}

// Select arms the tool for kind. Any pending first point or edit is discarded.
func (m *Machine) Select(kind core.Kind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	m.reset()
	m.kind = kind
	switch kind {
	case core.KindLine:
		m.state = ArmedLine
	case core.KindSquare:
		m.state = ArmedRect
	default:
		m.state = ArmedSimple
	}
	return nil
}

// PointerDown feeds a primary click at p (page coordinates).
func (m *Machine) PointerDown(p geo.Point) (Outcome, error) {
	switch m.state {
	case ArmedSimple:
		obj := m.commit(m.defaults.anchored(m.kind, p, m.Sport))
		return Outcome{Handled: true, Object: obj}, nil

	case ArmedLine, ArmedRect:
		if m.first == nil {
			first := p
			m.first = &first
			return Outcome{Handled: true}, nil
		}
		from := *m.first
		var shape core.Shape
		if m.state == ArmedLine {
			if m.minSize > 0 && geo.Distance(from, p) < m.minSize {
				m.reset()
				return Outcome{Handled: true}, fmt.Errorf("line of length %.1f: %w", geo.Distance(from, p), ErrDegenerateShape)
			}
			shape = m.defaults.line(from, p)
		} else {
			r := geo.RectFromCorners(from, p)
			if m.minSize > 0 && (r.Width < m.minSize || r.Height < m.minSize) {
				m.reset()
				return Outcome{Handled: true}, fmt.Errorf("rectangle %.1fx%.1f: %w", r.Width, r.Height, ErrDegenerateShape)
			}
			shape = m.defaults.rect(from, p)
		}
		return Outcome{Handled: true, Object: m.commit(shape)}, nil
	}
	return Outcome{}, nil
}

// PointerMove updates the preview while a two-click tool awaits its second point.
func (m *Machine) PointerMove(p geo.Point) *Preview {
	if m.first == nil {
		return nil
	}
	color := m.defaults.LineColor
	if m.state == ArmedRect {
		color = m.defaults.RectColor
	}
	m.preview = &Preview{Kind: m.kind, From: *m.first, To: p, Color: color}
	return m.preview
}

// Drop places kind at p in one step, as when dragged from the palette. Lines and
// rectangles get their drop size starting at p. The machine returns to Idle.
func (m *Machine) Drop(kind core.Kind, p geo.Point) (*core.Object, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	m.reset()
	var shape core.Shape
	switch kind {
	case core.KindLine:
		shape = m.defaults.line(p, p.Add(geo.Pt(m.defaults.DropLength, 0)))
	case core.KindSquare:
		side := m.defaults.DropRectSize
		shape = m.defaults.rect(p, p.Add(geo.Pt(side, side)))
	default:
		shape = m.defaults.anchored(kind, p, m.Sport)
	}
	return m.commit(shape), nil
}

// BeginEdit enters text editing for the object id with its current text.
// It is refused unless the machine is idle.
func (m *Machine) BeginEdit(id, text string) bool {
	if m.state != Idle {
		return false
	}
	m.state = EditingText
	m.editing = id
	m.buffer = text
	return true
}

// SetBuffer replaces the inline editor contents.
func (m *Machine) SetBuffer(text string) {
	if m.state == EditingText {
		m.buffer = text
	}
}

// Buffer returns the inline editor contents.
func (m *Machine) Buffer() string { return m.buffer }

// CommitEdit leaves editing and returns the edited object id and its new text.
func (m *Machine) CommitEdit() (id, text string, ok bool) {
	if m.state != EditingText {
		return "", "", false
	}
	id, text = m.editing, m.buffer
	m.reset()
	return id, text, true
}

// Cancel returns to Idle, discarding any first point, preview or edit buffer.
// It reports whether there was anything to cancel.
func (m *Machine) Cancel() bool {
	if m.state == Idle {
		return false
	}
	m.reset()
	return true
}

func (m *Machine) commit(shape core.Shape) *core.Object {
	m.reset()
	return core.NewObject(m.newID(), shape)
}

func (m *Machine) reset() {
	m.state = Idle
	m.kind = ""
	m.first = nil
	m.preview = nil
	m.editing = ""
	m.buffer = ""
}
