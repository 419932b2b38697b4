package editor

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/scorelect/drillboard/internal/dispatcher"
	"github.com/scorelect/drillboard/internal/geo"
	"github.com/scorelect/drillboard/internal/tool"
	"github.com/scorelect/drillboard/internal/util"
	"github.com/scorelect/drillboard/internal/viewport"
	"github.com/scorelect/drillboard/pkg/core"
)

// Command names routed to a session.
const (
	CmdToolSelect     = "tool.select"
	CmdPointerDown    = "pointer.down"
	CmdPointerMove    = "pointer.move"
	CmdPointerUp      = "pointer.up"
	CmdDoubleClick    = "pointer.dblclick"
	CmdSecondaryDown  = "pointer.secondary"
	CmdKeyDown        = "key.down"
	CmdTextInput      = "text.input"
	CmdTextBlur       = "text.blur"
	CmdPaletteDrop    = "palette.drop"
	CmdObjectSelect   = "object.select"
	CmdObjectEdit     = "object.edit"
	CmdObjectRotate   = "object.rotate"
	CmdObjectScale    = "object.scale"
	CmdObjectDelete   = "object.delete"
	CmdObjectFront    = "object.front"
	CmdPageAdd        = "page.add"
	CmdPageDelete     = "page.delete"
	CmdPageSwitch     = "page.switch"
	CmdPageBackground = "page.background"
	CmdViewportResize = "viewport.resize"
	CmdDocDetails     = "document.details"
	CmdDocSport       = "document.sport"
	CmdDocOrientation = "document.orientation"
)

// Warning-class errors leave the session unchanged and are reported, not failed.
var warnings = []error{
	core.ErrLastPage,
	core.ErrNoAnchor,
	tool.ErrDegenerateShape,
	ErrBusy,
	ErrNoSelection,
	ErrOffPage,
}

// IsWarning reports whether err is a user-facing warning rather than a failure.
func IsWarning(err error) bool {
	for _, w := range warnings {
		if errors.Is(err, w) {
			return true
		}
	}
	return false
}

// Handlers adapts dispatcher events to session calls. Pointer positions in
// events are container pixels once a viewport has been set with viewport.resize.
type Handlers struct {
	s   *Session
	log *slog.Logger
}

// NewHandlers returns the event handlers for s.
func NewHandlers(s *Session, log *slog.Logger) *Handlers {
	if log == nil {
		log = slog.Default()
	}
	return &Handlers{s: s, log: log}
}

// Register adds every session command to d.
func (h *Handlers) Register(d *dispatcher.Dispatcher, opts ...dispatcher.Option) {
	for cmd, fn := range map[string]dispatcher.HandlerFunc{
		CmdToolSelect:     h.handleToolSelect,
		CmdPointerDown:    h.pointer(h.s.PointerDown),
		CmdPointerMove:    h.pointer(h.s.PointerMove),
		CmdPointerUp:      h.pointer(h.s.PointerUp),
		CmdDoubleClick:    h.pointer(h.s.DoubleClick),
		CmdSecondaryDown:  h.handleSecondaryDown,
		CmdKeyDown:        h.handleKeyDown,
		CmdTextInput:      h.handleTextInput,
		CmdTextBlur:       h.handleTextBlur,
		CmdPaletteDrop:    h.handlePaletteDrop,
		CmdObjectSelect:   h.handleObjectSelect,
		CmdObjectEdit:     h.handleObjectEdit,
		CmdObjectRotate:   h.handleObjectRotate,
		CmdObjectScale:    h.handleObjectScale,
		CmdObjectDelete:   h.handleObjectDelete,
		CmdObjectFront:    h.handleObjectFront,
		CmdPageAdd:        h.handlePageAdd,
		CmdPageDelete:     h.handlePageDelete,
		CmdPageSwitch:     h.handlePageSwitch,
		CmdPageBackground: h.handlePageBackground,
		CmdViewportResize: h.handleViewportResize,
		CmdDocDetails:     h.handleDocDetails,
		CmdDocSport:       h.handleDocSport,
		CmdDocOrientation: h.handleDocOrientation,
	} {
		d.Register(cmd, fn, opts...)
	}
}

// result turns warning-class errors into a logged warning result.
func (h *Handlers) result(e dispatcher.Event, ok any, err error) (any, error) {
	if err == nil {
		return ok, nil
	}
	if IsWarning(err) {
		h.log.Warn("command rejected", "command", e.Command, "reason", err.Error())
		return "warning: " + err.Error(), nil
	}
	return nil, fmt.Errorf("%s: %w", e.Command, err)
}

func (h *Handlers) point(args []string, i int) (geo.Point, error) {
	x, y, err := util.XYArgs(args, i)
	if err != nil {
		return geo.Point{}, err
	}
	p, ok := h.s.ToStage(geo.Pt(x, y))
	if !ok {
		return geo.Point{}, fmt.Errorf("viewport has no area")
	}
	return p, nil
}

func (h *Handlers) pointer(fn func(geo.Point) error) dispatcher.HandlerFunc {
	return func(e dispatcher.Event) (any, error) {
		p, err := h.point(e.Args, 0)
		if err != nil {
			// malformed pointer input is ignored
			h.log.Debug("ignoring pointer event", "command", e.Command, "error", err)
			return "ignored", nil
		}
		return h.result(e, "ok", fn(p))
	}
}

func (h *Handlers) handleToolSelect(e dispatcher.Event) (any, error) {
	if err := util.RequireArgs(e.Args, 1); err != nil {
		return nil, err
	}
	kind := core.Kind(util.Unquote(e.Args[0]))
	return h.result(e, "ok", h.s.SelectTool(kind))
}

func (h *Handlers) handleSecondaryDown(e dispatcher.Event) (any, error) {
	return h.result(e, "ok", h.s.SecondaryDown())
}

func (h *Handlers) handleKeyDown(e dispatcher.Event) (any, error) {
	if err := util.RequireArgs(e.Args, 1); err != nil {
		return nil, err
	}
	return h.result(e, "ok", h.s.KeyDown(util.Unquote(e.Args[0]), util.BoolArg(e.Args, 1)))
}

func (h *Handlers) handleTextInput(e dispatcher.Event) (any, error) {
	if err := util.RequireArgs(e.Args, 1); err != nil {
		return nil, err
	}
	return h.result(e, "ok", h.s.SetEditBuffer(util.Unquote(e.Args[0])))
}

func (h *Handlers) handleTextBlur(e dispatcher.Event) (any, error) {
	return h.result(e, "ok", h.s.Blur())
}

func (h *Handlers) handlePaletteDrop(e dispatcher.Event) (any, error) {
	if err := util.RequireArgs(e.Args, 3); err != nil {
		return nil, err
	}
	p, err := h.point(e.Args, 1)
	if err != nil {
		return nil, err
	}
	return h.result(e, "ok", h.s.Drop(core.Kind(util.Unquote(e.Args[0])), p))
}

func (h *Handlers) handleObjectSelect(e dispatcher.Event) (any, error) {
	if err := util.RequireArgs(e.Args, 1); err != nil {
		return nil, err
	}
	return h.result(e, "ok", h.s.SelectObject(util.Unquote(e.Args[0])))
}

// handleObjectEdit takes key=value fields: label, size, color, text, fontSize, width.
func (h *Handlers) handleObjectEdit(e dispatcher.Event) (any, error) {
	fields, err := util.KeyValues(e.Args)
	if err != nil {
		return nil, err
	}
	edit, err := parseEdit(fields)
	if err != nil {
		return nil, err
	}
	return h.result(e, "ok", h.s.UpdateSelected(edit))
}

func parseEdit(fields map[string]string) (core.Edit, error) {
	var edit core.Edit
	num := func(key string) (*float64, error) {
		v, ok := fields[key]
		if !ok {
			return nil, nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		return &f, nil
	}
	str := func(key string) *string {
		v, ok := fields[key]
		if !ok {
			return nil
		}
		return &v
	}

	var err error
	if edit.Size, err = num("size"); err != nil {
		return edit, err
	}
	if edit.FontSize, err = num("fontSize"); err != nil {
		return edit, err
	}
	if edit.Width, err = num("width"); err != nil {
		return edit, err
	}
	edit.Label = str("label")
	edit.Color = str("color")
	edit.Text = str("text")
	return edit, nil
}

func (h *Handlers) handleObjectRotate(e dispatcher.Event) (any, error) {
	deg, err := util.FloatArg(e.Args, 0)
	if err != nil {
		return nil, err
	}
	return h.result(e, "ok", h.s.TransformSelected(core.TransformUpdate{Rotation: &deg}))
}

func (h *Handlers) handleObjectScale(e dispatcher.Event) (any, error) {
	sx, err := util.FloatArg(e.Args, 0)
	if err != nil {
		return nil, err
	}
	sy := sx
	if len(e.Args) > 1 {
		if sy, err = util.FloatArg(e.Args, 1); err != nil {
			return nil, err
		}
	}
	return h.result(e, "ok", h.s.TransformSelected(core.TransformUpdate{ScaleX: &sx, ScaleY: &sy}))
}

func (h *Handlers) handleObjectDelete(e dispatcher.Event) (any, error) {
	return h.result(e, "ok", h.s.DeleteSelected())
}

func (h *Handlers) handleObjectFront(e dispatcher.Event) (any, error) {
	return h.result(e, "ok", h.s.BringSelectedToFront())
}

func (h *Handlers) handlePageAdd(e dispatcher.Event) (any, error) {
	i, err := h.s.AddPage()
	return h.result(e, i, err)
}

func (h *Handlers) handlePageDelete(e dispatcher.Event) (any, error) {
	i, err := util.IntArg(e.Args, 0)
	if err != nil {
		return nil, err
	}
	return h.result(e, "ok", h.s.DeletePage(i))
}

func (h *Handlers) handlePageSwitch(e dispatcher.Event) (any, error) {
	i, err := util.IntArg(e.Args, 0)
	if err != nil {
		return nil, err
	}
	return h.result(e, "ok", h.s.SwitchPage(i))
}

func (h *Handlers) handlePageBackground(e dispatcher.Event) (any, error) {
	if err := util.RequireArgs(e.Args, 1); err != nil {
		return nil, err
	}
	return h.result(e, "ok", h.s.SetBackground(util.Unquote(e.Args[0])))
}

func (h *Handlers) handleViewportResize(e dispatcher.Event) (any, error) {
	w, hgt, err := util.XYArgs(e.Args, 0)
	if err != nil {
		return nil, err
	}
	v := h.s.Resize(viewport.Size{Width: w, Height: hgt})
	return v.Scale, nil
}

func (h *Handlers) handleDocDetails(e dispatcher.Event) (any, error) {
	if err := util.RequireArgs(e.Args, 1); err != nil {
		return nil, err
	}
	desc := ""
	if len(e.Args) > 1 {
		desc = util.Unquote(e.Args[1])
	}
	return h.result(e, "ok", h.s.SetDetails(util.Unquote(e.Args[0]), desc))
}

func (h *Handlers) handleDocSport(e dispatcher.Event) (any, error) {
	if err := util.RequireArgs(e.Args, 1); err != nil {
		return nil, err
	}
	return h.result(e, "ok", h.s.SetSport(core.ParseSport(util.Unquote(e.Args[0]))))
}

func (h *Handlers) handleDocOrientation(e dispatcher.Event) (any, error) {
	if err := util.RequireArgs(e.Args, 1); err != nil {
		return nil, err
	}
	o, err := core.ParseOrientation(util.Unquote(e.Args[0]))
	if err != nil {
		return nil, err
	}
	return h.result(e, "ok", h.s.SetOrientation(o))
}
