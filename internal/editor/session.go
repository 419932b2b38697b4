// Package editor owns an editing session: the document, the current page,
// the selection, the tool machine and the gizmo drag in progress.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/scorelect/drillboard/internal/geo"
	"github.com/scorelect/drillboard/internal/gizmo"
	"github.com/scorelect/drillboard/internal/tool"
	"github.com/scorelect/drillboard/internal/viewport"
	"github.com/scorelect/drillboard/pkg/core"
)

var (
	// ErrBusy is returned for any interaction while an export is running.
	ErrBusy = errors.New("export in progress")
	// ErrNoSelection is returned by operations on the selected object when nothing is selected.
	ErrNoSelection = errors.New("no object selected")
	// ErrOffPage is returned for a palette drop outside the page.
	ErrOffPage = errors.New("dropped outside the page")
)

// Resolver attaches the image handle a renderer needs to an object.
type Resolver interface {
	Resolve(obj *core.Object)
}

// Exporter renders every page of a document to an output.
type Exporter interface {
	Run(ctx context.Context, doc *core.Document) error
}

// Saver persists a document and returns its id.
type Saver interface {
	Save(ctx context.Context, doc *core.Document) (string, error)
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithResolver sets the image handle resolver used for new and loaded objects.
func WithResolver(r Resolver) Option {
	return func(s *Session) { s.resolver = r }
}

// WithToolOptions configures the tool machine.
func WithToolOptions(opts ...tool.Option) Option {
	return func(s *Session) { s.toolOpts = append(s.toolOpts, opts...) }
}

// WithHandleRadius sets the pick radius of gizmo handles.
func WithHandleRadius(r float64) Option {
	return func(s *Session) { s.handleRadius = r }
}

// WithHitTolerance sets the extra reach used when picking objects.
func WithHitTolerance(tol float64) Option {
	return func(s *Session) { s.tolerance = tol }
}

// Session is a single-user editing session. Methods are safe to call from the
// dispatcher's handler goroutines; they are serialized internally.
type Session struct {
	mu sync.Mutex

	doc       *core.Document
	page      int
	selected  string
	tool      *tool.Machine
	drag      *gizmo.Drag
	exporting bool
	view      *viewport.Viewport

	log          *slog.Logger
	resolver     Resolver
	toolOpts     []tool.Option
	handleRadius float64
	tolerance    float64
}

// New starts a session on doc. A nil doc starts an untitled document.
func New(doc *core.Document, opts ...Option) *Session {
	if doc == nil {
		doc = core.NewDocument("", "", "")
	}
	s := &Session{
		doc:          doc,
		log:          slog.Default(),
		handleRadius: gizmo.DefaultRadius,
		tolerance:    2,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tool = tool.New(s.toolOpts...)
	s.tool.Sport = doc.Sport
	s.resolveAll()
	return s
}

// Document returns the live document. Callers must not mutate it while the session is in use.
func (s *Session) Document() *core.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// CurrentPage returns the index of the active page.
func (s *Session) CurrentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Selected returns the selected object.
func (s *Session) Selected() (*core.Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj := s.selectedObject()
	return obj, obj != nil
}

// ToolState returns the tool machine state.
func (s *Session) ToolState() tool.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tool.State()
}

// Exporting reports whether an export is running.
func (s *Session) Exporting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exporting
}

// Overlay is what a renderer draws on top of the current page.
type Overlay struct {
	Preview *tool.Preview
	Handles *gizmo.Handles
	// Dragged replaces the document object with the same id while a drag is live.
	Dragged *core.Object
	Editing string
}

// Overlay returns the live overlays of the current page.
func (s *Session) Overlay() Overlay {
	s.mu.Lock()
	defer s.mu.Unlock()
	var o Overlay
	o.Preview = s.tool.Preview()
	if s.drag != nil {
		o.Dragged = s.drag.Preview()
		hs := gizmo.For(o.Dragged)
		o.Handles = &hs
	} else if obj := s.selectedObject(); obj != nil {
		hs := gizmo.For(obj)
		o.Handles = &hs
	}
	if id, ok := s.tool.Editing(); ok {
		o.Editing = id
	}
	return o
}

// Resize fits the page into a container of the given size. Pointer positions
// passed to ToStage are then resolved against it.
func (s *Session) Resize(container viewport.Size) viewport.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := viewport.Fit(s.doc.Orientation, container)
	s.view = &v
	return v
}

// Viewport returns the viewport set by the last Resize.
func (s *Session) Viewport() (viewport.Viewport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view == nil {
		return viewport.Viewport{}, false
	}
	return *s.view, true
}

// ToStage converts a container position to page coordinates. Without a
// viewport, positions are taken to be page coordinates already.
func (s *Session) ToStage(p geo.Point) (geo.Point, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view == nil {
		return p, true
	}
	return s.view.ToStage(p)
}

// SelectTool arms the tool for kind. A pending text edit is committed and the
// selection is cleared.
func (s *Session) SelectTool(kind core.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return ErrBusy
	}
	s.commitEdit()
	s.selected = ""
	s.drag = nil
	return s.tool.Select(kind)
}

// PointerDown handles a primary click at p (page coordinates).
func (s *Session) PointerDown(p geo.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return ErrBusy
	}
	page := s.currentPage()
	if page == nil {
		return nil
	}

	s.commitEdit()

	if obj := s.selectedObject(); obj != nil {
		hs := gizmo.For(obj)
		if h := hs.HandleAt(p, s.handleRadius); h != gizmo.None {
			s.drag = gizmo.Begin(h, hs, obj, p, s.handleRadius)
			return nil
		}
	}

	out, err := s.tool.PointerDown(p)
	if err != nil {
		return err
	}
	if out.Handled {
		if out.Object != nil {
			s.add(page, out.Object)
		}
		return nil
	}

	if hit := s.hitTest(page, p); hit != nil {
		s.selected = hit.ID
		// pressing on the body drags it like the move handle
		s.drag = gizmo.Begin(gizmo.Move, gizmo.For(hit), hit, p, s.handleRadius)
	} else {
		s.selected = ""
		s.drag = nil
	}
	return nil
}

// SecondaryDown handles a secondary click. It cancels an armed tool.
func (s *Session) SecondaryDown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return ErrBusy
	}
	if s.tool.State() != tool.EditingText {
		s.tool.Cancel()
	}
	return nil
}

// PointerMove updates the drag preview or the tool preview.
func (s *Session) PointerMove(p geo.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return ErrBusy
	}
	if s.drag != nil {
		s.drag.Move(p)
		return nil
	}
	s.tool.PointerMove(p)
	return nil
}

// PointerUp ends a gizmo or body drag and writes its result to the document.
func (s *Session) PointerUp(p geo.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return ErrBusy
	}
	if s.drag == nil {
		return nil
	}
	drag := s.drag
	s.drag = nil

	page := s.currentPage()
	if page == nil {
		return nil
	}
	res := drag.End(p)
	switch {
	case res.Deleted:
		page.Remove(drag.ObjectID())
		s.selected = ""
		s.touch()
		s.log.Debug("object deleted", "id", drag.ObjectID(), "page", s.page)
	case res.Object != nil:
		if page.Replace(res.Object) {
			s.touch()
			s.log.Debug("object transformed", "id", res.Object.ID, "handle", drag.Handle().String())
		}
	}
	return nil
}

// DoubleClick enters text editing on a text or paragraph object under p.
func (s *Session) DoubleClick(p geo.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return ErrBusy
	}
	page := s.currentPage()
	if page == nil || s.tool.State() != tool.Idle {
		return nil
	}
	hit := s.hitTest(page, p)
	if hit == nil {
		return nil
	}
	text, ok := hit.EditableText()
	if !ok {
		return nil
	}
	if s.tool.BeginEdit(hit.ID, text) {
		s.selected = ""
		s.drag = nil
	}
	return nil
}

// SetEditBuffer replaces the inline editor contents.
func (s *Session) SetEditBuffer(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return ErrBusy
	}
	s.tool.SetBuffer(text)
	return nil
}

// Blur commits a pending text edit.
func (s *Session) Blur() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return ErrBusy
	}
	s.commitEdit()
	return nil
}

// Key names understood by KeyDown.
const (
	KeyEscape    = "Escape"
	KeyDelete    = "Delete"
	KeyBackspace = "Backspace"
	KeyEnter     = "Enter"
)

// KeyDown handles a key press.
func (s *Session) KeyDown(key string, shift bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return ErrBusy
	}
	editing := s.tool.State() == tool.EditingText
	switch key {
	case KeyEscape:
		if !s.tool.Cancel() {
			s.selected = ""
			s.drag = nil
		}
	case KeyEnter:
		if editing && !shift {
			s.commitEdit()
		} else if editing {
			s.tool.SetBuffer(s.tool.Buffer() + "\n")
		}
	case KeyDelete, KeyBackspace:
		if !editing {
			return s.deleteSelected()
		}
	}
	return nil
}

// Drop places kind at p, as when dragged from the palette.
func (s *Session) Drop(kind core.Kind, p geo.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return ErrBusy
	}
	page := s.currentPage()
	if page == nil {
		return nil
	}
	if s.view != nil && !s.view.OnPage(p) {
		return ErrOffPage
	}
	s.commitEdit()
	obj, err := s.tool.Drop(kind, p)
	if err != nil {
		return err
	}
	s.add(page, obj)
	return nil
}

// HitTest returns the topmost object of the current page under p.
func (s *Session) HitTest(p geo.Point) (*core.Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	page := s.currentPage()
	if page == nil {
		return nil, false
	}
	obj := s.hitTest(page, p)
	return obj, obj != nil
}

// SelectObject selects the object with id on the current page.
func (s *Session) SelectObject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return ErrBusy
	}
	page := s.currentPage()
	if page == nil {
		return nil
	}
	if obj, _ := page.Find(id); obj == nil {
		return fmt.Errorf("object %s: %w", id, core.ErrObjectNotFound)
	}
	s.commitEdit()
	s.tool.Cancel()
	s.selected = id
	return nil
}

// ClearSelection deselects.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ""
	s.drag = nil
}

// UpdateSelected applies the properties dialog edit to the selected object.
func (s *Session) UpdateSelected(e core.Edit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return ErrBusy
	}
	obj := s.selectedObject()
	if obj == nil {
		return ErrNoSelection
	}
	s.drag = nil
	obj.ApplyEdit(e)
	if s.resolver != nil {
		s.resolver.Resolve(obj)
	}
	s.touch()
	return nil
}

// TransformSelected sets the transform components of the selected object.
func (s *Session) TransformSelected(u core.TransformUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return ErrBusy
	}
	obj := s.selectedObject()
	if obj == nil {
		return ErrNoSelection
	}
	s.drag = nil
	obj.SetTransform(u)
	s.touch()
	return nil
}

// BringSelectedToFront moves the selected object to the top of the z-order.
func (s *Session) BringSelectedToFront() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return ErrBusy
	}
	if s.selectedObject() == nil {
		return ErrNoSelection
	}
	s.currentPage().BringToFront(s.selected)
	s.touch()
	return nil
}

// DeleteSelected removes the selected object.
func (s *Session) DeleteSelected() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return ErrBusy
	}
	return s.deleteSelected()
}

// AddPage appends a page and makes it current.
func (s *Session) AddPage() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return 0, ErrBusy
	}
	s.leavePage()
	s.page = s.doc.AddPage()
	s.touch()
	return s.page, nil
}

// DeletePage removes page i. Deleting the only page returns core.ErrLastPage and
// leaves the document unchanged. The current page is clamped into range.
func (s *Session) DeletePage(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return ErrBusy
	}
	if err := s.doc.DeletePage(i); err != nil {
		return err
	}
	if i == s.page {
		s.leavePage()
	}
	if i < s.page || s.page >= s.doc.PageCount() {
		s.page--
	}
	if s.page < 0 {
		s.page = 0
	}
	s.touch()
	return nil
}

// SwitchPage makes page i current and clears the selection.
func (s *Session) SwitchPage(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return ErrBusy
	}
	if _, err := s.doc.Page(i); err != nil {
		return err
	}
	s.leavePage()
	s.page = i
	return nil
}

// SetBackground sets the background color of the current page.
func (s *Session) SetBackground(color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return ErrBusy
	}
	if page := s.currentPage(); page != nil {
		page.BackgroundColor = color
		s.touch()
	}
	return nil
}

// SetDetails updates the document title and description.
func (s *Session) SetDetails(title, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return ErrBusy
	}
	s.doc.Title = title
	s.doc.Description = description
	s.touch()
	return nil
}

// SetSport changes the document sport. Pitches already placed keep their subtype.
func (s *Session) SetSport(sport core.Sport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return ErrBusy
	}
	s.doc.Sport = sport
	s.tool.Sport = sport
	s.touch()
	return nil
}

// SetOrientation changes the orientation of every page and refits the viewport.
func (s *Session) SetOrientation(o core.Orientation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return ErrBusy
	}
	s.doc.Orientation = o
	if s.view != nil {
		v := viewport.Fit(o, s.view.Container)
		s.view = &v
	}
	s.touch()
	return nil
}

// Export runs exp over a snapshot of the document. Interaction is refused with
// ErrBusy until it returns; afterwards the first page is current again.
func (s *Session) Export(ctx context.Context, exp Exporter) error {
	s.mu.Lock()
	if s.exporting {
		s.mu.Unlock()
		return ErrBusy
	}
	s.commitEdit()
	s.tool.Cancel()
	s.drag = nil
	s.selected = ""
	s.exporting = true
	snapshot := s.doc.Clone()
	s.mu.Unlock()

	start := time.Now()
	err := exp.Run(ctx, snapshot)

	s.mu.Lock()
	s.exporting = false
	s.page = 0
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("exporting %d pages: %w", snapshot.PageCount(), err)
	}
	s.log.InfoContext(ctx, "export complete", "pages", snapshot.PageCount(), "duration", time.Since(start))
	return nil
}

// Save persists the document through sv and records the returned id. On
// failure the document is left as it was.
func (s *Session) Save(ctx context.Context, sv Saver) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return "", ErrBusy
	}
	s.commitEdit()
	id, err := sv.Save(ctx, s.doc)
	if err != nil {
		return "", err
	}
	s.doc.ID = id
	return id, nil
}

func (s *Session) currentPage() *core.Page {
	page, err := s.doc.Page(s.page)
	if err != nil {
		return nil
	}
	return page
}

func (s *Session) selectedObject() *core.Object {
	if s.selected == "" {
		return nil
	}
	page := s.currentPage()
	if page == nil {
		return nil
	}
	obj, _ := page.Find(s.selected)
	return obj
}

func (s *Session) hitTest(page *core.Page, p geo.Point) *core.Object {
	for i := len(page.Objects) - 1; i >= 0; i-- {
		if page.Objects[i].Contains(p, s.tolerance) {
			return page.Objects[i]
		}
	}
	return nil
}

func (s *Session) add(page *core.Page, obj *core.Object) {
	if s.resolver != nil {
		s.resolver.Resolve(obj)
	}
	page.Add(obj)
	s.touch()
	s.log.Debug("object added", "id", obj.ID, "type", string(obj.Kind()), "page", s.page)
}

func (s *Session) deleteSelected() error {
	if s.selectedObject() == nil {
		return ErrNoSelection
	}
	s.currentPage().Remove(s.selected)
	s.log.Debug("object deleted", "id", s.selected, "page", s.page)
	s.selected = ""
	s.drag = nil
	s.touch()
	return nil
}

// commitEdit writes the inline editor text back to its object.
func (s *Session) commitEdit() {
	id, text, ok := s.tool.CommitEdit()
	if !ok {
		return
	}
	obj, _, found := s.doc.FindObject(id)
	if !found {
		return
	}
	if obj.SetText(text) {
		s.touch()
	}
}

func (s *Session) leavePage() {
	s.commitEdit()
	s.tool.Cancel()
	s.selected = ""
	s.drag = nil
}

func (s *Session) resolveAll() {
	if s.resolver == nil {
		return
	}
	for _, page := range s.doc.Pages {
		for _, obj := range page.Objects {
			s.resolver.Resolve(obj)
		}
	}
}

func (s *Session) touch() {
	s.doc.UpdatedAt = time.Now().UTC()
}
