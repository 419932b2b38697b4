// Package dispatcher routes editor events to the handlers registered for
// their command. A handler runs inline unless it was registered Buffered,
// in which case events queue for a worker goroutine.
package dispatcher

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/scorelect/drillboard/internal/util"
)

var (
	// ErrUnknownCommand is returned when no handler is registered for an event.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrClosed is returned when dispatching to a closed dispatcher.
	ErrClosed = errors.New("dispatcher closed")
	// ErrQueueFull is returned when a non-blocking buffered route has no room.
	ErrQueueFull = errors.New("queue full")
)

// Queued is the result of an event accepted by a buffered route.
const Queued = "queued"

// Event is one editor input: a pointer, keyboard, palette or page command.
type Event struct {
	Command   string
	Args      []string
	Timestamp time.Time
}

// ParseEvent reads an event from a script line such as `pointer.down 100 100`.
// Blank lines and lines starting with '#' yield ok == false.
func ParseEvent(line string) (e Event, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Event{}, false, nil
	}
	fields, err := util.SplitCommandLine(line)
	if err != nil {
		return Event{}, false, err
	}
	return Event{Command: fields[0], Args: fields[1:], Timestamp: time.Now()}, true, nil
}

// HandlerFunc processes an event and returns a result.
type HandlerFunc func(Event) (any, error)

// Logger is satisfied by *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Option configures handler registration.
type Option func(*route)

// Buffered makes the handler async with a queue of the given size.
func Buffered(size int) Option {
	return func(r *route) { r.size = size }
}

// Blocking makes a buffered handler wait for room instead of failing with ErrQueueFull.
func Blocking() Option {
	return func(r *route) { r.blocking = true }
}

// Logged logs each event the handler runs at debug level, and failures at error.
func Logged() Option {
	return func(r *route) { r.logged = true }
}

type route struct {
	command  string
	handle   HandlerFunc
	size     int
	blocking bool
	logged   bool
	queue    chan Event
}

// Dispatcher routes events to registered handlers.
type Dispatcher struct {
	log     Logger
	metrics *metrics

	mu      sync.RWMutex
	routes  map[string]*route
	closed  bool
	workers sync.WaitGroup
}

// New creates a dispatcher. Metrics go to the global OTel meter provider,
// which is a no-op unless one has been installed.
func New(log Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		log:    log,
		routes: make(map[string]*route),
	}
	m, err := newMetrics(d.queueLengths)
	if err != nil {
		return nil, err
	}
	d.metrics = m
	return d, nil
}

// Register adds a handler for command, replacing any earlier one. A replaced
// buffered route finishes its queued events and its worker exits. Registering
// on a closed dispatcher is ignored.
func (d *Dispatcher) Register(command string, h HandlerFunc, opts ...Option) {
	r := &route{command: command, handle: h}
	for _, opt := range opts {
		opt(r)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.log.Warn("register on closed dispatcher", "command", command)
		return
	}
	if old, ok := d.routes[command]; ok && old.queue != nil {
		close(old.queue)
	}
	if r.size > 0 {
		r.queue = make(chan Event, r.size)
		d.workers.Add(1)
		go d.work(r)
	}
	d.routes[command] = r
}

// Dispatch routes an event to its registered handler. Buffered routes return
// Queued as soon as the event is accepted.
func (d *Dispatcher) Dispatch(e Event) (any, error) {
	d.mu.RLock()
	r, ok := d.routes[e.Command]
	if !ok {
		d.mu.RUnlock()
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, e.Command)
	}
	if r.queue == nil {
		d.mu.RUnlock()
		return d.run(r, e)
	}
	defer d.mu.RUnlock()
	return d.enqueue(r, e)
}

func (d *Dispatcher) enqueue(r *route, e Event) (any, error) {
	if d.closed {
		return nil, ErrClosed
	}
	if r.blocking {
		r.queue <- e
		return Queued, nil
	}
	select {
	case r.queue <- e:
		return Queued, nil
	default:
		d.metrics.drop(r.command)
		return nil, fmt.Errorf("%w: %s", ErrQueueFull, r.command)
	}
}

func (d *Dispatcher) work(r *route) {
	defer d.workers.Done()
	for e := range r.queue {
		if _, err := d.run(r, e); err != nil && !r.logged {
			d.log.Error("buffered event failed", "command", r.command, "error", err)
		}
	}
}

// run calls the handler and records its outcome.
func (d *Dispatcher) run(r *route, e Event) (any, error) {
	start := time.Now()
	if r.logged {
		d.log.Debug("handling event", "command", r.command, "args", len(e.Args))
	}

	res, err := r.handle(e)
	took := time.Since(start)
	d.metrics.record(r.command, took, err)

	if r.logged {
		if err != nil {
			d.log.Error("event failed", "command", r.command, "duration", took, "error", err)
		} else {
			d.log.Debug("event complete", "command", r.command, "duration", took)
		}
	}
	return res, err
}

// HasHandler returns true if a handler is registered for the command.
func (d *Dispatcher) HasHandler(command string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.routes[command]
	return ok
}

// Commands returns the registered command names in sorted order.
func (d *Dispatcher) Commands() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	cmds := make([]string, 0, len(d.routes))
	for cmd := range d.routes {
		cmds = append(cmds, cmd)
	}
	sort.Strings(cmds)
	return cmds
}

// queueLengths reports the number of waiting events per buffered command.
func (d *Dispatcher) queueLengths() map[string]int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]int)
	for cmd, r := range d.routes {
		if r.queue != nil {
			out[cmd] = len(r.queue)
		}
	}
	return out
}

// Close stops accepting buffered events and waits for queued ones to finish.
// Inline routes keep working.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, r := range d.routes {
		if r.queue != nil {
			close(r.queue)
		}
	}
	d.mu.Unlock()
	d.workers.Wait()
	d.metrics.unregister()
}
