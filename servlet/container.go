// Package servlet implements the HTTP servlet container coordination
// pattern: a Container owns a bio.ServerConnection and a set of
// registered slots, and repeatedly accepts a Channel, parses HTTP off
// it, and dispatches by matching either an HttpRequestSlot (request/
// response) or an HttpUpgradeSlot (the Channel is handed off into a
// dedicated, per-connection routine that owns it for the rest of its
// life). This is the canonical example of the accept -> dispatch ->
// owning-routine pattern the routine/bio core enables; it is not core
// framing logic, and intentionally reuses net/http's request parser
// rather than reimplementing HTTP itself, since application-protocol
// framing is explicitly out of scope for the core.
package servlet

import (
	"bufio"
	"errors"
	"net/http"

	"github.com/spiretrading/beam-sub006/beamerr"
	"github.com/spiretrading/beam-sub006/bio"
	"github.com/spiretrading/beam-sub006/logx"
	"github.com/spiretrading/beam-sub006/routine"
)

// HttpRequestSlot matches an inbound request by predicate and handles it
// in the per-connection routine that read it, writing a
// response before the connection loops to read the next request.
type HttpRequestSlot struct {
	Matches func(*http.Request) bool
	Handle  func(http.ResponseWriter, *http.Request)
}

// HttpUpgradeSlot matches an inbound request that wants to take over the
// underlying Channel (e.g. a WebSocket handshake). Handle receives the
// raw Channel and owns it for the rest of its life; the container never
// touches it again.
type HttpUpgradeSlot struct {
	Matches func(*http.Request) bool
	Handle  func(channel bio.Channel, request *http.Request)
}

// Option configures a Container at construction.
type Option interface {
	apply(*Container)
}

type optionFunc func(*Container)

func (f optionFunc) apply(c *Container) { f(c) }

// WithScheduler runs the container's accept loop and per-connection
// dispatch routines on sched instead of routine.Default().
func WithScheduler(sched *routine.Scheduler) Option {
	return optionFunc(func(c *Container) { c.scheduler = sched })
}

// WithLogger attaches a structured logger for accept/dispatch failures.
func WithLogger(logger logx.Logger) Option {
	return optionFunc(func(c *Container) { c.logger = logger })
}

// Container is an HTTP servlet container: it owns server and repeatedly
// accepts Channels, dispatching each accepted connection to a registered
// slot.
type Container struct {
	server    bio.ServerConnection
	scheduler *routine.Scheduler
	logger    logx.Logger

	requestSlots []HttpRequestSlot
	upgradeSlots []HttpUpgradeSlot
}

// NewContainer constructs a Container over server. Call HandleFunc/
// HandleUpgrade to register slots, then Open to begin accepting.
func NewContainer(server bio.ServerConnection, opts ...Option) *Container {
	c := &Container{
		server:    server,
		scheduler: routine.Default(),
		logger:    logx.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(c)
		}
	}
	return c
}

// HandleFunc registers a request/response slot. Slots are matched in
// registration order; the first whose Matches returns true wins.
func (c *Container) HandleFunc(matches func(*http.Request) bool, handle func(http.ResponseWriter, *http.Request)) {
	c.requestSlots = append(c.requestSlots, HttpRequestSlot{Matches: matches, Handle: handle})
}

// HandleUpgrade registers an upgrade slot, matched before request slots
// (an upgrade request would otherwise also be a legal HTTP request).
func (c *Container) HandleUpgrade(matches func(*http.Request) bool, handle func(bio.Channel, *http.Request)) {
	c.upgradeSlots = append(c.upgradeSlots, HttpUpgradeSlot{Matches: matches, Handle: handle})
}

// Open spawns the accept loop on the container's Scheduler and returns
// immediately; the loop runs until Close unblocks Accept with
// beamerr.EndOfFile.
func (c *Container) Open() {
	c.scheduler.Spawn(func(r *routine.Routine) {
		c.acceptLoop()
	})
}

// Close stops the underlying ServerConnection, which unblocks the accept
// loop's routine.
func (c *Container) Close() error {
	return c.server.Close()
}

func (c *Container) acceptLoop() {
	for {
		channel, err := c.server.Accept()
		if err != nil {
			if errors.Is(err, beamerr.EndOfFile) {
				return
			}
			c.logger.Log(logx.Entry{Level: logx.LevelError, Category: "servlet", Message: "accept failed", Err: err})
			continue
		}
		c.scheduler.Spawn(func(r *routine.Routine) {
			c.serve(channel, r)
		})
	}
}

// serve owns channel for as long as it keeps handling request/response
// slots; ownership transfers away permanently the moment an upgrade slot
// matches.
func (c *Container) serve(channel bio.Channel, r *routine.Routine) {
	source := bufio.NewReader(&readerAdapter{reader: channel.Reader()})
	for {
		request, err := http.ReadRequest(source)
		if err != nil {
			channel.Connection().Close()
			return
		}

		if slot, ok := c.matchUpgrade(request); ok {
			c.scheduler.Spawn(func(owner *routine.Routine) {
				slot.Handle(channel, request)
			})
			return
		}

		response := newResponseWriter(channel.Writer())
		if slot, ok := c.matchRequest(request); ok {
			slot.Handle(response, request)
		} else {
			response.WriteHeader(http.StatusNotFound)
		}
		if err := response.flush(); err != nil {
			c.logger.Log(logx.Entry{Level: logx.LevelError, Category: "servlet", RoutineID: r.ID(), Message: "response write failed", Err: err})
			channel.Connection().Close()
			return
		}
		if request.Close {
			channel.Connection().Close()
			return
		}
	}
}

func (c *Container) matchUpgrade(request *http.Request) (HttpUpgradeSlot, bool) {
	for _, slot := range c.upgradeSlots {
		if slot.Matches(request) {
			return slot, true
		}
	}
	return HttpUpgradeSlot{}, false
}

func (c *Container) matchRequest(request *http.Request) (HttpRequestSlot, bool) {
	for _, slot := range c.requestSlots {
		if slot.Matches(request) {
			return slot, true
		}
	}
	return HttpRequestSlot{}, false
}
