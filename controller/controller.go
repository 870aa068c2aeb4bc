// Package controller binds OSC messages to named controls: incoming messages
// set the controls their address is mapped to, and changes of mapped controls
// are sent back out as single-float messages.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/oscdeck/oscdeck/osc"
	"github.com/rs/xid"
)

var (
	// ErrAlreadyOpen is returned by Open on an open controller.
	ErrAlreadyOpen = errors.New("controller: already open")

	// ErrNotOpen is returned by Close and SendMessage on a closed controller.
	ErrNotOpen = errors.New("controller: not open")
)

// Config locates the OSC device.
type Config struct {
	// Name identifies the controller in logs.
	Name string

	// Host and SendPort are where outgoing messages go.
	Host     string
	SendPort int

	// RecvPort is the local UDP port incoming messages arrive on.
	RecvPort int
}

// SendAddr returns Host:SendPort.
func (c Config) SendAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.SendPort))
}

// RecvAddr returns the wildcard address for RecvPort.
func (c Config) RecvAddr() string {
	return net.JoinHostPort("0.0.0.0", strconv.Itoa(c.RecvPort))
}

// Sender transmits encoded packets. *osc.Client is a Sender.
type Sender interface {
	Send(packet osc.Packet) error
}

// Direction tells whether a message was received or sent.
type Direction string

const (
	Received Direction = "in"
	Sent     Direction = "out"
)

// Recorder observes every message passing through a controller.
type Recorder interface {
	Record(dir Direction, peer string, msg *osc.Message) error
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(dir Direction, peer string, msg *osc.Message) error

func (f RecorderFunc) Record(dir Direction, peer string, msg *osc.Message) error {
	return f(dir, peer, msg)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The controller adds its name and session ID.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithSender makes Open use s instead of dialing Config.SendAddr. The
// controller doesn't close s.
func WithSender(s Sender) Option {
	return func(c *Controller) { c.sender = s }
}

// WithPacketConn makes Open receive on conn instead of binding
// Config.RecvAddr. The controller doesn't close conn.
func WithPacketConn(conn net.PacketConn) Option {
	return func(c *Controller) { c.conn = conn }
}

// WithRecorder adds a Recorder. Several may be added.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorders = append(c.recorders, r) }
}

// Controller is an OSC control surface. It is full duplex: it receives on
// one UDP port and sends to a host/port pair.
type Controller struct {
	cfg       Config
	controls  Controls
	id        xid.ID
	logger    *slog.Logger
	recorders []Recorder

	// Caller provided transport, kept across Open/Close.
	sender Sender
	conn   net.PacketConn

	open atomic.Bool

	mu       sync.RWMutex
	mapping  *MappingSet
	outputs  []*outputHandler
	out      Sender
	peer     string
	client   *osc.Client
	listener net.PacketConn
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// New returns a closed controller driving controls.
func New(cfg Config, controls Controls, opts ...Option) *Controller {
	c := &Controller{
		cfg:      cfg,
		controls: controls,
		id:       xid.New(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("controller", cfg.Name, "session", c.id.String())
	return c
}

// Name returns the configured name.
func (c *Controller) Name() string {
	return c.cfg.Name
}

// ID returns the session ID the controller logs with.
func (c *Controller) ID() xid.ID {
	return c.id
}

// IsOpen reports whether the controller is open.
func (c *Controller) IsOpen() bool {
	return c.open.Load()
}

// IsMappable reports whether a mapping is set.
func (c *Controller) IsMappable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mapping != nil
}

// SetMapping takes ownership of m. If the controller is open the output
// handlers are rebuilt for it.
func (c *Controller) SetMapping(m *MappingSet) {
	c.mu.Lock()
	c.mapping = m
	c.mu.Unlock()

	if c.IsOpen() {
		c.applyMapping()
	}
}

// Mapping returns a copy of the current mapping, or nil.
func (c *Controller) Mapping() *MappingSet {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.mapping == nil {
		return nil
	}
	return c.mapping.Clone()
}

// Open connects the sending side, starts receiving and applies the mapping,
// which sends the current value of every mapped control.
func (c *Controller) Open(ctx context.Context) error {
	c.mu.Lock()
	if c.open.Load() {
		c.mu.Unlock()
		c.logger.Info("OSC device already open")
		return ErrAlreadyOpen
	}

	c.logger.Debug("opening OSC device", "send", c.cfg.SendAddr(), "recv", c.cfg.RecvAddr())

	out := c.sender
	peer := c.cfg.SendAddr()
	if out == nil {
		client, err := osc.DialContext(ctx, peer)
		if err != nil {
			c.mu.Unlock()
			return fmt.Errorf("Open: %w", err)
		}
		c.client = client
		out = client
	}

	conn := c.conn
	if conn == nil {
		var lc net.ListenConfig
		ln, err := lc.ListenPacket(ctx, "udp", c.cfg.RecvAddr())
		if err != nil {
			c.closeTransportLocked()
			c.mu.Unlock()
			return fmt.Errorf("Open: %w", err)
		}
		c.listener = ln
		conn = ln
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.cancel = cancel
	c.out = out
	c.peer = peer

	srv := &osc.Server{Handler: c.handle, Logger: c.logger}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := srv.Serve(runCtx, conn); err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Error("OSC receive loop stopped", "err", err)
		}
	}()

	c.open.Store(true)
	c.mu.Unlock()

	c.logger.Info("opened OSC device", "send", peer, "recv", conn.LocalAddr())
	c.applyMapping()
	return nil
}

// Close stops receiving, drops the output handlers and closes the transport
// the controller created.
func (c *Controller) Close() error {
	c.mu.Lock()
	if !c.open.Load() {
		c.mu.Unlock()
		c.logger.Info("OSC device already closed")
		return ErrNotOpen
	}
	c.logger.Info("shutting down OSC device")

	c.open.Store(false)
	for _, h := range c.outputs {
		h.stop()
	}
	c.outputs = nil

	c.cancel()
	c.mu.Unlock()

	// The receive loop may be inside handle, which takes c.mu.
	c.wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeTransportLocked()
	c.out = nil
	return nil
}

func (c *Controller) closeTransportLocked() {
	if c.listener != nil {
		c.listener.Close()
		c.listener = nil
	}
	if c.client != nil {
		c.client.Close()
		c.client = nil
	}
}

// SendMessage sends msg to the device.
func (c *Controller) SendMessage(msg *osc.Message) error {
	c.mu.RLock()
	out, peer := c.out, c.peer
	c.mu.RUnlock()

	if !c.IsOpen() || out == nil {
		return ErrNotOpen
	}

	c.debugMessage("sending", msg)
	c.record(Sent, peer, msg)
	if err := out.Send(msg); err != nil {
		return fmt.Errorf("SendMessage: %w", err)
	}
	return nil
}

// handle is the receive loop's handler.
func (c *Controller) handle(msg *osc.Message, addr net.Addr) {
	peer := ""
	if addr != nil {
		peer = addr.String()
	}
	c.record(Received, peer, msg)
	c.MessageReceived(msg)
}

// MessageReceived sets every control mapped to the address of msg to the
// message's float value. Messages that don't carry exactly one number are
// logged and ignored.
func (c *Controller) MessageReceived(msg *osc.Message) {
	c.debugMessage("received", msg)

	c.mu.RLock()
	mapping := c.mapping
	c.mu.RUnlock()
	if mapping == nil {
		return
	}

	for _, m := range mapping.InputMappings(msg.Address) {
		// Only pass values on to valid controls.
		v, err := msg.ToFloat()
		if err != nil {
			c.logger.Warn("ignoring OSC message", "address", msg.Address, "control", m.Control.String(), "err", err)
			continue
		}
		if err := c.controls.SetParameter(m.Control, float64(v)); err != nil {
			c.logger.Warn("can't set control", "address", msg.Address, "control", m.Control.String(), "err", err)
		}
	}
}

// applyMapping replaces the output handlers: one per input mapping and one
// per output mapping, so mapped inputs also report their state back. Every
// new handler sends its control's current value. Nothing is built once the
// controller is closed.
func (c *Controller) applyMapping() {
	c.mu.Lock()
	if !c.open.Load() {
		c.mu.Unlock()
		return
	}
	for _, h := range c.outputs {
		h.stop()
	}
	c.outputs = nil

	if c.mapping != nil {
		for _, m := range c.mapping.AllInputMappings() {
			c.outputs = append(c.outputs, newOutputHandler(c, m))
		}
		for _, m := range c.mapping.AllOutputMappings() {
			c.outputs = append(c.outputs, newOutputHandler(c, m))
		}
	}
	handlers := append([]*outputHandler(nil), c.outputs...)
	c.mu.Unlock()

	for _, h := range handlers {
		h.update()
	}
}

func (c *Controller) record(dir Direction, peer string, msg *osc.Message) {
	for _, r := range c.recorders {
		if err := r.Record(dir, peer, msg); err != nil {
			c.logger.Warn("can't record OSC message", "direction", string(dir), "address", msg.Address, "err", err)
		}
	}
}

func (c *Controller) debugMessage(prefix string, msg *osc.Message) {
	c.logger.Debug(prefix, "message", msg.String())
}
