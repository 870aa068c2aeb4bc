package controller

import (
	"github.com/oscdeck/oscdeck/osc"
)

// outputHandler sends a mapping's control value to the device whenever the
// control changes.
type outputHandler struct {
	c       *Controller
	mapping Mapping
	cancel  func()
}

func newOutputHandler(c *Controller, m Mapping) *outputHandler {
	h := &outputHandler{c: c, mapping: m}
	if !c.controls.Valid(m.Control) {
		c.logger.Warn("output handler has an invalid control key", "control", m.Control.String(), "address", m.Address)
	}
	h.cancel = c.controls.Subscribe(m.Control, h.controlChanged)
	return h
}

func (h *outputHandler) controlChanged(float64) {
	h.update()
}

// update sends the control's current value rather than the one it was
// notified with, so a late notification doesn't send a stale value.
func (h *outputHandler) update() {
	value, err := h.c.controls.Get(h.mapping.Control)
	if err != nil {
		return
	}

	if !h.c.IsOpen() {
		h.c.logger.Warn("OSC device not open for output", "address", h.mapping.Address)
		return
	}

	msg := osc.NewMessage(h.mapping.Address, osc.Float32(value))
	if err := h.c.SendMessage(msg); err != nil {
		h.c.logger.Warn("can't send OSC output", "address", h.mapping.Address, "err", err)
	}
}

func (h *outputHandler) stop() {
	if h.cancel != nil {
		h.cancel()
	}
}
