package osc

import (
	"fmt"
	"net"
	"strings"
	"sync"
)

// Method is an interface for OSC Methods.
type Method interface {
	HandleMessage(msg *Message)
}

// MethodFunc implements the Method interface. Type definition for an OSC Method function.
type MethodFunc func(msg *Message)

// HandleMessage calls itself with the given OSC Message. Implements the Method interface.
func (f MethodFunc) HandleMessage(msg *Message) {
	f(msg)
}

// Dispatcher hands received OSC Messages to the Methods registered for
// their address. The zero value is ready to use.
type Dispatcher struct {
	mu      sync.RWMutex
	methods map[string]Method
}

// AddMethod adds a new OSC Method for the given OSC Address.
func (d *Dispatcher) AddMethod(addr string, method Method) error {
	if strings.ContainsAny(addr, "*?,[]{}# ") {
		return fmt.Errorf("AddMethod: OSC Method may not contain any characters in \"*?,[]{}# \"")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.methods == nil {
		d.methods = make(map[string]Method)
	}

	if _, ok := d.methods[addr]; ok {
		return fmt.Errorf("AddMethod: OSC Method exists already")
	}

	d.methods[addr] = method
	return nil
}

// AddMethodFunc allows you to just pass a MethodFunc.
func (d *Dispatcher) AddMethodFunc(addr string, method MethodFunc) error {
	return d.AddMethod(addr, method)
}

// RemoveMethod removes the OSC Method for the given OSC Address.
func (d *Dispatcher) RemoveMethod(addr string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.methods, addr)
}

// Dispatch calls every Method whose address matches the address pattern of
// msg. Its signature matches HandlerFunc so it can be used as a Server
// handler directly.
func (d *Dispatcher) Dispatch(msg *Message, _ net.Addr) {
	r, err := getRegEx(msg.Address)
	if err != nil {
		return
	}
	// Addresses are divided into parts, so a radix tree could be used here.
	aParts := strings.Count(msg.Address, "/")

	d.mu.RLock()
	var matched []Method
	for addr, method := range d.methods {
		if aParts == strings.Count(addr, "/") && r.MatchString(addr) {
			matched = append(matched, method)
		}
	}
	d.mu.RUnlock()

	for _, method := range matched {
		method.HandleMessage(msg)
	}
}
