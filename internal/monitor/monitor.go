// Package monitor serves the state of the controls and the active mapping
// over HTTP.
package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/oscdeck/oscdeck/controller"
	"github.com/shirou/gopsutil/process"
)

// Controls is what the monitor reads and writes. *controller.ControlTable
// satisfies it.
type Controls interface {
	Keys() []controller.ConfigKey
	Get(key controller.ConfigKey) (float64, error)
	SetParameter(key controller.ConfigKey, v float64) error
}

// MappingSource returns the active mapping, or nil. *controller.Controller
// satisfies it.
type MappingSource interface {
	Mapping() *controller.MappingSet
}

// Control is the JSON form of a control.
type Control struct {
	Group string  `json:"group"`
	Item  string  `json:"item"`
	Value float64 `json:"value"`
}

// Mapping is the JSON form of a mapping.
type Mapping struct {
	Address     string `json:"address"`
	Group       string `json:"group"`
	Item        string `json:"item"`
	Description string `json:"description,omitempty"`
}

// Mappings is the JSON form of a mapping set.
type Mappings struct {
	Inputs  []Mapping `json:"inputs"`
	Outputs []Mapping `json:"outputs"`
}

// Resource is the JSON form of the process' resource usage.
type Resource struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

// Monitor is an http.Handler exposing the controls.
type Monitor struct {
	controls Controls
	mappings MappingSource
	logger   *slog.Logger
	router   *mux.Router
}

// New builds the routes. mappings may be nil.
func New(controls Controls, mappings MappingSource, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Monitor{
		controls: controls,
		mappings: mappings,
		logger:   logger,
		router:   mux.NewRouter(),
	}

	r := m.router
	r.HandleFunc("/api/controls", m.listControls).Methods(http.MethodGet)
	r.HandleFunc("/api/controls/{group}/{item}", m.getControl).Methods(http.MethodGet)
	r.HandleFunc("/api/controls/{group}/{item}", m.setControl).Methods(http.MethodPut)
	r.HandleFunc("/api/mappings", m.listMappings).Methods(http.MethodGet)
	r.HandleFunc("/api/resource", m.listResources).Methods(http.MethodGet)

	return m
}

func (m *Monitor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled. The bound address is
// logged, so addr may use port 0.
func (m *Monitor) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := Listen(ctx, addr)
	if err != nil {
		return err
	}

	return m.Serve(ctx, ln)
}

// Listen binds the TCP address the monitor is served on.
func Listen(ctx context.Context, addr string) (net.Listener, error) {
	var lc net.ListenConfig
	return lc.Listen(ctx, "tcp", addr)
}

// URL returns the address of the control list served on ln.
func URL(ln net.Listener) string {
	return "http://" + ln.Addr().String() + "/api/controls"
}

// Serve serves on ln until ctx is cancelled.
func (m *Monitor) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           m,
		ReadHeaderTimeout: 5 * time.Second,
	}

	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	})
	defer stop()

	m.logger.Info("monitoring controls", "url", URL(ln))

	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return ctx.Err()
	}
	return err
}

func (m *Monitor) listControls(w http.ResponseWriter, _ *http.Request) {
	keys := m.controls.Keys()
	controls := make([]Control, 0, len(keys))
	for _, k := range keys {
		v, err := m.controls.Get(k)
		if err != nil {
			continue
		}
		controls = append(controls, Control{Group: k.Group, Item: k.Item, Value: v})
	}

	m.writeJSON(w, controls)
}

func (m *Monitor) getControl(w http.ResponseWriter, r *http.Request) {
	key := keyFromRequest(r)

	v, err := m.controls.Get(key)
	if errors.Is(err, controller.ErrUnknownControl) {
		http.Error(w, "unknown control "+key.String(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	m.writeJSON(w, Control{Group: key.Group, Item: key.Item, Value: v})
}

func (m *Monitor) setControl(w http.ResponseWriter, r *http.Request) {
	key := keyFromRequest(r)

	v, err := strconv.ParseFloat(r.URL.Query().Get("value"), 64)
	if err != nil {
		http.Error(w, "bad value: "+err.Error(), http.StatusBadRequest)
		return
	}

	err = m.controls.SetParameter(key, v)
	if errors.Is(err, controller.ErrUnknownControl) {
		http.Error(w, "unknown control "+key.String(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	m.logger.Debug("control set over HTTP", "control", key.String(), "value", v)
	m.writeJSON(w, Control{Group: key.Group, Item: key.Item, Value: v})
}

func (m *Monitor) listMappings(w http.ResponseWriter, _ *http.Request) {
	out := Mappings{Inputs: []Mapping{}, Outputs: []Mapping{}}

	var set *controller.MappingSet
	if m.mappings != nil {
		set = m.mappings.Mapping()
	}
	if set != nil {
		for _, mp := range set.AllInputMappings() {
			out.Inputs = append(out.Inputs, toMapping(mp))
		}
		for _, mp := range set.AllOutputMappings() {
			out.Outputs = append(out.Outputs, toMapping(mp))
		}
	}

	m.writeJSON(w, out)
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	memory, err := proc.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	m.writeJSON(w, Resource{CPUPercent: cpuPercent, MemorySize: memory.RSS})
}

func (m *Monitor) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		m.logger.Warn("can't write monitor response", "err", err)
	}
}

func keyFromRequest(r *http.Request) controller.ConfigKey {
	vars := mux.Vars(r)
	return controller.ConfigKey{Group: vars["group"], Item: vars["item"]}
}

func toMapping(mp controller.Mapping) Mapping {
	return Mapping{
		Address:     mp.Address,
		Group:       mp.Control.Group,
		Item:        mp.Control.Item,
		Description: mp.Description,
	}
}
