// Package server exposes the calculators over HTTP and streams every
// presentation request to subscribers.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/fincalc/internal/app"
	"github.com/theirongolddev/fincalc/internal/calc"
	"github.com/theirongolddev/fincalc/internal/logging"
	"github.com/theirongolddev/fincalc/internal/present"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr         string
	EventsBuffer int
}

// Snapshot is a compact expense state for status and event payloads.
type Snapshot struct {
	At         time.Time   `json:"at"`
	Expenses   int         `json:"expenses"`
	Total      float64     `json:"total"`
	Categories calc.Totals `json:"categories"`
	DarkMode   bool        `json:"dark_mode"`
}

// Delta captures the snapshot change caused by one request.
type Delta struct {
	Expenses int     `json:"expenses"`
	Total    float64 `json:"total"`
}

func (d Delta) isZero() bool {
	return d.Expenses == 0 && d.Total == 0
}

// Event types.
const (
	EventSnapshot     = "snapshot"
	EventPresentation = "presentation"
	EventAlert        = "alert"
)

// Event is emitted for every presentation request the dispatcher produces.
type Event struct {
	ID        int64            `json:"id"`
	Type      string           `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	Request   *present.Request `json:"request,omitempty"`
	Snapshot  Snapshot         `json:"snapshot"`
	Delta     Delta            `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	Actions         []string  `json:"actions"`
	Presentations   int64     `json:"presentations"`
	Alerts          int64     `json:"alerts"`
	Summary         Snapshot  `json:"summary"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the HTTP API around a dispatcher.
type Service struct {
	cfg  Config
	disp *app.Dispatcher
	log  *logrus.Logger

	mu            sync.RWMutex
	startedAt     time.Time
	presentations int64
	alerts        int64
	snapshot      Snapshot
	nextEventID   int64
	events        []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a service that observes disp. A nil logger discards logs.
func New(cfg Config, disp *app.Dispatcher, log *logrus.Logger) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}
	if log == nil {
		log = logging.Discard()
	}

	s := &Service{
		cfg:       cfg,
		disp:      disp,
		log:       log,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
	s.snapshot = s.takeSnapshot()
	disp.Observe(present.SinkFunc(s.observe))
	return s
}

// Handler returns the router serving the API.
func (s *Service) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	v1.HandleFunc("/actions", s.handleListActions).Methods(http.MethodGet)
	v1.HandleFunc("/actions/{name}", s.handleAction).Methods(http.MethodPost)
	v1.HandleFunc("/expenses", s.handleExpenses).Methods(http.MethodGet)
	v1.HandleFunc("/preferences", s.handleGetPreferences).Methods(http.MethodGet)
	v1.HandleFunc("/preferences", s.handlePutPreferences).Methods(http.MethodPut)
	v1.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	v1.HandleFunc("/stream", s.handleStream).Methods(http.MethodGet)
	return r
}

// Run serves HTTP until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.WithField("addr", s.cfg.Addr).Info("server listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

func (s *Service) takeSnapshot() Snapshot {
	st := s.disp.State()
	totals := st.Expenses.Totals()
	return Snapshot{
		At:         time.Now(),
		Expenses:   len(st.Expenses.Expenses()),
		Total:      totals.Sum(),
		Categories: totals,
		DarkMode:   st.Prefs.DarkMode(),
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Expenses: curr.Expenses - prev.Expenses,
		Total:    curr.Total - prev.Total,
	}
}

// observe turns a dispatched request into an event. The snapshot, its delta
// and the publish happen under one lock so concurrent dispatches produce
// events whose deltas chain.
func (s *Service) observe(req present.Request) {
	s.mu.Lock()
	snap := s.takeSnapshot()
	delta := diffSnapshots(s.snapshot, snap)
	s.snapshot = snap
	typ := EventPresentation
	if req.Alert {
		typ = EventAlert
		s.alerts++
	} else {
		s.presentations++
	}
	s.nextEventID++
	s.publishLocked(Event{
		ID:        s.nextEventID,
		Type:      typ,
		Timestamp: snap.At,
		Request:   &req,
		Snapshot:  snap,
		Delta:     delta,
	})
	s.mu.Unlock()

	if !delta.isZero() {
		s.log.WithFields(logrus.Fields{"expenses": delta.Expenses, "total": delta.Total}).Debug("expense totals changed")
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishLocked(ev)
}

// publishLocked must be called with s.mu held.
func (s *Service) publishLocked(ev Event) {
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Service) status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		Actions:         s.disp.Actions(),
		Presentations:   s.presentations,
		Alerts:          s.alerts,
		Summary:         s.snapshot,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Debug("request")
	})
}
