package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/theirongolddev/fincalc/internal/app"
	"github.com/theirongolddev/fincalc/internal/calc"
	"github.com/theirongolddev/fincalc/internal/present"

	"github.com/gorilla/mux"
)

// maxBodyBytes bounds action request bodies.
const maxBodyBytes = 64 << 10

type errorBody struct {
	Error   string           `json:"error"`
	Field   string           `json:"field,omitempty"`
	Request *present.Request `json:"request,omitempty"`
}

type expensesBody struct {
	Expenses []calc.Expense `json:"expenses"`
	Totals   calc.Totals    `json:"totals"`
	Total    float64        `json:"total"`
}

type preferencesBody struct {
	DarkMode bool `json:"dark_mode"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.status())
}

func (s *Service) handleListActions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.disp.Actions())
}

func (s *Service) handleAction(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	fields, err := decodeFields(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	s.dispatch(w, r, name, fields)
}

func (s *Service) dispatch(w http.ResponseWriter, r *http.Request, name string, fields app.Fields) {
	req, err := s.disp.Dispatch(r.Context(), name, fields)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, req)
	case errors.Is(err, app.ErrUnknownAction):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case calc.IsValidation(err):
		ve, _ := calc.AsValidation(err)
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error(), Field: ve.Field, Request: &req})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
	}
}

// decodeFields reads a flat JSON object. String values are taken as-is;
// numbers and booleans keep their literal text so the calculators parse them
// the same way they parse form input.
func decodeFields(w http.ResponseWriter, r *http.Request) (app.Fields, error) {
	if r.Body == nil || r.ContentLength == 0 {
		return app.Fields{}, nil
	}

	var raw map[string]json.RawMessage
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&raw); errors.Is(err, io.EOF) {
		return app.Fields{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("decoding body: %w", err)
	}

	fields := make(app.Fields, len(raw))
	for k, v := range raw {
		var str string
		switch {
		case string(v) == "null":
		case json.Unmarshal(v, &str) == nil:
			fields[k] = str
		default:
			var scalar any
			if err := json.Unmarshal(v, &scalar); err != nil {
				return nil, fmt.Errorf("field %q: %w", k, err)
			}
			switch scalar.(type) {
			case float64, bool:
				fields[k] = string(v)
			default:
				return nil, fmt.Errorf("field %q: expected a string, number or boolean", k)
			}
		}
	}
	return fields, nil
}

func (s *Service) handleExpenses(w http.ResponseWriter, _ *http.Request) {
	tr := s.disp.State().Expenses
	totals := tr.Totals()
	writeJSON(w, http.StatusOK, expensesBody{
		Expenses: tr.Expenses(),
		Totals:   totals,
		Total:    totals.Sum(),
	})
}

func (s *Service) handleGetPreferences(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, preferencesBody{DarkMode: s.disp.State().Prefs.DarkMode()})
}

func (s *Service) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	var body preferencesBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: fmt.Sprintf("decoding body: %v", err)})
		return
	}
	s.dispatch(w, r, app.ActionToggleDarkMode, app.Fields{
		app.FieldEnabled: strconv.FormatBool(body.DarkMode),
	})
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	writeSSE(w, Event{
		Type:      EventSnapshot,
		Timestamp: time.Now(),
		Snapshot:  s.status().Summary,
	})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
