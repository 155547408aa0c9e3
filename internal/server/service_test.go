package server

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/theirongolddev/fincalc/internal/app"
	"github.com/theirongolddev/fincalc/internal/calc"
)

func newTestService(buffer int) *Service {
	disp := app.NewDispatcher(app.NewState())
	return New(Config{EventsBuffer: buffer}, disp, nil)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{Expenses: 3, Total: 40.25}
	curr := Snapshot{Expenses: 4, Total: 52.75}

	delta := diffSnapshots(prev, curr)
	if delta.Expenses != 1 {
		t.Fatalf("Expenses delta = %d, want 1", delta.Expenses)
	}
	if math.Abs(delta.Total-12.5) > 1e-9 {
		t.Fatalf("Total delta = %.2f, want 12.50", delta.Total)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
	if !diffSnapshots(curr, curr).isZero() {
		t.Fatal("identical snapshots should diff to zero")
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := newTestService(2)

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestHandleAction_Budget(t *testing.T) {
	s := newTestService(10)
	rec := do(t, s.Handler(), http.MethodPost, "/v1/actions/"+app.ActionBudget,
		`{"income": 3000, "expenses": "2,500"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body)
	}
	var got struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Message != "You have a surplus of $500.00." {
		t.Errorf("message = %q", got.Message)
	}
}

func TestHandleAction_ValidationIs422(t *testing.T) {
	s := newTestService(10)
	rec := do(t, s.Handler(), http.MethodPost, "/v1/actions/"+app.ActionBudget,
		`{"income": "lots", "expenses": 10}`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Field != app.FieldIncome {
		t.Errorf("field = %q, want %q", body.Field, app.FieldIncome)
	}
	if body.Request == nil || !body.Request.Alert {
		t.Errorf("expected alert request, got %+v", body.Request)
	}
}

func TestHandleAction_UnknownIs404(t *testing.T) {
	s := newTestService(10)
	rec := do(t, s.Handler(), http.MethodPost, "/v1/actions/launch-rocket", `{}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleAction_BadBody(t *testing.T) {
	s := newTestService(10)
	for _, body := range []string{`[1,2]`, `{"amount": {"x": 1}}`, `{`} {
		rec := do(t, s.Handler(), http.MethodPost, "/v1/actions/"+app.ActionBudget, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestAddExpenseUpdatesEventsAndExpenses(t *testing.T) {
	s := newTestService(10)
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/v1/actions/"+app.ActionAddExpense,
		`{"description": "Lunch", "amount": 12.5, "category": "Food"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	rec = do(t, h, http.MethodGet, "/v1/expenses", "")
	var exp struct {
		Expenses []calc.Expense `json:"expenses"`
		Total    float64        `json:"total"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&exp); err != nil {
		t.Fatalf("decode expenses: %v", err)
	}
	if len(exp.Expenses) != 1 || exp.Total != 12.5 {
		t.Fatalf("expenses = %+v total %.2f", exp.Expenses, exp.Total)
	}

	rec = do(t, h, http.MethodGet, "/v1/events", "")
	var events []Event
	if err := json.NewDecoder(rec.Body).Decode(&events); err != nil {
		t.Fatalf("decode events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	ev := events[0]
	if ev.Type != EventPresentation || ev.Delta.Expenses != 1 || ev.Snapshot.Total != 12.5 {
		t.Errorf("event = %+v", ev)
	}

	st := s.status()
	if st.Presentations != 1 || st.Alerts != 0 {
		t.Errorf("status counts = %d/%d, want 1/0", st.Presentations, st.Alerts)
	}
}

func TestAlertEventsAreCounted(t *testing.T) {
	s := newTestService(10)
	do(t, s.Handler(), http.MethodPost, "/v1/actions/"+app.ActionAddExpense, `{"description": "", "amount": 1}`)

	st := s.status()
	if st.Alerts != 1 {
		t.Fatalf("alerts = %d, want 1", st.Alerts)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.events) != 1 || s.events[0].Type != EventAlert {
		t.Fatalf("events = %+v", s.events)
	}
}

func TestPreferences(t *testing.T) {
	s := newTestService(10)
	h := s.Handler()

	rec := do(t, h, http.MethodPut, "/v1/preferences", `{"dark_mode": true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, body %s", rec.Code, rec.Body)
	}
	if !s.disp.State().Prefs.DarkMode() {
		t.Fatal("dark mode not applied")
	}

	rec = do(t, h, http.MethodGet, "/v1/preferences", "")
	var got preferencesBody
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.DarkMode {
		t.Error("GET preferences reported light mode")
	}

	rec = do(t, h, http.MethodPut, "/v1/preferences", `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad PUT status = %d, want 400", rec.Code)
	}
}

func TestHealthAndStatus(t *testing.T) {
	s := newTestService(10)
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body)
	}

	rec = do(t, h, http.MethodGet, "/v1/status", "")
	var st Status
	if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(st.Actions) != 4 {
		t.Errorf("actions = %v, want 4", st.Actions)
	}

	rec = do(t, h, http.MethodGet, "/v1/actions/"+app.ActionBudget, "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET on action = %d, want 405", rec.Code)
	}
}

func TestConcurrentDispatchDeltasChain(t *testing.T) {
	const n = 50
	s := newTestService(n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.disp.Dispatch(context.Background(), app.ActionAddExpense, app.Fields{
				app.FieldDescription: fmt.Sprintf("item %d", i),
				app.FieldAmount:      "1",
				app.FieldCategory:    "Food",
			})
			if err != nil {
				t.Errorf("dispatch %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.events) != n {
		t.Fatalf("events = %d, want %d", len(s.events), n)
	}
	prev := 0
	for i, ev := range s.events {
		if ev.ID != int64(i+1) {
			t.Errorf("event %d has ID %d", i, ev.ID)
		}
		if ev.Snapshot.Expenses != prev+ev.Delta.Expenses {
			t.Errorf("event %d: snapshot %d does not follow %d by delta %d", i, ev.Snapshot.Expenses, prev, ev.Delta.Expenses)
		}
		if ev.Snapshot.Expenses < prev {
			t.Errorf("event %d: snapshot went backwards from %d to %d", i, prev, ev.Snapshot.Expenses)
		}
		prev = ev.Snapshot.Expenses
	}
	if prev != n {
		t.Errorf("final snapshot expenses = %d, want %d", prev, n)
	}
}

func TestHandleAction_OutOfRangeIs422(t *testing.T) {
	s := newTestService(10)
	rec := do(t, s.Handler(), http.MethodPost, "/v1/actions/"+app.ActionRetirement,
		`{"current_age": 30, "retirement_age": 40, "current_savings": "1e300", "monthly_contribution": 0, "annual_return": 10000}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422; body %s", rec.Code, rec.Body)
	}

	rec = do(t, s.Handler(), http.MethodPost, "/v1/actions/"+app.ActionRetirement,
		`{"current_age": 0, "retirement_age": 1e15, "current_savings": 1, "monthly_contribution": 0, "annual_return": 5}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("huge span status = %d, want 422; body %s", rec.Code, rec.Body)
	}
}
