package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vaanipay/internal/assistant"
	"vaanipay/internal/auth"
	"vaanipay/internal/payment"
	"vaanipay/internal/session"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := session.DefaultConfig()
	// Fast timers keep the payment flow observable within the test.
	cfg.Delays = payment.Delays{
		ProcessingBase:   5 * time.Millisecond,
		ProcessingJitter: 0,
		SuccessHold:      10 * time.Millisecond,
	}
	sess := session.New(cfg)
	t.Cleanup(sess.Close)
	return NewServer(":0", sess, assistant.New(time.Millisecond), auth.Demo{})
}

func getJSON(t *testing.T, srv *Server, path string, out any) int {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.Handler.ServeHTTP(rr, req)
	if out != nil && rr.Code == http.StatusOK {
		if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
			t.Fatalf("unmarshal %s: %v", path, err)
		}
	}
	return rr.Code
}

func postJSON(t *testing.T, srv *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestViewEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var view viewDTO
	if code := getJSON(t, srv, "/api/view", &view); code != http.StatusOK {
		t.Fatalf("view status=%d", code)
	}

	if view.BalancePaise != 25000000 {
		t.Errorf("balance = %d, want 25000000", view.BalancePaise)
	}
	if len(view.History) != 3 {
		t.Errorf("history length = %d, want 3", len(view.History))
	}
	if view.WeeklyTotalPaise != 642000 {
		t.Errorf("weekly total = %d, want 642000", view.WeeklyTotalPaise)
	}
	if view.SimulatorState != string(payment.StateIdle) {
		t.Errorf("simulator state = %q, want idle", view.SimulatorState)
	}
	if view.Filter != "All" {
		t.Errorf("filter = %q, want All", view.Filter)
	}
}

func TestContactsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var contacts []contactDTO
	if code := getJSON(t, srv, "/api/contacts", &contacts); code != http.StatusOK {
		t.Fatalf("contacts status=%d", code)
	}
	if len(contacts) != 6 {
		t.Fatalf("contacts length = %d, want 6", len(contacts))
	}
	found := false
	for _, c := range contacts {
		if c.Handle == "asha@upi" {
			found = true
		}
	}
	if !found {
		t.Error("expected contact asha@upi in directory")
	}
}

func TestPayEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rr := postJSON(t, srv, "/api/pay", `{"handle":"asha@upi","amount":"500"}`)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("pay status=%d body=%s", rr.Code, rr.Body.String())
	}

	var view viewDTO
	if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
		t.Fatalf("unmarshal pay response: %v", err)
	}
	if view.SimulatorState != string(payment.StateProcessing) {
		t.Errorf("simulator state = %q, want processing", view.SimulatorState)
	}

	// Wait for the payment to settle.
	deadline := time.Now().Add(2 * time.Second)
	for {
		var v viewDTO
		getJSON(t, srv, "/api/view", &v)
		if v.BalancePaise == 25000000-50000 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("payment never settled, balance = %d", v.BalancePaise)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPayEndpoint_Errors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"unknown contact", `{"handle":"nobody@upi","amount":"10"}`, http.StatusNotFound},
		{"invalid amount", `{"handle":"asha@upi","amount":"abc"}`, http.StatusUnprocessableEntity},
		{"zero amount", `{"handle":"asha@upi","amount":"0"}`, http.StatusUnprocessableEntity},
		{"insufficient balance", `{"handle":"asha@upi","amount":"999999"}`, http.StatusUnprocessableEntity},
		{"malformed body", `{"handle":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postJSON(t, srv, "/api/pay", tt.body)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d (body=%s)", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestPayEndpoint_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/pay", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rr.Code)
	}
}

func TestRepeatEndpoint_UnknownID(t *testing.T) {
	srv := newTestServer(t)
	rr := postJSON(t, srv, "/api/repeat", `{"transaction_id":"missing"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestRepeatEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var view viewDTO
	getJSON(t, srv, "/api/view", &view)
	if len(view.History) == 0 {
		t.Fatal("expected seeded history")
	}

	rr := postJSON(t, srv, "/api/repeat", `{"transaction_id":"`+view.History[0].ID+`"}`)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("repeat status=%d body=%s", rr.Code, rr.Body.String())
	}
}

func TestFilterEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rr := postJSON(t, srv, "/api/filter", `{"filter":"Market"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("filter status=%d body=%s", rr.Code, rr.Body.String())
	}

	var view viewDTO
	if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
		t.Fatalf("unmarshal filter response: %v", err)
	}
	if view.Filter != "Market" {
		t.Errorf("filter = %q, want Market", view.Filter)
	}
	// The weekly total narrows to the filtered category; the breakdown does not.
	if view.WeeklyTotalPaise != 180000 {
		t.Errorf("weekly total = %d, want 180000", view.WeeklyTotalPaise)
	}
	if len(view.Breakdown) != 3 {
		t.Errorf("breakdown length = %d, want 3", len(view.Breakdown))
	}

	rr = postJSON(t, srv, "/api/filter", `{"filter":"Bogus"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bogus filter status=%d", rr.Code)
	}
}

func TestAssistantEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rr := postJSON(t, srv, "/api/assistant", `{"question":"how can I save more?"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("assistant status=%d body=%s", rr.Code, rr.Body.String())
	}
	var resp assistantResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal assistant response: %v", err)
	}
	if resp.Answer == "" {
		t.Error("expected a non-empty answer")
	}

	rr = postJSON(t, srv, "/api/assistant", `{"question":""}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty question status=%d", rr.Code)
	}
}

func TestAdvisorAndSavingsEndpoints(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/api/advisor", "/api/savings"} {
		if code := getJSON(t, srv, path, nil); code != http.StatusOK {
			t.Fatalf("%s status=%d", path, code)
		}
	}
}

func TestAuthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"login ok", "/api/auth/login", `{"email":"demo@vaanipay.in","password":"secret1"}`, http.StatusOK},
		{"signup ok", "/api/auth/signup", `{"email":"new@vaanipay.in","password":"secret1"}`, http.StatusOK},
		{"bad email", "/api/auth/login", `{"email":"nope","password":"secret1"}`, http.StatusUnprocessableEntity},
		{"weak password", "/api/auth/signup", `{"email":"demo@vaanipay.in","password":"abc"}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postJSON(t, srv, tt.path, tt.body)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d (body=%s)", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/view", nil)
	srv.Handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rr.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}
