package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"expensetracker/internal/services"
	"expensetracker/internal/sheets/memory"
	"expensetracker/internal/store"
)

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	mem := memory.New()
	st, err := store.New(context.Background(), mem)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	srv := NewServer(":0", services.NewExpenseService(st, nil, nil), nil, "£")
	t.Cleanup(srv.limiter.Stop)
	return srv, mem
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

type listedExpense struct {
	Index    int    `json:"index"`
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Date     string `json:"date"`
	Display  string `json:"display"`
}

func decodeList(t *testing.T, rr *httptest.ResponseRecorder) []listedExpense {
	t.Helper()
	var out []listedExpense
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return out
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := do(t, srv, http.MethodGet, "/healthz", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"ok"`) {
		t.Fatalf("healthz: %d %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("request id missing")
	}
}

func TestCreateExpense(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"numeric amount", `{"category":"Food","amount":12.50,"date":"2024-01-15"}`, http.StatusCreated},
		{"string amount", `{"category":"Food","amount":"7","date":"2024-01-15"}`, http.StatusCreated},
		{"bad date", `{"category":"Food","amount":1,"date":"15/01/2024"}`, http.StatusBadRequest},
		{"bad amount", `{"category":"Food","amount":"abc","date":"2024-01-15"}`, http.StatusUnprocessableEntity},
		{"missing amount", `{"category":"Food","date":"2024-01-15"}`, http.StatusUnprocessableEntity},
		{"unknown field", `{"category":"Food","amount":1,"date":"2024-01-15","note":"x"}`, http.StatusBadRequest},
		{"not json", `nope`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, mem := newTestServer(t)
			rr := do(t, srv, http.MethodPost, "/expenses", tt.body)
			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rr.Code, tt.status, rr.Body.String())
			}
			wantSaves := 0
			if tt.status == http.StatusCreated {
				wantSaves = 1
			}
			if mem.Saves() != wantSaves {
				t.Errorf("saves = %d, want %d", mem.Saves(), wantSaves)
			}
		})
	}
}

func TestCreatedBody(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := do(t, srv, http.MethodPost, "/expenses", `{"category":"Food","amount":12.50,"date":"2024-01-15"}`)

	var got listedExpense
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	want := listedExpense{Index: 1, Category: "Food", Amount: "12.5", Date: "2024-01-15", Display: "Food: £12.5 on 2024-01-15"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("created body mismatch (-want +got):\n%s", diff)
	}
}

func TestListAndFilter(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, body := range []string{
		`{"category":"Food","amount":"10","date":"2024-01-01"}`,
		`{"category":"Rent","amount":"800","date":"2024-01-01"}`,
		`{"category":"food","amount":"5","date":"2024-01-02"}`,
	} {
		if rr := do(t, srv, http.MethodPost, "/expenses", body); rr.Code != http.StatusCreated {
			t.Fatalf("seed: %d %s", rr.Code, rr.Body.String())
		}
	}

	tests := []struct {
		target string
		want   []string
	}{
		{"/expenses", []string{"Food", "Rent", "food"}},
		{"/expenses?category=FOOD", []string{"Food", "food"}},
		{"/expenses?date=2024-01-01", []string{"Food", "Rent"}},
		{"/expenses?category=food&date=2024-01-02", []string{"food"}},
		{"/expenses?category=Travel", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rr := do(t, srv, http.MethodGet, tt.target, "")
			if rr.Code != http.StatusOK {
				t.Fatalf("status %d", rr.Code)
			}
			got := []string{}
			for _, e := range decodeList(t, rr) {
				got = append(got, e.Category)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("categories mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClear(t *testing.T) {
	srv, _ := newTestServer(t)
	do(t, srv, http.MethodPost, "/expenses", `{"category":"Food","amount":"10","date":"2024-01-01"}`)

	if rr := do(t, srv, http.MethodDelete, "/expenses", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("clear without confirm: %d", rr.Code)
	}
	if got := decodeList(t, do(t, srv, http.MethodGet, "/expenses", "")); len(got) != 1 {
		t.Fatalf("unconfirmed clear removed data: %v", got)
	}

	if rr := do(t, srv, http.MethodDelete, "/expenses?confirm=yes", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("clear: %d", rr.Code)
	}
	if got := decodeList(t, do(t, srv, http.MethodGet, "/expenses", "")); len(got) != 0 {
		t.Fatalf("expenses after clear: %v", got)
	}
}

func TestSummary(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/summary", "")
	if strings.TrimSpace(rr.Body.String()) != `{"total":"0","categories":[]}` {
		t.Fatalf("empty summary = %s", rr.Body.String())
	}

	do(t, srv, http.MethodPost, "/expenses", `{"category":"Food","amount":"25","date":"2024-01-01"}`)
	do(t, srv, http.MethodPost, "/expenses", `{"category":"Rent","amount":"75","date":"2024-01-01"}`)

	var got struct {
		Total      string `json:"total"`
		Categories []struct {
			Category string `json:"category"`
			Amount   string `json:"amount"`
			Percent  string `json:"percent"`
		} `json:"categories"`
	}
	rr = do(t, srv, http.MethodGet, "/summary", "")
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Total != "100" || len(got.Categories) != 2 {
		t.Fatalf("summary = %+v", got)
	}
	if got.Categories[0].Category != "Rent" || got.Categories[0].Percent != "75" {
		t.Errorf("first share = %+v", got.Categories[0])
	}
}

func TestPersistFailureIsServerError(t *testing.T) {
	srv, mem := newTestServer(t)
	mem.Fail = errors.New("disk full")

	if rr := do(t, srv, http.MethodPost, "/expenses", `{"category":"Food","amount":"1","date":"2024-01-01"}`); rr.Code != http.StatusInternalServerError {
		t.Fatalf("add status = %d", rr.Code)
	}
	if rr := do(t, srv, http.MethodDelete, "/expenses?confirm=yes", ""); rr.Code != http.StatusInternalServerError {
		t.Fatalf("clear status = %d", rr.Code)
	}
}

func TestWritesAreRateLimited(t *testing.T) {
	srv, _ := newTestServer(t)
	body := `{"category":"Food","amount":"1","date":"2024-01-01"}`

	for i := 0; i < 60; i++ {
		if rr := do(t, srv, http.MethodPost, "/expenses", body); rr.Code != http.StatusCreated {
			t.Fatalf("request %d status = %d", i, rr.Code)
		}
	}
	rr := do(t, srv, http.MethodPost, "/expenses", body)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "rate limit") {
		t.Errorf("body = %q", rr.Body.String())
	}
	if rr := do(t, srv, http.MethodGet, "/expenses", ""); rr.Code != http.StatusOK {
		t.Errorf("reads should not be limited, status = %d", rr.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)
	if rr := do(t, srv, http.MethodPut, "/expenses", ""); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("PUT status = %d", rr.Code)
	}
}

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		xff    string
		want   string
	}{
		{"direct", "203.0.113.5:1234", "", "203.0.113.5"},
		{"trusted proxy", "10.0.0.1:80", "198.51.100.7, 10.0.0.1", "198.51.100.7"},
		{"untrusted proxy ignored", "203.0.113.5:1234", "198.51.100.7", "203.0.113.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := extractClientIP(r); got != tt.want {
				t.Errorf("extractClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
