package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/joseph-ayodele/invoices-tracker/internal/common"
	"github.com/joseph-ayodele/invoices-tracker/internal/core"
	"github.com/joseph-ayodele/invoices-tracker/internal/export"
	"github.com/joseph-ayodele/invoices-tracker/internal/invoices"
	"github.com/joseph-ayodele/invoices-tracker/internal/repository"
)

const sampleInvoice = `ABC Company Inc.
123 Business Street

Invoice Number: INV-2024-001
Date: 15/09/2024

Grand Total:                    $134.25
`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, health HealthFunc) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	log := quietLogger()

	db, err := repository.OpenSQLite(ctx, ":memory:", log)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close(log) })
	if err := repository.Migrate(ctx, db, log); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	repo := repository.NewInvoiceRepository(db, log)
	svc := invoices.NewService(core.NewProcessor(log, nil, nil, nil, repo), repo, export.NewService(repo, log), log)

	ts := httptest.NewServer(NewServer(svc, health, log).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestSubmitAndQuery(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postJSON(t, ts.URL+"/api/invoices", invoices.SubmitRequest{Text: sampleInvoice, OverallConfidence: 0.9})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit status = %d", resp.StatusCode)
	}
	out := decode[core.Outcome](t, resp)
	if !out.Valid || out.Stored == nil || *out.Record.InvoiceNumber != "INV-2024-001" {
		t.Fatalf("outcome = %+v", out)
	}

	resp = postJSON(t, ts.URL+"/api/invoices", invoices.SubmitRequest{Text: sampleInvoice})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("duplicate submit status = %d", resp.StatusCode)
	}
	dup := decode[core.Outcome](t, resp)
	if dup.Valid || len(dup.Errors) != 1 || dup.Errors[0] != "Duplicate invoice number: INV-2024-001" {
		t.Errorf("duplicate outcome = %+v", dup)
	}

	resp, err := http.Get(ts.URL + "/api/invoices/inv-2024-001")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	inv := decode[map[string]any](t, resp)
	if inv["vendor"] != "ABC Company Inc." || inv["date"] != "2024-09-15" {
		t.Errorf("invoice = %v", inv)
	}

	resp, err = http.Get(ts.URL + "/api/invoices?status=approved&limit=5")
	if err != nil {
		t.Fatal(err)
	}
	list := decode[map[string]any](t, resp)
	if list["count"] != float64(1) {
		t.Errorf("list = %v", list)
	}

	resp, err = http.Get(ts.URL + "/api/stats")
	if err != nil {
		t.Fatal(err)
	}
	stats := decode[map[string]any](t, resp)
	if stats["total_invoices"] != float64(1) || stats["total_amount"] != 134.25 {
		t.Errorf("stats = %v", stats)
	}

	resp, err = http.Get(ts.URL + "/api/export.xlsx")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !bytes.HasPrefix(body, []byte("PK")) {
		t.Errorf("export status = %d, %d bytes", resp.StatusCode, len(body))
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, ".xlsx") {
		t.Errorf("Content-Disposition = %q", cd)
	}
}

func TestErrorResponses(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name   string
		do     func() (*http.Response, error)
		status int
		code   string
	}{
		{"malformed body", func() (*http.Response, error) {
			return http.Post(ts.URL+"/api/invoices", "application/json", strings.NewReader("{"))
		}, http.StatusBadRequest, "InvalidArgument"},
		{"empty text", func() (*http.Response, error) {
			return http.Post(ts.URL+"/api/invoices", "application/json", strings.NewReader(`{"text":""}`))
		}, http.StatusBadRequest, "InvalidArgument"},
		{"missing invoice", func() (*http.Response, error) {
			return http.Get(ts.URL + "/api/invoices/NOPE-1")
		}, http.StatusNotFound, "NotFound"},
		{"bad status filter", func() (*http.Response, error) {
			return http.Get(ts.URL + "/api/invoices?status=lost")
		}, http.StatusBadRequest, "InvalidArgument"},
		{"bad limit", func() (*http.Response, error) {
			return http.Get(ts.URL + "/api/invoices?limit=ten")
		}, http.StatusBadRequest, "InvalidArgument"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := tt.do()
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			er := decode[ErrorResponse](t, resp)
			if er.Code != tt.code || er.Error == "" || er.RequestID == "" {
				t.Errorf("error body = %+v", er)
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	tests := []struct {
		name   string
		health HealthFunc
		want   int
	}{
		{"no check", nil, http.StatusOK},
		{"healthy", func(context.Context) error { return nil }, http.StatusOK},
		{"down", func(context.Context) error { return errors.New("db down") }, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.health)
			resp, err := http.Get(ts.URL + "/healthz")
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestStartShutdown(t *testing.T) {
	tests := []struct {
		name          string
		shutdownFirst bool
	}{
		{"shutdown before start", true},
		{"shutdown while serving", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(nil, nil, quietLogger())
			if tt.shutdownFirst {
				if err := s.Shutdown(context.Background()); err != nil {
					t.Fatalf("Shutdown: %v", err)
				}
			}

			done := make(chan error, 1)
			go func() { done <- s.Start("127.0.0.1:0") }()

			if !tt.shutdownFirst {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				if err := s.Shutdown(ctx); err != nil {
					t.Fatalf("Shutdown: %v", err)
				}
			}

			select {
			case err := <-done:
				if err != nil {
					t.Errorf("Start returned %v, want nil", err)
				}
			case <-time.After(2 * time.Second):
				t.Fatal("Start still serving after Shutdown")
			}
		})
	}
}

func TestRequestLoggerScopesContext(t *testing.T) {
	s := &Server{logger: quietLogger()}
	var gotID string
	var gotLogger *slog.Logger
	h := middleware.RequestID(s.requestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = common.RequestIDFromContext(r.Context())
		gotLogger = common.LoggerFromContext(r.Context(), nil)
		w.WriteHeader(http.StatusNoContent)
	})))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if gotID != "req-42" {
		t.Errorf("request id = %q, want req-42", gotID)
	}
	if gotLogger == nil || gotLogger == s.logger || gotLogger == slog.Default() {
		t.Error("handler did not receive a request-scoped logger")
	}
}
