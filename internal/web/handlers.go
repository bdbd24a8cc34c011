package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/joseph-ayodele/invoices-tracker/internal/invoices"
)

// maxBodyBytes leaves room for JSON escaping around the text limit.
const maxBodyBytes = 2*invoices.MaxTextBytes + 4096

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			s.logger.Warn("health check failed", "error", err)
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req invoices.SubmitRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.respondError(w, r, status.Errorf(codes.InvalidArgument, "invalid JSON body: %v", err))
		return
	}

	out, err := s.service.Submit(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	code := http.StatusOK
	if out.Stored != nil {
		code = http.StatusCreated
	}
	respondJSON(w, code, out)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	req, err := listRequest(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	invs, err := s.service.List(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"invoices": invs, "count": len(invs)})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	inv, err := s.service.Get(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, inv)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.service.Stats(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, st)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	req, err := listRequest(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	b, err := s.service.Export(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	filename := fmt.Sprintf("invoices_%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func listRequest(r *http.Request) (invoices.ListRequest, error) {
	q := r.URL.Query()
	req := invoices.ListRequest{Status: q.Get("status")}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return req, status.Errorf(codes.InvalidArgument, "limit must be an integer: %q", raw)
		}
		req.Limit = n
	}
	return req, nil
}
