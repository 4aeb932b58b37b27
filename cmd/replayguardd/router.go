package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/MrEthical07/replayguard"
	"github.com/MrEthical07/replayguard/metrics/export/prometheus"
	"github.com/MrEthical07/replayguard/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 64 << 10

type checkRequest struct {
	ID             string    `json:"id" validate:"required,max=512"`
	NotValidBefore time.Time `json:"not_valid_before"`
	NotValidAfter  time.Time `json:"not_valid_after" validate:"required"`
	Payload        []byte    `json:"payload,omitempty" validate:"max=16384"`
}

type checkResponse struct {
	Replayed bool `json:"replayed"`
}

type server struct {
	guard    *replayguard.Guard
	validate *validator.Validate
	logger   *log.Logger
}

// newRouter wires the HTTP surface. source may be nil, in which case /v1/jwt/consume is not
// mounted.
func newRouter(guard *replayguard.Guard, source middleware.TokenSource, logger *log.Logger) http.Handler {
	s := &server{
		guard:    guard,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", prometheus.NewPrometheusExporter(guard).Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/replay/check", s.check)
		r.Post("/purge", s.purge)
		if source != nil {
			r.With(middleware.RejectReplayed(guard, source)).Post("/jwt/consume", s.consumed)
		}
	})

	return r
}

func (s *server) check(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := decodeStrict(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("validation failed: %v", err))
		return
	}

	tok := replayguard.NewToken(req.ID, req.NotValidBefore, req.NotValidAfter, req.Payload, nil)
	writeJSON(w, http.StatusOK, checkResponse{Replayed: s.guard.IsReplayed(tok)})
}

func (s *server) purge(w http.ResponseWriter, r *http.Request) {
	evicted := s.guard.Purge()
	s.logger.Printf("manual purge evicted=%d request_id=%s", evicted, chimw.GetReqID(r.Context()))
	writeJSON(w, http.StatusOK, map[string]int{"evicted": evicted})
}

func (s *server) consumed(w http.ResponseWriter, r *http.Request) {
	tok, _ := middleware.TokenFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"id": tok.ID})
}

func (s *server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"entries": s.guard.Len(),
	})
}

func decodeStrict(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	if dec.More() {
		return errors.New("unexpected extra JSON input")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
