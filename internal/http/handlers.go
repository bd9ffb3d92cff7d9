package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"finpulse/internal/core"
	applog "finpulse/internal/log"
)

// Request bodies larger than this are rejected outright.
const maxBodyBytes = 1 << 20

const (
	dashboardCacheKey = "dashboard"
	insightsCacheKey  = "insights"
	forecastCacheKey  = "forecast"
)

type createTransactionRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTransactions(w, r)
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txns, err := s.dash.Transactions(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions error",
			applog.FieldError, err.Error(),
			applog.FieldOperation, applog.OpList)
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}
	writeJSON(w, http.StatusOK, txns)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, ok := core.ParseDate(req.Date)
		if !ok {
			writeError(w, http.StatusUnprocessableEntity, "invalid date format")
			return
		}
		date = parsed
	}

	created, err := s.txns.Create(r.Context(), req.Description, req.Amount, date)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Create transaction error",
			applog.FieldError, err.Error(),
			applog.FieldOperation, applog.OpCreate)
		writeError(w, http.StatusInternalServerError, "failed to save transaction")
		return
	}

	s.metrics.transactionsCreated.Add(1)
	s.structured.LogTransactionCreated(r.Context(), created.ID, created.Description, created.Amount, created.CategoryOrDefault(), created.IsAnomaly)
	s.invalidateDerived()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleImportTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	// The decoder is deliberately forgiving: a non-array body or
	// malformed records import as nothing rather than failing the batch.
	txns := core.DecodeTransactions(body)

	imported, err := s.txns.Import(r.Context(), txns)
	if err != nil {
		slog.ErrorContext(r.Context(), "Import transactions error",
			applog.FieldError, err.Error(),
			applog.FieldOperation, applog.OpImport,
			"imported", imported,
			"received", len(txns))
		writeError(w, http.StatusInternalServerError, "import failed after partial progress")
		return
	}

	if imported > 0 {
		s.metrics.transactionsCreated.Add(int64(imported))
		s.invalidateDerived()
	}
	writeJSON(w, http.StatusAccepted, map[string]int{
		"received": len(txns),
		"imported": imported,
	})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	if insights, found := s.insightsCache.Get(insightsCacheKey); found {
		s.metrics.cacheHits.Add(1)
		writeJSON(w, http.StatusOK, insights)
		return
	}
	s.metrics.cacheMisses.Add(1)

	insights, err := s.dash.Insights(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Insights error",
			applog.FieldError, err.Error(),
			applog.FieldComponent, applog.ComponentInsights)
		writeError(w, http.StatusInternalServerError, "failed to compute insights")
		return
	}

	s.insightsCache.Set(insightsCacheKey, insights)
	writeJSON(w, http.StatusOK, insights)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	if points, found := s.forecastCache.Get(forecastCacheKey); found {
		s.metrics.cacheHits.Add(1)
		writeJSON(w, http.StatusOK, points)
		return
	}
	s.metrics.cacheMisses.Add(1)

	points, err := s.dash.Forecast(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Forecast error",
			applog.FieldError, err.Error(),
			applog.FieldComponent, applog.ComponentForecast)
		writeError(w, http.StatusInternalServerError, "failed to compute forecast")
		return
	}

	s.forecastCache.Set(forecastCacheKey, points)
	writeJSON(w, http.StatusOK, points)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	if view, found := s.dashboardCache.Get(dashboardCacheKey); found {
		s.metrics.cacheHits.Add(1)
		writeJSON(w, http.StatusOK, view)
		return
	}
	s.metrics.cacheMisses.Add(1)

	// SafeBuild degrades failing sections to empty slices and recovers
	// from panics, so this endpoint always answers 200.
	view := s.dash.SafeBuild(r.Context())

	s.dashboardCache.Set(dashboardCacheKey, view)
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSeedDemo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	count, err := s.txns.SeedDemo(r.Context())
	if err != nil {
		s.structured.LogError(r.Context(), "Demo seed error", err,
			applog.ComponentTxn, applog.OpSeed, applog.LogFields{"seeded": count})
		writeError(w, http.StatusInternalServerError, "failed to seed demo data")
		return
	}

	s.metrics.transactionsCreated.Add(int64(count))
	s.invalidateDerived()
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Demo data loaded",
		"count":   count,
	})
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrEmptyDescription) ||
		errors.Is(err, core.ErrDescriptionTooLong) ||
		errors.Is(err, core.ErrInvalidDate)
}
