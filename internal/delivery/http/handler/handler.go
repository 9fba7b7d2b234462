package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/user/petplaces-service/internal/delivery/http/request"
	"github.com/user/petplaces-service/internal/delivery/http/response"
	"github.com/user/petplaces-service/internal/entity"
	"github.com/user/petplaces-service/internal/usecase"
)

type Handler struct {
	aggregator usecase.Aggregator
}

func NewHandler(aggregator usecase.Aggregator) *Handler {
	return &Handler{
		aggregator: aggregator,
	}
}

func (h *Handler) HandleAggregate(w http.ResponseWriter, r *http.Request) {
	var req request.AggregateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	query := entity.AggregationQuery{
		Region:          req.Region,
		RowsPerPage:     req.RowsPerPage,
		PageNo:          req.PageNo,
		Keyword:         req.Keyword,
		Mode:            req.Mode,
		LoadAllKeywords: req.LoadAllKeywords,
	}

	result, err := h.aggregator.Aggregate(r.Context(), query)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidMode) {
			h.writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("Aggregation request failed", "mode", req.Mode, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Upstream failures are carried inside the envelope's status tags; the
	// HTTP layer always answers 200 with a well-formed envelope.
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleRecentRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			h.writeJSONError(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	runs, err := h.aggregator.RecentRuns(r.Context(), limit)
	if err != nil {
		slog.Error("Failed to list pipeline runs", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := response.RunsResponse{Runs: make([]response.RunResponse, 0, len(runs))}
	for _, run := range runs {
		resp.Runs = append(resp.Runs, response.RunResponse{
			ID:               run.ID,
			Region:           run.Region,
			AreaCount:        run.AreaCount,
			KeywordAttempted: run.KeywordAttempted,
			KeywordSucceeded: run.KeywordSucceeded,
			KeywordFailed:    run.KeywordFailed,
			MergedCount:      run.MergedCount,
			Cached:           run.Cached,
			DurationMS:       run.DurationMS,
			StartedAt:        run.StartedAt,
		})
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
