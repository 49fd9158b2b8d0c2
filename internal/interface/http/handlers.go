package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/azkar-hub/azkar-hub/internal/application/command"
	"github.com/azkar-hub/azkar-hub/internal/application/query"
	domain "github.com/azkar-hub/azkar-hub/internal/domain/assistant"
	"github.com/azkar-hub/azkar-hub/internal/domain/shared"
	"github.com/azkar-hub/azkar-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	endpoints := map[string]string{
		"health":   "/health",
		"azkar":    "/api/v1/azkar?category=morning",
		"search":   "/api/v1/azkar/search?q=",
		"progress": "/api/v1/progress",
		"stats":    "/api/v1/stats/daily",
	}
	if s.deps.Assistant != nil {
		endpoints["assistant"] = "/api/v1/assistant/ask"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"name":      "Azkar Hub API",
		"version":   s.config.Version,
		"endpoints": endpoints,
	})
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": s.config.Version,
	})
}

// handleReady handles the readiness probe endpoint.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListAzkar handles GET /api/v1/azkar?category=
func (s *Server) handleListAzkar(w http.ResponseWriter, r *http.Request) {
	items, err := s.deps.ListAzkar.Handle(r.Context(), query.ListAzkarQuery{
		Category: getQueryParam(r, "category", ""),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := toZikrDTOs(items)
	writeJSONWithMeta(w, r, http.StatusOK, out, &ResponseMeta{TotalCount: len(out)})
}

// handleSearchAzkar handles GET /api/v1/azkar/search?q=&category=
func (s *Server) handleSearchAzkar(w http.ResponseWriter, r *http.Request) {
	items, err := s.deps.SearchAzkar.Handle(r.Context(), query.SearchAzkarQuery{
		Term:     getQueryParam(r, "q", ""),
		Category: getQueryParam(r, "category", ""),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := toZikrDTOs(items)
	writeJSONWithMeta(w, r, http.StatusOK, out, &ResponseMeta{TotalCount: len(out)})
}

// handleGetZikr handles GET /api/v1/azkar/{id}
func (s *Server) handleGetZikr(w http.ResponseWriter, r *http.Request) {
	z, err := s.deps.GetZikr.Handle(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSONWithMeta(w, r, http.StatusOK, toZikrDTO(z), nil)
}

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRecordCompletion handles POST /api/v1/azkar/{id}/complete
func (s *Server) handleRecordCompletion(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r.Context())
	if userID.IsEmpty() {
		s.writeError(w, r, shared.ErrUnauthenticated)
		return
	}

	var req completeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.CompletedCount == nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "completed_count is required")
		return
	}

	res, err := s.deps.RecordCompletion.Handle(r.Context(), command.RecordCompletionCommand{
		UserID:         userID,
		ZikrID:         r.PathValue("id"),
		CompletedCount: *req.CompletedCount,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, toCompletionDTO(res), nil)
}

// handleGetProgress handles GET /api/v1/progress[?azkar_id=]
func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	records, err := s.deps.GetUserProgress.Handle(r.Context(), query.GetUserProgressQuery{
		UserID: getUserID(r.Context()),
		ZikrID: getQueryParam(r, "azkar_id", ""),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]progressDTO, 0, len(records))
	for _, rec := range records {
		out = append(out, toProgressDTO(rec))
	}
	writeJSONWithMeta(w, r, http.StatusOK, out, &ResponseMeta{TotalCount: len(out)})
}

// handleGetDailyStats handles GET /api/v1/stats/daily[?from=&to=]
func (s *Server) handleGetDailyStats(w http.ResponseWriter, r *http.Request) {
	days, err := s.deps.GetDailyStats.Handle(r.Context(), query.GetDailyStatsQuery{
		UserID: getUserID(r.Context()),
		From:   getQueryParam(r, "from", ""),
		To:     getQueryParam(r, "to", ""),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]dailyDTO, 0, len(days))
	for _, d := range days {
		out = append(out, toDailyDTO(d))
	}
	writeJSONWithMeta(w, r, http.StatusOK, out, &ResponseMeta{TotalCount: len(out)})
}

// ══════════════════════════════════════════════════════════════════════════════
// ASSISTANT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleAsk handles POST /api/v1/assistant/ask
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	res, err := s.deps.Assistant.AskQuestion(r.Context(), getUserID(r.Context()), req.Question)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, askResponse{
		Answer:     res.Answer,
		Success:    res.Success,
		QuestionID: res.QuestionID.String(),
	}, nil)
}

// handleReminder handles POST /api/v1/assistant/reminder
func (s *Server) handleReminder(w http.ResponseWriter, r *http.Request) {
	var req reminderRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	msg := s.deps.Assistant.GeneratePersonalizedReminder(r.Context(), domain.ParseTimeOfDay(req.TimeOfDay), domain.UserStats{
		Streak:           req.UserStats.Streak,
		CompletionRate:   req.UserStats.CompletionRate,
		FavoriteCategory: req.UserStats.FavoriteCategory,
	})
	writeJSONWithMeta(w, r, http.StatusOK, map[string]string{"message": msg}, nil)
}

// handleExplain handles POST /api/v1/assistant/explain
func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var req explainRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	level, err := domain.ParseLevel(req.Level)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	text := s.deps.Assistant.ExplainZikrMeaning(r.Context(), req.ZikrText, level)
	writeJSONWithMeta(w, r, http.StatusOK, map[string]string{"explanation": text}, nil)
}

// handleFeedback handles POST /api/v1/assistant/questions/{id}/feedback
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Helpful == nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "helpful is required")
		return
	}

	err := s.deps.Assistant.MarkAnswerHelpful(r.Context(), getUserID(r.Context()), r.PathValue("id"), *req.Helpful)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, map[string]bool{"helpful": *req.Helpful}, nil)
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST DECODING & ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// decodeJSON reads the body into dst. It writes the error response itself
// and reports whether the handler should continue.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeJSONError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "Request body too large")
	case errors.Is(err, io.EOF):
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "Request body is empty")
	default:
		writeJSONErrorWithDetails(w, http.StatusBadRequest, "invalid_json", "Request body is not valid JSON", err.Error())
	}
	return false
}

// writeError maps an application error onto a status code. Server-side
// failures are logged and their text is not sent to the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classifyError(err)

	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed",
			logger.String("path", r.URL.Path),
			logger.Err(err),
		)
		writeJSONError(w, status, code, http.StatusText(status))
		return
	}

	msg := err.Error()
	var de *shared.DomainError
	if errors.As(err, &de) {
		msg = de.Message
	}
	writeJSONError(w, status, code, msg)
}

func classifyError(err error) (int, string) {
	switch {
	case shared.IsUnauthenticated(err):
		return http.StatusUnauthorized, "unauthenticated"
	case shared.IsNotFound(err):
		return http.StatusNotFound, "not_found"
	case shared.IsConflict(err):
		return http.StatusConflict, "conflict"
	case shared.IsValidation(err):
		return http.StatusBadRequest, "invalid_request"
	case shared.IsExternalService(err):
		return http.StatusServiceUnavailable, "service_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
