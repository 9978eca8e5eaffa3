package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mcoot/cybersnake/internal/api/apierr"
	"github.com/mcoot/cybersnake/internal/api/request"
	"github.com/mcoot/cybersnake/internal/api/response"
	"github.com/mcoot/cybersnake/internal/model"
)

// ScoreService is the score logic the handlers call
type ScoreService interface {
	CheckName(ctx context.Context, name, password string) (model.CheckResult, error)
	SubmitScore(ctx context.Context, name, password string, score int) (*model.ScoreRecord, error)
	Leaderboard(ctx context.Context) ([]*model.ScoreRecord, error)
	Ping(ctx context.Context) error
}

// ScoreHandler handles name checks and score endpoints
type ScoreHandler struct {
	service ScoreService
	logger  *slog.Logger
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(service ScoreService, logger *slog.Logger) *ScoreHandler {
	return &ScoreHandler{
		service: service,
		logger:  logger.With(slog.String("component", "score-handler")),
	}
}

// CheckName handles POST /api/check-name
func (h *ScoreHandler) CheckName(w http.ResponseWriter, r *http.Request) {
	var req request.CheckNameRequest
	if err := request.Decode(w, r, &req); err != nil {
		writeError(w, r, h.logger, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Name == "" || req.Password == "" {
		writeError(w, r, h.logger, apierr.NewInvalidRequestError("Name and password are required"))
		return
	}

	result, err := h.service.CheckName(r.Context(), req.Name, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CheckNameFromResult(result))
}

// List handles GET /api/scores
func (h *ScoreHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.Leaderboard(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ScoresFromModel(records))
}

// Submit handles POST /api/scores
func (h *ScoreHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitScoreRequest
	if err := request.Decode(w, r, &req); err != nil {
		writeError(w, r, h.logger, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Name == "" || req.Password == "" || req.Score == nil {
		writeError(w, r, h.logger, apierr.NewInvalidRequestError("Name, password and score are required"))
		return
	}

	rec, err := h.service.SubmitScore(r.Context(), req.Name, req.Password, *req.Score)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ScoreFromModel(rec))
}

// Health handles GET /api/health
func (h *ScoreHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ping(r.Context()); err != nil {
		h.logger.Warn("storage unreachable", slog.Any("error", err))
		response.JSON(w, http.StatusServiceUnavailable, response.Health{Status: "degraded", Storage: "unreachable"})
		return
	}
	response.JSON(w, http.StatusOK, response.Health{Status: "ok", Storage: "ok"})
}
