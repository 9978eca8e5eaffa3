package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/cybersnake/internal/api/apierr"
	"github.com/mcoot/cybersnake/internal/middleware"
)

// writeError writes err as an API error, logging anything that maps to a
// server-side failure since its detail never reaches the client
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if apierr.Status(err) >= http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("request_id", middleware.RequestIDFromContext(r.Context())),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}
	apierr.WriteError(w, err)
}
