package response

import (
	"log/slog"
	"net/http"

	"github.com/GregMSThompson/schoolfund-backend/pkg/logger"
)

// ResponseHandler renders handler results. Success bodies use the {success, data}
// envelope, errors the {code, message} body; WriteJSON writes a bare body.
type ResponseHandler interface {
	WriteSuccess(w http.ResponseWriter, r *http.Request, status int, data any)
	WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string)
	WriteJSON(w http.ResponseWriter, r *http.Request, status int, body any)
	HandleError(w http.ResponseWriter, r *http.Request, err error)
}

type responseHandler struct {
	base *slog.Logger
}

func New(log *slog.Logger) *responseHandler {
	if log == nil {
		log = slog.Default()
	}
	return &responseHandler{base: log}
}

// requestLog prefers the request-scoped logger and falls back to the one given to New.
func (h *responseHandler) requestLog(r *http.Request) *slog.Logger {
	if logger.InContext(r.Context()) {
		return logger.FromContext(r.Context())
	}
	return h.base
}
