package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Houeta/employee-api/internal/lib/logger/sl"
)

const internalErrorMessage = "internal error"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(log *slog.Logger, writer http.ResponseWriter, req *http.Request, status int, payload any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	if err := json.NewEncoder(writer).Encode(payload); err != nil {
		log.ErrorContext(req.Context(), "Failed to write response", sl.Err(err))
	}
}

func writeError(log *slog.Logger, writer http.ResponseWriter, req *http.Request, status int, msg string) {
	writeJSON(log, writer, req, status, errorResponse{Error: msg})
}
