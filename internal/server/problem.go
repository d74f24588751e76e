package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"sismed_stock/internal/stock"
)

const problemGlyph = "❌ "

// problem is an RFC 9457 problem details body.
type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

func statusFor(err *stock.Error) int {
	switch err.Kind {
	case stock.KindInvalidSelector:
		return http.StatusBadRequest
	case stock.KindAuthentication:
		return http.StatusBadGateway
	case stock.KindExternalService:
		if err.Timeout {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeProblem(w http.ResponseWriter, r *http.Request, err error) {
	stockErr := stock.AsError(err)
	status := statusFor(stockErr)

	level := zerolog.ErrorLevel
	if status < http.StatusInternalServerError {
		level = zerolog.WarnLevel
	}
	hlog.FromRequest(r).WithLevel(level).
		Err(err).
		Str("kind", stockErr.Kind.String()).
		Int("status", status).
		Msg("Request failed")

	w.Header().Set("Content-Type", "application/problem+json; charset=utf-8")
	w.WriteHeader(status)
	body := problem{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
		Detail: problemGlyph + stockErr.Error(),
	}
	if encodeErr := json.NewEncoder(w).Encode(body); encodeErr != nil {
		hlog.FromRequest(r).Error().Err(encodeErr).Msg("Failed to write problem body")
	}
}
