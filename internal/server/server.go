package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"sismed_stock/internal/stock"
)

const (
	ReadSheetPath = "/leer-sheet"
	// WriteTimeoutMargin is added to the Sheets timeout to get the server
	// write timeout.
	WriteTimeoutMargin = 10 * time.Second
	shutdownTimeout    = 10 * time.Second
)

// Reader is the part of stock.Service the handler needs.
type Reader interface {
	Read(ctx context.Context, id string) (*stock.Result, error)
}

type readSheetResponse struct {
	Message string            `json:"message"`
	Valores []stock.OutputRow `json:"valores"`
}

// NewHandler wires the read endpoint behind CORS, panic recovery and access
// logging.
func NewHandler(reader Reader, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+ReadSheetPath, readSheetHandler(reader))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
	})

	var handler http.Handler = mux
	handler = recoverer(handler)
	handler = corsHandler.Handler(handler)
	handler = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("Handled request")
	})(handler)
	handler = hlog.RemoteAddrHandler("ip")(handler)
	handler = hlog.RequestIDHandler("req_id", "X-Request-Id")(handler)
	handler = hlog.NewHandler(log.Logger)(handler)
	return handler
}

func readSheetHandler(reader Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")

		result, err := reader.Read(r.Context(), id)
		if err != nil {
			writeProblem(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, readSheetResponse{
			Message: result.Message,
			Valores: result.Values,
		})
	}
}

func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				writeProblem(w, r, fmt.Errorf("panic: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to write response body")
	}
}

// Run serves handler on addr until ctx is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
