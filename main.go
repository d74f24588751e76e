package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"sismed_stock/internal/app"
	"sismed_stock/internal/config"
	"sismed_stock/internal/server"
	"sismed_stock/internal/stock"

	"github.com/rs/zerolog/log"
)

func main() {
	app.SetupEnvironment()
	log.Debug().Msg("Starting application")

	cfg := app.LoadConfig()
	resilience := config.WithSheetTimeout(cfg.SheetsTimeout)

	service := stock.NewService(cfg, stock.NewSheetsClient(resilience.SheetRead.Timeout), resilience.SheetRead)
	handler := server.NewHandler(service, cfg.AllowedOrigins)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// leave room for both Sheets reads plus encoding
	writeTimeout := resilience.SheetRead.Timeout + server.WriteTimeoutMargin
	addr := net.JoinHostPort("", cfg.Port)
	if err := server.Run(ctx, addr, handler, writeTimeout); err != nil {
		log.Fatal().Err(err).Msg("Server stopped with error")
	}
	log.Info().Msg("Server stopped")
}
