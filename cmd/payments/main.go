package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mfiorim/boutique-concierge/internal/config"
	"github.com/mfiorim/boutique-concierge/internal/payment"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	sim := payment.NewSimulatorClient(cfg.Payment.SimulatorURL, cfg.Payment.Timeout)
	negotiator := payment.NewNegotiator(sim, cfg.Payment.Currency, cfg.Payment.Method)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Payment.NegotiatorPort),
		Handler:      payment.NewNegotiatorHandler(negotiator),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().
			Str("simulator", cfg.Payment.SimulatorURL).
			Msgf("Payment negotiator listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down payment negotiator...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
}
