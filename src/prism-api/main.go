package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/prism-labs/prism-backend/src/prism-api/components/analyzer"
	"github.com/prism-labs/prism-backend/src/prism-api/components/search"
	"github.com/prism-labs/prism-backend/src/prism-api/components/verdict"
	"github.com/prism-labs/prism-backend/src/prism-api/components/vision"
	"github.com/prism-labs/prism-backend/src/prism-api/config"
	"github.com/prism-labs/prism-backend/src/prism-api/webserver"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg := config.Load()
	if cfg.MockMode {
		log.Info().Msg("MOCK_MODE enabled, provider calls will be skipped")
	}

	searchClient := search.NewClient(cfg.BraveKey)
	resolver := vision.NewResolver(cfg.VisionKey)
	synth := verdict.NewSynthesizer(cfg.AnthropicKey, cfg.AIModel, searchClient, cfg.MockMode)
	az := analyzer.New(resolver, synth, cfg.MockMode)

	router := webserver.New(az)

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Prism API listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutCtx)
	log.Info().Msg("shutdown complete")
}
