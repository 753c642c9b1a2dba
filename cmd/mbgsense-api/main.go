// @title         MBG Sense API
// @version       0.1.0
// @description   Emotion classification for public comments on the free meal program

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"mbgsense/internal/platform/config"
	"mbgsense/internal/platform/logger"
	phttp "mbgsense/internal/platform/net/http"

	"mbgsense/internal/services/api"
)

func main() {
	// .env first so every CORE_* and LOG_* read below sees it
	if _, err := config.LoadDotEnv(); err != nil {
		logger.Get().Panic().Err(err).Msg("dotenv")
	}

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	// bring up logging early
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	a := api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)
	defer func() {
		if err := a.Close(); err != nil {
			l.Error().Err(err).Msg("failed to release model")
		}
	}()

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
		return
	}
	l.Info().Msg("bye")
}
