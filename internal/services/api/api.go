// Package api provides the HTTP API for the application
package api

import (
	"mbgsense/internal/platform/config"
	"mbgsense/internal/platform/logger"
	phttp "mbgsense/internal/platform/net/http"

	"mbgsense/internal/modkit"
	"mbgsense/internal/modkit/httpkit"
	"mbgsense/internal/modkit/module"
	"mbgsense/internal/modkit/swaggerkit"

	emotionmod "mbgsense/internal/services/api/emotion/module"
	metamod "mbgsense/internal/services/api/meta/module"

	// Worker predictor module (owns the PredictPort)
	predictormod "mbgsense/internal/services/predictor/module"
)

// Options are the API options
type Options struct {
	// Config is the root view; modules read CORE_* keys below it
	Config         config.Conf
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
	// Predictor overrides the predictor options read from config
	Predictor predictormod.Options
}

// API is the mounted service. Close releases the model
type API struct {
	predictor *predictormod.Module
	modules   []module.Module
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) *API {
	core := opt.Config.Prefix("CORE_")
	apiCfg := core.Prefix("API_")
	log := opt.Logger
	if log == nil {
		log = logger.Named("api")
	}
	deps := modkit.Deps{Log: *log, Cfg: core}

	// Construct the WORKER predictor module first and extract its ports
	pred := predictormod.New(deps, opt.Predictor)
	pp := module.MustPortsOf[predictormod.PredictPort](pred)
	ports := pred.Ports().(predictormod.Ports)

	mods := []module.Module{
		metamod.New(deps, modkit.WithPorts(metamod.Ports{Model: pp})),
		emotionmod.New(deps, modkit.WithPorts(ports)),
		pred, // include worker so its ports are registered
	}

	swaggerkit.Mount(r, apiCfg, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(apiCfg), func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})
	log.Info().Strs("modules", module.Registered()).Msg("api mounted")
	return &API{predictor: pred, modules: mods}
}

// Close releases resources held by the modules
func (a *API) Close() error { return a.predictor.Close() }
