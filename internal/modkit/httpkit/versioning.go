package httpkit

import (
	"net/http"
	"strings"
	"time"

	"mbgsense/internal/platform/config"
	"mbgsense/internal/platform/net/middleware"
)

// MountAPI mounts a subrouter under /api/{version}, applies mw, then calls mount on it
//
//	httpkit.MountAPI(r, "v1", httpkit.CommonStack(cfg), func(api httpkit.Router) {
//	  emotion.MountRoutes(api)
//	})
func MountAPI(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	prefix := "/api/" + strings.Trim(version, "/")
	r.Route(prefix, func(api Router) {
		if len(mw) > 0 {
			api.Use(mw...)
		}
		mount(api)
	})
}

// MountAPIV1 is MountAPI with version v1
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountAPI(r, "v1", mw, mount)
}

// CommonStack builds the API middleware chain from cfg (usually prefixed CORE_API_):
// CORS_ORIGINS, TIMEOUT, SLOW_LOG, INFLIGHT, QUEUE_WAIT
func CommonStack(cfg config.Conf) []func(http.Handler) http.Handler {
	return middleware.Stack(middleware.StackOptions{
		CORS:      middleware.CORSOptions{AllowedOrigins: cfg.MayCSV("CORS_ORIGINS", nil)},
		Timeout:   cfg.MayDuration("TIMEOUT", 30*time.Second),
		SlowLog:   cfg.MayDuration("SLOW_LOG", 750*time.Millisecond),
		Inflight:  cfg.MayInt("INFLIGHT", 64),
		QueueWait: cfg.MayDuration("QUEUE_WAIT", 5*time.Second),
	})
}
