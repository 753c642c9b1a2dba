package middleware

import (
	"net/http"
	"runtime/debug"

	perr "mbgsense/internal/platform/errors"
	"mbgsense/internal/platform/logger"
	phttp "mbgsense/internal/platform/net/http"
)

// RecoverJSON turns a panic into a JSON 500 envelope and logs the stack with the request id
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Str("stack", string(debug.Stack())).
				Msg("panic recovered")

			if id := phttp.RequestID(r); id != "" {
				w.Header().Set("X-Request-ID", id)
			}
			phttp.WriteError(w, r, perr.PanicErrf("internal error"))
		}()
		next.ServeHTTP(w, r)
	})
}
