package swaggerkit

import (
	"net/http"

	"mbgsense/internal/platform/config"
	phttp "mbgsense/internal/platform/net/http"
)

// Mount serves the UI at /api/docs and the patched spec at /api/docs/doc.json.
// cfg (usually prefixed CORE_API_) supplies DOCS_TITLE_SUFFIX
func Mount(r phttp.Router, cfg config.Conf, enabled bool) {
	if !enabled {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/index.html", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDocJSON("/api/v1", cfg.MayString("DOCS_TITLE_SUFFIX", "")))
	phttp.MountSwagger(r, "/api/docs", "/api/docs/doc.json", true)
}
