// Package http provides http transport for emotion classification
package http

import (
	stdhttp "net/http"

	"mbgsense/internal/modkit/httpkit"
	"mbgsense/internal/services/api/emotion/domain"
	svc "mbgsense/internal/services/api/emotion/service"
)

// Register mounts the routes
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON(r, "/predict", h.predict)
	httpkit.PostJSON(r, "/debug", h.debug)
	httpkit.PostJSON(r, "/normalize", h.normalize)
	httpkit.PostJSON(r, "/override", h.override)
	httpkit.Get(r, "/labels", h.labels)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /emotion/predict Emotion predict
// @Summary Classify the emotion of a public comment
// @Tags emotion
// @Accept json
// @Produce json
// @Param Accept-Language header string false "en or id, selects validation message language"
// @Param payload body domain.TextInput true "Comment"
// @Success 200 {object} domain.Prediction "ok"
// @Failure 400 {object} httpkit.Envelope "empty or invalid text"
// @Failure 503 {object} httpkit.Envelope "model unavailable"
// @Router /emotion/predict [post]
func (h *handlers) predict(r *stdhttp.Request, in domain.TextInput) (any, error) {
	return h.svc.Predict(r.Context(), in)
}

// swagger:route POST /emotion/debug Emotion debug
// @Summary Classify and show every pipeline stage
// @Tags emotion
// @Accept json
// @Produce json
// @Param payload body domain.TextInput true "Comment"
// @Success 200 {object} domain.DebugView "ok"
// @Failure 503 {object} httpkit.Envelope "model unavailable"
// @Router /emotion/debug [post]
func (h *handlers) debug(r *stdhttp.Request, in domain.TextInput) (any, error) {
	return h.svc.Debug(r.Context(), in)
}

// swagger:route POST /emotion/normalize Emotion normalize
// @Summary Show the cleaned text the classifier would see
// @Tags emotion
// @Accept json
// @Produce json
// @Param payload body domain.TextInput true "Comment"
// @Success 200 {object} domain.NormalizeOutput "ok"
// @Router /emotion/normalize [post]
func (h *handlers) normalize(r *stdhttp.Request, in domain.TextInput) (any, error) {
	return h.svc.Normalize(r.Context(), in)
}

// swagger:route POST /emotion/override Emotion override
// @Summary Check the keyword override lists
// @Tags emotion
// @Accept json
// @Produce json
// @Param payload body domain.TextInput true "Comment"
// @Success 200 {object} domain.OverrideOutput "ok"
// @Router /emotion/override [post]
func (h *handlers) override(r *stdhttp.Request, in domain.TextInput) (any, error) {
	return h.svc.Override(r.Context(), in)
}

// swagger:route GET /emotion/labels Emotion labels
// @Summary Categories of the active scheme
// @Tags emotion
// @Produce json
// @Success 200 {object} domain.LabelsOutput "ok"
// @Router /emotion/labels [get]
func (h *handlers) labels(r *stdhttp.Request) (any, error) {
	return h.svc.Labels(r.Context())
}
