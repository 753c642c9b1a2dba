// Package http serves the operational endpoints: liveness, readiness, build and model info
package http

import (
	"net/http"
	"time"

	"mbgsense/internal/core/predict"
	"mbgsense/internal/core/version"
	"mbgsense/internal/modkit/httpkit"
	perr "mbgsense/internal/platform/errors"
)

// ModelState is satisfied by the predictor port
type ModelState interface {
	State() (predict.State, error)
	Predictor() (*predict.Predictor, error)
}

// Deps feed the meta handlers. Model may be nil when no predictor is wired
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Model       ModelState
}

type handlers struct{ deps Deps }

// Register mounts health, readiness, build and model info routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/model", h.model)
}

// HealthResponse answers liveness probes
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"mbgsense-api"`
	Started string `json:"started"  example:"2026-01-12T07:00:00Z"`
	Now     string `json:"now"      example:"2026-01-12T07:05:00Z"`
}

// ReadyCheck is one readiness input; only the model today
type ReadyCheck struct {
	Name   string `json:"name"   example:"model"`
	Status string `json:"status" example:"ok"` // ok pending fail skipped
	Error  string `json:"error,omitempty" example:"model unavailable"`
}

// ReadyResponse is ok, degraded (model pending) or fail
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok degraded fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-01-12T07:05:00Z"`
}

// ServiceResponse reports uptime in seconds
type ServiceResponse struct {
	Name    string `json:"name"    example:"mbgsense-api"`
	Started string `json:"started" example:"2026-01-12T07:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// ModelResponse reports the loaded artifacts and build info
type ModelResponse struct {
	Model predict.ModelInfo `json:"model"`
	Build version.BuildInfo `json:"build"`
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// swagger:route GET /meta/health Meta metaHealth
// @Summary Health check
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse "ok"
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{OK: true, Service: h.deps.ServiceName, Started: stamp(h.deps.StartedAt), Now: stamp(time.Now())}, nil
}

// modelCheck maps the loader state onto a readiness check. Load errors are reduced
// to their client message; the cause is already in the startup log
func (h *handlers) modelCheck() ReadyCheck {
	c := ReadyCheck{Name: "model", Status: "skipped"}
	if h.deps.Model == nil {
		return c
	}
	switch st, err := h.deps.Model.State(); st {
	case predict.StateReady:
		c.Status = "ok"
	case predict.StatePending:
		c.Status = "pending"
	default:
		c.Status = "fail"
		if err != nil {
			c.Error = perr.WireFrom(err).Message
		}
	}
	return c
}

// swagger:route GET /meta/ready Meta metaReady
// @Summary Readiness probe. Fails once the model failed to load
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse "ok"
// @Failure 503 {object} httpkit.Envelope "model failed to load"
// @Router /meta/ready [get]
func (h *handlers) ready(_ *http.Request) (any, error) {
	c := h.modelCheck()
	resp := ReadyResponse{Status: "ok", Checks: []ReadyCheck{c}, Now: stamp(time.Now())}
	switch c.Status {
	case "fail":
		resp.Status = "fail"
		return httpkit.Response{Status: http.StatusServiceUnavailable, Body: resp}, nil
	case "pending", "skipped":
		resp.Status = "degraded"
	}
	return resp, nil
}

// swagger:route GET /meta/version Meta metaVersion
// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(h.deps.ServiceName), nil
}

// swagger:route GET /meta/service Meta metaService
// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse "ok"
// @Router /meta/service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: stamp(h.deps.StartedAt),
		Uptime:  int64(time.Since(h.deps.StartedAt).Seconds()),
	}, nil
}

// swagger:route GET /meta/model Meta metaModel
// @Summary Loaded model artifacts and build
// @Tags Meta
// @Produce json
// @Success 200 {object} ModelResponse "ok"
// @Failure 503 {object} httpkit.Envelope "model unavailable"
// @Router /meta/model [get]
func (h *handlers) model(_ *http.Request) (any, error) {
	if h.deps.Model == nil {
		return nil, perr.Unavailablef("model unavailable")
	}
	p, err := h.deps.Model.Predictor()
	if err != nil {
		return nil, err
	}
	return ModelResponse{Model: p.Info(), Build: version.Info(h.deps.ServiceName)}, nil
}
