// Package module wires emotion classification into the API using modkit
package module

import (
	modkit "mbgsense/internal/modkit"
	"mbgsense/internal/modkit/httpkit"
	"mbgsense/internal/services/api/emotion/domain"

	ehttp "mbgsense/internal/services/api/emotion/http"
	esvc "mbgsense/internal/services/api/emotion/service"
	predictor "mbgsense/internal/services/predictor/module"
)

// Module implements the emotion API module
type Module struct {
	built modkit.Built
	svc   esvc.Service
}

// Ports declares what this module needs injected from the predictor module
type Ports = predictor.Ports

// New constructs the emotion module. The predictor ports must be injected with modkit.WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	m := &Module{}
	opts = append([]modkit.Option{
		modkit.WithName("emotion"),
		modkit.WithPrefix("/emotion"),
	}, opts...)
	opts = append(opts, modkit.WithRegister(func(r httpkit.Router) { ehttp.Register(r, m.svc) }))
	m.built = modkit.Build(opts...)

	injected, ok := m.built.Ports.(Ports)
	if !ok || injected.Predictor == nil {
		panic("emotion API module requires predictor Ports")
	}
	m.svc = esvc.New(esvc.Options{
		Predictor:  injected.Predictor,
		Normalizer: injected.Normalizer,
		Keywords:   injected.Keywords,
	})
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) { m.built.Mount(r) }

// Name returns the module name
func (m *Module) Name() string { return m.built.Name }

// Ports exposes the service for cross module use
func (m *Module) Ports() any { return domain.ServicePort(m.svc) }
