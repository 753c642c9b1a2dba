// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	modkit "mbgsense/internal/modkit"
	"mbgsense/internal/modkit/httpkit"

	metahttp "mbgsense/internal/services/api/meta/http"
)

// ServiceName is reported by health, version and service
const ServiceName = "mbgsense-api"

// Ports is the optional injected model state used by ready and model
type Ports struct {
	Model metahttp.ModelState
}

// Module implements the modkit.Module interface
type Module struct {
	built     modkit.Built
	startedAt time.Time
	model     metahttp.ModelState
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	m := &Module{startedAt: time.Now()}
	opts = append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)
	opts = append(opts, modkit.WithRegister(func(r httpkit.Router) {
		metahttp.Register(r, metahttp.Deps{
			ServiceName: ServiceName,
			StartedAt:   m.startedAt,
			Model:       m.model,
		})
	}))
	m.built = modkit.Build(opts...)
	if p, ok := m.built.Ports.(Ports); ok {
		m.model = p.Model
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) { m.built.Mount(r) }

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.built.Name }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
