// Package modkit provides module wiring and core deps
package modkit

import (
	"net/http"
	"strings"

	"mbgsense/internal/platform/config"
	"mbgsense/internal/platform/logger"
	phttp "mbgsense/internal/platform/net/http"
)

// Module is the common surface for API modules that can mount routes and expose ports
// keep this tiny so modules stay decoupled
type Module interface {
	// MountRoutes mounts HTTP routes under the provided router seam
	MountRoutes(r phttp.Router)
	// Ports returns a module specific port set for cross wiring
	Ports() any
	Name() string
}

// Deps holds core dependencies passed to modules
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
}

// Option mutates build configuration for a module
type Option func(*Built)

// Built is the resolved module configuration
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any

	register func(phttp.Router)
}

// WithName sets a module name used in logs and registry
func WithName(name string) Option {
	return func(b *Built) { b.Name = name }
}

// WithPrefix mounts a module under a path prefix. "emotion", "/emotion/" and "/emotion" are the same
func WithPrefix(prefix string) Option {
	return func(b *Built) {
		p := strings.Trim(strings.TrimSpace(prefix), "/")
		if p == "" {
			b.Prefix = ""
			return
		}
		b.Prefix = "/" + p
	}
}

// WithMiddlewares attaches per module middleware in order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// WithPorts injects cross module ports declared by another module
func WithPorts[T any](p T) Option {
	return func(b *Built) { b.Ports = p }
}

// WithRegister sets the function that attaches endpoints to the module router
func WithRegister(fn func(phttp.Router)) Option {
	return func(b *Built) { b.register = fn }
}

// Build applies opts in order
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	b.Mw = append([]func(http.Handler) http.Handler(nil), b.Mw...)
	return b
}

// Mount registers the module endpoints on r, under Prefix when set.
// Middleware is scoped to the module either way
func (b Built) Mount(r phttp.Router) {
	if b.register == nil {
		return
	}
	attach := func(sub phttp.Router) {
		if len(b.Mw) > 0 {
			sub.Use(b.Mw...)
		}
		b.register(sub)
	}
	if b.Prefix == "" {
		r.Group(attach)
		return
	}
	r.Route(b.Prefix, attach)
}
