// Package config reads application settings from prefix-namespaced environment variables.
// May* accessors fall back to a default and warn on malformed values. MustFile, MayFile and
// MayEnum panic through the logger instead, since a wrong path or scheme name must stop startup
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"mbgsense/internal/platform/logger"
)

// Conf is a namespaced view over environment variables (e.g., "CORE_API_", "CORE_MODEL_")
type Conf struct{ prefix string }

// New creates a root Conf (no prefix)
func New() Conf { return Conf{} }

// Prefix creates a child Conf with an additional prefix, e.g. cfg.Prefix("MODEL_")
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// key composes the fully-qualified env var name
func (c Conf) key(k string) string { return c.prefix + k }

// get returns the qualified key and its trimmed value
func (c Conf) get(key string) (string, string) {
	k := c.key(key)
	return k, strings.TrimSpace(os.Getenv(k))
}

func (c Conf) must(key string) (string, string) {
	k, v := c.get(key)
	if v == "" {
		logger.Get().Panic().Str("key", k).Msg("missing required env")
	}
	return k, v
}

func invalid(k, v, what string) {
	logger.Get().Panic().Str("key", k).Str("value", v).Msg("invalid " + what)
}

func fallback(k, v, what string, def any) {
	logger.Get().Warn().Str("key", k).Str("value", v).Interface("default", def).Msg("invalid " + what + "; using default")
}

// MustFile panics unless the key names an existing regular file. Returns the cleaned path
func (c Conf) MustFile(key string) string {
	k, s := c.must(key)
	p := filepath.Clean(s)
	if fi, err := os.Stat(p); err != nil || fi.IsDir() {
		invalid(k, s, "file path; not found or a directory")
	}
	return p
}

// MayString returns the value or def if missing/empty
func (c Conf) MayString(key, def string) string {
	if _, v := c.get(key); v != "" {
		return v
	}
	return def
}

// MayInt returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayInt(key string, def int) int {
	k, s := c.get(key)
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	fallback(k, s, "int", def)
	return def
}

// MayBool returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayBool(key string, def bool) bool {
	k, s := c.get(key)
	if s == "" {
		return def
	}
	if v, err := strconv.ParseBool(s); err == nil {
		return v
	}
	fallback(k, s, "bool", def)
	return def
}

// MayDuration returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	k, s := c.get(key)
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	fallback(k, s, "duration", def)
	return def
}

// MayPort accepts "4000" or ":4000" and returns an addr; def when missing or invalid
func (c Conf) MayPort(key, def string) string {
	k, s := c.get(key)
	if s == "" {
		return def
	}
	if addr, ok := portAddr(s); ok {
		return addr
	}
	fallback(k, s, "port", def)
	return def
}

// MayFile returns a cleaned path when the key is set, "" otherwise. A set path that
// does not name an existing file panics; a typo must not silently select defaults
func (c Conf) MayFile(key string) string {
	if _, s := c.get(key); s == "" {
		return ""
	}
	return c.MustFile(key)
}

// MayCSV returns a slice of strings from a comma-separated env var; def if missing/empty
func (c Conf) MayCSV(key string, def []string) []string {
	_, s := c.get(key)
	if s == "" {
		return def
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum ensures value is one of allowed; returns def if empty; panics if invalid.
// The returned value is the matching entry of allowed, so callers can switch on it
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return a
		}
	}
	logger.Get().Panic().Str("key", c.key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return "" // unreachable
}

func portAddr(s string) (string, bool) {
	s = strings.TrimPrefix(s, ":")
	p, err := strconv.Atoi(s)
	if err != nil || p < 1 || p > 65535 {
		return "", false
	}
	return ":" + s, true
}
