// Package swaggerkit serves the swagger UI and a doc.json patched with the runtime error envelope
package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"
)

// SpecMutator lets modules tweak the parsed spec before it is served
type SpecMutator func(map[string]any)

var mutators []SpecMutator

// Register adds a spec mutator. Call it from module init
func Register(m SpecMutator) {
	if m != nil {
		mutators = append(mutators, m)
	}
}

// defaults lists the error responses every operation documents unless it already says otherwise
var defaults = []struct {
	code    string
	desc    string
	example map[string]any
}{
	{"400", "Bad Request", map[string]any{
		"status_code": 400, "status": "Bad Request", "code": 3,
		"error": "text wajib diisi", "field": "text", "request_id": "host/abc-000001",
	}},
	{"500", "Internal Server Error", map[string]any{
		"status_code": 500, "status": "Internal Server Error", "code": 1,
		"error": "internal error", "request_id": "host/abc-000001",
	}},
	{"503", "Service Unavailable", map[string]any{
		"status_code": 503, "status": "Service Unavailable", "code": 2,
		"error": "model unavailable", "request_id": "host/abc-000001",
	}},
}

// patch normalizes raw into OAS 3.0.3 with servers, the ErrorResponse schema and default
// error responses, then runs the registered mutators
func patch(raw, serverURL, titleSuffix string) ([]byte, error) {
	var spec map[string]any
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		return nil, err
	}

	// the UI can't render 3.1 yet
	if _, ok := spec["swagger"]; ok {
		delete(spec, "swagger")
		spec["openapi"] = "3.0.3"
	}
	if v, ok := spec["openapi"].(string); !ok || strings.HasPrefix(v, "3.1") {
		spec["openapi"] = "3.0.3"
	}
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": serverURL}}
	}
	if titleSuffix != "" {
		if info, ok := spec["info"].(map[string]any); ok {
			if title, ok := info["title"].(string); ok {
				info["title"] = title + " " + titleSuffix
			}
		}
	}

	schemas := child(child(spec, "components"), "schemas")
	if _, ok := schemas["ErrorResponse"]; !ok {
		schemas["ErrorResponse"] = map[string]any{
			"type": "object",
			"properties": map[string]any{
				"status_code": map[string]any{"type": "integer", "format": "int32"},
				"status":      map[string]any{"type": "string"},
				"code":        map[string]any{"type": "integer", "format": "int32"},
				"error":       map[string]any{"type": "string"},
				"field":       map[string]any{"type": "string"},
				"request_id":  map[string]any{"type": "string"},
			},
			"required": []any{"status_code", "status"},
		}
	}

	paths, _ := spec["paths"].(map[string]any)
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			resps := child(op, "responses")
			for _, d := range defaults {
				if _, exists := resps[d.code]; exists {
					continue
				}
				resps[d.code] = map[string]any{
					"description": d.desc,
					"content": map[string]any{
						"application/json": map[string]any{
							"schema":  map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
							"example": d.example,
						},
					},
				}
			}
		}
	}

	for _, m := range mutators {
		m(spec)
	}
	return json.Marshal(spec)
}

func child(m map[string]any, key string) map[string]any {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = map[string]any{}
		m[key] = c
	}
	return c
}

func serveDocJSON(serverURL, titleSuffix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := patch(docReader(), serverURL, titleSuffix)
		if err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(body)
	}
}
