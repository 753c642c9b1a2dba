//go:build swag

// Package docs registers the OpenAPI document served under /api/docs.
// Regenerate with: swag init --v3.1 -g cmd/mbgsense-api/main.go -o internal/services/api/docs
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.1.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "servers": [{"url": "{{.BasePath}}"}],
    "paths": {
        "/emotion/predict": {
            "post": {
                "tags": ["emotion"],
                "summary": "Classify the emotion of a public comment",
                "parameters": [
                    {"name": "Accept-Language", "in": "header", "description": "en or id, selects validation message language", "schema": {"type": "string"}}
                ],
                "requestBody": {"$ref": "#/components/requestBodies/TextInput"},
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.Prediction"}}}}
                }
            }
        },
        "/emotion/debug": {
            "post": {
                "tags": ["emotion"],
                "summary": "Classify and show every pipeline stage",
                "requestBody": {"$ref": "#/components/requestBodies/TextInput"},
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.DebugView"}}}}
                }
            }
        },
        "/emotion/normalize": {
            "post": {
                "tags": ["emotion"],
                "summary": "Show the cleaned text the classifier would see",
                "requestBody": {"$ref": "#/components/requestBodies/TextInput"},
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.NormalizeOutput"}}}}
                }
            }
        },
        "/emotion/override": {
            "post": {
                "tags": ["emotion"],
                "summary": "Check the keyword override lists",
                "requestBody": {"$ref": "#/components/requestBodies/TextInput"},
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.OverrideOutput"}}}}
                }
            }
        },
        "/emotion/labels": {
            "get": {
                "tags": ["emotion"],
                "summary": "Categories of the active scheme",
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.LabelsOutput"}}}}
                }
            }
        },
        "/meta/health": {
            "get": {"tags": ["Meta"], "summary": "Health check", "responses": {"200": {"description": "ok"}}}
        },
        "/meta/ready": {
            "get": {"tags": ["Meta"], "summary": "Readiness probe. Fails once the model failed to load", "responses": {"200": {"description": "ok"}}}
        },
        "/meta/version": {
            "get": {"tags": ["Meta"], "summary": "Build and version info", "responses": {"200": {"description": "ok"}}}
        },
        "/meta/service": {
            "get": {"tags": ["Meta"], "summary": "Service info and uptime", "responses": {"200": {"description": "ok"}}}
        },
        "/meta/model": {
            "get": {"tags": ["Meta"], "summary": "Loaded model artifacts and build", "responses": {"200": {"description": "ok"}}}
        }
    },
    "components": {
        "requestBodies": {
            "TextInput": {
                "description": "Comment",
                "required": true,
                "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.TextInput"}}}
            }
        },
        "schemas": {
            "domain.TextInput": {
                "type": "object",
                "required": ["text"],
                "properties": {"text": {"type": "string", "maxLength": 5000, "example": "Programnya sangat membantu anak sekolah"}}
            },
            "domain.Share": {
                "type": "object",
                "properties": {
                    "key": {"type": "string", "example": "senang"},
                    "name": {"type": "string", "example": "Senang / Optimis"},
                    "icon": {"type": "string"},
                    "chart_color": {"type": "string", "example": "#5cb85c"},
                    "probability": {"type": "number", "example": 0.87},
                    "percent": {"type": "string", "example": "87.00%"}
                }
            },
            "domain.Prediction": {
                "type": "object",
                "properties": {
                    "id": {"type": "string"},
                    "scheme": {"type": "string", "example": "basic4"},
                    "index": {"type": "integer", "example": 3},
                    "key": {"type": "string", "example": "senang"},
                    "label": {"type": "string", "example": "Senang / Optimis"},
                    "icon": {"type": "string"},
                    "bg_color": {"type": "string", "example": "#d4edda"},
                    "text_color": {"type": "string", "example": "#155724"},
                    "confidence": {"type": "number", "example": 87.1},
                    "confidence_text": {"type": "string", "example": "87.10%"},
                    "method": {"type": "string", "enum": ["model inference", "keyword override"]},
                    "phrase": {"type": "string"},
                    "distribution": {"type": "array", "items": {"$ref": "#/components/schemas/domain.Share"}}
                }
            },
            "domain.DebugView": {
                "type": "object",
                "properties": {
                    "prediction": {"$ref": "#/components/schemas/domain.Prediction"},
                    "debug": {"type": "object"}
                }
            },
            "domain.NormalizeOutput": {
                "type": "object",
                "properties": {
                    "raw": {"type": "string"},
                    "lowered": {"type": "string"},
                    "cleaned": {"type": "string"},
                    "words": {"type": "integer"},
                    "empty": {"type": "boolean"}
                }
            },
            "domain.OverrideOutput": {
                "type": "object",
                "properties": {
                    "matched": {"type": "boolean"},
                    "match": {"type": "object"},
                    "label": {"type": "object"}
                }
            },
            "domain.LabelsOutput": {
                "type": "object",
                "properties": {
                    "scheme": {"type": "string", "example": "basic4"},
                    "labels": {"type": "array", "items": {"type": "object"}}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	BasePath:         "/api/v1",
	Title:            "MBG Sense API",
	Description:      "Emotion classification for public comments on the free meal program",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
