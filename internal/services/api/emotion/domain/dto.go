// Package domain holds the emotion API payloads and the service contract
package domain

import (
	"mbgsense/internal/core/emotion"
	"mbgsense/internal/core/keywords"
	"mbgsense/internal/core/predict"
)

// TextInput is the body of every emotion endpoint
type TextInput struct {
	Text string `json:"text" validate:"comment" example:"Programnya sangat membantu anak sekolah"`
}

// Share is one category's slice of the distribution
type Share struct {
	Key         string  `json:"key"          example:"senang"`
	Name        string  `json:"name"         example:"Senang / Optimis"`
	Icon        string  `json:"icon"         example:"😄"`
	ChartColor  string  `json:"chart_color"  example:"#5cb85c"`
	Probability float64 `json:"probability"  example:"0.87"`
	Percent     string  `json:"percent"      example:"87.00%"`
}

// Prediction is the presentation ready result
type Prediction struct {
	ID             string  `json:"id"              example:"6f1c3f0e-6b9e-4c8e-9d8b-1f0d7f0a1c2e"`
	Scheme         string  `json:"scheme"          example:"basic4"`
	Index          int     `json:"index"           example:"3"`
	Key            string  `json:"key"             example:"senang"`
	Label          string  `json:"label"           example:"Senang / Optimis"`
	Icon           string  `json:"icon"            example:"😄"`
	BgColor        string  `json:"bg_color"        example:"#d4edda"`
	TextColor      string  `json:"text_color"      example:"#155724"`
	Confidence     float64 `json:"confidence"      example:"87.1"`
	ConfidenceText string  `json:"confidence_text" example:"87.10%"`
	Method         string  `json:"method"          example:"model inference"`
	Phrase         string  `json:"phrase,omitempty"`
	// Distribution is sorted by probability, highest first
	Distribution []Share `json:"distribution"`
}

// DebugView pairs a prediction with the pipeline stages that produced it
type DebugView struct {
	Prediction Prediction    `json:"prediction"`
	Debug      predict.Debug `json:"debug"`
}

// NormalizeOutput shows what the classifier would see
type NormalizeOutput struct {
	Raw     string `json:"raw"     example:"Makanannya BASI!!! #MBG"`
	Lowered string `json:"lowered" example:"makanannya basi!!! #mbg"`
	Cleaned string `json:"cleaned" example:"makan basi"`
	Words   int    `json:"words"   example:"2"`
	Empty   bool   `json:"empty"`
}

// OverrideOutput reports whether a keyword list would force the category
type OverrideOutput struct {
	Matched bool            `json:"matched"`
	Match   *keywords.Match `json:"match,omitempty"`
	Label   *emotion.Label  `json:"label,omitempty"`
}

// LabelsOutput lists the active scheme's categories in index order
type LabelsOutput struct {
	Scheme string          `json:"scheme" example:"basic4"`
	Labels []emotion.Label `json:"labels"`
}
