// Package emotion defines the emotion label schemes shared by the keyword
// override engine and the classifier. Both must resolve indices against the
// same Scheme or predictions will be mislabeled
package emotion

import (
	"fmt"
	"strings"
)

// Label is one emotion category with its presentation attributes
type Label struct {
	Index      int    `json:"index"`
	Key        string `json:"key"`
	Name       string `json:"name"`
	Icon       string `json:"icon"`
	BgColor    string `json:"bg_color"`
	TextColor  string `json:"text_color"`
	ChartColor string `json:"chart_color"`
}

// Scheme is an ordered label set; the classifier output index i maps to Labels[i]
type Scheme struct {
	Name   string
	Labels []Label
	byKey  map[string]int
}

// Known scheme names
const (
	Basic4    = "basic4"
	Extended6 = "extended6"
)

// label presets keyed by category key
var presets = map[string]Label{
	"marah":   {Key: "marah", Name: "Marah / Kecewa", Icon: "😡", BgColor: "#f8d7da", TextColor: "#721c24", ChartColor: "#d9534f"},
	"netral":  {Key: "netral", Name: "Netral / Datar", Icon: "😐", BgColor: "#e2e3e5", TextColor: "#383d41", ChartColor: "#777777"},
	"sedih":   {Key: "sedih", Name: "Sedih / Cemas", Icon: "😢", BgColor: "#cce5ff", TextColor: "#004085", ChartColor: "#5bc0de"},
	"senang":  {Key: "senang", Name: "Senang / Optimis", Icon: "😄", BgColor: "#d4edda", TextColor: "#155724", ChartColor: "#5cb85c"},
	"cemas":   {Key: "cemas", Name: "Cemas / Khawatir", Icon: "😟", BgColor: "#fff3cd", TextColor: "#856404", ChartColor: "#f0ad4e"},
	"optimis": {Key: "optimis", Name: "Optimis / Berharap", Icon: "🤩", BgColor: "#d1ecf1", TextColor: "#0c5460", ChartColor: "#17a2b8"},
}

// alphabetical order matches the label encoder used at training time
var schemeKeys = map[string][]string{
	Basic4:    {"marah", "netral", "sedih", "senang"},
	Extended6: {"cemas", "marah", "netral", "optimis", "sedih", "senang"},
}

// Names returns the supported scheme names in a stable order
func Names() []string { return []string{Basic4, Extended6} }

// Lookup returns the named scheme. An empty name selects Basic4
func Lookup(name string) (*Scheme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = Basic4
	}
	keys, ok := schemeKeys[name]
	if !ok {
		return nil, fmt.Errorf("emotion: unknown scheme %q (want one of %s)", name, strings.Join(Names(), ", "))
	}
	return build(name, keys), nil
}

// MustLookup is Lookup that panics on an unknown name
func MustLookup(name string) *Scheme {
	s, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return s
}

func build(name string, keys []string) *Scheme {
	s := &Scheme{Name: name, Labels: make([]Label, len(keys)), byKey: make(map[string]int, len(keys))}
	for i, k := range keys {
		l := presets[k]
		l.Index = i
		s.Labels[i] = l
		s.byKey[k] = i
	}
	return s
}

// Size is the number of categories
func (s *Scheme) Size() int { return len(s.Labels) }

// Index resolves a category key to its index
func (s *Scheme) Index(key string) (int, bool) {
	i, ok := s.byKey[strings.ToLower(strings.TrimSpace(key))]
	return i, ok
}

// Label returns the label at index i
func (s *Scheme) Label(i int) (Label, bool) {
	if i < 0 || i >= len(s.Labels) {
		return Label{}, false
	}
	return s.Labels[i], true
}

// Keys lists category keys in index order
func (s *Scheme) Keys() []string {
	out := make([]string, len(s.Labels))
	for i, l := range s.Labels {
		out[i] = l.Key
	}
	return out
}
