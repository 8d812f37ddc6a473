// Package template_engine renders content documents through named templates
// into self-contained HTML/CSS/JS artifacts.
package template_engine

import (
	"fmt"
	"html/template"
)

// Config is a template's customization block.
type Config struct {
	DefaultColorScheme string   `json:"default_color_scheme"`
	Toggles            []string `json:"toggles,omitempty"`
}

// Definition is one registered template: a compiled body template plus its
// static CSS and JS and descriptive metadata. Definitions are read-only
// after registry construction.
type Definition struct {
	ID          string
	Name        string
	Description string
	Features    []string
	IsPremium   bool
	Body        *template.Template
	CSS         string
	JS          string
	Config      Config
}

// TemplateInfo is the listing view of a definition.
type TemplateInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	IsPremium   bool     `json:"is_premium"`
}

// Registry holds every template definition. It is populated once at startup
// and never mutated afterwards; construct it with NewRegistry and share it
// freely across requests.
type Registry struct {
	byID  map[string]*Definition
	order []string
}

// NewRegistry compiles the built-in templates. A compile failure is a
// programming error and fails startup.
func NewRegistry() (*Registry, error) {
	r := &Registry{byID: make(map[string]*Definition)}
	for _, build := range []func() (*Definition, error){
		newMinimalTemplate,
		newModernTemplate,
		newCreativeTemplate,
	} {
		def, err := build()
		if err != nil {
			return nil, err
		}
		if _, dup := r.byID[def.ID]; dup {
			return nil, fmt.Errorf("duplicate template id %q", def.ID)
		}
		r.byID[def.ID] = def
		r.order = append(r.order, def.ID)
	}
	return r, nil
}

// Get returns the definition for id, or nil when unregistered.
func (r *Registry) Get(id string) *Definition {
	return r.byID[id]
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// DefaultID is the template used when a request does not name one.
func (r *Registry) DefaultID() string {
	return "minimal"
}

// List returns template metadata in registration order.
func (r *Registry) List() []TemplateInfo {
	out := make([]TemplateInfo, 0, len(r.order))
	for _, id := range r.order {
		d := r.byID[id]
		out = append(out, TemplateInfo{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			Features:    d.Features,
			IsPremium:   d.IsPremium,
		})
	}
	return out
}

var bodyFuncs = template.FuncMap{
	"oddIndex": func(i int) bool { return i%2 == 1 },
}

func compileBody(id, body string) (*template.Template, error) {
	t, err := template.New(id).Funcs(bodyFuncs).Parse(body)
	if err != nil {
		return nil, fmt.Errorf("compile template %q: %w", id, err)
	}
	return t, nil
}
