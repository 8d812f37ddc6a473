package handlers

import (
	"net/http"

	"github.com/folioforge/folioforge/internal/core/template_engine"
)

type TemplateHandler struct {
	renderer *template_engine.Engine
}

func NewTemplateHandler(renderer *template_engine.Engine) *TemplateHandler {
	return &TemplateHandler{renderer: renderer}
}

func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.renderer.ListTemplates())
}
