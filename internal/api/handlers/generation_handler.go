package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/folioforge/folioforge/internal/core"
	"github.com/folioforge/folioforge/internal/core/generation_engine"
)

type GenerationHandler struct {
	dbclient  core.DbClient
	generator *generation_engine.Service
}

func NewGenerationHandler(dbclient core.DbClient, gen *generation_engine.Service) *GenerationHandler {
	return &GenerationHandler{dbclient: dbclient, generator: gen}
}

type generateRequest struct {
	Sources     []generation_engine.SourceInput `json:"sources"`
	Preferences generation_engine.Preferences   `json:"preferences"`
}

// Generate assembles a brand-new portfolio from the submitted sources.
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	summary, err := h.generator.Generate(r.Context(), userID, req.Sources, req.Preferences)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, summary)
}

type enhanceRequest struct {
	Prompt  string `json:"prompt"`
	Section string `json:"section,omitempty"`
}

// Enhance rewrites one section, or merges a whole-document revision when no
// section is named.
func (h *GenerationHandler) Enhance(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req enhanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	portfolioID := chi.URLParam(r, "id")
	// Confirm the portfolio belongs to the caller before touching it.
	p, err := h.dbclient.GetPortfolioByID(r.Context(), portfolioID)
	if err != nil || p == nil || p.OwnerID != userID {
		http.Error(w, "portfolio not found", http.StatusNotFound)
		return
	}

	change, err := h.generator.Enhance(r.Context(), portfolioID, req.Prompt, req.Section)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, change)
}
