package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/folioforge/folioforge/internal/core"
	"github.com/folioforge/folioforge/internal/core/template_engine"
	"github.com/folioforge/folioforge/internal/models"
)

type PortfolioHandler struct {
	dbclient core.DbClient
	renderer *template_engine.Engine
	log      *zap.Logger
}

func NewPortfolioHandler(dbclient core.DbClient, renderer *template_engine.Engine, log *zap.Logger) *PortfolioHandler {
	return &PortfolioHandler{dbclient: dbclient, renderer: renderer, log: log}
}

// owned loads the portfolio and enforces ownership; it writes the 404 itself
// so callers can just return on nil.
func (h *PortfolioHandler) owned(w http.ResponseWriter, r *http.Request) *models.Portfolio {
	userID, ok := requestUserID(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return nil
	}
	p, err := h.dbclient.GetPortfolioByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil || p == nil || p.OwnerID != userID {
		http.Error(w, "portfolio not found", http.StatusNotFound)
		return nil
	}
	return p
}

func (h *PortfolioHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	portfolios, err := h.dbclient.ListPortfoliosByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, portfolios)
}

func (h *PortfolioHandler) Get(w http.ResponseWriter, r *http.Request) {
	p := h.owned(w, r)
	if p == nil {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PortfolioHandler) Publish(w http.ResponseWriter, r *http.Request) {
	p := h.owned(w, r)
	if p == nil {
		return
	}

	now := time.Now()
	if err := h.dbclient.UpdatePortfolioStatus(r.Context(), p.ID, models.PortfolioStatusPublished, &now); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": models.PortfolioStatusPublished,
		"slug":   p.Slug,
	})
}

func (h *PortfolioHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	p := h.owned(w, r)
	if p == nil {
		return
	}

	if err := h.dbclient.UpdatePortfolioStatus(r.Context(), p.ID, models.PortfolioStatusDraft, nil); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": models.PortfolioStatusDraft})
}

type changeTemplateRequest struct {
	TemplateID string `json:"template_id"`
}

// ChangeTemplate switches the portfolio to another template. The cached
// artifact is cleared in the same statement as the switch.
func (h *PortfolioHandler) ChangeTemplate(w http.ResponseWriter, r *http.Request) {
	p := h.owned(w, r)
	if p == nil {
		return
	}

	var req changeTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if !h.renderer.Registry().Has(req.TemplateID) {
		http.Error(w, "unknown template", http.StatusNotFound)
		return
	}

	if err := h.dbclient.UpdatePortfolioTemplate(r.Context(), p.ID, req.TemplateID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"template_id": req.TemplateID})
}

func (h *PortfolioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p := h.owned(w, r)
	if p == nil {
		return
	}

	if err := h.dbclient.DeletePortfolio(r.Context(), p.ID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PortfolioHandler) Iterations(w http.ResponseWriter, r *http.Request) {
	p := h.owned(w, r)
	if p == nil {
		return
	}

	iterations, err := h.dbclient.ListIterationsByPortfolio(r.Context(), p.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, iterations)
}

// Render serves the owner's portfolio as a full HTML page, using the cached
// artifact when current.
func (h *PortfolioHandler) Render(w http.ResponseWriter, r *http.Request) {
	p := h.owned(w, r)
	if p == nil {
		return
	}

	artifact, err := h.renderer.RenderPortfolio(r.Context(), p.ID)
	if err != nil {
		writeErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(artifact.HTML))
}

type previewRequest struct {
	Content    models.ContentDocument `json:"content"`
	TemplateID string                 `json:"template_id"`
}

// Preview renders submitted content without persisting anything.
func (h *PortfolioHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	artifact, err := h.renderer.RenderTransient(req.Content, req.TemplateID)
	if err != nil {
		writeErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(artifact.HTML))
}

// PublicView serves a published portfolio by owner and slug. The view count
// bump runs in the background; a miss there never blocks the page.
func (h *PortfolioHandler) PublicView(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerID")
	slug := chi.URLParam(r, "slug")

	p, err := h.dbclient.GetPublishedPortfolioBySlug(r.Context(), ownerID, slug)
	if err != nil || p == nil {
		http.Error(w, "portfolio not found", http.StatusNotFound)
		return
	}

	go func(id string) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.dbclient.IncrementViewCount(ctx, id); err != nil {
			h.log.Warn("view count increment failed", zap.String("portfolio_id", id), zap.Error(err))
		}
	}(p.ID)

	artifact, err := h.renderer.RenderPortfolio(r.Context(), p.ID)
	if err != nil {
		writeErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(artifact.HTML))
}
