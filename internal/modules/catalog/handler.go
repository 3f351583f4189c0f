package catalog

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Handler exposes catalog lookup and restock endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

// SKUs may contain "/" (e.g. "BEA-PRO-1/4lb"), so they travel in the query or body.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/resolve", h.resolve)  // GET  /api/v1/catalog/resolve?sku=...
		r.Post("/prepack", h.restock) // POST /api/v1/catalog/prepack
	})
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	sku := r.URL.Query().Get("sku")
	if strings.TrimSpace(sku) == "" {
		respond(w, http.StatusBadRequest, map[string]string{"error": "sku is required"})
		return
	}
	res, err := h.service.Resolve(r.Context(), sku)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !res.Found() {
		respond(w, http.StatusNotFound, map[string]string{"error": "sku " + res.SKU + " not found"})
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{
		"sku":     res.SKU,
		"kind":    res.Kind.String(),
		"product": res.Product,
		"misc":    res.Misc,
	})
}

func (h *Handler) restock(w http.ResponseWriter, r *http.Request) {
	var req RestockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.Restock(r.Context(), req)
	if err != nil {
		code := http.StatusInternalServerError
		if strings.Contains(err.Error(), "greater than zero") || strings.Contains(err.Error(), "not a bulk") {
			code = http.StatusUnprocessableEntity
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, p)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
