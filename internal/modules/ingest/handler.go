package ingest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/seedhouse-backend/internal/logger"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/order"
)

// Handler exposes the ingestion and reprocess endpoints.
type Handler struct {
	service   Service
	log       logger.Logger
	maxUpload int64
}

func NewHandler(service Service, log logger.Logger, maxUploadMB int) *Handler {
	return &Handler{service: service, log: log, maxUpload: int64(maxUploadMB) << 20}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/ingest", func(r chi.Router) {
		r.Post("/orders", h.ingest) // POST /api/v1/ingest/orders?dry_run=true
	})
	r.Get("/api/v1/orders/{number}/worklists", h.reprocess)
}

func (h *Handler) ingest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart upload: " + err.Error()})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "file is required"})
		return
	}
	defer file.Close()

	dryRun, _ := strconv.ParseBool(r.FormValue("dry_run"))
	res, err := h.service.Ingest(r.Context(), Upload{
		Filename: header.Filename,
		Body:     file,
		DryRun:   dryRun,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	code := http.StatusCreated
	if dryRun {
		code = http.StatusOK
	}
	respond(w, code, res)
}

func (h *Handler) reprocess(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Reprocess(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, res)
}

// fail maps pipeline errors to status codes. Unexpected errors are logged
// and answered with a generic message.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	var cerr *ConflictError
	switch {
	case errors.As(err, &verr):
		code := http.StatusBadRequest
		if len(verr.UnresolvedSKUs) > 0 {
			code = http.StatusUnprocessableEntity
		}
		respond(w, code, verr)
	case errors.As(err, &cerr):
		respond(w, http.StatusConflict, map[string]interface{}{
			"error":         cerr.Error(),
			"order_numbers": cerr.OrderNumbers,
		})
	case errors.Is(err, order.ErrNotFound):
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		h.log.WithContext(r.Context()).Error("ingestion request failed",
			logger.String("path", r.URL.Path), logger.Error(err))
		respond(w, http.StatusInternalServerError, map[string]string{"error": "internal error; nothing was saved"})
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
