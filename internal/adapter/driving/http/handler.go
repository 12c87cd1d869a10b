// Package httphandler serves the JSON REST API.
package httphandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/scanmaster/internal/application"
	"github.com/ericfisherdev/scanmaster/internal/domain/model"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	session   *application.ScanSession
	generator *application.GeneratorService
	logger    *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(session *application.ScanSession, generator *application.GeneratorService, logger *slog.Logger) *Handler {
	return &Handler{
		session:   session,
		generator: generator,
		logger:    logger,
	}
}

// RegisterAPIRoutes registers every /api/v1 route on mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/health", h.Health)

	mux.HandleFunc("POST /api/v1/scans", requireJSON(h.RecordScan))
	mux.HandleFunc("GET /api/v1/scans", h.ListScans)
	mux.HandleFunc("DELETE /api/v1/scans", h.ClearScans)
	mux.HandleFunc("GET /api/v1/scans/{id}", h.GetScan)
	mux.HandleFunc("DELETE /api/v1/scans/{id}", h.DeleteScan)

	mux.HandleFunc("GET /api/v1/session", h.GetSession)
	mux.HandleFunc("POST /api/v1/session/select/{id}", h.SelectScan)
	mux.HandleFunc("POST /api/v1/session/dismiss", h.DismissScan)

	mux.HandleFunc("POST /api/v1/classify", requireJSON(h.Classify))
	mux.HandleFunc("POST /api/v1/encode", requireJSON(h.Encode))
	mux.HandleFunc("POST /api/v1/generate", requireJSON(h.Generate))
	mux.HandleFunc("GET /api/v1/palettes", h.ListPalettes)
}

// NewServeMux creates an http.Handler serving only the API routes, wrapped
// with the standard middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIRoutes(mux, h)
	return ApplyMiddleware(mux, logger)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// RecordScan is the decoder callback. It answers 201 with the new record, or
// 200 with the record on display when the decode repeats it.
func (h *Handler) RecordScan(w http.ResponseWriter, r *http.Request) {
	var req RecordScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	rec, created := h.session.RecordScan(r.Context(), req.Text, model.DecoderMetadata{FormatName: req.FormatName})

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, toScanResponse(rec, h.session.IsPending(rec.ID)))
}

// ListScans returns the scan history, newest first.
func (h *Handler) ListScans(w http.ResponseWriter, _ *http.Request) {
	records := h.session.History()
	resp := make([]ScanResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, toScanResponse(rec, h.session.IsPending(rec.ID)))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetScan returns one history entry with its classified payload.
func (h *Handler) GetScan(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, ok := h.session.Record(id)
	if !ok {
		writeError(w, http.StatusNotFound, "scan not found")
		return
	}
	writeJSON(w, http.StatusOK, toScanResponse(rec, h.session.IsPending(id)))
}

// DeleteScan removes one history entry. Unknown ids are a no-op.
func (h *Handler) DeleteScan(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.session.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to persist scan deletion", "id", id, "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearScans empties the scan history.
func (h *Handler) ClearScans(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Clear(r.Context()); err != nil {
		h.logger.Error("failed to persist history clear", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSession returns the record on display, if any.
func (h *Handler) GetSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.sessionResponse())
}

// SelectScan puts a history entry on display.
func (h *Handler) SelectScan(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.session.Select(r.PathValue("id")); !ok {
		writeError(w, http.StatusNotFound, "scan not found")
		return
	}
	writeJSON(w, http.StatusOK, h.sessionResponse())
}

// DismissScan closes the record on display.
func (h *Handler) DismissScan(w http.ResponseWriter, _ *http.Request) {
	h.session.Dismiss()
	w.WriteHeader(http.StatusNoContent)
}

// Classify returns the structured view of arbitrary text without recording it.
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, toPayloadResponse(req.Text))
}

// Encode returns the text payload for a generator draft.
func (h *Handler) Encode(w http.ResponseWriter, r *http.Request) {
	var req EncodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Draft.Kind.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown draft kind %q", req.Draft.Kind))
		return
	}

	data, ok := h.generator.Encode(req.Draft)
	writeJSON(w, http.StatusOK, EncodeResponse{Payload: data, HasContent: ok})
}

// Generate renders a draft as an image download.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Draft.Kind.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown draft kind %q", req.Draft.Kind))
		return
	}

	render := h.generator.Export
	if req.Preview {
		render = h.generator.Preview
	}
	code, err := render(r.Context(), req.Draft, req.Style, req.Format)
	if err != nil {
		if isInputError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to render code", "kind", req.Draft.Kind, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeImage(w, code)
}

// ListPalettes returns the built-in colour presets.
func (h *Handler) ListPalettes(w http.ResponseWriter, _ *http.Request) {
	palettes, err := model.Palettes()
	if err != nil {
		h.logger.Error("failed to load palettes", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, palettes)
}

func (h *Handler) sessionResponse() SessionResponse {
	rec, ok := h.session.Current()
	if !ok {
		return SessionResponse{}
	}
	resp := toScanResponse(rec, h.session.IsPending(rec.ID))
	return SessionResponse{Current: &resp}
}

func isInputError(err error) bool {
	return errors.Is(err, application.ErrNothingToEncode) ||
		errors.Is(err, application.ErrInvalidStyle) ||
		errors.Is(err, application.ErrUnsupportedFormat) ||
		errors.Is(err, application.ErrPayloadTooLong) ||
		errors.Is(err, application.ErrInvalidLogo)
}

// writeImage sends a rendered code as a file download.
func writeImage(w http.ResponseWriter, code application.GeneratedCode) {
	w.Header().Set("Content-Type", code.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", code.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(code.Image)
}

