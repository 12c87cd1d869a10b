// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/scanmaster/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/scanmaster/internal/application"
	"github.com/ericfisherdev/scanmaster/internal/domain/model"
)

// pendingRefresh is how often the result page reloads while an annotation is
// outstanding.
const pendingRefresh = 2

// maxLogoBytes bounds an uploaded logo image.
const maxLogoBytes = 2 << 20

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	session   *application.ScanSession
	generator *application.GeneratorService
	now       func() time.Time
	logger    *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(session *application.ScanSession, generator *application.GeneratorService, logger *slog.Logger) *Handler {
	return &Handler{
		session:   session,
		generator: generator,
		now:       time.Now,
		logger:    logger,
	}
}

// Scan renders the scanner page.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	token := csrfToken(w, r)
	h.renderPage(w, r, templates.Page{Title: "Scan", Active: "scan"}, templates.ScanPage(token))
}

// SubmitScan records manually entered text as if it had been decoded.
func (h *Handler) SubmitScan(w http.ResponseWriter, r *http.Request) {
	text := r.FormValue("text")
	if text == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.session.RecordScan(r.Context(), text, model.DecoderMetadata{FormatName: r.FormValue("format_name")})
	http.Redirect(w, r, "/app/result", http.StatusSeeOther)
}

// Result renders the record on display, or returns to the scanner when there
// is none.
func (h *Handler) Result(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.session.Current()
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	pending := h.session.IsPending(rec.ID)
	page := templates.Page{Title: "Result", Active: "scan"}
	if pending {
		page.RefreshSeconds = pendingRefresh
	}

	token := csrfToken(w, r)
	h.renderPage(w, r, page, templates.ResultPage(toResultViewModel(rec, pending), token))
}

// Dismiss closes the result view and returns to the scanner.
func (h *Handler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.session.Dismiss()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// History renders the scan history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	token := csrfToken(w, r)
	v := toHistoryViewModel(h.session.History(), h.now())
	h.renderPage(w, r, templates.Page{Title: "History", Active: "history"}, templates.HistoryPage(v, token))
}

// SelectRecord puts a history entry on display.
func (h *Handler) SelectRecord(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.session.Select(r.PathValue("id")); !ok {
		http.Error(w, "scan not found", http.StatusNotFound)
		return
	}
	http.Redirect(w, r, "/app/result", http.StatusSeeOther)
}

// DeleteRecord removes one history entry.
func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.session.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to persist scan deletion", "id", id, "error", err)
	}
	http.Redirect(w, r, "/app/history", http.StatusSeeOther)
}

// ClearHistory deletes every history entry.
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Clear(r.Context()); err != nil {
		h.logger.Error("failed to persist history clear", "error", err)
	}
	http.Redirect(w, r, "/app/history", http.StatusSeeOther)
}

// Generator renders the code generator form.
func (h *Handler) Generator(w http.ResponseWriter, r *http.Request) {
	form := parseGeneratorForm(r.URL.Query())
	encoded, hasContent := h.generator.Encode(form.Draft)

	palettes, err := model.Palettes()
	if err != nil {
		h.logger.Error("failed to load palettes", "error", err)
	}

	token := csrfToken(w, r)
	v := toGeneratorViewModel(form, encoded, hasContent, palettes)
	h.renderPage(w, r, templates.Page{Title: "Create", Active: "generate"}, templates.GeneratorPage(v, token))
}

// GeneratorImage renders the generator preview. With download=1 the image is
// served as an attachment and an empty draft is rejected.
func (h *Handler) GeneratorImage(w http.ResponseWriter, r *http.Request) {
	form := parseGeneratorForm(r.URL.Query())
	h.writeCode(w, r, form, r.URL.Query().Get("download") == "1")
}

// ExportWithLogo renders the posted draft with an uploaded logo in the centre
// and serves it as an attachment.
func (h *Handler) ExportWithLogo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxLogoBytes); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := parseGeneratorForm(r.PostForm)

	file, _, err := r.FormFile("logo")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		// The logo is optional.
	case err != nil:
		http.Error(w, "invalid logo upload", http.StatusBadRequest)
		return
	default:
		defer file.Close()
		logo, err := io.ReadAll(io.LimitReader(file, maxLogoBytes+1))
		if err != nil {
			http.Error(w, "invalid logo upload", http.StatusBadRequest)
			return
		}
		if len(logo) > maxLogoBytes {
			http.Error(w, "logo too large", http.StatusRequestEntityTooLarge)
			return
		}
		form.Style.Logo = logo
	}

	h.writeCode(w, r, form, true)
}

// writeCode renders form as an image. Downloads are served as attachments and
// reject an empty draft.
func (h *Handler) writeCode(w http.ResponseWriter, r *http.Request, form generatorForm, download bool) {
	render := h.generator.Preview
	if download {
		render = h.generator.Export
	}
	code, err := render(r.Context(), form.Draft, form.Style, form.Format)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrNothingToEncode),
			errors.Is(err, application.ErrInvalidStyle),
			errors.Is(err, application.ErrUnsupportedFormat),
			errors.Is(err, application.ErrPayloadTooLong),
			errors.Is(err, application.ErrInvalidLogo):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("failed to render code", "kind", form.Draft.Kind, "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", code.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	if download {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", code.FileName))
	}
	_, _ = w.Write(code.Image)
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, page templates.Page, body templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Layout(page, body).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "page", page.Title, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
