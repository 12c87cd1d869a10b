package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Web routes serve HTML at / and /app/* paths.
// Static assets are served from the embedded filesystem at /static/*.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	mux.HandleFunc("GET /{$}", h.Scan)
	mux.HandleFunc("POST /app/scan", requireCSRF(h.SubmitScan))

	mux.HandleFunc("GET /app/result", h.Result)
	mux.HandleFunc("POST /app/result/dismiss", requireCSRF(h.Dismiss))

	mux.HandleFunc("GET /app/history", h.History)
	mux.HandleFunc("POST /app/history/{id}/select", requireCSRF(h.SelectRecord))
	mux.HandleFunc("POST /app/history/{id}/delete", requireCSRF(h.DeleteRecord))
	mux.HandleFunc("POST /app/history/clear", requireCSRF(h.ClearHistory))

	mux.HandleFunc("GET /app/generate", h.Generator)
	mux.HandleFunc("GET /app/generate/image", h.GeneratorImage)
	mux.HandleFunc("POST /app/generate/image", requireCSRF(h.ExportWithLogo))
}
