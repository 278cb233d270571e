package handlers

import (
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

// PreviewServe returns a stored preview by its filename. Previews live only
// as long as their owning item; a released handle answers 404.
func (a *App) PreviewServe(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "preview name required")
		return
	}
	data, err := a.Previews.Read(r.Context(), "previews/"+name)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "preview not found")
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=300")
	_, _ = w.Write(data)
}

// Health reports liveness and the number of live sessions.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": a.Sessions.Count(),
	})
}
