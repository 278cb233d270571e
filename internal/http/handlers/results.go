package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"outfit-studio-server/pkg/zip"
)

// ResultDownload streams the current artifact with a timestamped filename.
func (a *App) ResultDownload(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	result, err := sess.Result()
	if err != nil {
		a.fail(w, err)
		return
	}

	filename := resultFilename(result.CreatedAt.Format("20060102-150405"), result.Image.MIMEType)
	w.Header().Set("Content-Type", result.Image.MIMEType)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Image.Data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(result.Image.Data)
}

// ResultBundle downloads the artifact and its analysis commentary as one
// zip file.
func (a *App) ResultBundle(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	result, err := sess.Result()
	if err != nil {
		a.fail(w, err)
		return
	}

	stamp := result.CreatedAt.Format("20060102-150405")
	entries := []zip.Entry{{Name: resultFilename(stamp, result.Image.MIMEType), Data: result.Image.Data}}
	if result.Analysis != "" {
		entries = append(entries, zip.Entry{Name: "analysis.txt", Data: []byte(result.Analysis)})
	}
	archive, err := zip.Archive(entries)
	if err != nil {
		a.Logger.Error().Err(err).Str("session_id", sess.ID).Msg("bundle failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to build bundle")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "outfit-"+stamp+".zip"))
	_, _ = w.Write(archive)
}

func resultFilename(stamp, mimeType string) string {
	ext := ".jpg"
	switch mimeType {
	case "image/png":
		ext = ".png"
	case "image/webp":
		ext = ".webp"
	}
	return "outfit-" + stamp + ext
}
