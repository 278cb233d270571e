package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"outfit-studio-server/internal/upload"
)

// maxUploadMemory is the in-memory budget for parsing a multipart upload;
// larger parts spill to temporary files.
const maxUploadMemory = 32 << 20

// maxUploadRequestBytes caps the whole multipart request body.
const maxUploadRequestBytes = 128 << 20

// UploadItems accepts one or more outfit item files under the "files" field
// and appends them to the session's item list in input order.
func (a *App) UploadItems(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	files, closeFiles, ok := a.multipartFiles(w, r, "files")
	if !ok {
		return
	}
	defer closeFiles()
	items, err := a.Intake.AddItems(r.Context(), files)
	if err != nil {
		a.fail(w, err)
		return
	}
	sess.AppendItems(items...)
	a.json(w, http.StatusCreated, sess.Snapshot())
}

// UploadReference replaces the single reference image with the first file of
// the upload. Additional files are ignored; an empty upload keeps the
// current reference.
func (a *App) UploadReference(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	files, closeFiles, ok := a.multipartFiles(w, r, "files")
	if !ok {
		return
	}
	defer closeFiles()
	ref, err := a.Intake.SetSingleReference(r.Context(), sess.Reference(), files)
	if err != nil {
		a.fail(w, err)
		return
	}
	sess.SetReference(ref)
	a.json(w, http.StatusOK, sess.Snapshot())
}

// UploadRemove deletes one item by ID and releases its preview. An unknown
// ID leaves the session unchanged.
func (a *App) UploadRemove(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	itemID := chi.URLParam(r, "item_id")
	if itemID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "item_id required")
		return
	}
	if item, removed := sess.RemoveItem(itemID); removed {
		a.Intake.Release(r.Context(), item)
	}
	a.json(w, http.StatusOK, sess.Snapshot())
}

// multipartFiles parses the request and adapts the named multipart field into
// intake files. The returned close func releases the part readers; callers
// must defer it and keep it pending until the intake has consumed the files,
// because parts that spilled past the memory budget are backed by temporary
// files that become unreadable once closed.
func (a *App) multipartFiles(w http.ResponseWriter, r *http.Request, field string) ([]upload.File, func(), bool) {
	noop := func() {}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadRequestBytes)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return nil, noop, false
	}
	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		headers = r.MultipartForm.File[field]
	}
	if len(headers) == 0 {
		return nil, noop, true
	}
	opened := make([]multipart.File, 0, len(headers))
	closeFiles := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}
	files := make([]upload.File, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			closeFiles()
			a.error(w, http.StatusBadRequest, "read_failed", "could not open uploaded file "+h.Filename)
			return nil, noop, false
		}
		opened = append(opened, f)
		files = append(files, upload.File{
			Filename: h.Filename,
			Reader:   f,
			MIMEType: h.Header.Get("Content-Type"),
		})
	}
	return files, closeFiles, true
}
