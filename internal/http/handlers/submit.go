package handlers

import (
	"encoding/json"
	"net/http"

	"outfit-studio-server/internal/domain"
	"outfit-studio-server/internal/generation"
	"outfit-studio-server/internal/middleware"
	"outfit-studio-server/internal/payload"
	"outfit-studio-server/internal/session"
)

type tryOnRequest struct {
	Scene        string `json:"scene"`
	WantAnalysis bool   `json:"want_analysis"`
}

// SubmitTryOn composes the session's uploaded items, the optional reference
// image and the scene text into one try-on generation.
func (a *App) SubmitTryOn(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	var req tryOnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	a.submit(w, r, sess, session.Inputs{Scene: req.Scene, WantAnalysis: req.WantAnalysis}, func() (*domain.GenerationResult, error) {
		return a.Generator.TryOn(r.Context(), generation.TryOnInput{
			Items:        sess.Items(),
			Reference:    sess.Reference(),
			Scene:        req.Scene,
			WantAnalysis: req.WantAnalysis,
			Locale:       middleware.LocaleFromContext(r.Context()),
		})
	})
}

type generateRequest struct {
	Prompt      string             `json:"prompt"`
	AspectRatio domain.AspectRatio `json:"aspect_ratio"`
}

// SubmitGenerate produces one image from a free-text prompt.
func (a *App) SubmitGenerate(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.AspectRatio == "" {
		req.AspectRatio = domain.AspectSquare
	}

	a.submit(w, r, sess, session.Inputs{Prompt: req.Prompt, AspectRatio: req.AspectRatio}, func() (*domain.GenerationResult, error) {
		return a.Generator.Generate(r.Context(), generation.GenerateInput{
			Prompt:      req.Prompt,
			AspectRatio: req.AspectRatio,
		})
	})
}

type editRequest struct {
	Instruction string `json:"instruction"`
}

// SubmitEdit applies an instruction to the current result image. The current
// artifact is captured before the submit wipes the slot, so the edit still
// has its input after the wipe.
func (a *App) SubmitEdit(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	var current *domain.EncodedImage
	if result, err := sess.Result(); err == nil {
		img := payload.WrapEncodedResult(result.Image.Data, result.Image.MIMEType)
		current = &img
	}

	a.submit(w, r, sess, session.Inputs{Instruction: req.Instruction}, func() (*domain.GenerationResult, error) {
		return a.Generator.Edit(r.Context(), generation.EditInput{
			Current:     current,
			Instruction: req.Instruction,
		})
	})
}

// submit runs one guarded generation: it moves the session into Submitting
// (wiping the pending result slot), invokes the operation, and records the
// terminal state before answering. Overlapping submits are rejected without
// touching the in-flight one.
func (a *App) submit(w http.ResponseWriter, r *http.Request, sess *session.Session, in session.Inputs, op func() (*domain.GenerationResult, error)) {
	seq, err := sess.BeginSubmit(in)
	if err != nil {
		a.fail(w, err)
		return
	}

	result, err := op()
	if err != nil {
		sess.Fail(seq, err)
		a.Logger.Warn().Err(err).Str("session_id", sess.ID).Msg("generation failed")
		a.fail(w, err)
		return
	}
	sess.Complete(seq, result)
	a.Logger.Info().
		Str("session_id", sess.ID).
		Int("image_bytes", len(result.Image.Data)).
		Bool("has_analysis", result.Analysis != "").
		Msg("generation succeeded")
	a.json(w, http.StatusOK, sess.Snapshot())
}
