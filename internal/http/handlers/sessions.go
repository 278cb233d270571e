package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"outfit-studio-server/internal/domain"
	"outfit-studio-server/internal/session"
)

// SessionCreate opens a fresh session and returns its initial snapshot.
func (a *App) SessionCreate(w http.ResponseWriter, r *http.Request) {
	sess := a.Sessions.Create()
	a.Logger.Info().Str("session_id", sess.ID).Msg("session created")
	a.json(w, http.StatusCreated, sess.Snapshot())
}

// SessionGet returns the current snapshot.
func (a *App) SessionGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, sess.Snapshot())
}

// SessionReset clears all inputs and the result slot from any state and
// releases the preview handles the session owned.
func (a *App) SessionReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	for _, item := range sess.Drain() {
		a.Intake.Release(r.Context(), item)
	}
	a.json(w, http.StatusOK, sess.Snapshot())
}

// SessionDelete tears the session down immediately instead of waiting for
// TTL expiry. Its preview handles are released through the store's eviction
// hook.
func (a *App) SessionDelete(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	a.Sessions.Delete(sess.ID)
	a.Logger.Info().Str("session_id", sess.ID).Msg("session deleted")
	w.WriteHeader(http.StatusNoContent)
}

type modeRequest struct {
	Mode domain.Mode `json:"mode"`
}

// SessionSetMode switches the active workflow without touching inputs.
func (a *App) SessionSetMode(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	var req modeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := sess.SetMode(req.Mode); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, sess.Snapshot())
}

// session resolves the session named in the URL, writing the error response
// itself when the session is missing.
func (a *App) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "session_id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "session_id required")
		return nil, false
	}
	sess, err := a.Sessions.Get(id)
	if err != nil {
		a.fail(w, err)
		return nil, false
	}
	return sess, true
}
