// Package handlers exposes the session, upload and generation operations
// over HTTP. Handlers translate wire requests into core calls and map the
// error taxonomy onto status codes; they hold no state of their own.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"outfit-studio-server/internal/domain"
	"outfit-studio-server/internal/generation"
	"outfit-studio-server/internal/infra"
	"outfit-studio-server/internal/session"
	"outfit-studio-server/internal/storage"
	"outfit-studio-server/internal/upload"
)

// Generator is the slice of the orchestrator the handlers call. Tests stub it.
type Generator interface {
	TryOn(ctx context.Context, in generation.TryOnInput) (*domain.GenerationResult, error)
	Generate(ctx context.Context, in generation.GenerateInput) (*domain.GenerationResult, error)
	Edit(ctx context.Context, in generation.EditInput) (*domain.GenerationResult, error)
}

type App struct {
	Config    *infra.Config
	Logger    zerolog.Logger
	Sessions  *session.Store
	Intake    *upload.Intake
	Generator Generator
	Previews  *storage.FileStore
}

func NewApp(cfg *infra.Config, logger zerolog.Logger, sessions *session.Store, intake *upload.Intake, generator Generator, previews *storage.FileStore) *App {
	return &App{
		Config:    cfg,
		Logger:    logger,
		Sessions:  sessions,
		Intake:    intake,
		Generator: generator,
		Previews:  previews,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}

// fail maps a core error onto its HTTP representation.
func (a *App) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		a.error(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
	case errors.Is(err, domain.ErrRead):
		a.error(w, http.StatusBadRequest, "read_failed", err.Error())
	case errors.Is(err, domain.ErrRequestInFlight):
		a.error(w, http.StatusConflict, "request_in_flight", "a request is already in flight for this session")
	case errors.Is(err, domain.ErrSessionNotFound):
		a.error(w, http.StatusNotFound, "session_not_found", "session not found or expired")
	case errors.Is(err, domain.ErrNoResult):
		a.error(w, http.StatusNotFound, "no_result", "no result available")
	case errors.Is(err, domain.ErrTransport):
		if errors.Is(err, context.DeadlineExceeded) {
			a.error(w, http.StatusGatewayTimeout, "upstream_timeout", "upstream call timed out")
			return
		}
		a.error(w, http.StatusBadGateway, "upstream_unreachable", "failed to reach the generation service")
	case errors.Is(err, domain.ErrGeneration):
		a.error(w, http.StatusBadGateway, "generation_failed", err.Error())
	default:
		a.Logger.Error().Err(err).Msg("handlers: unexpected error")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
