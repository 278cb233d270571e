package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"outfit-studio-server/internal/http/handlers"
	"outfit-studio-server/internal/middleware"
)

func NewRouter(app *handlers.App) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(app.Config.AllowedOrigins),
		middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute),
		middleware.Locale("en"),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", app.SessionCreate)
		r.Route("/{session_id}", func(r chi.Router) {
			r.Get("/", app.SessionGet)
			r.Delete("/", app.SessionDelete)
			r.Post("/reset", app.SessionReset)
			r.Put("/mode", app.SessionSetMode)

			r.Post("/uploads", app.UploadItems)
			r.Delete("/uploads/{item_id}", app.UploadRemove)
			r.Put("/reference", app.UploadReference)

			r.Post("/tryon", app.SubmitTryOn)
			r.Post("/generate", app.SubmitGenerate)
			r.Post("/edit", app.SubmitEdit)

			r.Get("/result", app.ResultDownload)
			r.Get("/result/bundle", app.ResultBundle)
		})
	})

	r.Get("/v1/previews/{name}", app.PreviewServe)

	return r
}
