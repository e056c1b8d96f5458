package ui

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates static
var embeddedFiles embed.FS

// newAssetRouter serves the embedded static files and the health check. It
// is mounted into the gin engine, which owns every page route.
func newAssetRouter() (*chi.Mux, error) {
	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.SetHeader("X-Content-Type-Options", "nosniff"))

	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return router, nil
}
