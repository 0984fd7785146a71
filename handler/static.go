package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"react-app-backend/config"
)

// SPAHandler serves the single-page app build directory. Requests for files
// that exist are served directly; everything else falls back to index.html so
// client-side routes resolve.
type SPAHandler struct {
	staticDir  string
	indexFile  string
	fileServer http.Handler
}

// NewSPAHandler creates a static file handler for the SPA build output
func NewSPAHandler(cfg config.StaticConfig) *SPAHandler {
	return &SPAHandler{
		staticDir:  cfg.Dir,
		indexFile:  cfg.Index,
		fileServer: http.FileServer(http.Dir(cfg.Dir)),
	}
}

func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(h.staticDir, filepath.Clean("/"+r.URL.Path))

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		http.ServeFile(w, r, filepath.Join(h.staticDir, h.indexFile))
		return
	}

	h.fileServer.ServeHTTP(w, r)
}
