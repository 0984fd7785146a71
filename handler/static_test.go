package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"react-app-backend/config"
)

func setupStaticTest(t *testing.T) *SPAHandler {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644); err != nil {
		t.Fatalf("Failed to write index.html: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log('hi')"), 0o644); err != nil {
		t.Fatalf("Failed to write app.js: %v", err)
	}

	return NewSPAHandler(config.StaticConfig{Dir: dir, Index: "index.html"})
}

func TestSPAHandler_ServesExistingFile(t *testing.T) {
	h := setupStaticTest(t)

	req := httptest.NewRequest("GET", "/app.js", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status OK, got %v", w.Code)
	}
	if w.Body.String() != "console.log('hi')" {
		t.Errorf("Body = %q, want file contents", w.Body.String())
	}
}

func TestSPAHandler_FallsBackToIndex(t *testing.T) {
	h := setupStaticTest(t)

	// Client-side routes have no backing file and resolve to index.html
	for _, path := range []string{"/", "/profile", "/reset-password/42/tok"} {
		req := httptest.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("GET %s: expected status OK, got %v", path, w.Code)
		}
		if w.Body.String() != "<html>app</html>" {
			t.Errorf("GET %s: body = %q, want index.html contents", path, w.Body.String())
		}
	}
}
