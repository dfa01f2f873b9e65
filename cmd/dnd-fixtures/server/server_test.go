package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerStartStop(t *testing.T) {
	srv, err := NewServer(DefaultConfig())
	require.NoError(t, err)

	addr, err := srv.Start()
	require.NoError(t, err)

	// Verify we got a real address (not :0)
	if addr == "" || addr == ":0" {
		t.Errorf("Start() returned invalid address: %q", addr)
	}
	t.Logf("Server started on %s", addr)
	assert.Equal(t, addr, srv.Addr())

	url := srv.URL(DragAndDropPage)
	assert.True(t, strings.HasPrefix(url, "http://localhost:"), "URL() = %q", url)

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `id="test1"`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	// Verify server is stopped (should fail to connect)
	_, err = http.Get(url)
	assert.Error(t, err, "expected connection error after shutdown")

	assert.Empty(t, srv.Addr(), "Addr() after Shutdown")
	assert.Empty(t, srv.URL(DragAndDropPage), "URL() after Shutdown")
}

func TestServerStartAfterShutdown(t *testing.T) {
	srv, err := NewServer(DefaultConfig())
	require.NoError(t, err)

	_, err = srv.Start()
	require.NoError(t, err)
	require.NoError(t, srv.Shutdown(context.Background()))

	addr, err := srv.Start()
	assert.ErrorIs(t, err, ErrServerClosed)
	assert.Empty(t, addr)
	assert.NoError(t, srv.Shutdown(context.Background()), "second Shutdown is a no-op")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ":0", cfg.Addr)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.WriteTimeout)
	assert.Nil(t, cfg.Logger)
}

func TestServerDoubleStart(t *testing.T) {
	srv, err := NewServer(DefaultConfig())
	require.NoError(t, err)
	defer srv.Shutdown(context.Background())

	addr1, err := srv.Start()
	require.NoError(t, err)

	// Second start should return same address (no error)
	addr2, err := srv.Start()
	require.NoError(t, err)
	assert.Equal(t, addr1, addr2)
}

func TestServerNotRunning(t *testing.T) {
	srv, err := NewServer(DefaultConfig())
	require.NoError(t, err)

	assert.Empty(t, srv.Addr())
	assert.Empty(t, srv.URL(DragAndDropPage))
	assert.NoError(t, srv.Shutdown(context.Background()))
}

// =============================================================================
// Handler Tests
// =============================================================================

func newTestHandler(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	srv, err := NewServer(DefaultConfig())
	require.NoError(t, err)
	return srv, srv.httpServer.Handler
}

func TestHandler_ServesEveryPage(t *testing.T) {
	srv, h := newTestHandler(t)

	files := []string{
		DragAndDropPage,
		IframePage,
		IframeAtBottomPage,
		ScrolledDivPage,
		DroppableItemsPage,
		DragDropOverflowPage,
	}
	for _, f := range files {
		t.Run(f, func(t *testing.T) {
			require.True(t, srv.Manifest().Has(f))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+f, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
			assert.Contains(t, rec.Body.String(), "<!DOCTYPE html>")
		})
	}
}

func TestHandler_PageElements(t *testing.T) {
	_, h := newTestHandler(t)

	tests := []struct {
		file string
		ids  []string
	}{
		{DragAndDropPage, []string{"test1", "test2", "test3"}},
		{ScrolledDivPage, []string{"test1", "scroller"}},
		{DroppableItemsPage, []string{"draggable", "droppable", "drop_reports"}},
		{DragDropOverflowPage, []string{"time-marker", "11am", "12am", "11pm"}},
		{IframeAtBottomPage, []string{"bottom"}},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+tt.file, nil))
			for _, id := range tt.ids {
				assert.Contains(t, rec.Body.String(), `id="`+id+`"`)
			}
		})
	}
}

func TestHandler_ServesScript(t *testing.T) {
	_, h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/drag.js", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "javascript")
	assert.Contains(t, rec.Body.String(), "mousemove")
}

func TestHandler_Index(t *testing.T) {
	_, h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="droppableItems.html"`)
	assert.NotContains(t, rec.Body.String(), "drag.js", "assets are not listed")
}

func TestHandler_NotFound(t *testing.T) {
	_, h := newTestHandler(t)

	for _, p := range []string{"/missing.html", "/pages.yaml", "/pages/drag.js"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, p)
	}
}

func TestHandler_DotDotPath(t *testing.T) {
	srv, h := newTestHandler(t)

	// The mux cleans the path and redirects before the file handler runs.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/../server.go", nil))
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/server.go", rec.Header().Get("Location"))

	// Reaching the file handler directly, the cleaned name is still only
	// looked up in the manifest.
	rec = httptest.NewRecorder()
	srv.handleFile(rec, httptest.NewRequest(http.MethodGet, "/../server.go", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	srv.handleFile(rec, httptest.NewRequest(http.MethodGet, "/../"+DragAndDropPage, nil))
	assert.Equal(t, http.StatusOK, rec.Code, "cleaning never escapes the embedded pages")
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	_, h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/"+DragAndDropPage, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandler_RequestLogging(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetLevel(logrus.DebugLevel)

	cfg := DefaultConfig()
	cfg.Logger = log
	srv, err := NewServer(cfg)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope.html", nil))

	id := rec.Header().Get(RequestIDHeader)
	_, err = uuid.Parse(id)
	require.NoError(t, err, "request id must be a UUID")

	out := buf.String()
	assert.Contains(t, out, "request served")
	assert.Contains(t, out, "status=404")
	assert.Contains(t, out, "id="+id)
}

// =============================================================================
// Manifest Tests
// =============================================================================

func TestLoadManifest(t *testing.T) {
	m, err := LoadManifest()
	require.NoError(t, err)

	assert.Len(t, m.Pages, 6)
	assert.True(t, m.Has("drag.js"))
	assert.False(t, m.Has("pages.yaml"))
	for _, p := range m.Pages {
		assert.NotEmpty(t, p.Title, p.File)
	}
}

func TestParseManifest_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not yaml", "pages: [\n"},
		{"no pages", "assets:\n  - file: drag.js\n"},
		{"missing file", "pages:\n  - file: nowhere.html\n"},
		{"nested path", "pages:\n  - file: ../server.go\n"},
		{"empty name", "pages:\n  - title: untitled\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseManifest([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}
