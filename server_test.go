package pokedex

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/go-barry/pokedex/core"
)

type mockReloader struct{}

func (m *mockReloader) BroadcastReload() {}
func (m *mockReloader) Handler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("reload ok"))
}

func stubCore(t *testing.T, body string) {
	t.Helper()
	originalLoadConfig := core.LoadConfig
	originalNewRouter := core.NewRouter
	originalNewLiveReloader := core.NewLiveReloader
	t.Cleanup(func() {
		core.LoadConfig = originalLoadConfig
		core.NewRouter = originalNewRouter
		core.NewLiveReloader = originalNewLiveReloader
	})

	outputDir := t.TempDir()
	core.LoadConfig = func(path string) *core.Config {
		cfg := core.DefaultConfig()
		cfg.OutputDir = outputDir
		cfg.PublicDir = filepath.Join(outputDir, "missing-public")
		return cfg
	}
	core.NewRouter = func(c core.Config, ctx core.RuntimeContext) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, body)
		})
	}
	core.NewLiveReloader = func() core.LiveReloaderInterface {
		return &mockReloader{}
	}
}

func TestDetectMimeType(t *testing.T) {
	tests := map[string]string{
		"file.css":     "text/css",
		"script.js":    "application/javascript",
		"image.webp":   "image/webp",
		"icon.svg":     "image/svg+xml",
		"photo.png":    "image/png",
		"photo.jpeg":   "image/jpeg",
		"font.woff":    "font/woff",
		"font.woff2":   "font/woff2",
		"robots.txt":   "text/plain; charset=utf-8",
		"unknown.file": "application/octet-stream",
	}

	for filename, expected := range tests {
		t.Run(filename, func(t *testing.T) {
			mime := detectMimeType(filename)
			if mime != expected {
				t.Errorf("got %s, want %s", mime, expected)
			}
		})
	}
}

func TestAcceptsGzip(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	if !acceptsGzip(req) {
		t.Error("expected true for Accept-Encoding with gzip")
	}

	req.Header.Set("Accept-Encoding", "br")
	if acceptsGzip(req) {
		t.Error("expected false for Accept-Encoding without gzip")
	}
}

func TestServeFileWithHeaders(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "test.bin")
	content := "Hello, Pokédex!"
	_ = os.WriteFile(filePath, []byte(content), 0644)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/static/test.bin", nil)

	serveFileWithHeaders(rec, req, filePath, "no-cache")

	resp := rec.Result()
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "application/octet-stream" {
		t.Errorf("unexpected content-type: %s", ct)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("unexpected cache-control: %s", cc)
	}

	body, _ := io.ReadAll(resp.Body)
	if string(body) != content {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestMakeStaticHandlerReturns404ForMissingFile(t *testing.T) {
	handler := makeStaticHandler(fstest.MapFS{}, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/static/missing.txt", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestMakeStaticHandlerServesPublicFile(t *testing.T) {
	expected := "Hello from public!"
	public := fstest.MapFS{"hello.txt": {Data: []byte(expected)}}

	handler := makeStaticHandler(public, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/static/hello.txt", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 OK, got %d", rec.Code)
	}
	if rec.Body.String() != expected {
		t.Errorf("expected body %q, got %q", expected, rec.Body.String())
	}
	if cc := rec.Header().Get("Cache-Control"); cc != immutableCache {
		t.Errorf("expected immutable cache header, got %q", cc)
	}
}

func TestMakeStaticHandlerRejectsTraversal(t *testing.T) {
	handler := makeStaticHandler(fstest.MapFS{}, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/static/../secrets.txt", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 Bad Request, got %d", rec.Code)
	}
}

func TestMakeStaticHandlerServesGzipFromCache(t *testing.T) {
	cacheDir := t.TempDir()
	_ = os.WriteFile(filepath.Join(cacheDir, "script.js.gz"), []byte("gzipped content"), 0644)

	handler := makeStaticHandler(fstest.MapFS{}, cacheDir)

	req := httptest.NewRequest(http.MethodGet, "/static/script.js", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Error("expected gzip Content-Encoding")
	}
	if rec.Header().Get("Vary") != "Accept-Encoding" {
		t.Error("expected Vary: Accept-Encoding header")
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/javascript" {
		t.Errorf("expected javascript content type, got %q", ct)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 OK, got %d", rec.Code)
	}
}

func TestMakeStaticHandlerServesNonGzipCacheFile(t *testing.T) {
	cacheDir := t.TempDir()
	_ = os.WriteFile(filepath.Join(cacheDir, "styles.css"), []byte("cached css"), 0644)

	handler := makeStaticHandler(fstest.MapFS{}, cacheDir)

	req := httptest.NewRequest(http.MethodGet, "/static/styles.css", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Header().Get("Content-Encoding") != "" {
		t.Error("did not expect Content-Encoding for non-gzip file")
	}
	if rec.Body.String() != "cached css" {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestMakeStaticHandlerStripsQueryParams(t *testing.T) {
	public := fstest.MapFS{"main.js": {Data: []byte("main js")}}
	handler := makeStaticHandler(public, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/static/main.js?v=1234", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Body.String() != "main js" {
		t.Errorf("expected file body to match, got %q", rec.Body.String())
	}
}

func TestSetupDevStaticRoutesFaviconAndRobots(t *testing.T) {
	public := fstest.MapFS{
		"favicon.ico": {Data: []byte("icon")},
		"robots.txt":  {Data: []byte("robots")},
	}

	mux := http.NewServeMux()
	setupDevStaticRoutes(mux, public)

	tests := []struct {
		path     string
		expected string
	}{
		{"/favicon.ico", "icon"},
		{"/robots.txt", "robots"},
	}

	for _, test := range tests {
		req := httptest.NewRequest(http.MethodGet, test.path, nil)
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)

		if rec.Body.String() != test.expected {
			t.Errorf("expected %q, got %q", test.expected, rec.Body.String())
		}
		if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
			t.Errorf("expected Cache-Control: no-store for %s, got %s", test.path, cc)
		}
	}
}

func TestDevStaticRoutes_FileServerAddsNoStore(t *testing.T) {
	public := fstest.MapFS{"test.js": {Data: []byte("content")}}

	mux := http.NewServeMux()
	setupDevStaticRoutes(mux, public)

	req := httptest.NewRequest(http.MethodGet, "/static/test.js", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	if rec.Body.String() != "content" {
		t.Errorf("expected file content, got %q", rec.Body.String())
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("expected 'no-store', got %q", cc)
	}
}

func TestBuildServerInDev(t *testing.T) {
	stubCore(t, "router ok")

	addr, handler := BuildServer(RuntimeConfig{Env: "dev", Port: 3001})

	if addr != ":3001" {
		t.Errorf("expected :3001, got %s", addr)
	}

	req := httptest.NewRequest(http.MethodGet, core.ReloadPath, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 OK, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != "reload ok" {
		t.Errorf("expected 'reload ok', got %q", body)
	}
	if rec.Header().Get(core.RequestIDHeader) == "" {
		t.Error("expected a request id header")
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "body") {
		t.Errorf("expected embedded stylesheet, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestBuildServerInProd(t *testing.T) {
	stubCore(t, "router")

	addr, handler := BuildServer(RuntimeConfig{Env: "prod", Port: 1234})

	if addr != ":1234" {
		t.Errorf("expected :1234, got %s", addr)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	if !strings.Contains(rec.Body.String(), "User-agent") {
		t.Errorf("expected embedded robots.txt, got %q", rec.Body.String())
	}
	if cc := rec.Header().Get("Cache-Control"); cc != immutableCache {
		t.Errorf("expected immutable cache header, got %q", cc)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, core.ReloadPath, nil))
	if rec.Body.String() != "router" {
		t.Errorf("expected livereload to be absent in prod, got %q", rec.Body.String())
	}
}

func TestStart_CallsListenAndServe(t *testing.T) {
	stubCore(t, "ok")

	called := false
	var gotAddr string
	var gotHandler http.Handler

	original := ListenAndServe
	ListenAndServe = func(addr string, handler http.Handler) error {
		called = true
		gotAddr = addr
		gotHandler = handler
		return nil
	}
	defer func() { ListenAndServe = original }()

	Start(RuntimeConfig{Env: "dev", Port: 4321})

	if !called {
		t.Fatal("expected ListenAndServe to be called")
	}
	if gotAddr != ":4321" {
		t.Errorf("expected addr ':4321', got %q", gotAddr)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	gotHandler.ServeHTTP(rec, req)
	if rec.Body.String() != "ok" {
		t.Errorf("expected handler to respond with 'ok', got %q", rec.Body.String())
	}
}

func TestStart_ExitsOnServerFailure(t *testing.T) {
	stubCore(t, "ok")

	var exited bool
	var exitCode int

	originalExit := Exit
	originalListenAndServe := ListenAndServe
	defer func() {
		Exit = originalExit
		ListenAndServe = originalListenAndServe
	}()

	Exit = func(code int) {
		exited = true
		exitCode = code
	}
	ListenAndServe = func(addr string, handler http.Handler) error {
		return fmt.Errorf("simulated server failure")
	}

	r, w, _ := os.Pipe()
	stdErrBackup := os.Stderr
	os.Stderr = w

	Start(RuntimeConfig{Env: "prod", Port: 1234})

	_ = w.Close()
	os.Stderr = stdErrBackup
	buf, _ := io.ReadAll(r)

	if !exited {
		t.Fatal("expected Exit to be called")
	}
	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if !strings.Contains(string(buf), "❌ Server failed: simulated server failure") {
		t.Errorf("unexpected stderr output: %q", buf)
	}
}
