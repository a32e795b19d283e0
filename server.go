package pokedex

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-barry/pokedex/core"
	"go.uber.org/zap"
)

type RuntimeConfig struct {
	Env        string
	Port       int
	ConfigPath string
}

var ListenAndServe = func(addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

var Exit = os.Exit

var Start = func(cfg RuntimeConfig) {
	fmt.Println("Starting Pokédex in", cfg.Env, "mode...")

	addr, handler := BuildServer(cfg)

	fmt.Printf("✅ Pokédex running at http://localhost%s\n", addr)
	if err := ListenAndServe(addr, handler); err != nil {
		fmt.Fprintln(os.Stderr, "❌ Server failed:", err)
		Exit(1)
	}
}

func newLogger(env string, debug bool) *zap.SugaredLogger {
	log, err := core.NewLogger(env, debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, "⚠️  Falling back to a silent logger:", err)
		return zap.NewNop().Sugar()
	}
	return log
}

// BuildServer assembles the full handler: static assets, dev livereload and
// the page router, wrapped in request logging.
func BuildServer(cfg RuntimeConfig) (string, http.Handler) {
	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = core.ConfigFile
	}
	config := core.LoadConfig(configPath)
	log := newLogger(cfg.Env, config.DebugLogs)

	public, onDisk := core.PublicFS(config.PublicDir)
	log.Debugw("Loaded config", "path", configPath, "publicOnDisk", onDisk, "apiBaseURL", config.APIBaseURL)

	mux := http.NewServeMux()

	if cfg.Env == "dev" {
		setupDevStaticRoutes(mux, public)

		reloader := core.NewLiveReloader()
		mux.HandleFunc(core.ReloadPath, reloader.Handler)

		router := core.NewRouter(*config, core.RuntimeContext{
			Env:         cfg.Env,
			EnableWatch: true,
			OnReload:    reloader.BroadcastReload,
			Logger:      log,
		})
		mux.Handle("/", router)
	} else {
		setupProdStaticRoutes(mux, public, filepath.Join(config.OutputDir, "static"))

		router := core.NewRouter(*config, core.RuntimeContext{
			Env:         cfg.Env,
			EnableWatch: false,
			Logger:      log,
		})
		mux.Handle("/", router)
	}

	return fmt.Sprintf(":%d", cfg.Port), core.WithRequestLog(log, mux)
}

func setupDevStaticRoutes(mux *http.ServeMux, public fs.FS) {
	fileServer := http.FileServerFS(public)
	mux.Handle("/static/", http.StripPrefix("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		fileServer.ServeHTTP(w, r)
	})))

	for _, name := range []string{"favicon.ico", "robots.txt"} {
		mux.HandleFunc("/"+name, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-store")
			http.ServeFileFS(w, r, public, name)
		})
	}
}

func setupProdStaticRoutes(mux *http.ServeMux, public fs.FS, cacheDir string) {
	mux.Handle("/static/", makeStaticHandler(public, cacheDir))

	for _, name := range []string{"favicon.ico", "robots.txt"} {
		mux.HandleFunc("/"+name, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", immutableCache)
			http.ServeFileFS(w, r, public, name)
		})
	}
}

const immutableCache = "public, max-age=31536000, immutable"

// makeStaticHandler serves minified assets from cacheDir (gzip when the client
// accepts it) and falls back to the public assets.
func makeStaticHandler(public fs.FS, cacheDir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		trimmed := strings.TrimPrefix(r.URL.Path, "/static/")
		if trimmed == "" || strings.Contains(trimmed, "..") {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		trimmed = path.Clean(trimmed)

		cachedFile := filepath.Join(cacheDir, filepath.FromSlash(trimmed))
		gzipFile := cachedFile + ".gz"

		if acceptsGzip(r) {
			if _, err := os.Stat(gzipFile); err == nil {
				w.Header().Set("Content-Encoding", "gzip")
				w.Header().Set("Vary", "Accept-Encoding")
				w.Header().Set("Content-Type", detectMimeType(cachedFile))
				serveFileWithHeaders(w, r, gzipFile, immutableCache)
				return
			}
		}

		if _, err := os.Stat(cachedFile); err == nil {
			serveFileWithHeaders(w, r, cachedFile, immutableCache)
			return
		}

		if info, err := fs.Stat(public, trimmed); err == nil && !info.IsDir() {
			w.Header().Set("Content-Type", detectMimeType(trimmed))
			w.Header().Set("Cache-Control", immutableCache)
			http.ServeFileFS(w, r, public, trimmed)
			return
		}

		http.NotFound(w, r)
	})
}

func serveFileWithHeaders(w http.ResponseWriter, r *http.Request, file, cacheControl string) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", detectMimeType(file))
	}
	w.Header().Set("Cache-Control", cacheControl)
	http.ServeFile(w, r, file)
}

func detectMimeType(name string) string {
	switch filepath.Ext(name) {
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".woff":
		return "font/woff"
	case ".woff2":
		return "font/woff2"
	case ".txt":
		return "text/plain; charset=utf-8"
	case ".ico":
		return "image/x-icon"
	default:
		return "application/octet-stream"
	}
}

func acceptsGzip(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}
