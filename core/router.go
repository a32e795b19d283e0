package core

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/go-barry/pokedex/pokeapi"
	"go.uber.org/zap"
)

const (
	indexPage    = "index.html"
	notFoundPage = "404.html"
)

type RuntimeContext struct {
	Env         string
	EnableWatch bool
	OnReload    func()
	Logger      *zap.SugaredLogger
}

type Router struct {
	config   Config
	env      string
	home     *Home
	renderer *Renderer
	watcher  *Watcher
	log      *zap.SugaredLogger
}

var NewRouter = func(config Config, ctx RuntimeContext) http.Handler {
	log := ctx.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	client := pokeapi.NewClient(config.APIBaseURL, config.RequestTimeout, log.Named("pokeapi"))
	home := NewHome(client, config.ListLimit, config.ListConcurrency, log.Named("home"))

	public, _ := PublicFS(config.PublicDir)
	templates, onDisk := TemplatesFS(config.TemplatesDir)
	renderer := NewRenderer(templates, onDisk, TemplateFuncs(ctx.Env, config.OutputDir, public))

	r := &Router{
		config:   config,
		env:      ctx.Env,
		home:     home,
		renderer: renderer,
		log:      log,
	}

	if ctx.EnableWatch {
		w, err := NewWatcher([]string{config.TemplatesDir, config.PublicDir}, func(path string) {
			renderer.Reset()
			if ctx.OnReload != nil {
				ctx.OnReload()
			}
		}, log.Named("watch"))
		if err != nil {
			log.Warnw("File watching disabled", "error", err)
		} else {
			r.watcher = w
		}
	}

	return r
}

// Close stops the template watcher, if one was started.
func (r *Router) Close() error {
	if r.watcher == nil {
		return nil
	}
	err := r.watcher.Close()
	r.watcher = nil
	return err
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.URL.Path != "/" {
		r.serveNotFound(w, req)
		return
	}

	switch req.Method {
	case http.MethodGet, http.MethodHead:
		vm := r.home.ListingPage(req.Context())
		r.render(w, req, indexPage, vm, http.StatusOK, "listing")
	case http.MethodPost:
		r.serveLookup(w, req)
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (r *Router) serveLookup(w http.ResponseWriter, req *http.Request) {
	// PostFormValue handles both urlencoded and multipart bodies.
	query := req.PostFormValue("search")
	vm := r.home.Lookup(req.Context(), query)

	status := http.StatusOK
	if vm.SearchError != "" {
		status = http.StatusBadRequest
	}
	r.render(w, req, indexPage, vm, status, "lookup")
}

func (r *Router) serveNotFound(w http.ResponseWriter, req *http.Request) {
	vm := r.home.newViewModel()
	r.render(w, req, notFoundPage, vm, http.StatusNotFound, "not-found")
}

func (r *Router) render(w http.ResponseWriter, req *http.Request, page string, vm PageViewModel, status int, mode string) {
	vm.Dev = r.env == "dev"

	body, err := r.renderer.Render(page, vm)
	if err != nil {
		r.log.Errorw("Template error", "page", page, "error", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}

	if r.env == "prod" {
		if minified, err := MinifyHTML(body); err == nil {
			body = minified
		} else {
			r.log.Warnw("HTML minify failed", "page", page, "error", err)
		}
	}

	if r.config.DebugHeaders {
		w.Header().Set("X-Pokedex-Route", page)
		w.Header().Set("X-Pokedex-Mode", mode)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if status == http.StatusOK && (req.Method == http.MethodGet || req.Method == http.MethodHead) {
		etag := generateETag(body)
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "no-cache")
		if match := req.Header.Get("If-None-Match"); match != "" && match == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	w.WriteHeader(status)
	if req.Method == http.MethodHead {
		return
	}
	w.Write(body)
}

func generateETag(data []byte) string {
	sum := md5.Sum(data)
	return fmt.Sprintf("\"%s\"", hex.EncodeToString(sum[:]))
}
