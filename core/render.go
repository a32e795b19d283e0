package core

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
)

const layoutDirective = "<!-- layout:"

type Renderer struct {
	fsys   fs.FS
	onDisk bool
	funcs  template.FuncMap

	mu    sync.Mutex
	cache map[string]*template.Template
}

func NewRenderer(fsys fs.FS, onDisk bool, funcs template.FuncMap) *Renderer {
	return &Renderer{
		fsys:   fsys,
		onDisk: onDisk,
		funcs:  funcs,
		cache:  map[string]*template.Template{},
	}
}

// OnDisk reports whether templates come from the project directory rather
// than the embedded starter.
func (r *Renderer) OnDisk() bool {
	return r.onDisk
}

func (r *Renderer) Reset() {
	r.mu.Lock()
	r.cache = map[string]*template.Template{}
	r.mu.Unlock()
}

// Render executes page into a buffer so a failing template never writes a
// partial response.
func (r *Renderer) Render(page string, data any) ([]byte, error) {
	tmpl, entry, err := r.load(page)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, entry, data); err != nil {
		return nil, fmt.Errorf("execute %s: %w", page, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) load(page string) (*template.Template, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	layout, err := r.layoutPath(page)
	if err != nil {
		return nil, "", err
	}

	entry := page
	if layout != "" {
		entry = "layout"
	}

	if tmpl, ok := r.cache[page]; ok {
		return tmpl, entry, nil
	}

	components, err := fs.Glob(r.fsys, "components/*.html")
	if err != nil {
		return nil, "", err
	}
	sort.Strings(components)

	files := append(components, page)
	if layout != "" {
		files = append([]string{layout}, files...)
	}

	tmpl, err := template.New(path.Base(files[0])).Funcs(r.funcs).ParseFS(r.fsys, files...)
	if err != nil {
		return nil, "", fmt.Errorf("parse %s: %w", page, err)
	}

	r.cache[page] = tmpl
	return tmpl, entry, nil
}

func (r *Renderer) layoutPath(page string) (string, error) {
	content, err := fs.ReadFile(r.fsys, page)
	if err != nil {
		return "", err
	}
	return parseLayoutDirective(string(content)), nil
}

func parseLayoutDirective(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, layoutDirective) && strings.HasSuffix(line, "-->") {
			return strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, layoutDirective), "-->"))
		}
	}
	return ""
}

// Pages lists the top-level page templates, excluding layouts.
func (r *Renderer) Pages() ([]string, error) {
	entries, err := fs.ReadDir(r.fsys, ".")
	if err != nil {
		return nil, err
	}

	var pages []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".html") {
			continue
		}
		content, err := fs.ReadFile(r.fsys, e.Name())
		if err != nil {
			return nil, err
		}
		if strings.Contains(string(content), `{{ define "layout" }}`) {
			continue
		}
		pages = append(pages, e.Name())
	}
	return pages, nil
}

func (r *Renderer) Components() ([]string, error) {
	return fs.Glob(r.fsys, "components/*.html")
}
