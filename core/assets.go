package core

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Masterminds/sprig/v3"
	"github.com/klauspost/compress/gzip"
	"github.com/tdewolff/minify/v2"
	mincss "github.com/tdewolff/minify/v2/css"
	minhtml "github.com/tdewolff/minify/v2/html"
	minjs "github.com/tdewolff/minify/v2/js"
)

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", mincss.Minify)
	m.AddFunc("application/javascript", minjs.Minify)
	m.Add("text/html", &minhtml.Minifier{KeepDocumentTags: true, KeepEndTags: true})
	return m
}

// MinifyAsset writes a minified, gzipped copy of a /static/ css or js file to
// cacheDir and returns its versioned URL. Outside prod, or on any failure, the
// original path is returned.
func MinifyAsset(env, path, cacheDir string, public fs.FS) string {
	if env != "prod" {
		return path
	}

	ext := filepath.Ext(path)
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, ext)

	if ext != ".css" && ext != ".js" {
		return path
	}

	if strings.Contains(name, ".min") {
		return path
	}

	publicPath := strings.TrimPrefix(path, "/static/")
	original, err := fs.ReadFile(public, publicPath)
	if err != nil {
		return path
	}

	min := filepath.Join(cacheDir, "static", fmt.Sprintf("%s.min%s", name, ext))
	minGz := min + ".gz"

	mediaType := "text/css"
	if ext == ".js" {
		mediaType = "application/javascript"
	}

	var buf bytes.Buffer
	if err := newMinifier().Minify(mediaType, &buf, bytes.NewReader(original)); err != nil {
		return path
	}

	minified := buf.Bytes()

	if err := os.MkdirAll(filepath.Dir(min), os.ModePerm); err != nil {
		return path
	}

	if err := os.WriteFile(min, minified, 0644); err != nil {
		return path
	}

	if f, err := os.Create(minGz); err == nil {
		defer f.Close()
		gz, _ := gzip.NewWriterLevel(f, gzip.BestCompression)
		if _, err := gz.Write(minified); err == nil {
			_ = gz.Close()
		}
	}

	var out strings.Builder
	fmt.Fprintf(&out, "/static/%s.min%s?v=%s", name, ext, shortHash(minified))
	return out.String()
}

func MinifyHTML(html []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := newMinifier().Minify("text/html", &buf, bytes.NewReader(html)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func shortHash(data []byte) string {
	h := md5.New()
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))[:6]
}

// TemplateFuncs layers the pokedex helpers over sprig's function map.
func TemplateFuncs(env, cacheDir string, public fs.FS) template.FuncMap {
	funcs := sprig.FuncMap()

	// Each asset is minified once per process; the cache files are served
	// as immutable and must not be rewritten under a reader.
	var mu sync.Mutex
	minified := map[string]string{}
	funcs["minify"] = func(path string) string {
		mu.Lock()
		defer mu.Unlock()
		if url, ok := minified[path]; ok {
			return url
		}
		url := MinifyAsset(env, path, cacheDir, public)
		minified[path] = url
		return url
	}
	funcs["props"] = func(values ...interface{}) map[string]interface{} {
		if len(values)%2 != 0 {
			panic("props must be called with even number of arguments")
		}
		m := make(map[string]interface{}, len(values)/2)
		for i := 0; i < len(values); i += 2 {
			key, ok := values[i].(string)
			if !ok {
				panic("props keys must be strings")
			}
			m[key] = values[i+1]
		}
		return m
	}
	funcs["safeHTML"] = func(s interface{}) template.HTML {
		switch val := s.(type) {
		case template.HTML:
			return val
		case string:
			return template.HTML(val)
		default:
			return ""
		}
	}
	funcs["deref"] = func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	funcs["versioned"] = func(path string) string {
		if !strings.HasPrefix(path, "/static/") {
			return path
		}

		rel := strings.TrimPrefix(path, "/static/")
		if content, err := fs.ReadFile(public, rel); err == nil {
			return fmt.Sprintf("/static/%s?v=%s", rel, shortHash(content))
		}
		if content, err := os.ReadFile(filepath.Join(cacheDir, "static", rel)); err == nil {
			return fmt.Sprintf("/static/%s?v=%s", rel, shortHash(content))
		}
		return path
	}

	return funcs
}
