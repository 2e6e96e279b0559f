// Package assets minifies the server's templates and static files for production.
package assets

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

const (
	MediaHTML = "text/html"
	MediaCSS  = "text/css"
	MediaJS   = "application/javascript"
)

// NewMinifier returns a minifier for HTML, CSS and JS. HTML keeps Go template
// actions intact.
func NewMinifier() *minify.M {
	m := minify.New()
	m.AddFunc(MediaCSS, css.Minify)
	m.AddFunc(MediaJS, js.Minify)
	m.Add(MediaHTML, &html.Minifier{
		TemplateDelims:   html.GoTemplateDelims,
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	return m
}

// MediaType maps a file extension to the minifier's media type.
func MediaType(path string) (string, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html":
		return MediaHTML, true
	case ".css":
		return MediaCSS, true
	case ".js":
		return MediaJS, true
	default:
		return "", false
	}
}

// Result describes one minified file.
type Result struct {
	Src, Dst       string
	Before, After int
}

// Reduction is the size saving in percent.
func (r Result) Reduction() float64 {
	if r.Before == 0 {
		return 0
	}
	return float64(r.Before-r.After) / float64(r.Before) * 100
}

// MinifyFile minifies src into dst, creating dst's directory.
func MinifyFile(m *minify.M, src, dst, mediaType string) (Result, error) {
	in, err := os.ReadFile(src)
	if err != nil {
		return Result{}, err
	}
	out, err := m.Bytes(mediaType, in)
	if err != nil {
		return Result{}, fmt.Errorf("minify %s: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return Result{}, err
	}
	if err := os.WriteFile(dst, out, 0o644); err != nil {
		return Result{}, err
	}
	return Result{Src: src, Dst: dst, Before: len(in), After: len(out)}, nil
}

// MinifyTree minifies every HTML, CSS and JS file under srcDir into dstDir/srcDir.
// Other files are skipped.
func MinifyTree(m *minify.M, srcDir, dstDir string) ([]Result, error) {
	var results []Result
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		mediaType, ok := MediaType(path)
		if !ok {
			return nil
		}
		r, err := MinifyFile(m, path, filepath.Join(dstDir, path), mediaType)
		if err != nil {
			return err
		}
		results = append(results, r)
		return nil
	})
	return results, err
}
