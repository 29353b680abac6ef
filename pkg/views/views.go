package views

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

const layoutTemplate = "layout.html"

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the embedded static assets, rooted so that css/styles.css
// is served at /css/styles.css
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Renderer executes page templates inside the shared layout
type Renderer struct {
	fsys fs.FS
	dir  string

	mu    sync.RWMutex
	pages map[string]*template.Template
}

// New creates a Renderer over the embedded templates
func New() (*Renderer, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, err
	}
	r := &Renderer{fsys: sub}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewFromDir creates a Renderer reading templates from dir
func NewFromDir(dir string) (*Renderer, error) {
	r := &Renderer{fsys: os.DirFS(dir), dir: dir}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

// load parses every page together with the layout. The previous set stays
// active if parsing fails.
func (r *Renderer) load() error {
	names, err := fs.Glob(r.fsys, "*.html")
	if err != nil {
		return err
	}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		if name == layoutTemplate {
			continue
		}
		t, err := template.New(name).Funcs(funcs()).ParseFS(r.fsys, layoutTemplate, name)
		if err != nil {
			return fmt.Errorf("views: parse %s: %w", name, err)
		}
		pages[strings.TrimSuffix(name, path.Ext(name))] = t
	}

	r.mu.Lock()
	r.pages = pages
	r.mu.Unlock()
	return nil
}

// Render writes page name (without extension) to w. Nothing is written if
// execution fails.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	r.mu.RLock()
	t, ok := r.pages[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("views: unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("views: render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Watch re-parses the templates whenever a file in the template directory
// changes, until ctx is done. It returns immediately for embedded templates.
func (r *Renderer) Watch(ctx context.Context) error {
	if r.dir == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(r.dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", r.dir, err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if err := r.load(); err != nil {
				log.Printf("Template reload failed: %v", err)
				continue
			}
			log.Printf("Templates reloaded after change to %s", event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Template watcher error: %v", err)
		case <-ctx.Done():
			return nil
		}
	}
}
