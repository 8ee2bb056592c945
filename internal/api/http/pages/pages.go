package pages

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// SettingsPage confirms a settings submission.
	SettingsPage = "success_set_timer.html"
	// StopPage answers every stop command.
	StopPage = "success_stop_timer.html"
)

// errUnknownPage is returned for a page name that was never loaded.
var errUnknownPage = errors.New("unknown page")

//go:embed templates/*.html
var embedded embed.FS

// SettingsData is substituted into SettingsPage. Values are shown exactly
// as submitted.
type SettingsData struct {
	RingTime string
	Ringtone string
	Snooze   string
}

// Renderer executes the page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer loads the embedded pages, replacing each one that also exists
// in dir. An empty dir keeps the embedded pages.
func NewRenderer(dir string) (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, 2)}

	for _, name := range []string{SettingsPage, StopPage} {
		source, err := fs.ReadFile(embedded, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("read embedded page %s: %w", name, err)
		}

		if dir != "" {
			override, err := os.ReadFile(filepath.Join(dir, name))
			switch {
			case err == nil:
				source = override
			case errors.Is(err, os.ErrNotExist):
			default:
				return nil, fmt.Errorf("read page %s: %w", name, err)
			}
		}

		tmpl, err := template.New(name).Parse(string(source))
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}

		r.pages[name] = tmpl
	}

	return r, nil
}

// Render writes the named page to w. The page is rendered completely before
// anything is written.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, errUnknownPage)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render page %s: %w", name, err)
	}

	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("write page %s: %w", name, err)
	}

	return nil
}
