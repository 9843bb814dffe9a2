// Package template renders the HTML fragments payment providers contribute
// to checkout and order pages.
package template

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/orris-inc/ticketry/internal/domain/payment"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

//go:embed templates
var embedded embed.FS

// FormTemplate renders a payment.Form.
const FormTemplate = "payment/form.html"

// HTMLRenderer implements payment.Renderer. Templates are named by their path
// below templates/, e.g. "payment/checkout_form.html".
type HTMLRenderer struct {
	set    *template.Template
	logger logger.Interface
}

// NewHTMLRenderer parses the embedded templates. Files under overrideDir with
// the same relative name replace the embedded ones; a missing directory is
// not an error.
func NewHTMLRenderer(overrideDir string, log logger.Interface) (*HTMLRenderer, error) {
	set := template.New("")

	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		return nil, err
	}
	if err := parseTree(set, sub); err != nil {
		return nil, err
	}

	if overrideDir != "" {
		if _, statErr := os.Stat(overrideDir); statErr == nil {
			if err := parseTree(set, os.DirFS(overrideDir)); err != nil {
				return nil, err
			}
			log.Infow("loaded template overrides", "path", overrideDir)
		} else {
			log.Warnw("template override directory not found, using embedded templates", "path", overrideDir)
		}
	}

	return &HTMLRenderer{set: set, logger: log}, nil
}

func parseTree(set *template.Template, fsys fs.FS) error {
	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}
		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(path)
		if _, err := set.New(name).Parse(string(content)); err != nil {
			return fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		return nil
	})
}

func (r *HTMLRenderer) RenderForm(f *payment.Form) (template.HTML, error) {
	return r.RenderTemplate(FormTemplate, f)
}

func (r *HTMLRenderer) RenderTemplate(name string, data any) (template.HTML, error) {
	t := r.set.Lookup(name)
	if t == nil {
		return "", fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		r.logger.Errorw("failed to render template", "template", name, "error", err)
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}

	return template.HTML(strings.TrimSpace(buf.String())), nil
}

// Has reports whether a template with name is loaded.
func (r *HTMLRenderer) Has(name string) bool {
	return r.set.Lookup(name) != nil
}
