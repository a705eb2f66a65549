package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"path/filepath"
)

//go:embed assets/templates/*.tmpl
var defaultTemplates embed.FS

//go:embed assets/catalog-page.css
var stylesheet []byte

var requiredTemplates = []string{"head", "footer", "product", "index"}

type TemplateRenderer struct {
	tpl *template.Template
}

// NewTemplateRenderer loads the built-in templates, then any *.tmpl found in
// themeDir; a theme file redefining "product" or "index" replaces the
// built-in one. An empty themeDir keeps the defaults.
func NewTemplateRenderer(themeDir string) (*TemplateRenderer, error) {
	tpl, err := template.New("").ParseFS(defaultTemplates, "assets/templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse built-in templates: %w", err)
	}

	if themeDir != "" {
		pattern := filepath.Join(themeDir, "*.tmpl")
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		if len(matches) > 0 {
			if tpl, err = tpl.ParseFiles(matches...); err != nil {
				return nil, fmt.Errorf("parse theme templates(%s): %w", themeDir, err)
			}
		}
	}

	for _, name := range requiredTemplates {
		if tpl.Lookup(name) == nil {
			return nil, fmt.Errorf("missing template: %s", name)
		}
	}
	return &TemplateRenderer{tpl: tpl}, nil
}

func (r *TemplateRenderer) RenderProduct(ctx context.Context, page ProductPage) ([]byte, error) {
	return r.exec("product", page)
}

func (r *TemplateRenderer) RenderIndex(ctx context.Context, page IndexPage) ([]byte, error) {
	return r.exec("index", page)
}

func (r *TemplateRenderer) exec(name string, data interface{}) ([]byte, error) {
	t := r.tpl.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Stylesheet returns the shared CSS written next to the pages.
func Stylesheet() []byte {
	return bytes.Clone(stylesheet)
}
