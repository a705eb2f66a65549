package build

import (
	"bytes"
	"context"
	"fmt"
	"github.com/lionel-solria/deviseur/internal/app"
	"github.com/lionel-solria/deviseur/internal/domain/catalogue"
	"github.com/lionel-solria/deviseur/internal/domain/config"
	"github.com/lionel-solria/deviseur/internal/domain/site"
	"github.com/lionel-solria/deviseur/internal/index"
	"github.com/lionel-solria/deviseur/internal/ingest"
	"github.com/lionel-solria/deviseur/internal/render"
	"github.com/natefinch/atomic"
	"os"
	"path/filepath"
)

type Builder struct {
	Cfg config.Config
}

type Result struct {
	Products   int
	Written    int
	Unchanged  int
	Warnings   []ingest.Warning
	SourceHash string
}

// Run performs one generation. The catalogue is read and validated before
// anything touches the disk, so an empty input leaves no output behind.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	ing, err := ingest.Ingest(b.Cfg.Build.Input)
	if err != nil {
		return nil, fmt.Errorf("ingest failed: %w", err)
	}

	tpl, err := render.NewTemplateRenderer(b.Cfg.Build.ThemeDir)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	var md *render.MarkdownRenderer
	if b.Cfg.Render.MarkdownDescription {
		md = render.NewMarkdownRenderer()
	}

	st, err := index.Open(index.OpenOptions{Path: b.Cfg.Build.IndexPath})
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	defer st.Close()

	if err := st.Rebuild(ing.Products, index.RebuildOptions{
		SourceHash: ing.SourceHash,
	}); err != nil {
		return nil, fmt.Errorf("failed to rebuild index: %w", err)
	}

	if err := os.MkdirAll(b.Cfg.Build.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir pages: %w", err)
	}
	if err := os.MkdirAll(b.Cfg.Build.StylesDir(), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir styles: %w", err)
	}

	res := &Result{
		Products:   len(ing.Products),
		Warnings:   ing.Warnings,
		SourceHash: ing.SourceHash,
	}
	if err := b.buildAll(ctx, tpl, md, ing.Products, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (b *Builder) buildAll(
	ctx context.Context,
	tpl render.Renderer,
	md *render.MarkdownRenderer,
	products []catalogue.Product,
	res *Result,
) error {
	rb := app.NewRouteBuilder(b.Cfg.Build)
	root := app.RootDir(b.Cfg.Build)

	byFile := make(map[string]catalogue.Product, len(products))
	for _, p := range products {
		byFile[p.Filename] = p
	}

	for _, r := range rb.BuildAll(products) {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := b.renderRoute(ctx, tpl, md, r, byFile, products)
		if err != nil {
			return fmt.Errorf("render %s: %w", r, err)
		}

		changed, err := writeFile(root, r.OutPath, data)
		if err != nil {
			return fmt.Errorf("write %s: %w", r.OutPath, err)
		}
		if changed {
			res.Written++
		} else {
			res.Unchanged++
		}
	}
	return nil
}

func (b *Builder) renderRoute(
	ctx context.Context,
	tpl render.Renderer,
	md *render.MarkdownRenderer,
	r site.Route,
	byFile map[string]catalogue.Product,
	products []catalogue.Product,
) ([]byte, error) {
	switch r.Kind {
	case site.RouteProduct:
		p, ok := byFile[r.Filename]
		if !ok {
			return nil, fmt.Errorf("no product for %s", r.Filename)
		}
		page, err := render.NewProductPage(b.Cfg.Site, p, md)
		if err != nil {
			return nil, err
		}
		return tpl.RenderProduct(ctx, page)
	case site.RouteIndex:
		return tpl.RenderIndex(ctx, render.NewIndexPage(b.Cfg.Site, products))
	case site.RouteStylesheet:
		return render.Stylesheet(), nil
	default:
		return nil, fmt.Errorf("unknown route kind %q", r.Kind)
	}
}

// writeFile replaces root/rel atomically. It reports false and leaves the
// file alone when the content is already identical.
func writeFile(root, rel string, data []byte) (bool, error) {
	full := filepath.Join(root, filepath.FromSlash(rel))
	old, err := os.ReadFile(full)
	if err == nil && bytes.Equal(old, data) {
		return false, nil
	}
	isNew := os.IsNotExist(err)

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return false, err
	}
	if err := atomic.WriteFile(full, bytes.NewReader(data)); err != nil {
		return false, err
	}
	// atomic 的临时文件是 0600，新文件放宽到 0644
	if isNew {
		if err := os.Chmod(full, 0o644); err != nil {
			return true, err
		}
	}
	return true, nil
}
