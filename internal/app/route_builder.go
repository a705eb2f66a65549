package app

import (
	"github.com/lionel-solria/deviseur/internal/domain/catalogue"
	"github.com/lionel-solria/deviseur/internal/domain/config"
	"github.com/lionel-solria/deviseur/internal/domain/site"
	"path"
	"path/filepath"
)

// RouteBuilder maps products and the shared files onto output paths,
// relative to the catalogue root (the parent of the pages directory).
type RouteBuilder struct {
	// 页面目录名，例如 "pages"
	PagesDir string
}

func NewRouteBuilder(b config.BuildConfig) *RouteBuilder {
	return &RouteBuilder{PagesDir: PagesDirName(b)}
}

func PagesDirName(b config.BuildConfig) string {
	return path.Base(slashClean(b.OutputDir))
}

func (rb *RouteBuilder) BuildProductRoutes(products []catalogue.Product) []site.Route {
	routes := make([]site.Route, 0, len(products))
	for _, p := range products {
		routes = append(routes, site.Route{
			Kind:     site.RouteProduct,
			Filename: p.Filename,
			Line:     p.Line,
			OutPath:  path.Join(rb.PagesDir, p.Filename),
		})
	}
	return routes
}

func (rb *RouteBuilder) IndexRoute() site.Route {
	return site.Route{
		Kind:     site.RouteIndex,
		Filename: config.IndexPageName,
		OutPath:  path.Join(rb.PagesDir, config.IndexPageName),
	}
}

func (rb *RouteBuilder) StylesheetRoute() site.Route {
	return site.Route{
		Kind:     site.RouteStylesheet,
		Filename: config.StylesheetName,
		OutPath:  path.Join(config.StylesDirName, config.StylesheetName),
	}
}

// BuildAll lists every file of a run in write order: product pages, the
// index, then the stylesheet.
func (rb *RouteBuilder) BuildAll(products []catalogue.Product) []site.Route {
	routes := rb.BuildProductRoutes(products)
	routes = append(routes, rb.IndexRoute(), rb.StylesheetRoute())
	return routes
}

// RootDir is the directory OutPath values are relative to.
func RootDir(b config.BuildConfig) string {
	return filepath.Dir(filepath.Clean(b.OutputDir))
}

func slashClean(p string) string {
	return path.Clean(filepath.ToSlash(p))
}
