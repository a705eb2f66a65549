package app

import (
	"path/filepath"
	"testing"

	"github.com/lionel-solria/deviseur/internal/domain/catalogue"
	"github.com/lionel-solria/deviseur/internal/domain/config"
	"github.com/lionel-solria/deviseur/internal/domain/site"
)

func TestBuildAll(t *testing.T) {
	b := config.BuildConfig{OutputDir: filepath.Join("out", "catalogue", "pages")}
	rb := NewRouteBuilder(b)
	if rb.PagesDir != "pages" {
		t.Fatalf("PagesDir = %q", rb.PagesDir)
	}

	routes := rb.BuildAll([]catalogue.Product{
		{Line: 2, Filename: "P100.html"},
		{Line: 3, Filename: "cafe-creme.html"},
	})

	want := []struct {
		kind site.RouteKind
		out  string
	}{
		{site.RouteProduct, "pages/P100.html"},
		{site.RouteProduct, "pages/cafe-creme.html"},
		{site.RouteIndex, "pages/index.html"},
		{site.RouteStylesheet, "styles/catalog-page.css"},
	}
	if len(routes) != len(want) {
		t.Fatalf("got %d routes", len(routes))
	}
	for i, w := range want {
		if routes[i].Kind != w.kind || routes[i].OutPath != w.out {
			t.Errorf("route %d = %s, want %s %s", i, routes[i], w.kind, w.out)
		}
	}
	if routes[1].Line != 3 {
		t.Errorf("Line = %d", routes[1].Line)
	}

	if got, want := RootDir(b), filepath.Join("out", "catalogue"); got != want {
		t.Errorf("RootDir = %q, want %q", got, want)
	}
}

func TestRouteURLPath(t *testing.T) {
	rb := NewRouteBuilder(config.BuildConfig{OutputDir: "catalogue/pages/"})
	if got := rb.IndexRoute().URLPath(); got != "/pages/index.html" {
		t.Errorf("index URL = %q", got)
	}
	if got := rb.StylesheetRoute().URLPath(); got != "/styles/catalog-page.css" {
		t.Errorf("stylesheet URL = %q", got)
	}
	if got := rb.IndexRoute().String(); got != "index file=index.html out=pages/index.html" {
		t.Errorf("String = %q", got)
	}
}
