package render

import (
	"html/template"
	"net/url"
	"strings"

	"github.com/lionel-solria/deviseur/internal/domain/catalogue"
	"github.com/lionel-solria/deviseur/internal/domain/config"
)

// StylesheetHref is how every page, which lives in the pages directory,
// reaches the sibling styles directory.
const StylesheetHref = "../" + config.StylesDirName + "/" + config.StylesheetName

type ProductPage struct {
	Site           config.SiteConfig
	Title          string
	StylesheetHref string
	IndexHref      string

	Name      string
	ID        string
	Reference string
	Category  string
	Unit      string

	Description string
	// 仅在开启 markdown_description 时填充
	DescriptionHTML template.HTML

	Tariffs []catalogue.Tariff
	Link    string
	Image   string
}

type IndexItem struct {
	Href  string
	Label string
}

type IndexPage struct {
	Site           config.SiteConfig
	Title          string
	StylesheetHref string
	Items          []IndexItem
}

// NewProductPage maps a product onto its page. md may be nil, in which
// case the description is rendered as escaped plain text.
func NewProductPage(site config.SiteConfig, p catalogue.Product, md *MarkdownRenderer) (ProductPage, error) {
	name := p.DisplayName()
	page := ProductPage{
		Site:           site,
		Title:          name + " – Fiche produit",
		StylesheetHref: StylesheetHref,
		IndexHref:      PageHref(config.IndexPageName),
		Name:           name,
		ID:             p.ID(),
		Reference:      p.Reference(),
		Category:       p.Category(),
		Unit:           p.Unit(),
		Description:    p.Description(),
		Tariffs:        p.Tariffs(),
		Link:           p.Link(),
		Image:          p.Image(),
	}
	if md != nil && page.Description != "" {
		h, err := md.Render([]byte(page.Description))
		if err != nil {
			return page, err
		}
		page.DescriptionHTML = h
	}
	return page, nil
}

func NewIndexPage(site config.SiteConfig, products []catalogue.Product) IndexPage {
	items := make([]IndexItem, 0, len(products))
	for _, p := range products {
		items = append(items, IndexItem{
			Href:  PageHref(p.Filename),
			Label: p.DisplayName(),
		})
	}
	return IndexPage{
		Site:           site,
		Title:          site.IndexTitle,
		StylesheetHref: StylesheetHref,
		Items:          items,
	}
}

// PageHref turns a filename into a relative link. ':' is escaped too, so an
// identifier like "ABC:1" is not read as a URL scheme.
func PageHref(filename string) string {
	return strings.ReplaceAll(url.PathEscape(filename), ":", "%3A")
}
