package ingest

import (
	"strings"
	"testing"

	"github.com/lionel-solria/deviseur/internal/domain/catalogue"
)

func product(id, name string) catalogue.Product {
	fields := map[string]string{}
	if id != "" {
		fields[catalogue.FieldID] = id
	}
	if name != "" {
		fields[catalogue.FieldName] = name
	}
	return catalogue.Product{Fields: fields}
}

func TestAssignFilenames(t *testing.T) {
	tests := []struct {
		name      string
		products  []catalogue.Product
		want      []string
		wantWarns int
	}{
		{
			name:     "identifier wins over name",
			products: []catalogue.Product{product("P100", "Café Crème")},
			want:     []string{"P100.html"},
		},
		{
			name:     "slug of name without identifier",
			products: []catalogue.Product{product("", "Café Crème")},
			want:     []string{"cafe-creme.html"},
		},
		{
			name:      "same name gets numeric suffix",
			products:  []catalogue.Product{product("", "Café Crème"), product("", "Cafe creme"), product("", "CAFÉ-CRÈME")},
			want:      []string{"cafe-creme.html", "cafe-creme-2.html", "cafe-creme-3.html"},
			wantWarns: 2,
		},
		{
			name:      "duplicate identifiers",
			products:  []catalogue.Product{product("P1", "A"), product("P1", "B")},
			want:      []string{"P1.html", "P1-2.html"},
			wantWarns: 1,
		},
		{
			name:     "no name and no identifier",
			products: []catalogue.Product{product("", "")},
			want:     []string{DefaultSlug + ".html"},
		},
		{
			name:      "index page name is reserved",
			products:  []catalogue.Product{product("index", "")},
			want:      []string{"index-2.html"},
			wantWarns: 1,
		},
		{
			name:     "unsafe identifier is slugified",
			products: []catalogue.Product{product("../etc/passwd", ""), product("a\\b", ""), product("..", "")},
			want:     []string{"etc-passwd.html", "a-b.html", DefaultSlug + ".html"},
		},
		{
			name:      "identifiers differing only by case",
			products:  []catalogue.Product{product("P1", ""), product("p1", ""), product("", "p1")},
			want:      []string{"P1.html", "p1.html", "p1-2.html"},
			wantWarns: 2,
		},
		{
			name:      "suffixed name taken by a later identifier",
			products:  []catalogue.Product{product("", "x"), product("", "x"), product("x-2", "")},
			want:      []string{"x.html", "x-2.html", "x-2-2.html"},
			wantWarns: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warns := AssignFilenames(tt.products)
			for i, p := range tt.products {
				if p.Filename != tt.want[i] {
					t.Errorf("product %d: got %q, want %q", i, p.Filename, tt.want[i])
				}
			}
			if len(warns) != tt.wantWarns {
				t.Errorf("got %d warnings, want %d: %v", len(warns), tt.wantWarns, warns)
			}
		})
	}
}

func TestAssignFilenamesUnique(t *testing.T) {
	names := []string{"Café", "cafe", "CAFE", "", "", "!!", "index", "produit", "Produit", "café!"}
	var products []catalogue.Product
	for _, n := range names {
		products = append(products, product("", n))
	}
	products = append(products, product("cafe", ""), product("produit-2", ""))

	AssignFilenames(products)

	seen := make(map[string]int)
	for i, p := range products {
		if !strings.HasSuffix(p.Filename, PageExt) {
			t.Errorf("product %d: %q lacks %s", i, p.Filename, PageExt)
		}
		if p.Filename == "index.html" {
			t.Errorf("product %d took the index page name", i)
		}
		if prev, ok := seen[p.Filename]; ok {
			t.Errorf("products %d and %d share %q", prev, i, p.Filename)
		}
		seen[p.Filename] = i
	}
}

func TestAssignerKeepsFirstComer(t *testing.T) {
	a := NewAssigner()
	first, suffixed := a.Assign(product("", "Thé vert"))
	if first != "the-vert.html" || suffixed {
		t.Fatalf("first = %q (suffixed %v)", first, suffixed)
	}
	second, suffixed := a.Assign(product("", "thé vert"))
	if second != "the-vert-2.html" || !suffixed {
		t.Fatalf("second = %q (suffixed %v)", second, suffixed)
	}
}

func TestAssignFilenamesCaseWarning(t *testing.T) {
	products := []catalogue.Product{product("ABC", ""), product("", "Zèbre"), product("abc", "")}
	products[2].Line = 7

	warns := AssignFilenames(products)
	if len(warns) != 1 {
		t.Fatalf("got %v, want one warning", warns)
	}
	if warns[0].Line != 7 || !strings.Contains(warns[0].Msg, "abc.html") || !strings.Contains(warns[0].Msg, "ABC.html") {
		t.Errorf("warning = %+v", warns[0])
	}
}
