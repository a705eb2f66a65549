package index

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/lionel-solria/deviseur/internal/domain/catalogue"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	st, err := Open(OpenOptions{Path: filepath.Join(t.TempDir(), "sub", "index.db")})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func item(filename, name, cat string, line int) catalogue.Product {
	return catalogue.Product{
		Line:     line,
		Filename: filename,
		Fields: map[string]string{
			catalogue.FieldName:     name,
			catalogue.FieldCategory: cat,
		},
	}
}

func filenames(ps []catalogue.Product) []string {
	var out []string
	for _, p := range ps {
		out = append(out, p.Filename)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRebuildAndQuery(t *testing.T) {
	st := openTemp(t)
	products := []catalogue.Product{
		item("z.html", "Zèbre", "Animaux", 2),
		item("a.html", "Abricot", "Fruits", 3),
		item("c.html", "Chat", "Animaux", 4),
		item("n.html", "Sans catégorie", "", 5),
	}
	if err := st.Rebuild(products, RebuildOptions{SourceHash: "abc"}); err != nil {
		t.Fatal(err)
	}

	all, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if got := filenames(all); !equal(got, []string{"z.html", "a.html", "c.html", "n.html"}) {
		t.Errorf("List = %v, want input order", got)
	}

	p, err := st.Get("c.html")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name() != "Chat" || p.Line != 4 {
		t.Errorf("Get = %+v", p)
	}
	if _, err := st.Get("missing.html"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing: %v", err)
	}

	animals, err := st.ListByCategory("Animaux")
	if err != nil {
		t.Fatal(err)
	}
	if got := filenames(animals); !equal(got, []string{"z.html", "c.html"}) {
		t.Errorf("ListByCategory = %v", got)
	}
	if none, _ := st.ListByCategory("Inconnue"); len(none) != 0 {
		t.Errorf("unknown category = %v", none)
	}

	stats, err := st.Categories()
	if err != nil {
		t.Fatal(err)
	}
	want := []CategoryStat{{"Animaux", 2}, {"Fruits", 1}}
	if len(stats) != len(want) || stats[0] != want[0] || stats[1] != want[1] {
		t.Errorf("Categories = %v, want %v", stats, want)
	}

	if n, _ := st.Count(); n != 4 {
		t.Errorf("Count = %d", n)
	}
	if h, _ := st.SourceHash(); h != "abc" {
		t.Errorf("SourceHash = %q", h)
	}
}

func TestRebuildReplacesPreviousRun(t *testing.T) {
	st := openTemp(t)
	if err := st.Rebuild([]catalogue.Product{
		item("a.html", "A", "X", 2),
		item("b.html", "B", "Y", 3),
	}, RebuildOptions{SourceHash: "one"}); err != nil {
		t.Fatal(err)
	}
	if err := st.Rebuild([]catalogue.Product{
		item("b.html", "B", "X", 2),
	}, RebuildOptions{SourceHash: "two"}); err != nil {
		t.Fatal(err)
	}

	if _, err := st.Get("a.html"); !errors.Is(err, ErrNotFound) {
		t.Errorf("stale product survived: %v", err)
	}
	stats, _ := st.Categories()
	if len(stats) != 1 || stats[0].Name != "X" || stats[0].Count != 1 {
		t.Errorf("Categories = %v", stats)
	}
	if n, _ := st.Count(); n != 1 {
		t.Errorf("Count = %d", n)
	}
}

func TestRebuildEmpty(t *testing.T) {
	st := openTemp(t)
	if err := st.Rebuild(nil, RebuildOptions{}); err != nil {
		t.Fatal(err)
	}
	all, err := st.List()
	if err != nil || len(all) != 0 {
		t.Errorf("List = %v, %v", all, err)
	}
}

func TestRebuildRejectsBadFilenames(t *testing.T) {
	st := openTemp(t)
	if err := st.Rebuild([]catalogue.Product{item("", "A", "", 2)}, RebuildOptions{}); err == nil {
		t.Error("empty filename accepted")
	}
	err := st.Rebuild([]catalogue.Product{
		item("a.html", "A", "", 2),
		item("a.html", "B", "", 3),
	}, RebuildOptions{SourceHash: "dup"})
	if err == nil {
		t.Fatal("duplicate filename accepted")
	}
	// 失败的事务不应留下半成品
	if h, _ := st.SourceHash(); h == "dup" {
		t.Error("failed rebuild was committed")
	}
}

func TestReadOnlyReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	st, err := Open(OpenOptions{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Rebuild([]catalogue.Product{item("a.html", "A", "", 2)}, RebuildOptions{}); err != nil {
		t.Fatal(err)
	}
	st.Close()

	ro, err := Open(OpenOptions{Path: path, ReadOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	defer ro.Close()
	if n, _ := ro.Count(); n != 1 {
		t.Errorf("Count = %d", n)
	}
}

func TestSeqKeyOrder(t *testing.T) {
	a, b := makeSeqKey(9), makeSeqKey(10)
	if string(a) >= string(b) {
		t.Error("seq keys do not sort numerically")
	}
	if n, ok := seqFromKey(b); !ok || n != 10 {
		t.Errorf("seqFromKey = %d, %v", n, ok)
	}
	if _, ok := seqFromKey([]byte("short")); ok {
		t.Error("short key accepted")
	}
}
