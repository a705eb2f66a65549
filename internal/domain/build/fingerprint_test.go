package build

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	if h, err := HashFile(filepath.Join(dir, "missing")); h != "" || err != nil {
		t.Errorf("missing file: %q, %v", h, err)
	}
	if h, err := HashFile(""); h != "" || err != nil {
		t.Errorf("empty path: %q, %v", h, err)
	}

	path := filepath.Join(dir, "a.csv")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	h, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if h != HashBytes([]byte("x")) {
		t.Errorf("HashFile = %q", h)
	}
}

func TestHashDirChangesWithContent(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("product.tmpl", "a")
	write("index.tmpl", "b")

	h1, err := HashDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	h2, _ := HashDir(dir)
	if h1 != h2 || h1 == "" {
		t.Fatalf("unstable hash: %q vs %q", h1, h2)
	}

	write("product.tmpl", "c")
	h3, _ := HashDir(dir)
	if h3 == h1 {
		t.Error("content change not detected")
	}
}

func TestRenderHash(t *testing.T) {
	a := Fingerprint{SourceHash: "s", ConfigHash: "c"}
	b := a
	a.ComputeRenderHash()
	b.ComputeRenderHash()
	if a.RenderHash != b.RenderHash {
		t.Error("same inputs, different hash")
	}
	b.ThemeHash = "t"
	b.ComputeRenderHash()
	if a.RenderHash == b.RenderHash {
		t.Error("theme change not reflected")
	}
}
