package ingest

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/lionel-solria/deviseur/internal/domain/catalogue"
)

const PageExt = ".html"

// ReservedNames are filenames the generator writes itself.
var ReservedNames = []string{"index.html"}

// Assigner hands out filenames that are unique for one run. It is not
// safe for concurrent use; assignment order decides who gets the bare name.
type Assigner struct {
	taken map[string]struct{}
}

func NewAssigner(reserved ...string) *Assigner {
	a := &Assigner{taken: make(map[string]struct{}, len(reserved))}
	for _, r := range reserved {
		a.taken[r] = struct{}{}
	}
	return a
}

// Assign returns the filename for p and whether a numeric suffix was needed.
func (a *Assigner) Assign(p catalogue.Product) (string, bool) {
	base := BaseName(p)
	name := base + PageExt
	suffixed := false
	for n := 2; ; n++ {
		if _, ok := a.taken[name]; !ok {
			break
		}
		name = fmt.Sprintf("%s-%d%s", base, n, PageExt)
		suffixed = true
	}
	a.taken[name] = struct{}{}
	return name, suffixed
}

// BaseName is the filename stem before any uniqueness suffix: the product
// identifier when it is a usable path segment, else a slug.
func BaseName(p catalogue.Product) string {
	if id := p.ID(); id != "" {
		if isSafeSegment(id) {
			return id
		}
		return Slugify(id)
	}
	return Slugify(p.Name())
}

func isSafeSegment(s string) bool {
	if s == "." || s == ".." {
		return false
	}
	if strings.ContainsAny(s, `/\`) {
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// AssignFilenames sets Filename on every product, in slice order. Products
// that needed a suffix, or whose name differs from an earlier one only by
// case, are reported as warnings without a path.
func AssignFilenames(products []catalogue.Product) []Warning {
	a := NewAssigner(ReservedNames...)
	// 名字比较区分大小写；大小写不敏感的文件系统上 P1.html 与 p1.html 会互相覆盖
	folded := make(map[string]string, len(products))
	var warns []Warning
	for i := range products {
		name, suffixed := a.Assign(products[i])
		products[i].Filename = name
		if suffixed {
			warns = append(warns, Warning{
				Line: products[i].Line,
				Msg:  fmt.Sprintf("filename %s already taken, using %s", BaseName(products[i])+PageExt, name),
			})
		}
		key := strings.ToLower(name)
		if prev, ok := folded[key]; ok {
			warns = append(warns, Warning{
				Line: products[i].Line,
				Msg:  fmt.Sprintf("filename %s differs from %s only by case, they collide on case-insensitive filesystems", name, prev),
			})
			continue
		}
		folded[key] = name
	}
	return warns
}
