package site

import (
	"fmt"
	"strings"
)

type RouteKind string

const (
	RouteIndex      RouteKind = "index"
	RouteProduct    RouteKind = "product"
	RouteStylesheet RouteKind = "stylesheet"
)

// Route is one generated file. OutPath is relative to the catalogue root
// (the parent of the pages directory) and always uses forward slashes.
type Route struct {
	Kind     RouteKind
	Filename string
	Line     int
	OutPath  string
}

func (r Route) String() string {
	var parts []string
	parts = append(parts, string(r.Kind))
	if r.Filename != "" {
		parts = append(parts, "file="+r.Filename)
	}
	if r.Line > 0 {
		parts = append(parts, fmt.Sprintf("line=%d", r.Line))
	}
	if r.OutPath != "" {
		parts = append(parts, "out="+r.OutPath)
	}
	return strings.Join(parts, " ")
}

// URLPath is the path the preview server answers this route on.
func (r Route) URLPath() string {
	return "/" + strings.TrimPrefix(r.OutPath, "/")
}
