package ingest

import (
	"bytes"
	"fmt"
	"os"

	domainbuild "github.com/lionel-solria/deviseur/internal/domain/build"
	"github.com/lionel-solria/deviseur/internal/domain/catalogue"
	domainerr "github.com/lionel-solria/deviseur/internal/domain/errors"
)

type Warning struct {
	Path string
	Line int
	Msg  string
}

func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", w.Path, w.Line, w.Msg)
	}
	return fmt.Sprintf("%s: %s", w.Path, w.Msg)
}

type Result struct {
	Products []catalogue.Product
	Warnings []Warning
	// 源文件原始内容的 sha256，用于 serve 判断是否需要重建
	SourceHash string
}

// Ingest reads the catalogue at path and assigns every product its output
// filename. Assignment runs after the whole table is read, in row order.
func Ingest(path string) (*Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &domainerr.InputError{Path: path, Err: err}
	}

	products, warns, err := ReadProducts(bytes.NewReader(raw), path)
	if err != nil {
		return nil, err
	}

	for _, w := range AssignFilenames(products) {
		w.Path = path
		warns = append(warns, w)
	}

	return &Result{
		Products:   products,
		Warnings:   warns,
		SourceHash: domainbuild.HashBytes(raw),
	}, nil
}
