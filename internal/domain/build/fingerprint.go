package build

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Fingerprint identifies the inputs of one generation run. Two runs with
// the same RenderHash produce the same files.
type Fingerprint struct {
	SourceHash string
	ConfigHash string
	ThemeHash  string
	RenderHash string
}

func (f *Fingerprint) ComputeRenderHash() {
	h := sha256.New()
	h.Write([]byte(f.SourceHash))
	h.Write([]byte(f.ConfigHash))
	h.Write([]byte(f.ThemeHash))
	f.RenderHash = hex.EncodeToString(h.Sum(nil))
}

func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// HashFile hashes a file's content; a missing file hashes to "".
func HashFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return HashBytes(data), nil
}

// HashDir hashes every regular file under root, in lexical path order.
func HashDir(root string) (string, error) {
	if root == "" {
		return "", nil
	}
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	sort.Strings(files)

	h := sha256.New()
	for _, p := range files {
		data, err := os.ReadFile(p)
		if err != nil {
			return "", err
		}
		rel, _ := filepath.Rel(root, p)
		h.Write([]byte(filepath.ToSlash(rel)))
		h.Write([]byte{0})
		h.Write([]byte(HashBytes(data)))
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
