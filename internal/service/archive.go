package service

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// Archive streams a zip file to the underlying writer one entry at a time
type Archive struct {
	zw    *zip.Writer
	names map[string]int
}

func NewArchive(w io.Writer) *Archive {
	return &Archive{
		zw:    zip.NewWriter(w),
		names: make(map[string]int),
	}
}

// Append copies r into a new entry. Names are flattened and made unique,
// a second "cat.jpg" becomes "cat (2).jpg".
func (a *Archive) Append(name string, r io.Reader) error {
	w, err := a.zw.CreateHeader(&zip.FileHeader{
		Name:     a.uniqueName(name),
		Method:   zip.Deflate,
		Modified: time.Now(),
	})
	if err != nil {
		return err
	}

	_, err = io.Copy(w, r)
	return err
}

func (a *Archive) Close() error {
	return a.zw.Close()
}

func (a *Archive) uniqueName(name string) string {
	name = strings.NewReplacer("/", "_", "\\", "_").Replace(strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." {
		name = "untitled"
	}

	a.names[name]++
	n := a.names[name]
	if n == 1 {
		return name
	}

	ext := path.Ext(name)
	candidate := fmt.Sprintf("%s (%d)%s", strings.TrimSuffix(name, ext), n, ext)

	// Reserve the generated name too in case a later title literally is
	// "cat (2).jpg"
	for a.names[candidate] > 0 {
		n++
		candidate = fmt.Sprintf("%s (%d)%s", strings.TrimSuffix(name, ext), n, ext)
	}
	a.names[candidate]++

	return candidate
}
