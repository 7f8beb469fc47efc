// Package filex inspects local files for attachment and prepares the
// directories local storage lives in.
package filex

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// sniffLen is how many leading bytes content detection looks at.
const sniffLen = 512

// FileInfo is what an attachment records about a file: never its content.
type FileInfo struct {
	Name string
	Size int64
	Type string
}

// Inspect reports name, size and MIME type of the regular file at path. The
// type is sniffed from the content and falls back to the extension only when
// sniffing is inconclusive.
func Inspect(path string) (FileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return FileInfo{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if !st.Mode().IsRegular() {
		return FileInfo{}, fmt.Errorf("%s is not a regular file", path)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return FileInfo{}, fmt.Errorf("read %s: %w", path, err)
	}

	typ := mediaType(http.DetectContentType(head[:n]))
	if typ == "application/octet-stream" || typ == "text/plain" {
		if byExt := mediaType(mime.TypeByExtension(filepath.Ext(path))); byExt != "" {
			typ = byExt
		}
	}

	return FileInfo{Name: filepath.Base(path), Size: st.Size(), Type: typ}, nil
}

// mediaType drops parameters such as "; charset=utf-8".
func mediaType(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}
