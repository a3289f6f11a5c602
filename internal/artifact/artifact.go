// Package artifact inspects the file a compile run is expected to produce.
package artifact

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Info describes the artifact after a run.
type Info struct {
	Path   string
	Exists bool
	Size   int64
	// Pages is 0 when unknown (not a PDF, or unreadable).
	Pages int
}

// Inspect stats path and, for PDFs, reads the page count. Only the existence
// check decides success; page counting problems are logged and ignored.
func Inspect(path string, logger *slog.Logger) Info {
	if logger == nil {
		logger = slog.Default()
	}
	info := Info{Path: path}
	st, err := os.Stat(path)
	if err != nil || st.IsDir() {
		return info
	}
	info.Exists = true
	info.Size = st.Size()

	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return info
	}
	pages, err := pageCount(path)
	if err != nil {
		logger.Warn("Failed to read PDF page count", "path", path, "error", err)
		return info
	}
	info.Pages = pages
	return info
}

// pageCount reads the page count of the PDF at path. A truncated file left by
// a crashed engine can make the parser panic; that is reported as an error.
func pageCount(path string) (n int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("parse %s: %v", filepath.Base(path), r)
		}
	}()
	return api.PageCount(f, nil)
}
