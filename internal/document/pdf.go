package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"medbill/internal/config"
)

// ErrNoPagesRendered is returned when pdftoppm exits cleanly but writes nothing.
var ErrNoPagesRendered = errors.New("no pages rendered")

// PDFRasterizer renders PDF pages to images by shelling out to pdftoppm.
// pdfcpu validates the document and bounds the page range first.
type PDFRasterizer struct {
	runner   Runner
	pdftoppm string
	dpi      int
	maxPages int
}

// NewPDFRasterizer creates a rasterizer that runs the real pdftoppm binary.
func NewPDFRasterizer(cfg *config.OCRConfig) *PDFRasterizer {
	return NewPDFRasterizerWithRunner(cfg, ExecRunner{})
}

// NewPDFRasterizerWithRunner creates a rasterizer with a custom command runner.
func NewPDFRasterizerWithRunner(cfg *config.OCRConfig, runner Runner) *PDFRasterizer {
	bin := cfg.Pdftoppm
	if bin == "" {
		bin = "pdftoppm"
	}
	dpi := cfg.DPI
	if dpi <= 0 {
		dpi = 220
	}
	return &PDFRasterizer{runner: runner, pdftoppm: bin, dpi: dpi, maxPages: cfg.MaxPages}
}

// Rasterize returns one image per PDF page in page order.
func (r *PDFRasterizer) Rasterize(ctx context.Context, pdf []byte) ([]image.Image, error) {
	pageCount, err := api.PageCount(bytes.NewReader(pdf), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("reading pdf: %w", err)
	}
	if pageCount == 0 {
		return nil, ErrNoPagesRendered
	}
	last := pageCount
	if r.maxPages > 0 && last > r.maxPages {
		last = r.maxPages
	}

	tmpDir, err := os.MkdirTemp("", "medbill-pdf-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			log.Printf("document.PDFRasterizer: failed to remove temp dir %q: %v", tmpDir, rmErr)
		}
	}()

	in := filepath.Join(tmpDir, "document.pdf")
	if err := os.WriteFile(in, pdf, 0o600); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}

	prefix := filepath.Join(tmpDir, "page")
	_, errb, err := r.runner.Run(ctx, r.pdftoppm,
		"-r", strconv.Itoa(r.dpi), "-png", "-f", "1", "-l", strconv.Itoa(last), in, prefix)
	if err != nil {
		return nil, fmt.Errorf("pdftoppm: %w: %s", err, truncate(string(errb), 512))
	}

	return collectPages(prefix, last)
}

// collectPages opens the PNGs pdftoppm wrote for prefix. pdftoppm zero-pads
// page numbers to a common width, so lexical order is page order.
func collectPages(prefix string, limit int) ([]image.Image, error) {
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	if len(matches) == 0 {
		return nil, ErrNoPagesRendered
	}

	pages := make([]image.Image, 0, len(matches))
	for _, path := range matches {
		img, err := imaging.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening rendered page %s: %w", filepath.Base(path), err)
		}
		pages = append(pages, img)
	}
	return pages, nil
}
