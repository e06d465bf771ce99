package tesseract

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"medbill/internal/config"
	"medbill/internal/ocr"
)

// Engine recognizes page text with Tesseract. A fresh client is created per
// call because gosseract clients are not safe for concurrent use.
type Engine struct {
	languages   []string
	tessdataDir string
	preprocess  bool
}

// NewEngine creates a Tesseract-backed OCR engine.
func NewEngine(cfg *config.OCRConfig) *Engine {
	var langs []string
	for _, l := range strings.Split(cfg.Language, "+") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	if len(langs) == 0 {
		langs = []string{"eng"}
	}
	return &Engine{
		languages:   langs,
		tessdataDir: cfg.TessdataDir,
		preprocess:  cfg.Preprocess,
	}
}

// Recognize returns the text Tesseract reads from img.
func (e *Engine) Recognize(ctx context.Context, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if e.preprocess {
		img = ocr.Preprocess(img)
	}
	data, err := ocr.EncodePNG(img)
	if err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if e.tessdataDir != "" {
		if err := client.SetTessdataPrefix(e.tessdataDir); err != nil {
			return "", fmt.Errorf("tesseract.Engine: setting tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(e.languages...); err != nil {
		return "", fmt.Errorf("tesseract.Engine: setting language: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("tesseract.Engine: setting image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract.Engine: recognizing text: %w", err)
	}
	return text, nil
}
