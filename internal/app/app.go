// Package app assembles the extraction pipeline from configuration.
package app

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"sync"

	"medbill/internal/billparser"
	"medbill/internal/config"
	"medbill/internal/document"
	"medbill/internal/handler"
	"medbill/internal/llm"
	"medbill/internal/llm/openai"
	"medbill/internal/ocr/tesseract"
	"medbill/internal/port"
	s3storage "medbill/internal/storage/s3"
)

var registerOnce sync.Once

// RegisterProviders registers the built-in LLM providers with the llm factory.
func RegisterProviders() {
	registerOnce.Do(func() {
		llm.RegisterProvider("groq", openai.NewGroqClient)
		llm.RegisterProvider("openai", openai.NewOpenAIClient)
	})
}

// NewPipeline wires the loader, OCR engine and LLM extractor described by cfg.
func NewPipeline(cfg *config.Config) (*billparser.Pipeline, error) {
	RegisterProviders()

	chat, err := llm.NewChatClient(&cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize llm client: %w", err)
	}

	var storage port.ObjectStorage
	if cfg.S3.Enabled() {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		log.Printf("app: s3:// document references enabled (region %s)", cfg.S3.Region)
	}

	loader := document.NewLoader(&cfg.Document, document.NewPDFRasterizer(&cfg.OCR), storage)
	engine := tesseract.NewEngine(&cfg.OCR)
	extractor := llm.NewExtractor(chat)

	log.Printf("app: using %s model %s", cfg.LLM.Provider, cfg.LLM.Model)
	return billparser.NewPipeline(loader, engine, extractor, billparser.Config{
		OCRConcurrency:         cfg.Extraction.OCRConcurrency,
		RefineLimit:            cfg.Extraction.RefineLimit,
		DiscoverEmbeddedImages: cfg.Extraction.DiscoverEmbeddedImages,
		MaxEmbeddedImages:      cfg.Extraction.MaxEmbeddedImages,
	}), nil
}

// ReadinessChecks reports on the external binaries the pipeline shells out to.
func ReadinessChecks(cfg *config.Config) map[string]handler.ReadinessCheck {
	return map[string]handler.ReadinessCheck{
		"pdftoppm": func(context.Context) error {
			_, err := exec.LookPath(cfg.OCR.Pdftoppm)
			return err
		},
	}
}
