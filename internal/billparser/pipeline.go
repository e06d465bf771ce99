package billparser

import (
	"context"
	"fmt"
	"image"
	"log"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"medbill/internal/domain"
	"medbill/internal/port"
)

// DefaultOCRConcurrency bounds how many pages are OCR'd at once.
const DefaultOCRConcurrency = 4

// Config tunes a Pipeline.
type Config struct {
	OCRConcurrency         int
	RefineLimit            int
	DiscoverEmbeddedImages bool
	MaxEmbeddedImages      int
}

// Pipeline drives OCR, deduplication, line-item extraction, correction,
// refinement and totals extraction for a single document.
// It holds no per-request state and is safe for concurrent use.
type Pipeline struct {
	loader    port.DocumentLoader
	ocr       port.OCREngine
	extractor port.StructuredExtractor
	refiner   *Refiner
	cfg       Config
}

// NewPipeline creates a Pipeline, filling unset Config fields with defaults.
func NewPipeline(loader port.DocumentLoader, ocr port.OCREngine, extractor port.StructuredExtractor, cfg Config) *Pipeline {
	if cfg.OCRConcurrency <= 0 {
		cfg.OCRConcurrency = DefaultOCRConcurrency
	}
	if cfg.MaxEmbeddedImages <= 0 {
		cfg.MaxEmbeddedImages = DefaultMaxEmbeddedImages
	}
	return &Pipeline{
		loader:    loader,
		ocr:       ocr,
		extractor: extractor,
		refiner:   NewRefiner(extractor, cfg.RefineLimit),
		cfg:       cfg,
	}
}

// Extract runs the full pipeline for the document at ref. Load, OCR and LLM
// transport failures abort the request; malformed LLM output only degrades it.
func (p *Pipeline) Extract(ctx context.Context, ref string) (*domain.ExtractionResult, error) {
	start := time.Now()

	images, err := p.loader.Load(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("billparser.Extract: %w", err)
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("billparser.Extract: %w: document has no pages", domain.ErrDocumentLoad)
	}

	rawTexts, err := p.recognizeAll(ctx, images)
	if err != nil {
		return nil, fmt.Errorf("billparser.Extract: %w", err)
	}
	if p.cfg.DiscoverEmbeddedImages {
		rawTexts = append(rawTexts, p.discoverEmbedded(ctx, ref, rawTexts)...)
	}

	texts := DedupPages(rawTexts)
	log.Printf("billparser.Pipeline: %d pages recognized, %d after dedup", len(rawTexts), len(texts))

	var usage domain.TokenUsage
	pages := make([]domain.Page, 0, len(texts))
	var full strings.Builder
	for i, text := range texts {
		full.WriteString(text)
		full.WriteString("\n")

		page, pageUsage, err := p.processPage(ctx, i+1, text)
		if err != nil {
			return nil, fmt.Errorf("billparser.Extract: page %d: %w", i+1, err)
		}
		usage = usage.Add(pageUsage)
		pages = append(pages, page)
	}

	rawTotals, totalsUsage, err := p.extractor.ExtractTotals(ctx, full.String())
	if err != nil {
		return nil, fmt.Errorf("billparser.Extract: totals: %w", err)
	}
	usage = usage.Add(totalsUsage)

	itemCount := 0
	for i := range pages {
		itemCount += len(pages[i].BillItems)
	}

	log.Printf("billparser.Pipeline: extracted %d items over %d pages in %s (tokens=%d)",
		itemCount, len(pages), time.Since(start).Round(time.Millisecond), usage.Total)

	return &domain.ExtractionResult{
		IsSuccess:  true,
		TokenUsage: usage,
		Data: domain.ExtractionData{
			PagewiseLineItems: pages,
			TotalItemCount:    itemCount,
		},
		Totals: TotalsFromObject(rawTotals),
	}, nil
}

func (p *Pipeline) processPage(ctx context.Context, pageNo int, text string) (domain.Page, domain.TokenUsage, error) {
	out, usage, err := p.extractor.ExtractLineItems(ctx, text)
	if err != nil {
		return domain.Page{}, usage, err
	}

	items := ValidateItems(out["bill_items"])
	items = ReOCRSuspects(text, items)
	items, refineUsage := p.refiner.Refine(ctx, items, text)
	usage = usage.Add(refineUsage)

	return domain.Page{
		PageNo:    strconv.Itoa(pageNo),
		PageType:  domain.NormalizePageType(out["page_type"]),
		BillItems: items,
	}, usage, nil
}

// recognizeAll OCRs images on a bounded worker pool. Results keep input order
// regardless of completion order.
func (p *Pipeline) recognizeAll(ctx context.Context, images []image.Image) ([]string, error) {
	texts := make([]string, len(images))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ocrWorkers(p.cfg.OCRConcurrency, len(images)))
	for i, img := range images {
		g.Go(func() error {
			text, err := p.ocr.Recognize(gctx, img)
			if err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrOCRFailed, err)
	}
	return texts, nil
}

func ocrWorkers(limit, pages int) int {
	return max(1, min(limit, pages))
}
