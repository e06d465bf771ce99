package billparser_test

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"medbill/internal/billparser"
	"medbill/internal/domain"
	"medbill/mocks"
)

func TestFindImageLinks(t *testing.T) {
	texts := []string{
		"Scan attached: https://cdn.example.com/a.png and again https://cdn.example.com/a.png",
		"Prescription http://files.example.org/rx/scan.JPG?sig=abc",
		"Report https://example.com/report.pdf",
	}

	assert.Equal(t, []string{
		"https://cdn.example.com/a.png",
		"http://files.example.org/rx/scan.JPG?sig=abc",
	}, billparser.FindImageLinks(texts, 4))

	assert.Equal(t, []string{"https://cdn.example.com/a.png"}, billparser.FindImageLinks(texts, 1))
	assert.Len(t, billparser.FindImageLinks(texts, -1), 2)
	assert.Empty(t, billparser.FindImageLinks([]string{"no links here"}, 4))
}

func TestSameHostLinks(t *testing.T) {
	links := []string{
		"https://files.example.com/a.png",
		"http://127.0.0.1/admin.png",
		"http://10.0.0.5/internal.jpg",
		"https://FILES.example.com/b.jpg",
		"https://files.example.com.evil.net/c.png",
		"https://files.example.com/d.png",
	}

	assert.Equal(t, []string{
		"https://files.example.com/a.png",
		"https://FILES.example.com/b.jpg",
		"https://files.example.com/d.png",
	}, billparser.SameHostLinks("https://files.example.com/bill.pdf", links, 4))
	assert.Equal(t, []string{"https://files.example.com/a.png"},
		billparser.SameHostLinks("https://files.example.com/bill.pdf", links, 1))
	assert.Empty(t, billparser.SameHostLinks("s3://bucket/bill.pdf", links, 4))
	assert.Empty(t, billparser.SameHostLinks("::not a url", links, 4))
}

func TestPipeline_DiscoversEmbeddedImages(t *testing.T) {
	loader := new(mocks.MockDocumentLoader)
	engine := new(mocks.MockOCREngine)
	extractor := new(mocks.MockStructuredExtractor)

	mainPage := image.NewGray(image.Rect(0, 0, 2, 2))
	linked := image.NewGray(image.Rect(0, 0, 3, 3))
	mainText := "Bill page 1 see https://cdn.example.com/rx.png and https://cdn.example.com/broken.jpg " +
		"also http://127.0.0.1/admin.png and https://other.example.net/x.png"
	linkedText := "Pharmacy slip Amoxicillin 2 40 80"

	loader.On("Load", mock.Anything, "https://cdn.example.com/bill.pdf").Return([]image.Image{mainPage}, nil)
	loader.On("Load", mock.Anything, "https://cdn.example.com/rx.png").Return([]image.Image{linked}, nil)
	loader.On("Load", mock.Anything, "https://cdn.example.com/broken.jpg").
		Return(nil, domain.ErrUnsupportedFormat)
	engine.On("Recognize", mock.Anything, mainPage).Return(mainText, nil)
	engine.On("Recognize", mock.Anything, linked).Return(linkedText, nil)
	extractor.On("ExtractLineItems", mock.Anything, mock.Anything).
		Return(map[string]any{}, domain.TokenUsage{Total: 1}, nil)
	extractor.On("ExtractTotals", mock.Anything, mainText+"\n"+linkedText+"\n").
		Return(map[string]any{}, domain.TokenUsage{Total: 1}, nil)

	p := billparser.NewPipeline(loader, engine, extractor, billparser.Config{DiscoverEmbeddedImages: true})
	result, err := p.Extract(context.Background(), "https://cdn.example.com/bill.pdf")

	require.NoError(t, err)
	assert.Len(t, result.Data.PagewiseLineItems, 2)
	assert.Equal(t, int64(3), result.TokenUsage.Total)
	loader.AssertExpectations(t)
	loader.AssertNumberOfCalls(t, "Load", 3)
	loader.AssertNotCalled(t, "Load", mock.Anything, "http://127.0.0.1/admin.png")
	loader.AssertNotCalled(t, "Load", mock.Anything, "https://other.example.net/x.png")
	extractor.AssertExpectations(t)
}

func TestPipeline_EmbeddedDiscoveryDisabledByDefault(t *testing.T) {
	loader := new(mocks.MockDocumentLoader)
	engine := new(mocks.MockOCREngine)
	extractor := new(mocks.MockStructuredExtractor)

	page := image.NewGray(image.Rect(0, 0, 2, 2))
	text := "Bill 1 https://cdn.example.com/rx.png"

	loader.On("Load", mock.Anything, "https://example.com/bill.png").Return([]image.Image{page}, nil)
	engine.On("Recognize", mock.Anything, page).Return(text, nil)
	extractor.On("ExtractLineItems", mock.Anything, text).Return(map[string]any{}, domain.TokenUsage{}, nil)
	extractor.On("ExtractTotals", mock.Anything, text+"\n").Return(map[string]any{}, domain.TokenUsage{}, nil)

	p := billparser.NewPipeline(loader, engine, extractor, billparser.Config{})
	_, err := p.Extract(context.Background(), "https://example.com/bill.png")

	require.NoError(t, err)
	loader.AssertNumberOfCalls(t, "Load", 1)
}

func TestPipeline_EmbeddedOCRFailureIsSkipped(t *testing.T) {
	loader := new(mocks.MockDocumentLoader)
	engine := new(mocks.MockOCREngine)
	extractor := new(mocks.MockStructuredExtractor)

	mainPage := image.NewGray(image.Rect(0, 0, 2, 2))
	linked := image.NewGray(image.Rect(0, 0, 3, 3))
	mainText := "Bill 1 https://cdn.example.com/rx.png"

	loader.On("Load", mock.Anything, "https://cdn.example.com/bill.png").Return([]image.Image{mainPage}, nil)
	loader.On("Load", mock.Anything, "https://cdn.example.com/rx.png").Return([]image.Image{linked}, nil)
	engine.On("Recognize", mock.Anything, mainPage).Return(mainText, nil)
	engine.On("Recognize", mock.Anything, linked).Return("", errors.New("tesseract crashed"))
	extractor.On("ExtractLineItems", mock.Anything, mainText).Return(map[string]any{}, domain.TokenUsage{}, nil)
	extractor.On("ExtractTotals", mock.Anything, mainText+"\n").Return(map[string]any{}, domain.TokenUsage{}, nil)

	p := billparser.NewPipeline(loader, engine, extractor, billparser.Config{DiscoverEmbeddedImages: true})
	result, err := p.Extract(context.Background(), "https://cdn.example.com/bill.png")

	require.NoError(t, err)
	assert.Len(t, result.Data.PagewiseLineItems, 1)
	engine.AssertCalled(t, "Recognize", mock.Anything, linked)
}
