package document_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"medbill/internal/config"
	"medbill/internal/document"
	"medbill/internal/domain"
	"medbill/mocks"
)

func testDocConfig() *config.DocumentConfig {
	return &config.DocumentConfig{TimeoutSecs: 5, UserAgent: "BillExtractor/1.0", MaxSizeMB: 1}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h)), imaging.JPEG))
	return buf.Bytes()
}

func serve(t *testing.T, status int, body []byte) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "BillExtractor/1.0", r.Header.Get("User-Agent"))
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestLoader_Load_PNG(t *testing.T) {
	server := serve(t, http.StatusOK, pngBytes(t, 4, 3))
	loader := document.NewLoader(testDocConfig(), new(mocks.MockRasterizer), nil)

	pages, err := loader.Load(context.Background(), server.URL+"/bill.png")

	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 4, pages[0].Bounds().Dx())
	assert.Equal(t, 3, pages[0].Bounds().Dy())
}

func TestLoader_Load_JPEGWithoutExtension(t *testing.T) {
	server := serve(t, http.StatusOK, jpegBytes(t, 5, 5))
	loader := document.NewLoader(testDocConfig(), new(mocks.MockRasterizer), nil)

	pages, err := loader.Load(context.Background(), server.URL+"/download?id=7")

	require.NoError(t, err)
	assert.Len(t, pages, 1)
}

func TestLoader_Load_PDFByHeader(t *testing.T) {
	pdf := []byte("%PDF-1.4\n...")
	server := serve(t, http.StatusOK, pdf)
	rasterizer := new(mocks.MockRasterizer)
	rendered := []image.Image{image.NewGray(image.Rect(0, 0, 1, 1)), image.NewGray(image.Rect(0, 0, 2, 2))}
	rasterizer.On("Rasterize", mock.Anything, pdf).Return(rendered, nil)

	loader := document.NewLoader(testDocConfig(), rasterizer, nil)
	pages, err := loader.Load(context.Background(), server.URL+"/download")

	require.NoError(t, err)
	assert.Equal(t, rendered, pages)
	rasterizer.AssertExpectations(t)
}

func TestLoader_Load_PDFByExtension(t *testing.T) {
	body := []byte("not really a pdf")
	server := serve(t, http.StatusOK, body)
	rasterizer := new(mocks.MockRasterizer)
	rasterizer.On("Rasterize", mock.Anything, body).Return(nil, errors.New("reading pdf: malformed"))

	loader := document.NewLoader(testDocConfig(), rasterizer, nil)
	_, err := loader.Load(context.Background(), server.URL+"/Bill.PDF?sig=abc")

	assert.ErrorIs(t, err, domain.ErrDocumentLoad)
	rasterizer.AssertExpectations(t)
}

func TestLoader_Load_UnsupportedImage(t *testing.T) {
	server := serve(t, http.StatusOK, []byte("definitely not an image"))
	loader := document.NewLoader(testDocConfig(), new(mocks.MockRasterizer), nil)

	_, err := loader.Load(context.Background(), server.URL+"/scan.jpg")

	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "unsupported image format for URL")
}

func TestLoader_Load_NeitherPDFNorImage(t *testing.T) {
	server := serve(t, http.StatusOK, []byte("<html><body>Not found</body></html>"))
	loader := document.NewLoader(testDocConfig(), new(mocks.MockRasterizer), nil)

	_, err := loader.Load(context.Background(), server.URL+"/page.html")

	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "neither PDF nor image")
}

func TestLoader_Load_HTTPError(t *testing.T) {
	server := serve(t, http.StatusNotFound, []byte("missing"))
	loader := document.NewLoader(testDocConfig(), new(mocks.MockRasterizer), nil)

	_, err := loader.Load(context.Background(), server.URL+"/bill.png")

	assert.ErrorIs(t, err, domain.ErrDocumentLoad)
	assert.Contains(t, err.Error(), "404")
}

func TestLoader_Load_TooLarge(t *testing.T) {
	server := serve(t, http.StatusOK, make([]byte, 1<<20+1))
	loader := document.NewLoader(testDocConfig(), new(mocks.MockRasterizer), nil)

	_, err := loader.Load(context.Background(), server.URL+"/huge.png")

	assert.ErrorIs(t, err, domain.ErrDocumentLoad)
}

func TestLoader_Load_InvalidReferences(t *testing.T) {
	loader := document.NewLoader(testDocConfig(), new(mocks.MockRasterizer), nil)

	for _, ref := range []string{"", "   ", "ftp://example.com/bill.pdf", "not a url", "https:///bill.pdf", "s3://bucket/key.pdf"} {
		t.Run(ref, func(t *testing.T) {
			_, err := loader.Load(context.Background(), ref)
			assert.ErrorIs(t, err, domain.ErrInvalidDocumentRef)
		})
	}
}

func TestLoader_Load_S3(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Download", mock.Anything, "bills", "2026/scan.png").Return(pngBytes(t, 2, 2), nil)

	loader := document.NewLoader(testDocConfig(), new(mocks.MockRasterizer), storage)
	pages, err := loader.Load(context.Background(), "s3://bills/2026/scan.png")

	require.NoError(t, err)
	assert.Len(t, pages, 1)
	storage.AssertExpectations(t)
}

func TestLoader_Load_S3Failure(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Download", mock.Anything, "bills", "missing.pdf").Return(nil, errors.New("NoSuchKey"))

	loader := document.NewLoader(testDocConfig(), new(mocks.MockRasterizer), storage)
	_, err := loader.Load(context.Background(), "s3://bills/missing.pdf")

	assert.ErrorIs(t, err, domain.ErrDocumentLoad)
}

func TestLoader_Load_S3MissingKey(t *testing.T) {
	loader := document.NewLoader(testDocConfig(), new(mocks.MockRasterizer), new(mocks.MockObjectStorage))

	_, err := loader.Load(context.Background(), "s3://bills")

	assert.ErrorIs(t, err, domain.ErrInvalidDocumentRef)
}
