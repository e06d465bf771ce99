package document

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp" // registers the webp decoder with image.Decode

	"medbill/internal/config"
	"medbill/internal/domain"
	"medbill/internal/port"
)

const pdfMIME = "application/pdf"

// Loader fetches a document by reference and turns it into page images.
// http(s) references are downloaded; s3://bucket/key references are read
// through object storage when it is configured.
type Loader struct {
	client     *http.Client
	storage    port.ObjectStorage
	rasterizer port.Rasterizer
	userAgent  string
	maxBytes   int64
}

// NewLoader creates a Loader. storage may be nil, in which case s3://
// references are rejected as invalid.
func NewLoader(cfg *config.DocumentConfig, rasterizer port.Rasterizer, storage port.ObjectStorage) *Loader {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "BillExtractor/1.0"
	}
	maxMB := cfg.MaxSizeMB
	if maxMB <= 0 {
		maxMB = 50
	}
	return &Loader{
		client:     &http.Client{Timeout: timeout},
		storage:    storage,
		rasterizer: rasterizer,
		userAgent:  ua,
		maxBytes:   maxMB << 20,
	}
}

// Load resolves ref and returns its pages in order.
func (l *Loader) Load(ctx context.Context, ref string) ([]image.Image, error) {
	u, err := parseRef(ref)
	if err != nil {
		return nil, err
	}

	data, err := l.fetch(ctx, u)
	if err != nil {
		return nil, err
	}
	return l.decode(ctx, u, data)
}

func parseRef(ref string) (*url.URL, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty reference", domain.ErrInvalidDocumentRef)
	}
	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDocumentRef, err)
	}
	switch u.Scheme {
	case "http", "https", "s3":
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", domain.ErrInvalidDocumentRef, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host in %q", domain.ErrInvalidDocumentRef, ref)
	}
	return u, nil
}

func (l *Loader) fetch(ctx context.Context, u *url.URL) ([]byte, error) {
	if u.Scheme == "s3" {
		if l.storage == nil {
			return nil, fmt.Errorf("%w: s3 references are not enabled", domain.ErrInvalidDocumentRef)
		}
		key := strings.TrimPrefix(u.Path, "/")
		if key == "" {
			return nil, fmt.Errorf("%w: missing object key in %q", domain.ErrInvalidDocumentRef, u.String())
		}
		data, err := l.storage.Download(ctx, u.Host, key)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrDocumentLoad, err)
		}
		return data, nil
	}
	return l.download(ctx, u.String())
}

func (l *Loader) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDocumentRef, err)
	}
	req.Header.Set("User-Agent", l.userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDocumentLoad, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status %d from %s", domain.ErrDocumentLoad, resp.StatusCode, rawURL)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", domain.ErrDocumentLoad, err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", domain.ErrDocumentLoad, l.maxBytes)
	}
	return data, nil
}

func (l *Loader) decode(ctx context.Context, u *url.URL, data []byte) ([]image.Image, error) {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(u.Path)), ".")

	if isPDF(data) || ext == "pdf" {
		pages, err := l.rasterizer.Rasterize(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrDocumentLoad, err)
		}
		return pages, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		if domain.SupportedImageExtensions[ext] {
			return nil, fmt.Errorf("%w: unsupported image format for URL: %s", domain.ErrUnsupportedFormat, u.String())
		}
		return nil, fmt.Errorf("%w: downloaded file (%s) is neither PDF nor image",
			domain.ErrUnsupportedFormat, mimetype.Detect(data).String())
	}
	return []image.Image{img}, nil
}

func isPDF(data []byte) bool {
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return true
	}
	return mimetype.Detect(data).Is(pdfMIME)
}
