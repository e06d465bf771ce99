package port

import (
	"context"
	"image"
)

// OCREngine recognizes text in a single page image. Results are best-effort.
type OCREngine interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
}
