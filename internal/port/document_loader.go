package port

import (
	"context"
	"image"
)

// DocumentLoader resolves a document reference into ordered page images.
type DocumentLoader interface {
	Load(ctx context.Context, ref string) ([]image.Image, error)
}

// Rasterizer renders every page of a PDF into an image.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdf []byte) ([]image.Image, error)
}
