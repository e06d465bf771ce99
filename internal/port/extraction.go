package port

import (
	"context"

	"medbill/internal/domain"
)

// BillExtractor runs a full extraction for one document reference.
type BillExtractor interface {
	Extract(ctx context.Context, ref string) (*domain.ExtractionResult, error)
}
