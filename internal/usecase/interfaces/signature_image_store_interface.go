package interfaces

import (
	"context"

	"propostas_service/internal/domain/entities"
)

// ISignatureImageStore persists drawn signatures and returns a reference
// stored on the proposal. Delete removes an image whose signature was never
// recorded.
type ISignatureImageStore interface {
	Put(ctx context.Context, proposalID string, img entities.SignatureImage) (string, error)
	Delete(ctx context.Context, ref string) error
}
