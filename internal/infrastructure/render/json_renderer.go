package render

import (
	"context"
	"encoding/json"
	"fmt"

	"propostas_service/internal/domain/entities"
	"propostas_service/internal/domain/masking"
	"propostas_service/internal/usecase/interfaces"
)

// JSONRenderer renders the masked view of a proposal as an indented JSON
// document. The viewer never receives more than the masking policy allows.
type JSONRenderer struct {
	policy *masking.Policy
}

var _ interfaces.IDocumentRenderer = (*JSONRenderer)(nil)

func NewJSONRenderer(policy *masking.Policy) *JSONRenderer {
	if policy == nil {
		policy = masking.DefaultPolicy()
	}
	return &JSONRenderer{policy: policy}
}

func (r *JSONRenderer) Render(ctx context.Context, p entities.Proposal, viewer entities.Viewer) (entities.Document, error) {
	view, err := r.policy.MaskProposal(p, viewer)
	if err != nil {
		return entities.Document{}, fmt.Errorf("mask proposal %s: %w", p.ID, err)
	}
	body, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return entities.Document{}, fmt.Errorf("encode proposal %s: %w", p.ID, err)
	}
	return entities.Document{
		Bytes:    body,
		MimeType: "application/json",
		Filename: fmt.Sprintf("proposta-%d.json", p.Number),
	}, nil
}
