package request

import (
	"strings"

	"propostas_service/internal/domain/entities"
	"propostas_service/internal/usecase"
)

type StageRequest struct {
	ID            string  `json:"id"`
	Order         int     `json:"order"`
	Title         string  `json:"title" binding:"required"`
	Description   string  `json:"description"`
	Status        string  `json:"status"`
	EstimatedCost float64 `json:"estimated_cost"`
}

type MaterialRequest struct {
	ID            string  `json:"id"`
	Name          string  `json:"name" binding:"required"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit"`
	Status        string  `json:"status"`
	Supplier      string  `json:"supplier"`
	UnitCost      float64 `json:"unit_cost"`
	EstimatedCost float64 `json:"estimated_cost"`
}

// DraftRequest is the body of create and update draft calls. Every field
// is replaced on update.
type DraftRequest struct {
	ClientID           string            `json:"client_id"`
	ClientName         string            `json:"client_name"`
	ClientContactEmail string            `json:"client_contact_email"`
	Title              string            `json:"title"`
	Scope              string            `json:"scope"`
	Terms              string            `json:"terms"`
	Stages             []StageRequest    `json:"stages" binding:"dive"`
	Materials          []MaterialRequest `json:"materials" binding:"dive"`
	EstimatedValue     float64           `json:"estimated_value"`
	Margin             float64           `json:"margin"`
	Price              float64           `json:"price"`
}

func (r DraftRequest) ToDraftInput() usecase.DraftInput {
	in := usecase.DraftInput{
		ClientID:           r.ClientID,
		ClientName:         r.ClientName,
		ClientContactEmail: r.ClientContactEmail,
		Title:              r.Title,
		Scope:              r.Scope,
		Terms:              r.Terms,
		EstimatedValue:     r.EstimatedValue,
		Margin:             r.Margin,
		Price:              r.Price,
	}
	for _, s := range r.Stages {
		in.Stages = append(in.Stages, entities.ProposalStage{
			ID:            s.ID,
			Order:         s.Order,
			Title:         s.Title,
			Description:   s.Description,
			Status:        entities.StageStatus(strings.ToLower(strings.TrimSpace(s.Status))),
			EstimatedCost: s.EstimatedCost,
		})
	}
	for _, m := range r.Materials {
		in.Materials = append(in.Materials, entities.ProposalMaterial{
			ID:            m.ID,
			Name:          m.Name,
			Quantity:      m.Quantity,
			Unit:          m.Unit,
			Status:        entities.StageStatus(strings.ToLower(strings.TrimSpace(m.Status))),
			Supplier:      m.Supplier,
			UnitCost:      m.UnitCost,
			EstimatedCost: m.EstimatedCost,
		})
	}
	return in
}

type ApproveRequest struct {
	Technical bool `json:"technical"`
	Financial bool `json:"financial"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

// SignatureRequest is posted by the client through the public link. Image
// is a data URL and only read for drawn signatures.
type SignatureRequest struct {
	SignerName    string `json:"signer_name"`
	Method        string `json:"method"`
	Image         string `json:"image"`
	Consent       bool   `json:"consent"`
	TermsAccepted bool   `json:"terms_accepted"`
}

func (r SignatureRequest) ToSignatureInput() usecase.SignatureInput {
	return usecase.SignatureInput{
		SignerName:    r.SignerName,
		Method:        entities.SignatureMethod(strings.ToLower(strings.TrimSpace(r.Method))),
		ImageDataURL:  r.Image,
		Consent:       r.Consent,
		TermsAccepted: r.TermsAccepted,
	}
}
