package response

import (
	"time"

	"propostas_service/internal/usecase"
)

// SignatureResponse is what the client sees after signing. It repeats the
// stored signature when the submission was a retry.
type SignatureResponse struct {
	ProposalID    string    `json:"proposal_id"`
	Number        int64     `json:"number"`
	Status        string    `json:"status"`
	SignerName    string    `json:"signer_name"`
	Method        string    `json:"method"`
	SignedAt      time.Time `json:"signed_at"`
	AlreadySigned bool      `json:"already_signed"`
}

func FromSignResult(res usecase.SignResult) SignatureResponse {
	return SignatureResponse{
		ProposalID:    res.Proposal.ID,
		Number:        res.Proposal.Number,
		Status:        string(res.Proposal.Status),
		SignerName:    res.Signature.SignerName,
		Method:        string(res.Signature.Method),
		SignedAt:      res.Signature.SignedAt,
		AlreadySigned: res.AlreadySigned,
	}
}
