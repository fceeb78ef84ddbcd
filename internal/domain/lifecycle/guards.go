package lifecycle

import (
	"net/mail"
	"strings"

	"propostas_service/internal/domain/entities"
)

// SendGuard checks that a draft carries everything a client needs to review it.
func SendGuard(p entities.Proposal) error {
	var c fieldCollector
	c.require(strings.TrimSpace(p.Title) != "", "title")
	c.require(strings.TrimSpace(p.Scope) != "", "scope")
	c.require(validEmail(p.ClientContactEmail), "client_contact_email")
	c.require(len(p.Stages) > 0, "stages")
	return c.err()
}

// ApprovalGuard requires both internal sign-offs.
func ApprovalGuard(technical, financial bool) error {
	var c fieldCollector
	c.require(technical, "technical_approval")
	c.require(financial, "financial_approval")
	return c.err()
}

// ValidateSignature checks the client-declared part of a signature.
// Request metadata (IP, user agent, timestamp) is stamped by the caller.
func ValidateSignature(s entities.Signature) error {
	var c fieldCollector
	c.require(strings.TrimSpace(s.SignerName) != "", "signer_name")
	c.require(s.Method == entities.SignatureMethodDrawn || s.Method == entities.SignatureMethodTyped, "method")
	c.require(s.Method != entities.SignatureMethodDrawn || s.ImageRef != "", "image")
	c.require(s.Consent, "consent")
	c.require(s.TermsAccepted, "terms")
	return c.err()
}

func validEmail(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	addr, err := mail.ParseAddress(v)
	return err == nil && addr.Address == v
}
