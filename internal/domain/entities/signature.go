package entities

import (
	"strings"
	"time"
)

type SignatureMethod string

const (
	SignatureMethodDrawn SignatureMethod = "drawn"
	SignatureMethodTyped SignatureMethod = "typed"
)

// Signature is the client's digital acceptance captured at signing time.
// Once attached to a proposal it is never overwritten.
type Signature struct {
	SignerName    string          `json:"signer_name"`
	Method        SignatureMethod `json:"method"`
	ImageRef      string          `json:"image_ref,omitempty"`
	Consent       bool            `json:"consent"`
	TermsAccepted bool            `json:"terms_accepted"`
	IP            string          `json:"ip"`
	UserAgent     string          `json:"user_agent"`
	SignedAt      time.Time       `json:"signed_at"`
}

// SameSigner is used to answer client double-submits idempotently.
func (s Signature) SameSigner(name string) bool {
	return strings.EqualFold(strings.TrimSpace(s.SignerName), strings.TrimSpace(name))
}

// SignatureImage is a decoded drawn signature.
type SignatureImage struct {
	ContentType string
	Data        []byte
}
