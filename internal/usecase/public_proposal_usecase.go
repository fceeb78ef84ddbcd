package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"propostas_service/internal/domain/entities"
	"propostas_service/internal/domain/lifecycle"
	"propostas_service/internal/domain/masking"
	"propostas_service/internal/usecase/interfaces"
)

// MaxSignatureImageBytes bounds a decoded drawn signature.
const MaxSignatureImageBytes = 512 * 1024

// IPublicProposalUseCase serves the unauthenticated token holder.
type IPublicProposalUseCase interface {
	Resolve(ctx context.Context, token string, actor entities.Actor) (masking.View, error)
	SubmitSignature(ctx context.Context, token string, input SignatureInput, actor entities.Actor) (SignResult, error)
	RenderDocument(ctx context.Context, token string) (entities.Document, error)
}

// SignatureInput is the raw client submission. ImageDataURL is only read
// for drawn signatures.
type SignatureInput struct {
	SignerName    string
	Method        entities.SignatureMethod
	ImageDataURL  string
	Consent       bool
	TermsAccepted bool
}

type PublicProposalUseCase struct {
	issuer    *TokenIssuer
	lifecycle ILifecycleUseCase
	audit     IAuditUseCase
	images    interfaces.ISignatureImageStore
	policy    *masking.Policy
	renderer  interfaces.IDocumentRenderer
}

var _ IPublicProposalUseCase = (*PublicProposalUseCase)(nil)

func NewPublicProposalUseCase(
	issuer *TokenIssuer,
	lifecycleUC ILifecycleUseCase,
	audit IAuditUseCase,
	images interfaces.ISignatureImageStore,
	policy *masking.Policy,
	renderer interfaces.IDocumentRenderer,
) *PublicProposalUseCase {
	if policy == nil {
		policy = masking.DefaultPolicy()
	}
	return &PublicProposalUseCase{
		issuer:    issuer,
		lifecycle: lifecycleUC,
		audit:     audit,
		images:    images,
		policy:    policy,
		renderer:  renderer,
	}
}

// Resolve returns the client view of the proposal behind token. Viewing
// does not consume the token.
func (u *PublicProposalUseCase) Resolve(ctx context.Context, token string, actor entities.Actor) (masking.View, error) {
	p, err := u.issuer.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	view, err := u.policy.MaskProposal(p, entities.ClientViewer())
	if err != nil {
		return nil, err
	}
	u.recordView(ctx, p, actor)
	return view, nil
}

// recordView is best effort: a lost VIEWED event must not hide the proposal
// from its client.
func (u *PublicProposalUseCase) recordView(ctx context.Context, p entities.Proposal, actor entities.Actor) {
	if u.audit == nil {
		return
	}
	_, err := u.audit.Record(ctx, entities.AuditEvent{
		ProposalID: p.ID,
		Kind:       entities.AuditEventViewed,
		Actor:      actor,
		FromStatus: p.Status,
		ToStatus:   p.Status,
		Detail:     map[string]any{"version": p.Version},
	})
	if err != nil {
		log.Printf("[proposal][public] viewed event not recorded proposal_id=%s err=%v", p.ID, err)
	}
}

func (u *PublicProposalUseCase) SubmitSignature(ctx context.Context, token string, input SignatureInput, actor entities.Actor) (SignResult, error) {
	token = strings.TrimSpace(token)
	if !wellFormedToken(token) {
		return SignResult{}, ErrTokenInvalid
	}

	sig := entities.Signature{
		SignerName:    strings.TrimSpace(input.SignerName),
		Method:        input.Method,
		Consent:       input.Consent,
		TermsAccepted: input.TermsAccepted,
	}

	// Expiry is not checked here: a repeated submission after signing must
	// reach Sign to be answered with the stored signature.
	p, err := u.issuer.lookup(ctx, token)
	if err != nil {
		return SignResult{}, err
	}
	if p.ID == "" || p.IsDeleted() {
		return SignResult{}, ErrTokenInvalid
	}

	if p.Signature == nil && input.Method == entities.SignatureMethodDrawn {
		img, err := decodeSignatureImage(input.ImageDataURL)
		if err != nil {
			if errors.Is(err, errMissingImage) {
				return SignResult{}, &lifecycle.ValidationError{Missing: []string{"image"}}
			}
			return SignResult{}, err
		}
		// Validate the rest before storing anything.
		candidate := sig
		candidate.ImageRef = "pending"
		if err := lifecycle.ValidateSignature(candidate); err != nil {
			return SignResult{}, err
		}
		if err := u.issuer.check(p, token, u.issuer.now()); err != nil {
			return SignResult{}, err
		}
		if u.images == nil {
			return SignResult{}, fmt.Errorf("store signature image: no image store configured")
		}
		ref, err := u.images.Put(ctx, p.ID, img)
		if err != nil {
			log.Printf("[proposal][public] signature image store failed proposal_id=%s err=%v", p.ID, err)
			return SignResult{}, err
		}
		sig.ImageRef = ref
	}

	res, err := u.lifecycle.Sign(ctx, token, sig, actor)
	if sig.ImageRef != "" && (err != nil || res.Signature.ImageRef != sig.ImageRef) {
		// The upload lost to another submission or was rejected.
		u.discardImage(ctx, p.ID, sig.ImageRef)
	}
	return res, err
}

func (u *PublicProposalUseCase) discardImage(ctx context.Context, proposalID, ref string) {
	if err := u.images.Delete(context.WithoutCancel(ctx), ref); err != nil {
		log.Printf("[proposal][public] orphaned signature image proposal_id=%s ref=%s err=%v", proposalID, ref, err)
		return
	}
	log.Printf("[proposal][public] unused signature image removed proposal_id=%s", proposalID)
}

func (u *PublicProposalUseCase) RenderDocument(ctx context.Context, token string) (entities.Document, error) {
	p, err := u.issuer.Validate(ctx, token)
	if err != nil {
		return entities.Document{}, err
	}
	if u.renderer == nil {
		return entities.Document{}, fmt.Errorf("render proposal %s: no renderer configured", p.ID)
	}
	return u.renderer.Render(ctx, p, entities.ClientViewer())
}

var errMissingImage = errors.New("missing image")

// decodeSignatureImage accepts data:image/png;base64,... and the jpeg
// equivalent. The declared type must match the decoded bytes.
func decodeSignatureImage(dataURL string) (entities.SignatureImage, error) {
	dataURL = strings.TrimSpace(dataURL)
	if dataURL == "" {
		return entities.SignatureImage{}, errMissingImage
	}
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return entities.SignatureImage{}, fmt.Errorf("%w: expected a base64 data URL", ErrInvalidSignatureImage)
	}
	declared := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64"))
	if declared != "image/png" && declared != "image/jpeg" {
		return entities.SignatureImage{}, fmt.Errorf("%w: unsupported type %q", ErrInvalidSignatureImage, declared)
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxSignatureImageBytes+2 {
		return entities.SignatureImage{}, fmt.Errorf("%w: larger than %d bytes", ErrInvalidSignatureImage, MaxSignatureImageBytes)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return entities.SignatureImage{}, fmt.Errorf("%w: %v", ErrInvalidSignatureImage, err)
	}
	if len(data) == 0 || len(data) > MaxSignatureImageBytes {
		return entities.SignatureImage{}, fmt.Errorf("%w: size %d out of range", ErrInvalidSignatureImage, len(data))
	}
	if sniffed := http.DetectContentType(data); sniffed != declared {
		return entities.SignatureImage{}, fmt.Errorf("%w: declared %s but content is %s", ErrInvalidSignatureImage, declared, sniffed)
	}
	return entities.SignatureImage{ContentType: declared, Data: data}, nil
}

