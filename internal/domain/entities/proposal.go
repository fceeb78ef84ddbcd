package entities

import "time"

// ProposalStatus represents the lifecycle of a commercial proposal (proposta).
//
// Domain notes:
//   - RASCUNHO is the only state in which commercial content may change.
//   - APROVADA and CANCELADA are terminal.
//   - The public access token only exists while ENVIADA or ASSINADA.
type ProposalStatus string

const (
	ProposalStatusRascunho  ProposalStatus = "RASCUNHO"
	ProposalStatusEnviada   ProposalStatus = "ENVIADA"
	ProposalStatusAssinada  ProposalStatus = "ASSINADA"
	ProposalStatusAprovada  ProposalStatus = "APROVADA"
	ProposalStatusCancelada ProposalStatus = "CANCELADA"
)

// ProposalStatuses lists every status in lifecycle order.
func ProposalStatuses() []ProposalStatus {
	return []ProposalStatus{
		ProposalStatusRascunho,
		ProposalStatusEnviada,
		ProposalStatusAssinada,
		ProposalStatusAprovada,
		ProposalStatusCancelada,
	}
}

func (s ProposalStatus) Valid() bool {
	switch s {
	case ProposalStatusRascunho, ProposalStatusEnviada, ProposalStatusAssinada, ProposalStatusAprovada, ProposalStatusCancelada:
		return true
	}
	return false
}

func (s ProposalStatus) IsTerminal() bool {
	return s == ProposalStatusAprovada || s == ProposalStatusCancelada
}

// AllowsPublicAccess reports whether a token may resolve a proposal in this status.
func (s ProposalStatus) AllowsPublicAccess() bool {
	return s == ProposalStatusEnviada || s == ProposalStatusAssinada
}

type StageStatus string

const (
	StageStatusPendente    StageStatus = "pendente"
	StageStatusEmAndamento StageStatus = "em_andamento"
	StageStatusConcluida   StageStatus = "concluida"
)

// ProposalStage is a line-item stage owned by a proposal.
type ProposalStage struct {
	ID            string      `json:"id"`
	Order         int         `json:"order"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Status        StageStatus `json:"status"`
	EstimatedCost float64     `json:"estimated_cost"`
}

// ProposalMaterial is a line-item material owned by a proposal.
//
// UnitCost and Supplier are internal purchasing data.
type ProposalMaterial struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Quantity      float64     `json:"quantity"`
	Unit          string      `json:"unit"`
	Status        StageStatus `json:"status"`
	Supplier      string      `json:"supplier"`
	UnitCost      float64     `json:"unit_cost"`
	EstimatedCost float64     `json:"estimated_cost"`
}

// Approval records the internal technical/financial sign-off.
type Approval struct {
	Technical  bool      `json:"technical"`
	Financial  bool      `json:"financial"`
	ApprovedBy string    `json:"approved_by"`
	ApprovedAt time.Time `json:"approved_at"`
}

// Proposal is the commercial offer persisted by the service.
//
// Storage model:
//   - PK: id
//   - token index: access_token (exact match lookup)
//   - number: human readable, allocated from a counter/sequence
//
// Version is bumped on every write and guards compare-and-swap updates
// together with Status (and AccessToken when a token is consumed).
type Proposal struct {
	ID                 string `json:"id"`
	Number             int64  `json:"number"`
	ClientID           string `json:"client_id"`
	ClientName         string `json:"client_name"`
	ClientContactEmail string `json:"client_contact_email"`
	CreatedBy          string `json:"created_by"`

	Title          string             `json:"title"`
	Scope          string             `json:"scope"`
	Terms          string             `json:"terms"`
	Stages         []ProposalStage    `json:"stages"`
	Materials      []ProposalMaterial `json:"materials"`
	EstimatedValue float64            `json:"estimated_value"`
	Margin         float64            `json:"margin"`
	Price          float64            `json:"price"`

	Status       ProposalStatus `json:"status"`
	SentAt       *time.Time     `json:"sent_at,omitempty"`
	SignedAt     *time.Time     `json:"signed_at,omitempty"`
	ApprovedAt   *time.Time     `json:"approved_at,omitempty"`
	CancelledAt  *time.Time     `json:"cancelled_at,omitempty"`
	CancelReason string         `json:"cancel_reason,omitempty"`
	DeletedAt    *time.Time     `json:"deleted_at,omitempty"`

	AccessToken    string     `json:"access_token,omitempty"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`

	Signature *Signature `json:"signature,omitempty"`
	Approval  *Approval  `json:"approval,omitempty"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p Proposal) IsDeleted() bool {
	return p.DeletedAt != nil
}

// TokenLive reports whether the stored token is still valid at now.
// Validity is evaluated lazily: expiresAt <= now is expired.
func (p Proposal) TokenLive(now time.Time) bool {
	return p.AccessToken != "" && p.TokenExpiresAt != nil && now.Before(*p.TokenExpiresAt)
}

// Clone returns a deep copy so that a derived next state never aliases the
// slices or pointers of the state it was read from.
func (p Proposal) Clone() Proposal {
	cp := p
	if p.Stages != nil {
		cp.Stages = append([]ProposalStage(nil), p.Stages...)
	}
	if p.Materials != nil {
		cp.Materials = append([]ProposalMaterial(nil), p.Materials...)
	}
	cp.SentAt = cloneTime(p.SentAt)
	cp.SignedAt = cloneTime(p.SignedAt)
	cp.ApprovedAt = cloneTime(p.ApprovedAt)
	cp.CancelledAt = cloneTime(p.CancelledAt)
	cp.DeletedAt = cloneTime(p.DeletedAt)
	cp.TokenExpiresAt = cloneTime(p.TokenExpiresAt)
	if p.Signature != nil {
		s := *p.Signature
		cp.Signature = &s
	}
	if p.Approval != nil {
		a := *p.Approval
		cp.Approval = &a
	}
	return cp
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// TimePtr is a small helper for optional timestamps.
func TimePtr(t time.Time) *time.Time {
	return &t
}
