package masking

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"propostas_service/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// proposalWithExtras simulates fields added to the record after the policy
// table was written.
type proposalWithExtras struct {
	entities.Proposal
	InternalNotes   string             `json:"internal_notes"`
	SupplierQuotes  map[string]float64 `json:"supplier_quotes"`
	CommissionRates []float64          `json:"commission_rates"`
}

func generateProposal(r *rand.Rand) entities.Proposal {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	statuses := entities.ProposalStatuses()
	p := entities.Proposal{
		ID:                 fmt.Sprintf("prop-%d", r.Int63()),
		Number:             r.Int63n(10000),
		ClientID:           "cli-1",
		ClientName:         "ACME",
		ClientContactEmail: "buyer@acme.test",
		CreatedBy:          "user-1",
		Title:              "Electrical rewire",
		Scope:              "Replace panel",
		Terms:              "50% upfront",
		EstimatedValue:     r.Float64() * 10000,
		Margin:             r.Float64(),
		Price:              r.Float64() * 20000,
		Status:             statuses[r.Intn(len(statuses))],
		AccessToken:        strings.Repeat("ab", 32),
		TokenExpiresAt:     entities.TimePtr(now.Add(time.Hour)),
		Version:            r.Int63n(10),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	for i := 0; i < r.Intn(4); i++ {
		p.Stages = append(p.Stages, entities.ProposalStage{
			ID: fmt.Sprintf("st-%d", i), Order: i, Title: "Stage", Description: "desc",
			Status: entities.StageStatusPendente, EstimatedCost: r.Float64() * 1000,
		})
	}
	for i := 0; i < r.Intn(4); i++ {
		p.Materials = append(p.Materials, entities.ProposalMaterial{
			ID: fmt.Sprintf("mat-%d", i), Name: "Cable", Quantity: 10, Unit: "m",
			Supplier: "WireCo", UnitCost: r.Float64() * 10, EstimatedCost: r.Float64() * 100,
		})
	}
	if r.Intn(2) == 0 {
		p.SentAt = entities.TimePtr(now)
		p.Signature = &entities.Signature{
			SignerName: "Jane Doe", Method: entities.SignatureMethodTyped, Consent: true, TermsAccepted: true,
			IP: "10.0.0.1", UserAgent: "test", SignedAt: now,
		}
		p.Approval = &entities.Approval{Technical: true, Financial: true, ApprovedBy: "user-2", ApprovedAt: now}
	}
	return p
}

// flattenPaths returns every leaf path of a view; list elements share their
// parent's path.
func flattenPaths(prefix string, v any, out map[string]struct{}) {
	switch val := v.(type) {
	case map[string]any:
		if len(val) == 0 && prefix != "" {
			out[prefix] = struct{}{}
		}
		for k, child := range val {
			p := k
			if prefix != "" {
				p = prefix + "." + k
			}
			flattenPaths(p, child, out)
		}
	case View:
		flattenPaths(prefix, map[string]any(val), out)
	case []any:
		if len(val) == 0 {
			out[prefix] = struct{}{}
		}
		for _, item := range val {
			flattenPaths(prefix, item, out)
		}
	default:
		out[prefix] = struct{}{}
	}
}

func allowed(path string, allowList []string) bool {
	for _, a := range allowList {
		// empty containers surface as their own path
		if path == a || strings.HasPrefix(path, a+".") || strings.HasPrefix(a, path+".") {
			return true
		}
	}
	return false
}

func TestMask_ClientViewIsSubsetOfAllowList(t *testing.T) {
	policy := DefaultPolicy()
	allowList := policy.AllowList(RoleClient)
	require.NotEmpty(t, allowList)

	r := rand.New(rand.NewSource(42))
	for i := 0; i < 300; i++ {
		prop := generateProposal(r)
		record := proposalWithExtras{
			Proposal:        prop,
			InternalNotes:   "negotiate down to 3800",
			SupplierQuotes:  map[string]float64{"WireCo": 12.5},
			CommissionRates: []float64{0.05},
		}

		view, err := policy.Mask(record, entities.ClientViewer())
		require.NoError(t, err)

		paths := map[string]struct{}{}
		flattenPaths("", view, paths)
		for path := range paths {
			assert.Truef(t, allowed(path, allowList), "client view leaked %q", path)
		}

		masked, err := policy.MaskProposal(prop, entities.ClientViewer())
		require.NoError(t, err)
		paths = map[string]struct{}{}
		flattenPaths("", masked, paths)
		for path := range paths {
			assert.Truef(t, allowed(path, allowList), "client view leaked %q", path)
		}
	}
}

func TestMask_ClientViewHidesInternalFields(t *testing.T) {
	policy := DefaultPolicy()
	prop := generateProposal(rand.New(rand.NewSource(7)))
	prop.Status = entities.ProposalStatusEnviada
	prop.Price = 4500
	prop.Stages = []entities.ProposalStage{{ID: "st-1", Title: "Panel", Description: "Replace", EstimatedCost: 1200}}
	prop.Materials = []entities.ProposalMaterial{{ID: "m-1", Name: "Breaker", Quantity: 4, Unit: "un", Supplier: "WireCo", UnitCost: 30}}

	view, err := policy.MaskProposal(prop, entities.ClientViewer())
	require.NoError(t, err)

	assert.Equal(t, 4500.0, view["price"])
	assert.Equal(t, true, view[FieldSignatureEnabled])
	for _, hidden := range []string{"estimated_value", "margin", "access_token", "client_contact_email", "created_by", "approval", "version"} {
		assert.NotContains(t, view, hidden)
	}

	stages := view["stages"].([]any)
	require.Len(t, stages, 1)
	assert.Equal(t, map[string]any{"order": 0.0, "title": "Panel", "description": "Replace"}, stages[0])

	materials := view["materials"].([]any)
	require.Len(t, materials, 1)
	assert.Equal(t, map[string]any{"name": "Breaker", "quantity": 4.0, "unit": "un"}, materials[0])
}

func TestMask_SignatureWidgetGatedOnStatus(t *testing.T) {
	policy := DefaultPolicy()
	for _, status := range entities.ProposalStatuses() {
		view, err := policy.MaskProposal(entities.Proposal{Status: status}, entities.ClientViewer())
		require.NoError(t, err)
		assert.Equal(t, status == entities.ProposalStatusEnviada, view[FieldSignatureEnabled], "status %s", status)
	}
}

func TestMask_InternalRoles(t *testing.T) {
	policy := DefaultPolicy()
	prop := generateProposal(rand.New(rand.NewSource(3)))
	prop.Margin = 0.25

	plain, err := policy.MaskProposal(prop, entities.InternalViewer("user-1"))
	require.NoError(t, err)
	assert.NotContains(t, plain, "margin")
	assert.NotContains(t, plain, "estimated_value")
	assert.NotContains(t, plain, "access_token")
	assert.Contains(t, plain, "client_contact_email")

	financial, err := policy.MaskProposal(prop, entities.InternalViewer("user-1", entities.CapabilityViewFinancial))
	require.NoError(t, err)
	assert.Equal(t, 0.25, financial["margin"])
	assert.Contains(t, financial, "estimated_value")
}

func TestMask_UnknownRoleSeesNothing(t *testing.T) {
	view, err := DefaultPolicy().MaskProposal(generateProposal(rand.New(rand.NewSource(1))), entities.Viewer{Role: "partner"})
	require.NoError(t, err)
	assert.Empty(t, view)
}

func TestParsePolicy(t *testing.T) {
	t.Run("shorter path covers longer", func(t *testing.T) {
		p, err := ParsePolicy([]byte("roles:\n  client:\n    fields: [signature, signature.signer_name]\n"))
		require.NoError(t, err)

		view, err := p.Mask(map[string]any{"signature": map[string]any{"signer_name": "Jane", "ip": "1.2.3.4"}, "x": 1}, entities.ClientViewer())
		require.NoError(t, err)
		assert.Equal(t, View{"signature": map[string]any{"signer_name": "Jane", "ip": "1.2.3.4"}}, view)
	})

	t.Run("invalid documents", func(t *testing.T) {
		for _, doc := range []string{"roles: [", "roles: {}", "roles:\n  client:\n    fields: ['  ']\n"} {
			_, err := ParsePolicy([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidPolicy, doc)
		}
	})

	t.Run("load default when path empty", func(t *testing.T) {
		p, err := LoadPolicy("")
		require.NoError(t, err)
		assert.Equal(t, []string{"*"}, p.AllowList(RoleInternalFinancial))
		assert.Nil(t, p.AllowList("unknown"))
	})
}
