package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"propostas_service/internal/adapter/http/handlers/mocks"
	"propostas_service/internal/adapter/http/middleware"
	"propostas_service/internal/domain/entities"
	"propostas_service/internal/domain/lifecycle"
	"propostas_service/internal/domain/masking"
	"propostas_service/internal/usecase"
	"propostas_service/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

type proposalHandlerDeps struct {
	proposals *mocks.MockIProposalUseCase
	lifecycle *mocks.MockILifecycleUseCase
	audit     *mocks.MockIAuditUseCase
	router    *gin.Engine
}

func newProposalHandlerDeps(t *testing.T) *proposalHandlerDeps {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	d := &proposalHandlerDeps{
		proposals: mocks.NewMockIProposalUseCase(ctrl),
		lifecycle: mocks.NewMockILifecycleUseCase(ctrl),
		audit:     mocks.NewMockIAuditUseCase(ctrl),
	}
	h := NewProposalHandler(d.proposals, d.lifecycle, d.audit, masking.DefaultPolicy())

	r := gin.New()
	g := r.Group("/v1/propostas", middleware.RequireUser())
	g.POST("", h.CreateDraft)
	g.GET("/:id", h.GetProposal)
	g.PUT("/:id", h.UpdateDraft)
	g.DELETE("/:id", h.DeleteProposal)
	g.GET("/:id/historico", h.GetHistory)
	g.GET("/:id/documento", h.RenderDocument)
	g.POST("/:id/enviar", h.Send)
	g.POST("/:id/aprovar", h.Approve)
	g.POST("/:id/cancelar", h.Cancel)
	g.POST("/:id/token/renovar", h.RenewToken)
	g.POST("/:id/token/revogar", h.RevokeToken)
	d.router = r
	return d
}

func (d *proposalHandlerDeps) do(method, path, body string, capabilities ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(middleware.HeaderUserID, "staff-1")
	for _, c := range capabilities {
		req.Header.Add(middleware.HeaderCapabilities, c)
	}
	w := httptest.NewRecorder()
	d.router.ServeHTTP(w, req)
	return w
}

func decodeHTTPError(t *testing.T, w *httptest.ResponseRecorder) pkg.HTTPError {
	t.Helper()
	var body pkg.HTTPError
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, w.Body.String())
	}
	return body
}

func draftFixture() entities.Proposal {
	now := time.Now().UTC()
	return entities.Proposal{
		ID:                 "p-1",
		Number:             1,
		ClientName:         "Jane Doe",
		ClientContactEmail: "jane@example.com",
		Title:              "Electrical rewire",
		Price:              4500,
		Margin:             0.5,
		Status:             entities.ProposalStatusRascunho,
		Version:            1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func TestProposalHandler_RequiresUser(t *testing.T) {
	d := newProposalHandlerDeps(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/propostas/p-1", nil)
	w := httptest.NewRecorder()
	d.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestProposalHandler_CreateDraft(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		d := newProposalHandlerDeps(t)
		w := d.do(http.MethodPost, "/v1/propostas", "{")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("invalid draft", func(t *testing.T) {
		d := newProposalHandlerDeps(t)
		d.proposals.EXPECT().CreateDraft(gomock.Any(), gomock.Any(), entities.UserActor("staff-1")).Return(entities.Proposal{}, usecase.ErrInvalidDraft)

		w := d.do(http.MethodPost, "/v1/propostas", `{"price":-1}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("success masks the response", func(t *testing.T) {
		d := newProposalHandlerDeps(t)
		d.proposals.EXPECT().
			CreateDraft(gomock.Any(), gomock.Cond(func(in usecase.DraftInput) bool { return in.Title == "Electrical rewire" && len(in.Stages) == 1 }), entities.UserActor("staff-1")).
			Return(draftFixture(), nil)

		w := d.do(http.MethodPost, "/v1/propostas", `{"title":"Electrical rewire","price":4500,"stages":[{"title":"Panel replacement"}]}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		var view map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &view)
		if view["id"] != "p-1" || view["status"] != "RASCUNHO" {
			t.Fatalf("unexpected body: %v", view)
		}
		if _, ok := view["margin"]; ok {
			t.Fatalf("margin must be masked without the financial capability")
		}
	})
}

func TestProposalHandler_GetProposal(t *testing.T) {
	t.Run("financial capability", func(t *testing.T) {
		d := newProposalHandlerDeps(t)
		d.proposals.EXPECT().
			GetView(gomock.Any(), "p-1", entities.InternalViewer("staff-1", entities.CapabilityViewFinancial)).
			Return(masking.View{"id": "p-1", "margin": 0.5}, nil)

		w := d.do(http.MethodGet, "/v1/propostas/p-1", "", entities.CapabilityViewFinancial)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		d := newProposalHandlerDeps(t)
		d.proposals.EXPECT().GetView(gomock.Any(), "missing", gomock.Any()).Return(nil, usecase.ErrProposalNotFound)

		w := d.do(http.MethodGet, "/v1/propostas/missing", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
		if body := decodeHTTPError(t, w); body.Code != "PROPOSAL_NOT_FOUND" {
			t.Fatalf("unexpected code %s", body.Code)
		}
	})
}

func TestProposalHandler_UpdateAndDelete(t *testing.T) {
	t.Run("update not editable", func(t *testing.T) {
		d := newProposalHandlerDeps(t)
		d.proposals.EXPECT().UpdateDraft(gomock.Any(), "p-1", gomock.Any(), gomock.Any()).Return(entities.Proposal{}, usecase.ErrProposalNotEditable)

		w := d.do(http.MethodPut, "/v1/propostas/p-1", `{"title":"x"}`)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("delete", func(t *testing.T) {
		d := newProposalHandlerDeps(t)
		d.proposals.EXPECT().Delete(gomock.Any(), "p-1", entities.UserActor("staff-1")).Return(nil)

		w := d.do(http.MethodDelete, "/v1/propostas/p-1", "")
		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}
	})

	t.Run("delete signed", func(t *testing.T) {
		d := newProposalHandlerDeps(t)
		d.proposals.EXPECT().Delete(gomock.Any(), "p-1", gomock.Any()).Return(usecase.ErrProposalNotDeletable)

		w := d.do(http.MethodDelete, "/v1/propostas/p-1", "")
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})
}

func TestProposalHandler_GetHistory(t *testing.T) {
	d := newProposalHandlerDeps(t)
	d.proposals.EXPECT().GetByID(gomock.Any(), "p-1").Return(draftFixture(), nil)
	d.audit.EXPECT().History(gomock.Any(), "p-1").Return([]entities.AuditEvent{
		{ID: "e-1", ProposalID: "p-1", Kind: entities.AuditEventSent, Actor: entities.UserActor("staff-1"), Timestamp: time.Now().UTC()},
	}, nil)

	w := d.do(http.MethodGet, "/v1/propostas/p-1/historico", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Events []struct {
			Kind string `json:"kind"`
		} `json:"events"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if len(body.Events) != 1 || body.Events[0].Kind != "SENT" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestProposalHandler_RenderDocument(t *testing.T) {
	d := newProposalHandlerDeps(t)
	d.proposals.EXPECT().Render(gomock.Any(), "p-1", gomock.Any()).Return(entities.Document{Bytes: []byte(`{"id":"p-1"}`), MimeType: "application/json", Filename: "proposta-1.json"}, nil)

	w := d.do(http.MethodGet, "/v1/propostas/p-1/documento", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Content-Disposition"); got != `inline; filename="proposta-1.json"` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if w.Body.String() != `{"id":"p-1"}` {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestProposalHandler_Send(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		d := newProposalHandlerDeps(t)
		d.lifecycle.EXPECT().Send(gomock.Any(), "p-1", gomock.Any()).Return(entities.Proposal{}, &lifecycle.ValidationError{Missing: []string{"client_contact_email", "stages"}})

		w := d.do(http.MethodPost, "/v1/propostas/p-1/enviar", "")
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", w.Code)
		}
		body := decodeHTTPError(t, w)
		missing, _ := body.Details["missing"].([]any)
		if body.Code != "VALIDATION_FAILED" || len(missing) != 2 {
			t.Fatalf("unexpected body: %+v", body)
		}
	})

	t.Run("invalid transition", func(t *testing.T) {
		d := newProposalHandlerDeps(t)
		d.lifecycle.EXPECT().Send(gomock.Any(), "p-1", gomock.Any()).Return(entities.Proposal{}, &lifecycle.TransitionError{From: entities.ProposalStatusAprovada, Requested: entities.ProposalStatusEnviada, Action: lifecycle.ActionSend})

		w := d.do(http.MethodPost, "/v1/propostas/p-1/enviar", "")
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
		body := decodeHTTPError(t, w)
		if body.Details["current"] != "APROVADA" || body.Details["requested"] != "ENVIADA" {
			t.Fatalf("unexpected details: %+v", body.Details)
		}
	})

	t.Run("success hides the token", func(t *testing.T) {
		d := newProposalHandlerDeps(t)
		sent := draftFixture()
		sent.Status = entities.ProposalStatusEnviada
		sent.AccessToken = "secret"
		sent.TokenExpiresAt = entities.TimePtr(time.Now().Add(time.Hour))
		d.lifecycle.EXPECT().Send(gomock.Any(), "p-1", entities.UserActor("staff-1")).Return(sent, nil)

		w := d.do(http.MethodPost, "/v1/propostas/p-1/enviar", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if bytes.Contains(w.Body.Bytes(), []byte("secret")) {
			t.Fatalf("access token leaked: %s", w.Body.String())
		}
	})
}

func TestProposalHandler_Approve(t *testing.T) {
	t.Run("passes flags", func(t *testing.T) {
		d := newProposalHandlerDeps(t)
		approved := draftFixture()
		approved.Status = entities.ProposalStatusAprovada
		d.lifecycle.EXPECT().Approve(gomock.Any(), "p-1", usecase.ApprovalInput{Technical: true, Financial: true}, gomock.Any()).Return(approved, nil)

		w := d.do(http.MethodPost, "/v1/propostas/p-1/aprovar", `{"technical":true,"financial":true}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("concurrent approval", func(t *testing.T) {
		d := newProposalHandlerDeps(t)
		d.lifecycle.EXPECT().Approve(gomock.Any(), "p-1", gomock.Any(), gomock.Any()).Return(entities.Proposal{}, usecase.ErrConcurrentModification)

		w := d.do(http.MethodPost, "/v1/propostas/p-1/aprovar", `{"technical":true,"financial":true}`)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("unexpected error", func(t *testing.T) {
		d := newProposalHandlerDeps(t)
		d.lifecycle.EXPECT().Approve(gomock.Any(), "p-1", gomock.Any(), gomock.Any()).Return(entities.Proposal{}, errors.New("boom"))

		w := d.do(http.MethodPost, "/v1/propostas/p-1/aprovar", `{}`)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
		if bytes.Contains(w.Body.Bytes(), []byte("boom")) {
			t.Fatalf("internal error leaked: %s", w.Body.String())
		}
	})
}

func TestProposalHandler_Cancel(t *testing.T) {
	t.Run("with reason", func(t *testing.T) {
		d := newProposalHandlerDeps(t)
		cancelled := draftFixture()
		cancelled.Status = entities.ProposalStatusCancelada
		d.lifecycle.EXPECT().Cancel(gomock.Any(), "p-1", "client declined", gomock.Any()).Return(cancelled, nil)

		w := d.do(http.MethodPost, "/v1/propostas/p-1/cancelar", `{"reason":"client declined"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("without body", func(t *testing.T) {
		d := newProposalHandlerDeps(t)
		d.lifecycle.EXPECT().Cancel(gomock.Any(), "p-1", "", gomock.Any()).Return(draftFixture(), nil)

		w := d.do(http.MethodPost, "/v1/propostas/p-1/cancelar", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}

func TestProposalHandler_TokenMaintenance(t *testing.T) {
	d := newProposalHandlerDeps(t)
	sent := draftFixture()
	sent.Status = entities.ProposalStatusEnviada
	d.lifecycle.EXPECT().RenewToken(gomock.Any(), "p-1", gomock.Any()).Return(sent, nil)
	d.lifecycle.EXPECT().RevokeToken(gomock.Any(), "p-2", gomock.Any()).Return(entities.Proposal{}, &lifecycle.TransitionError{From: entities.ProposalStatusAssinada, Requested: entities.ProposalStatusEnviada, Action: lifecycle.ActionRevokeToken})

	if w := d.do(http.MethodPost, "/v1/propostas/p-1/token/renovar", ""); w.Code != http.StatusOK {
		t.Fatalf("renew expected 200, got %d", w.Code)
	}
	if w := d.do(http.MethodPost, "/v1/propostas/p-2/token/revogar", ""); w.Code != http.StatusConflict {
		t.Fatalf("revoke expected 409, got %d", w.Code)
	}
}
