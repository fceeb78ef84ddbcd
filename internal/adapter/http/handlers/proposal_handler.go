package handlers

import (
	"fmt"
	"log"
	"net/http"

	request "propostas_service/internal/adapter/http/dto/request"
	response "propostas_service/internal/adapter/http/dto/response"
	"propostas_service/internal/adapter/http/middleware"
	"propostas_service/internal/domain/entities"
	"propostas_service/internal/domain/masking"
	"propostas_service/internal/usecase"

	"github.com/gin-gonic/gin"
)

// ProposalHandler serves the authenticated internal routes. Every proposal
// it returns is masked for the caller.
type ProposalHandler struct {
	proposals usecase.IProposalUseCase
	lifecycle usecase.ILifecycleUseCase
	audit     usecase.IAuditUseCase
	policy    *masking.Policy
}

func NewProposalHandler(proposals usecase.IProposalUseCase, lifecycleUC usecase.ILifecycleUseCase, audit usecase.IAuditUseCase, policy *masking.Policy) *ProposalHandler {
	if policy == nil {
		policy = masking.DefaultPolicy()
	}
	return &ProposalHandler{proposals: proposals, lifecycle: lifecycleUC, audit: audit, policy: policy}
}

// CreateDraft godoc
// @Summary      Create a draft proposal
// @Tags         propostas
// @Accept       json
// @Produce      json
// @Param        X-User-ID  header  string                true  "Authenticated user"
// @Param        body       body    request.DraftRequest  true  "Draft content"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  pkg.HTTPError
// @Router       /propostas [post]
func (h *ProposalHandler) CreateDraft(c *gin.Context) {
	var payload request.DraftRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidProposalPayload.HTTPStatus, errInvalidProposalPayload.ToHTTPError())
		return
	}

	created, err := h.proposals.CreateDraft(c.Request.Context(), payload.ToDraftInput(), middleware.Actor(c))
	if err != nil {
		h.fail(c, "create", "", err)
		return
	}
	h.respond(c, http.StatusCreated, created)
}

// GetProposal godoc
// @Summary      Get a proposal masked for the caller
// @Tags         propostas
// @Produce      json
// @Param        X-User-ID            header  string  true   "Authenticated user"
// @Param        X-User-Capabilities  header  string  false  "Comma separated capabilities"
// @Param        id                   path    string  true   "Proposal id"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  pkg.HTTPError
// @Router       /propostas/{id} [get]
func (h *ProposalHandler) GetProposal(c *gin.Context) {
	id := c.Param("id")
	view, err := h.proposals.GetView(c.Request.Context(), id, middleware.Viewer(c))
	if err != nil {
		h.fail(c, "get", id, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateDraft godoc
// @Summary      Replace the content of a draft proposal
// @Tags         propostas
// @Accept       json
// @Produce      json
// @Param        X-User-ID  header  string                true  "Authenticated user"
// @Param        id         path    string                true  "Proposal id"
// @Param        body       body    request.DraftRequest  true  "Draft content"
// @Success      200  {object}  map[string]any
// @Failure      409  {object}  pkg.HTTPError
// @Router       /propostas/{id} [put]
func (h *ProposalHandler) UpdateDraft(c *gin.Context) {
	id := c.Param("id")
	var payload request.DraftRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidProposalPayload.HTTPStatus, errInvalidProposalPayload.ToHTTPError())
		return
	}

	updated, err := h.proposals.UpdateDraft(c.Request.Context(), id, payload.ToDraftInput(), middleware.Actor(c))
	if err != nil {
		h.fail(c, "update", id, err)
		return
	}
	h.respond(c, http.StatusOK, updated)
}

// DeleteProposal godoc
// @Summary      Soft delete a draft or cancelled proposal
// @Tags         propostas
// @Param        X-User-ID  header  string  true  "Authenticated user"
// @Param        id         path    string  true  "Proposal id"
// @Success      204
// @Failure      409  {object}  pkg.HTTPError
// @Router       /propostas/{id} [delete]
func (h *ProposalHandler) DeleteProposal(c *gin.Context) {
	id := c.Param("id")
	if err := h.proposals.Delete(c.Request.Context(), id, middleware.Actor(c)); err != nil {
		h.fail(c, "delete", id, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetHistory godoc
// @Summary      Audit trail of a proposal, oldest first
// @Tags         propostas
// @Produce      json
// @Param        X-User-ID  header  string  true  "Authenticated user"
// @Param        id         path    string  true  "Proposal id"
// @Success      200  {object}  response.HistoryResponse
// @Router       /propostas/{id}/historico [get]
func (h *ProposalHandler) GetHistory(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()
	if _, err := h.proposals.GetByID(ctx, id); err != nil {
		h.fail(c, "history", id, err)
		return
	}
	events, err := h.audit.History(ctx, id)
	if err != nil {
		h.fail(c, "history", id, err)
		return
	}
	c.JSON(http.StatusOK, response.FromHistory(id, events))
}

// RenderDocument godoc
// @Summary      Printable document masked for the caller
// @Tags         propostas
// @Param        X-User-ID  header  string  true  "Authenticated user"
// @Param        id         path    string  true  "Proposal id"
// @Success      200
// @Router       /propostas/{id}/documento [get]
func (h *ProposalHandler) RenderDocument(c *gin.Context) {
	id := c.Param("id")
	doc, err := h.proposals.Render(c.Request.Context(), id, middleware.Viewer(c))
	if err != nil {
		h.fail(c, "render", id, err)
		return
	}
	writeDocument(c, doc)
}

// Send godoc
// @Summary      Send a draft to the client, or re-send with a fresh link
// @Tags         propostas
// @Produce      json
// @Param        X-User-ID  header  string  true  "Authenticated user"
// @Param        id         path    string  true  "Proposal id"
// @Success      200  {object}  map[string]any
// @Failure      409  {object}  pkg.HTTPError
// @Failure      422  {object}  pkg.HTTPError
// @Router       /propostas/{id}/enviar [post]
func (h *ProposalHandler) Send(c *gin.Context) {
	id := c.Param("id")
	sent, err := h.lifecycle.Send(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		h.fail(c, "send", id, err)
		return
	}
	h.respond(c, http.StatusOK, sent)
}

// Approve godoc
// @Summary      Internal approval of a signed proposal
// @Tags         propostas
// @Accept       json
// @Produce      json
// @Param        X-User-ID  header  string                  true  "Authenticated user"
// @Param        id         path    string                  true  "Proposal id"
// @Param        body       body    request.ApproveRequest  true  "Approval flags"
// @Success      200  {object}  map[string]any
// @Failure      409  {object}  pkg.HTTPError
// @Failure      422  {object}  pkg.HTTPError
// @Router       /propostas/{id}/aprovar [post]
func (h *ProposalHandler) Approve(c *gin.Context) {
	id := c.Param("id")
	var payload request.ApproveRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidProposalPayload.HTTPStatus, errInvalidProposalPayload.ToHTTPError())
		return
	}

	approved, err := h.lifecycle.Approve(c.Request.Context(), id, usecase.ApprovalInput{Technical: payload.Technical, Financial: payload.Financial}, middleware.Actor(c))
	if err != nil {
		h.fail(c, "approve", id, err)
		return
	}
	h.respond(c, http.StatusOK, approved)
}

// Cancel godoc
// @Summary      Cancel a draft or sent proposal
// @Tags         propostas
// @Accept       json
// @Produce      json
// @Param        X-User-ID  header  string                 true   "Authenticated user"
// @Param        id         path    string                 true   "Proposal id"
// @Param        body       body    request.CancelRequest  false  "Reason"
// @Success      200  {object}  map[string]any
// @Failure      409  {object}  pkg.HTTPError
// @Router       /propostas/{id}/cancelar [post]
func (h *ProposalHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	var payload request.CancelRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(errInvalidProposalPayload.HTTPStatus, errInvalidProposalPayload.ToHTTPError())
			return
		}
	}

	cancelled, err := h.lifecycle.Cancel(c.Request.Context(), id, payload.Reason, middleware.Actor(c))
	if err != nil {
		h.fail(c, "cancel", id, err)
		return
	}
	h.respond(c, http.StatusOK, cancelled)
}

// RenewToken godoc
// @Summary      Replace the public link of a sent proposal and remind the client
// @Tags         propostas
// @Produce      json
// @Param        X-User-ID  header  string  true  "Authenticated user"
// @Param        id         path    string  true  "Proposal id"
// @Success      200  {object}  map[string]any
// @Router       /propostas/{id}/token/renovar [post]
func (h *ProposalHandler) RenewToken(c *gin.Context) {
	id := c.Param("id")
	renewed, err := h.lifecycle.RenewToken(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		h.fail(c, "renew-token", id, err)
		return
	}
	h.respond(c, http.StatusOK, renewed)
}

// RevokeToken godoc
// @Summary      Expire the public link immediately
// @Tags         propostas
// @Produce      json
// @Param        X-User-ID  header  string  true  "Authenticated user"
// @Param        id         path    string  true  "Proposal id"
// @Success      200  {object}  map[string]any
// @Router       /propostas/{id}/token/revogar [post]
func (h *ProposalHandler) RevokeToken(c *gin.Context) {
	id := c.Param("id")
	revoked, err := h.lifecycle.RevokeToken(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		h.fail(c, "revoke-token", id, err)
		return
	}
	h.respond(c, http.StatusOK, revoked)
}

func (h *ProposalHandler) respond(c *gin.Context, status int, p entities.Proposal) {
	view, err := h.policy.MaskProposal(p, middleware.Viewer(c))
	if err != nil {
		h.fail(c, "mask", p.ID, err)
		return
	}
	c.JSON(status, view)
}

func (h *ProposalHandler) fail(c *gin.Context, op, id string, err error) {
	appErr := mapProposalError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		log.Printf("[proposal][handler] %s failed proposal_id=%s err=%v", op, id, err)
	}
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func writeDocument(c *gin.Context, doc entities.Document) {
	if doc.Filename != "" {
		c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.Filename))
	}
	c.Data(http.StatusOK, doc.MimeType, doc.Bytes)
}
