package handlers

import (
	"log"
	"net/http"

	request "propostas_service/internal/adapter/http/dto/request"
	response "propostas_service/internal/adapter/http/dto/response"
	"propostas_service/internal/adapter/http/middleware"
	"propostas_service/internal/usecase"

	"github.com/gin-gonic/gin"
)

// PublicProposalHandler serves the token holder. The token in the path is
// the only credential.
type PublicProposalHandler struct {
	usecase usecase.IPublicProposalUseCase
}

func NewPublicProposalHandler(uc usecase.IPublicProposalUseCase) *PublicProposalHandler {
	return &PublicProposalHandler{usecase: uc}
}

// Resolve godoc
// @Summary      Client view of the proposal behind a public link
// @Tags         public
// @Produce      json
// @Param        token  path  string  true  "Access token"
// @Success      200  {object}  map[string]any
// @Failure      410  {object}  pkg.HTTPError
// @Router       /public/propostas/{token} [get]
func (h *PublicProposalHandler) Resolve(c *gin.Context) {
	view, err := h.usecase.Resolve(c.Request.Context(), c.Param("token"), middleware.Actor(c))
	if err != nil {
		publicFail(c, "resolve", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SubmitSignature godoc
// @Summary      Sign the proposal behind a public link
// @Tags         public
// @Accept       json
// @Produce      json
// @Param        token  path  string                    true  "Access token"
// @Param        body   body  request.SignatureRequest  true  "Signature"
// @Success      200  {object}  response.SignatureResponse
// @Failure      409  {object}  pkg.HTTPError
// @Failure      410  {object}  pkg.HTTPError
// @Failure      422  {object}  pkg.HTTPError
// @Router       /public/propostas/{token}/assinatura [post]
func (h *PublicProposalHandler) SubmitSignature(c *gin.Context) {
	var payload request.SignatureRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidSignaturePayload.HTTPStatus, errInvalidSignaturePayload.ToHTTPError())
		return
	}

	res, err := h.usecase.SubmitSignature(c.Request.Context(), c.Param("token"), payload.ToSignatureInput(), middleware.Actor(c))
	if err != nil {
		publicFail(c, "sign", err)
		return
	}
	c.JSON(http.StatusOK, response.FromSignResult(res))
}

// RenderDocument godoc
// @Summary      Printable client document of the proposal behind a public link
// @Tags         public
// @Param        token  path  string  true  "Access token"
// @Success      200
// @Failure      410  {object}  pkg.HTTPError
// @Router       /public/propostas/{token}/documento [get]
func (h *PublicProposalHandler) RenderDocument(c *gin.Context) {
	doc, err := h.usecase.RenderDocument(c.Request.Context(), c.Param("token"))
	if err != nil {
		publicFail(c, "render", err)
		return
	}
	writeDocument(c, doc)
}

func publicFail(c *gin.Context, op string, err error) {
	appErr := mapProposalError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		log.Printf("[proposal][public] %s failed ip=%s err=%v", op, c.ClientIP(), err)
	}
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
