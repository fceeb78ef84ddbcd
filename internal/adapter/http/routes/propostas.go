package routes

import (
	"propostas_service/internal/adapter/http/handlers"
	"propostas_service/internal/adapter/http/middleware"

	"github.com/gin-gonic/gin"
)

const (
	PathProposals       = "/propostas"
	PathPublicProposals = "/public/propostas"
)

func addProposalRoutes(rg *gin.RouterGroup, h *handlers.ProposalHandler) {
	proposals := rg.Group(PathProposals, middleware.RequireUser())
	{
		proposals.POST("", h.CreateDraft)
		proposals.GET("/:id", h.GetProposal)
		proposals.PUT("/:id", h.UpdateDraft)
		proposals.DELETE("/:id", h.DeleteProposal)
		proposals.GET("/:id/historico", h.GetHistory)
		proposals.GET("/:id/documento", h.RenderDocument)

		proposals.POST("/:id/enviar", h.Send)
		proposals.POST("/:id/aprovar", h.Approve)
		proposals.POST("/:id/cancelar", h.Cancel)
		proposals.POST("/:id/token/renovar", h.RenewToken)
		proposals.POST("/:id/token/revogar", h.RevokeToken)
	}
}

// addPublicRoutes registers the unauthenticated routes reached through the
// link sent to the client.
func addPublicRoutes(rg *gin.RouterGroup, h *handlers.PublicProposalHandler) {
	public := rg.Group(PathPublicProposals)
	{
		public.GET("/:token", h.Resolve)
		public.POST("/:token/assinatura", h.SubmitSignature)
		public.GET("/:token/documento", h.RenderDocument)
	}
}
