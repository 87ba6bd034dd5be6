package membership

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/middleware"
	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/service/membership"
	"github.com/clinicore/clinic-api/pkg/errors"
	"github.com/clinicore/clinic-api/pkg/httputil"
)

type Handler struct {
	service membership.Servicer
}

func NewHandler(service membership.Servicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListMemberships(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		httputil.RespondWithError(c, errors.NewUnauthenticated("no authenticated identity"))
		return
	}

	memberships, err := h.service.ListMemberships(c.Request.Context(), actor)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"total":       len(memberships),
		"memberships": memberships,
	})
}

func (h *Handler) CreateMembership(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		httputil.RespondWithError(c, errors.NewUnauthenticated("no authenticated identity"))
		return
	}

	var req model.CreateMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.NewValidation(err.Error()))
		return
	}

	m, err := h.service.CreateMembership(c.Request.Context(), actor, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":       true,
		"membership_id": m.ID,
	})
}

func (h *Handler) DeleteMembership(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		httputil.RespondWithError(c, errors.NewUnauthenticated("no authenticated identity"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.NewValidation("invalid membership ID"))
		return
	}

	if err := h.service.DeleteMembership(c.Request.Context(), actor, id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	memberships := r.Group("/memberships")
	{
		memberships.GET("", h.ListMemberships)
		memberships.POST("", h.CreateMembership)
		memberships.DELETE("/:id", h.DeleteMembership)
	}
}
