package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ragengine/console/internal/modules/service"
	"github.com/ragengine/console/internal/pages"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	auth   pages.Auth
	spaces service.SpaceService
	log    *zap.Logger
}

func NewDashboardHandler(auth pages.Auth, spaces service.SpaceService, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{auth: auth, spaces: spaces, log: log}
}

type CreateSpaceReq struct {
	Name string `form:"name"`
}

// Dashboard renders GET /dashboard?q=
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	p := pages.NewDashboard(h.auth, h.spaces, h.log)
	p.Query = c.Query("q")
	_ = p.Load(c.Request.Context())
	c.HTML(http.StatusOK, "dashboard.html", gin.H{"Title": "Dashboard", "Page": p})
}

// CreateSpace handles POST /dashboard/spaces and navigates into the new space.
func (h *DashboardHandler) CreateSpace(c *gin.Context) {
	req := CreateSpaceReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid form", "error": err.Error()})
		return
	}

	p := pages.NewDashboard(h.auth, h.spaces, h.log)
	sp, err := p.Create(c.Request.Context(), req.Name)
	if err != nil {
		_ = p.Load(c.Request.Context())
		p.Error = pages.MsgCreateSpaceFailed
		c.HTML(http.StatusOK, "dashboard.html", gin.H{"Title": "Dashboard", "Page": p})
		return
	}
	if sp == nil {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	c.Redirect(http.StatusSeeOther, pages.SpacePath(sp.ID))
}
