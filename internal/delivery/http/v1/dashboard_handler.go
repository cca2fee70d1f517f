package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-procurement-backend/internal/delivery/http/middleware"
	"go-procurement-backend/internal/delivery/http/response"
	"go-procurement-backend/internal/domain"
)

type DashboardHandler struct {
	dashboardUC domain.DashboardUsecase
}

func NewDashboardHandler(protected *gin.RouterGroup, dashboardUC domain.DashboardUsecase) {
	handler := &DashboardHandler{dashboardUC: dashboardUC}

	dashboard := protected.Group("/dashboard")
	{
		dashboard.GET("/entreprise", middleware.RequireEntreprise(), handler.Entreprise)
		dashboard.GET("/ministere", middleware.RequireMinistry(), handler.Ministere)
	}
}

// Entreprise godoc
// @Summary      Entreprise home dashboard
// @Description  Open offers, the caller's candidatures and their per-status counts.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.EntrepriseDashboard}
// @Failure      403  {object}  response.Response
// @Router       /dashboard/entreprise [get]
// @Security     BearerAuth
func (h *DashboardHandler) Entreprise(c *gin.Context) {
	dashboard, err := h.dashboardUC.EntrepriseDashboard(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Dashboard retrieved", dashboard)
}

// Ministere godoc
// @Summary      Ministry dashboard
// @Description  Portal-wide statistics, recent activity and the monthly creation chart.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.MinistereDashboard}
// @Failure      403  {object}  response.Response
// @Router       /dashboard/ministere [get]
// @Security     BearerAuth
func (h *DashboardHandler) Ministere(c *gin.Context) {
	dashboard, err := h.dashboardUC.MinistereDashboard(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Dashboard retrieved", dashboard)
}
