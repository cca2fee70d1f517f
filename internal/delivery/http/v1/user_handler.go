package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-procurement-backend/internal/delivery/http/middleware"
	"go-procurement-backend/internal/delivery/http/response"
	"go-procurement-backend/internal/domain"
	"go-procurement-backend/pkg/apperror"
)

type UserHandler struct {
	userUC domain.UserUsecase
}

// NewUserHandler registers the account routes. Listing and deletion are
// ministry-only; the single fetch also serves an account reading itself.
func NewUserHandler(protected *gin.RouterGroup, userUC domain.UserUsecase) {
	handler := &UserHandler{userUC: userUC}

	users := protected.Group("/users")
	{
		users.GET("", middleware.RequireMinistry(), handler.List)
		users.GET("/:username", handler.Get)
		users.DELETE("/:username", middleware.RequireMinistry(), handler.Delete)
	}
}

// List godoc
// @Summary      List accounts
// @Tags         users
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.User}
// @Failure      403  {object}  response.Response
// @Router       /users [get]
// @Security     BearerAuth
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userUC.ListUsers(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Users retrieved", users)
}

// Get godoc
// @Summary      Get an account
// @Description  Fetch one account by numeric id or username. Ministry roles can read any account; an entreprise can only read its own.
// @Tags         users
// @Produce      json
// @Param        username  path      string  true  "User ID or username"
// @Success      200       {object}  response.Response{data=domain.User}
// @Failure      403       {object}  response.Response
// @Failure      404       {object}  response.Response
// @Router       /users/{username} [get]
// @Security     BearerAuth
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userUC.GetUser(c.Request.Context(), c.Param("username"))
	if err != nil {
		c.Error(err)
		return
	}

	if !middleware.UserRole(c).IsMinistry() && user.ID != middleware.UserID(c) {
		c.Error(apperror.Forbidden("you can only view your own account"))
		return
	}

	response.Success(c, http.StatusOK, "User retrieved", user)
}

// Delete godoc
// @Summary      Delete an account
// @Description  Removes the account and its candidatures. Fails with 409 when the account still owns offers.
// @Tags         users
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  response.Response
// @Failure      404       {object}  response.Response
// @Failure      409       {object}  response.Response
// @Router       /users/{username} [delete]
// @Security     BearerAuth
func (h *UserHandler) Delete(c *gin.Context) {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		c.Error(apperror.BadRequest("username is required"))
		return
	}

	if err := h.userUC.DeleteUser(c.Request.Context(), username); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User deleted", nil)
}
