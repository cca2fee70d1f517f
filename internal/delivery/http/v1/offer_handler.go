package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go-procurement-backend/internal/delivery/http/middleware"
	"go-procurement-backend/internal/delivery/http/response"
	"go-procurement-backend/internal/domain"
	"go-procurement-backend/pkg/apperror"
)

type OfferHandler struct {
	offerUC domain.OfferUsecase
}

// NewOfferHandler registers the offer routes. Listing and reading are public;
// creation and status changes require a ministry role.
func NewOfferHandler(public *gin.RouterGroup, protected *gin.RouterGroup, offerUC domain.OfferUsecase) {
	handler := &OfferHandler{offerUC: offerUC}

	publicOffers := public.Group("/offres")
	{
		publicOffers.GET("", handler.List)
		publicOffers.GET("/published", handler.ListPublished)
		publicOffers.GET("/:id", handler.Get)
	}

	ministry := protected.Group("/offres", middleware.RequireMinistry())
	{
		ministry.POST("", handler.Create)
		ministry.PUT("/:id/validate", handler.Validate)
		ministry.PUT("/:id/reject", handler.Reject)
		ministry.DELETE("/:id", handler.Delete)
	}
}

type CreateOfferRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Domaine     string    `json:"domaine" binding:"required"`
	DateLimite  time.Time `json:"dateLimite" binding:"required"`
}

func offerID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.BadRequest("invalid offer id")
	}
	return id, nil
}

// List godoc
// @Summary      List all offers
// @Tags         offres
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Offer}
// @Router       /offres [get]
func (h *OfferHandler) List(c *gin.Context) {
	offers, err := h.offerUC.ListOffers(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Offers retrieved", offers)
}

// ListPublished godoc
// @Summary      List validated offers
// @Description  Only offers a ministry agent has validated are open for candidatures.
// @Tags         offres
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Offer}
// @Router       /offres/published [get]
func (h *OfferHandler) ListPublished(c *gin.Context) {
	offers, err := h.offerUC.ListPublishedOffers(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Published offers retrieved", offers)
}

// Get godoc
// @Summary      Get an offer
// @Tags         offres
// @Produce      json
// @Param        id   path      int  true  "Offer ID"
// @Success      200  {object}  response.Response{data=domain.Offer}
// @Failure      404  {object}  response.Response
// @Router       /offres/{id} [get]
func (h *OfferHandler) Get(c *gin.Context) {
	id, err := offerID(c)
	if err != nil {
		c.Error(err)
		return
	}

	offer, err := h.offerUC.GetOffer(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Offer retrieved", offer)
}

// Create godoc
// @Summary      Create an offer
// @Tags         offres
// @Accept       json
// @Produce      json
// @Param        body  body      CreateOfferRequest  true  "Offer details"
// @Success      201   {object}  response.Response{data=domain.Offer}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /offres [post]
// @Security     BearerAuth
func (h *OfferHandler) Create(c *gin.Context) {
	var req CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	offer, err := h.offerUC.CreateOffer(c.Request.Context(), middleware.UserID(c), domain.CreateOfferInput{
		Title:       req.Title,
		Description: req.Description,
		Domaine:     req.Domaine,
		DateLimite:  req.DateLimite,
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Offer created", offer)
}

// Validate godoc
// @Summary      Validate an offer
// @Description  Marks the offer as validated, making it visible to entreprises.
// @Tags         offres
// @Produce      json
// @Param        id   path      int  true  "Offer ID"
// @Success      200  {object}  response.Response{data=domain.Offer}
// @Failure      404  {object}  response.Response
// @Router       /offres/{id}/validate [put]
// @Security     BearerAuth
func (h *OfferHandler) Validate(c *gin.Context) {
	id, err := offerID(c)
	if err != nil {
		c.Error(err)
		return
	}

	offer, err := h.offerUC.ValidateOffer(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Offer validated", offer)
}

// Reject godoc
// @Summary      Reject an offer
// @Tags         offres
// @Produce      json
// @Param        id   path      int  true  "Offer ID"
// @Success      200  {object}  response.Response{data=domain.Offer}
// @Failure      404  {object}  response.Response
// @Router       /offres/{id}/reject [put]
// @Security     BearerAuth
func (h *OfferHandler) Reject(c *gin.Context) {
	id, err := offerID(c)
	if err != nil {
		c.Error(err)
		return
	}

	offer, err := h.offerUC.RejectOffer(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Offer rejected", offer)
}

// Delete godoc
// @Summary      Delete an offer
// @Tags         offres
// @Produce      json
// @Param        id   path      int  true  "Offer ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /offres/{id} [delete]
// @Security     BearerAuth
func (h *OfferHandler) Delete(c *gin.Context) {
	id, err := offerID(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.offerUC.DeleteOffer(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Offer deleted", nil)
}
