package v1

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-procurement-backend/internal/delivery/http/middleware"
	"go-procurement-backend/internal/delivery/http/response"
	"go-procurement-backend/internal/domain"
	"go-procurement-backend/pkg/apperror"
	"go-procurement-backend/pkg/logger"
	"go-procurement-backend/pkg/storage"
	"go-procurement-backend/pkg/upload"
)

type CandidatureHandler struct {
	candidatureUC domain.CandidatureUsecase
	store         storage.Store
}

// NewCandidatureHandler registers the candidature routes. Submission and the
// personal listing are entreprise-only; per-offer listing and status changes
// belong to the ministry side.
func NewCandidatureHandler(protected *gin.RouterGroup, candidatureUC domain.CandidatureUsecase, store storage.Store) {
	handler := &CandidatureHandler{candidatureUC: candidatureUC, store: store}

	candidatures := protected.Group("/candidatures")
	{
		candidatures.POST("", middleware.RequireEntreprise(), handler.Submit)
		candidatures.GET("/me", middleware.RequireEntreprise(), handler.ListMine)
		candidatures.GET("/offer/:offerId", middleware.RequireMinistry(), handler.ListByOffer)
		candidatures.PATCH("/:id/status", middleware.RequireMinistry(), handler.UpdateStatus)
	}
}

type UpdateCandidatureStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Submit godoc
// @Summary      Submit a candidature
// @Description  Apply to a validated offer. Accepts multipart form data with an optional supporting document.
// @Tags         candidatures
// @Accept       multipart/form-data
// @Produce      json
// @Param        offerId  formData  int     true   "Offer ID"
// @Param        message  formData  string  false  "Motivation message"
// @Param        file     formData  file    false  "Supporting document"
// @Success      201      {object}  response.Response{data=domain.Candidature}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /candidatures [post]
// @Security     BearerAuth
func (h *CandidatureHandler) Submit(c *gin.Context) {
	offerID, err := strconv.ParseInt(c.PostForm("offerId"), 10, 64)
	if err != nil || offerID <= 0 {
		c.Error(apperror.BadRequest("offerId is required"))
		return
	}

	input := domain.SubmitCandidatureInput{
		OfferID: offerID,
		Message: c.PostForm("message"),
	}

	if fileHeader, ferr := c.FormFile("file"); ferr == nil {
		if fileHeader.Size > upload.MaxFileSize {
			c.Error(apperror.BadRequest(upload.ErrFileTooLarge.Error()))
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.Error(apperror.BadRequest("could not read uploaded file"))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, upload.MaxFileSize+1))
		if err != nil {
			c.Error(apperror.BadRequest("could not read uploaded file"))
			return
		}

		if err := upload.Validate(fileHeader.Filename, data); err != nil {
			c.Error(apperror.BadRequest(err.Error()))
			return
		}

		ref, err := h.store.Save(c.Request.Context(), fileHeader.Filename, data)
		if err != nil {
			c.Error(err)
			return
		}
		input.DocumentRef = ref
	}

	candidature, err := h.candidatureUC.Submit(c.Request.Context(), middleware.UserID(c), input)
	if err != nil {
		// a refused submission must not leave its document behind
		if input.DocumentRef != "" {
			if rerr := h.store.Remove(c.Request.Context(), input.DocumentRef); rerr != nil {
				logger.Log.Warn("could not remove document of refused submission",
					"ref", input.DocumentRef, "error", rerr)
			}
		}
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Candidature submitted", candidature)
}

// ListMine godoc
// @Summary      List my candidatures
// @Tags         candidatures
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Candidature}
// @Router       /candidatures/me [get]
// @Security     BearerAuth
func (h *CandidatureHandler) ListMine(c *gin.Context) {
	candidatures, err := h.candidatureUC.ListMine(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidatures retrieved", candidatures)
}

// ListByOffer godoc
// @Summary      List candidatures for an offer
// @Tags         candidatures
// @Produce      json
// @Param        offerId  path      int  true  "Offer ID"
// @Success      200      {object}  response.Response{data=[]domain.Candidature}
// @Failure      403      {object}  response.Response
// @Router       /candidatures/offer/{offerId} [get]
// @Security     BearerAuth
func (h *CandidatureHandler) ListByOffer(c *gin.Context) {
	offerID, err := strconv.ParseInt(c.Param("offerId"), 10, 64)
	if err != nil || offerID <= 0 {
		c.Error(apperror.BadRequest("invalid offer id"))
		return
	}

	candidatures, err := h.candidatureUC.ListByOffer(c.Request.Context(), offerID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidatures retrieved", candidatures)
}

// UpdateStatus godoc
// @Summary      Accept or reject a candidature
// @Description  Accepting a candidature atomically rejects every other pending candidature on the same offer. The response reports how many were auto-rejected.
// @Tags         candidatures
// @Accept       json
// @Produce      json
// @Param        id    path      int                             true  "Candidature ID"
// @Param        body  body      UpdateCandidatureStatusRequest  true  "New status"
// @Success      200   {object}  response.Response{data=domain.StatusUpdateResult}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /candidatures/{id}/status [patch]
// @Security     BearerAuth
func (h *CandidatureHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.Error(apperror.BadRequest("invalid candidature id"))
		return
	}

	var req UpdateCandidatureStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	result, err := h.candidatureUC.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidature status updated", result)
}
