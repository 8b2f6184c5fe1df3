package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/dto"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

type guardianService interface {
	Get(ctx context.Context, id int64) (*dto.GuardianResponse, error)
	Create(ctx context.Context, req dto.CreateGuardianRequest) (*dto.GuardianResponse, error)
	Update(ctx context.Context, id int64, req dto.UpdateGuardianRequest) (*dto.GuardianResponse, error)
	Delete(ctx context.Context, id int64) error
}

// GuardianHandler exposes guardian CRUD endpoints.
type GuardianHandler struct {
	guardians guardianService
}

// NewGuardianHandler constructs GuardianHandler.
func NewGuardianHandler(guardians guardianService) *GuardianHandler {
	return &GuardianHandler{guardians: guardians}
}

// Get godoc
// @Summary Get guardian
// @Tags Guardians
// @Produce json
// @Param id path int true "Guardian ID"
// @Success 200 {object} response.Envelope{data=dto.GuardianResponse}
// @Failure 404 {object} response.Envelope
// @Router /guardians/{id} [get]
func (h *GuardianHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	guardian, err := h.guardians.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, guardian)
}

// Create godoc
// @Summary Register guardian
// @Tags Guardians
// @Accept json
// @Produce json
// @Param payload body dto.CreateGuardianRequest true "Guardian payload"
// @Success 201 {object} response.Envelope{data=dto.GuardianResponse}
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /guardians [post]
func (h *GuardianHandler) Create(c *gin.Context) {
	var req dto.CreateGuardianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	guardian, err := h.guardians.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, guardian)
}

// Update godoc
// @Summary Update guardian
// @Tags Guardians
// @Accept json
// @Produce json
// @Param id path int true "Guardian ID"
// @Param payload body dto.UpdateGuardianRequest true "Guardian payload"
// @Success 200 {object} response.Envelope{data=dto.GuardianResponse}
// @Failure 404 {object} response.Envelope
// @Router /guardians/{id} [put]
func (h *GuardianHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateGuardianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	guardian, err := h.guardians.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, guardian)
}

// Delete godoc
// @Summary Delete guardian
// @Tags Guardians
// @Param id path int true "Guardian ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /guardians/{id} [delete]
func (h *GuardianHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.guardians.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
