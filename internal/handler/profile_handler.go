package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

type profileService interface {
	StudentHome(ctx context.Context, studentID int64) (*dto.StudentHome, error)
	StudentAbout(ctx context.Context, studentID int64) (*dto.StudentAbout, error)
	StudentReports(ctx context.Context, studentID int64) (*dto.StudentReports, error)
	StudentTimetable(ctx context.Context, studentID int64) (*dto.StudentTimetable, error)
	GuardianInfo(ctx context.Context, guardianID int64) (*dto.GuardianInfo, error)
	GuardianChildren(ctx context.Context, guardianID int64) (*dto.GuardianChildren, error)
}

// ProfileHandler renders the student and guardian composites.
type ProfileHandler struct {
	profiles profileService
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(profiles profileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Home godoc
// @Summary Student home page
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope{data=dto.StudentHome}
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /students/{id}/home [get]
func (h *ProfileHandler) Home(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := h.profiles.StudentHome(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, out)
}

// About godoc
// @Summary Student information page
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope{data=dto.StudentAbout}
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /students/{id}/about [get]
func (h *ProfileHandler) About(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := h.profiles.StudentAbout(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, out)
}

// Reports godoc
// @Summary Student reports with signed download links
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope{data=dto.StudentReports}
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /students/{id}/reports [get]
func (h *ProfileHandler) Reports(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := h.profiles.StudentReports(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, out)
}

// Timetable godoc
// @Summary Student timetable
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope{data=dto.StudentTimetable}
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /students/{id}/timetable [get]
func (h *ProfileHandler) Timetable(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := h.profiles.StudentTimetable(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, out)
}

// GuardianInfo godoc
// @Summary Guardian personal information
// @Tags Guardians
// @Produce json
// @Param id path int true "Guardian ID"
// @Success 200 {object} response.Envelope{data=dto.GuardianInfo}
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /guardians/{id}/pi [get]
func (h *ProfileHandler) GuardianInfo(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := h.profiles.GuardianInfo(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, out)
}

// Children godoc
// @Summary Students linked to the guardian's email
// @Tags Guardians
// @Produce json
// @Param id path int true "Guardian ID"
// @Success 200 {object} response.Envelope{data=dto.GuardianChildren}
// @Failure 500 {object} response.Envelope
// @Router /guardians/{id}/students [get]
func (h *ProfileHandler) Children(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := h.profiles.GuardianChildren(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, out)
}
