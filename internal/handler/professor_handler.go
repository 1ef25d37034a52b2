package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/faculty-directory-api/internal/service"
	appErrors "github.com/noah-isme/faculty-directory-api/pkg/errors"
	"github.com/noah-isme/faculty-directory-api/pkg/response"
)

// ProfessorHandler handles professor directory endpoints.
type ProfessorHandler struct {
	service *service.ProfessorService
}

// NewProfessorHandler constructs a professor handler.
func NewProfessorHandler(svc *service.ProfessorService) *ProfessorHandler {
	return &ProfessorHandler{service: svc}
}

// List godoc
// @Summary List professors
// @Description Lists the directory, optionally filtered by department name, course name, or a free-text search term.
// @Tags Professors
// @Produce json
// @Param department query string false "Filter by department name"
// @Param course query string false "Filter by course name"
// @Param search query string false "Search by name, email, or specialty"
// @Success 200 {object} response.Envelope
// @Router /professors [get]
func (h *ProfessorHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if department := strings.TrimSpace(c.Query("department")); department != "" {
		professors, err := h.service.ListByDepartment(ctx, department)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, professors)
		return
	}
	if course := strings.TrimSpace(c.Query("course")); course != "" {
		professors, err := h.service.FilterByCourse(ctx, course)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, professors)
		return
	}
	if search, ok := c.GetQuery("search"); ok {
		professors, err := h.service.Search(ctx, search)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, professors)
		return
	}

	professors, err := h.service.List(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, professors)
}

// Get godoc
// @Summary Get professor by id
// @Tags Professors
// @Produce json
// @Param id path int true "Professor ID"
// @Success 200 {object} response.Envelope
// @Router /professors/{id} [get]
func (h *ProfessorHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	professor, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, professor)
}

// Create godoc
// @Summary Create professor
// @Tags Professors
// @Accept json
// @Produce json
// @Param payload body service.ProfessorRequest true "Professor payload"
// @Success 201 {object} response.Envelope
// @Router /professors [post]
func (h *ProfessorHandler) Create(c *gin.Context) {
	var req service.ProfessorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	professor, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, professor)
}

// Update godoc
// @Summary Update professor
// @Tags Professors
// @Accept json
// @Produce json
// @Param id path int true "Professor ID"
// @Param payload body service.ProfessorRequest true "Professor payload"
// @Success 200 {object} response.Envelope
// @Router /professors/{id} [put]
func (h *ProfessorHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.ProfessorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	professor, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, professor)
}

// Delete godoc
// @Summary Delete professor and their schedule entries
// @Tags Professors
// @Produce json
// @Param id path int true "Professor ID"
// @Success 200 {object} response.Envelope
// @Router /professors/{id} [delete]
func (h *ProfessorHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	affected, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Deleted(c, "Professor deleted", affected)
}

// UploadPhoto godoc
// @Summary Upload professor photo
// @Tags Professors
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Professor ID"
// @Param photo formData file true "Photo file"
// @Success 200 {object} response.Envelope
// @Router /professors/{id}/photo [post]
func (h *ProfessorHandler) UploadPhoto(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := c.FormFile("photo")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "photo file required"))
		return
	}
	src, err := file.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable photo file"))
		return
	}
	defer src.Close()

	url, err := h.service.AttachPhoto(c.Request.Context(), id, file.Filename, src)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"photo_url": url})
}
