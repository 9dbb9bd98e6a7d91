package hours

import (
	"errors"
	"fmt"
	"net/http"

	"scheduleandpay/internal/domain"
	"scheduleandpay/internal/middleware"
	"scheduleandpay/internal/pkg/response"
	"scheduleandpay/internal/web"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	render  *web.Renderer
}

func NewHandler(service *Service, render *web.Renderer) *Handler {
	return &Handler{service: service, render: render}
}

// RegisterRoutes expects a group already limited to the administrator.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/hours", h.EditHours)
	admin.POST("/hours", h.UpdateHours)
	admin.POST("/hours/reset", h.ResetHours)
}

func (h *Handler) RegisterAPIRoutes(admin *gin.RouterGroup) {
	admin.GET("/hours", h.GetHoursJSON)
	admin.PUT("/hours", h.PutHoursJSON)
}

func (h *Handler) EditHours(c *gin.Context) {
	h.render.HTML(c, http.StatusOK, "admin_hours.html", gin.H{
		"hours":         h.service.Get(),
		"default_hours": domain.DefaultHours,
	})
}

func (h *Handler) UpdateHours(c *gin.Context) {
	text, ok := c.GetPostForm("new_hours")
	if !ok {
		h.render.Error(c, http.StatusBadRequest, "The new_hours field is required.")
		return
	}

	if _, err := h.service.SetFromText(c.Request.Context(), middleware.CurrentUser(c), text); err != nil {
		h.pageError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/hours")
}

func (h *Handler) ResetHours(c *gin.Context) {
	if _, err := h.service.Reset(c.Request.Context(), middleware.CurrentUser(c)); err != nil {
		h.pageError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/hours")
}

type updateHoursRequest struct {
	Hours []string `json:"hours"`
}

func (h *Handler) GetHoursJSON(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"hours": h.service.Get()})
}

func (h *Handler) PutHoursJSON(c *gin.Context) {
	var req updateHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	hours, err := h.service.Set(c.Request.Context(), middleware.CurrentUser(c), req.Hours)
	if err != nil {
		switch {
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: administrator only")
			return
		case errors.Is(err, ErrInvalidHours):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save hours")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"hours": hours})
}

func (h *Handler) pageError(c *gin.Context, err error) {
	if errors.Is(err, ErrForbidden) {
		h.render.Error(c, http.StatusForbidden, "Only the administrator can change the hours.")
		return
	}
	if errors.Is(err, ErrInvalidHours) {
		h.render.Error(c, http.StatusBadRequest,
			fmt.Sprintf("Each time must be at most %d characters long.", domain.MaxTimeLabelLength))
		return
	}
	_ = c.Error(err)
	h.render.Error(c, http.StatusInternalServerError, "Saving the hours failed, please try again.")
}
