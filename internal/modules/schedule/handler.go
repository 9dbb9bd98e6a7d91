package schedule

import (
	"errors"
	"net/http"
	"strconv"

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

// RegisterRoutes mounts the public schedule page.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.SchedulePage)
}

func (h *Handler) RegisterAPIRoutes(api *gin.RouterGroup) {
	api.GET("/schedule", h.GetSchedule)
}

// SchedulePage renders the week. A missing, malformed or out of range
// week_offset shows the current week.
func (h *Handler) SchedulePage(c *gin.Context) {
	offset, err := strconv.Atoi(c.DefaultQuery("week_offset", "0"))
	if err != nil || CheckOffset(h.service.Today(), offset) != nil {
		offset = 0
	}

	week, err := h.service.Week(c.Request.Context(), offset)
	if err != nil {
		_ = c.Error(err)
		h.render.Error(c, http.StatusInternalServerError, "The schedule could not be loaded, please try again.")
		return
	}

	h.render.HTML(c, http.StatusOK, "schedule.html", gin.H{
		"week":  week,
		"today": h.service.Today(),
	})
}

func (h *Handler) GetSchedule(c *gin.Context) {
	offset, err := strconv.Atoi(c.DefaultQuery("week_offset", "0"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "week_offset must be an integer")
		return
	}

	week, err := h.service.Week(c.Request.Context(), offset)
	if err != nil {
		if errors.Is(err, ErrOffsetOutOfRange) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "week_offset is out of range")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load schedule")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"week": week})
}
