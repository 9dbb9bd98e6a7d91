package booking

import (
	"errors"
	"net/http"
	"strings"

	"scheduleandpay/internal/domain"
	"scheduleandpay/internal/middleware"
	"scheduleandpay/internal/pkg/response"
	"scheduleandpay/internal/pkg/validator"
	"scheduleandpay/internal/web"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	render  *web.Renderer
	limiter *middleware.IPRateLimiter
	today   func() domain.Day
}

// NewHandler wires the reservation endpoints. limiter may be nil; today
// picks the default day for the admin listing.
func NewHandler(service *Service, render *web.Renderer, limiter *middleware.IPRateLimiter, today func() domain.Day) *Handler {
	return &Handler{
		service: service,
		render:  render,
		limiter: limiter,
		today:   today,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/reserve", h.limit(), h.Reserve)
	r.GET("/reservations/:ref", h.ShowConfirmation)
}

func (h *Handler) RegisterAPIRoutes(api *gin.RouterGroup) {
	api.POST("/reservations", h.limit(), h.CreateReservation)
}

// RegisterAdminRoutes expects a group already limited to the administrator.
func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/reservations", h.AdminReservationsPage)
}

func (h *Handler) RegisterAdminAPIRoutes(admin *gin.RouterGroup) {
	admin.GET("/reservations", h.ListReservations)
}

func (h *Handler) limit() gin.HandlerFunc {
	if h.limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RateLimit(h.limiter)
}

// Reserve handles the schedule page form.
func (h *Handler) Reserve(c *gin.Context) {
	var req ReserveRequest
	if err := c.ShouldBind(&req); err != nil {
		h.render.Error(c, http.StatusBadRequest, "The reservation form could not be read.")
		return
	}
	req.trim()
	if errs := validator.Validate(req); errs != nil {
		h.render.Error(c, http.StatusBadRequest, "Please check these fields: "+fieldList(errs)+".")
		return
	}

	conf, err := h.service.Reserve(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			h.render.Error(c, http.StatusBadRequest, "The selected date is not valid.")
		case errors.Is(err, ErrUnknownTimeLabel):
			h.render.Error(c, http.StatusBadRequest, "The selected time is not offered.")
		case errors.Is(err, ErrNotAvailable):
			h.render.HTML(c, http.StatusConflict, "conflict.html", gin.H{
				"slot": req.Date + " at " + req.Time,
			})
		default:
			_ = c.Error(err)
			h.render.Error(c, http.StatusInternalServerError, "Your reservation could not be saved, please try again.")
		}
		return
	}

	h.renderConfirmation(c, conf)
}

// ShowConfirmation lets the customer reopen their confirmation.
func (h *Handler) ShowConfirmation(c *gin.Context) {
	conf, err := h.service.GetByReference(c.Request.Context(), c.Param("ref"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.render.Error(c, http.StatusNotFound, "Reservation not found.")
			return
		}
		_ = c.Error(err)
		h.render.Error(c, http.StatusInternalServerError, "The reservation could not be loaded.")
		return
	}
	h.renderConfirmation(c, conf)
}

func (h *Handler) renderConfirmation(c *gin.Context, conf *Confirmation) {
	h.render.HTML(c, http.StatusOK, "confirmation.html", gin.H{
		"slot":         conf.Slot,
		"payment_link": conf.PaymentURL,
		"payment_qr":   conf.PaymentQR,
		"reference":    conf.Reservation.Reference,
	})
}

func (h *Handler) CreateReservation(c *gin.Context) {
	var req ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	req.trim()
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid reservation", errs)
		return
	}

	conf, err := h.service.Reserve(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid date, expected YYYY-MM-DD")
		case errors.Is(err, ErrUnknownTimeLabel):
			response.Error(c, http.StatusBadRequest, "UNKNOWN_TIME", "Time is not one of the configured hours")
		case errors.Is(err, ErrNotAvailable):
			response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", "Slot is no longer available")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create reservation")
		}
		return
	}

	response.Success(c, http.StatusCreated, conf)
}

func (h *Handler) ListReservations(c *gin.Context) {
	day, err := domain.ParseDay(c.Query("date"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD")
		return
	}

	list, err := h.service.ListDay(c.Request.Context(), day)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load reservations")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"date": day, "reservations": list})
}

func (h *Handler) AdminReservationsPage(c *gin.Context) {
	day := h.today()
	if raw := c.Query("date"); raw != "" {
		parsed, err := domain.ParseDay(raw)
		if err != nil {
			h.render.Error(c, http.StatusBadRequest, "Dates look like 2024-06-10.")
			return
		}
		day = parsed
	}

	list, err := h.service.ListDay(c.Request.Context(), day)
	if err != nil {
		_ = c.Error(err)
		h.render.Error(c, http.StatusInternalServerError, "The reservations could not be loaded.")
		return
	}
	h.render.HTML(c, http.StatusOK, "admin_reservations.html", gin.H{
		"date":         day,
		"reservations": list,
	})
}

func fieldList(errs map[string]string) string {
	names := make([]string, 0, len(errs))
	for _, f := range []string{"name", "email", "phone", "date", "time"} {
		if _, ok := errs[f]; ok {
			names = append(names, f)
		}
	}
	return strings.Join(names, ", ")
}
