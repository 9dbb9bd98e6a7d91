package auth

import (
	"errors"
	"net/http"
	"strings"

	"scheduleandpay/internal/middleware"
	"scheduleandpay/internal/web"

	"github.com/gin-gonic/gin"
)

const (
	stateCookie    = "oauth_state"
	stateCookieTTL = 600
)

type CookieConfig struct {
	Secure   bool
	SameSite http.SameSite
}

// SameSiteMode maps the COOKIE_SAMESITE setting to http.SameSite.
func SameSiteMode(s string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

type Handler struct {
	service *Service
	render  *web.Renderer
	cookies CookieConfig
}

func NewHandler(service *Service, render *web.Renderer, cookies CookieConfig) *Handler {
	return &Handler{service: service, render: render, cookies: cookies}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/login", h.LoginPage)
	r.GET("/login/google", h.GoogleLogin)
	r.GET("/auth/callback", h.Callback)
	r.POST("/login/password", h.PasswordLogin)
	r.GET("/logout", h.Logout)
}

// LoginPage goes straight to the identity provider when it is the only
// login method; otherwise it lists the methods.
func (h *Handler) LoginPage(c *gin.Context) {
	if h.service.ProviderEnabled() && !h.service.PasswordEnabled() {
		h.GoogleLogin(c)
		return
	}
	h.loginPage(c, http.StatusOK, "")
}

func (h *Handler) loginPage(c *gin.Context, status int, msg string) {
	h.render.HTML(c, status, "login.html", gin.H{
		"error":            msg,
		"google_enabled":   h.service.ProviderEnabled(),
		"password_enabled": h.service.PasswordEnabled(),
	})
}

func (h *Handler) GoogleLogin(c *gin.Context) {
	state, url, err := h.service.BeginLogin()
	if err != nil {
		if errors.Is(err, ErrLoginDisabled) {
			h.render.Error(c, http.StatusNotFound, "Google sign-in is not configured.")
			return
		}
		_ = c.Error(err)
		h.render.Error(c, http.StatusInternalServerError, "Sign-in could not be started.")
		return
	}

	// Lax so the cookie survives the cross-site redirect back from the provider.
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth/callback",
		MaxAge:   stateCookieTTL,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.Redirect(http.StatusFound, url)
}

func (h *Handler) Callback(c *gin.Context) {
	expected, _ := c.Cookie(stateCookie)
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     stateCookie,
		Path:     "/auth/callback",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	if c.Query("error") != "" {
		h.loginPage(c, http.StatusUnauthorized, "Sign-in was cancelled.")
		return
	}

	result, err := h.service.CompleteLogin(c.Request.Context(), expected, c.Query("state"), c.Query("code"))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidState):
			h.loginPage(c, http.StatusBadRequest, "Sign-in expired, please try again.")
		case errors.Is(err, ErrLoginDisabled):
			h.render.Error(c, http.StatusNotFound, "Google sign-in is not configured.")
		default:
			_ = c.Error(err)
			h.loginPage(c, http.StatusUnauthorized, "Sign-in failed, please try again.")
		}
		return
	}

	h.startSession(c, result)
}

func (h *Handler) PasswordLogin(c *gin.Context) {
	result, err := h.service.PasswordLogin(c.PostForm("email"), c.PostForm("password"))
	if err != nil {
		if errors.Is(err, ErrLoginDisabled) {
			h.render.Error(c, http.StatusNotFound, "Password sign-in is not configured.")
			return
		}
		h.loginPage(c, http.StatusUnauthorized, "Invalid email or password.")
		return
	}
	h.startSession(c, result)
}

func (h *Handler) Logout(c *gin.Context) {
	h.setSession(c, "", -1)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) startSession(c *gin.Context, result *LoginResult) {
	h.setSession(c, result.Token, int(h.service.tokens.TTL().Seconds()))
	if result.IsAdmin {
		c.Redirect(http.StatusSeeOther, "/admin/hours")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) setSession(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: h.cookies.SameSite,
	})
}
