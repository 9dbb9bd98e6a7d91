package hours

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"scheduleandpay/internal/domain"
	"scheduleandpay/internal/middleware"
	"scheduleandpay/internal/pkg/jwt"
	"scheduleandpay/internal/repository"
	"scheduleandpay/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router  *gin.Engine
	service *Service
	tokens  *jwt.Service
}

func setupHandler(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gate := emailGate(adminEmail)
	tokens := jwt.New("test-secret", time.Hour)
	svc := NewService(repository.NewFileStore(t.TempDir()+"/schedule.json"), gate, nil)
	h := NewHandler(svc, web.NewRenderer(gate, "Test Training"))

	r := gin.New()
	require.NoError(t, web.Install(r))
	r.Use(middleware.Session(tokens))

	pages := r.Group("/admin", middleware.RequireAdmin(gate))
	h.RegisterRoutes(pages)
	api := r.Group("/api/v1/admin", middleware.RequireAdminAPI(gate))
	h.RegisterAPIRoutes(api)

	return &testEnv{router: r, service: svc, tokens: tokens}
}

func (e *testEnv) do(t *testing.T, req *http.Request, user *domain.Identity) *httptest.ResponseRecorder {
	t.Helper()
	if user != nil {
		token, err := e.tokens.GenerateToken(*user)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHandler_EditHours_RequiresAdmin(t *testing.T) {
	env := setupHandler(t)

	w := env.do(t, httptest.NewRequest(http.MethodGet, "/admin/hours", nil), visitor)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestHandler_EditHours(t *testing.T) {
	env := setupHandler(t)

	w := env.do(t, httptest.NewRequest(http.MethodGet, "/admin/hours", nil), admin)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "08:00 AM")
}

func TestHandler_UpdateHours(t *testing.T) {
	env := setupHandler(t)

	w := env.do(t, postForm("/admin/hours", url.Values{"new_hours": {"06:00 PM, 07:00 PM"}}), admin)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/hours", w.Header().Get("Location"))
	assert.Equal(t, []domain.TimeLabel{"06:00 PM", "07:00 PM"}, env.service.Get())
}

func TestHandler_UpdateHours_MissingField(t *testing.T) {
	env := setupHandler(t)

	w := env.do(t, postForm("/admin/hours", url.Values{}), admin)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domain.DefaultHours, env.service.Get())
}

func TestHandler_UpdateHours_LabelTooLong(t *testing.T) {
	env := setupHandler(t)

	w := env.do(t, postForm("/admin/hours", url.Values{"new_hours": {"09:00 AM, Saturday morning clinic 09:00 - 10:30"}}), admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domain.DefaultHours, env.service.Get())

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/hours", strings.NewReader(`{"hours":["Saturday morning clinic 09:00 - 10:30"]}`))
	req.Header.Set("Content-Type", "application/json")
	w = env.do(t, req, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestHandler_UpdateHours_VisitorRedirected(t *testing.T) {
	env := setupHandler(t)

	w := env.do(t, postForm("/admin/hours", url.Values{"new_hours": {"06:00 PM"}}), visitor)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, domain.DefaultHours, env.service.Get())
}

func TestHandler_ResetHours(t *testing.T) {
	env := setupHandler(t)
	env.do(t, postForm("/admin/hours", url.Values{"new_hours": {"06:00 PM"}}), admin)

	w := env.do(t, postForm("/admin/hours/reset", nil), admin)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, domain.DefaultHours, env.service.Get())
}

func TestHandler_HoursAPI(t *testing.T) {
	env := setupHandler(t)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/hours", strings.NewReader(`{"hours":["07:00 AM","07:00 AM"," 08:00 AM "]}`))
	req.Header.Set("Content-Type", "application/json")
	w := env.do(t, req, admin)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"hours":["07:00 AM","08:00 AM"]}}`, w.Body.String())

	w = env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/admin/hours", nil), admin)
	assert.JSONEq(t, `{"success":true,"data":{"hours":["07:00 AM","08:00 AM"]}}`, w.Body.String())
}

func TestHandler_HoursAPI_Unauthorized(t *testing.T) {
	env := setupHandler(t)

	w := env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/admin/hours", nil), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/hours", strings.NewReader(`{"hours":["07:00 AM"]}`))
	req.Header.Set("Content-Type", "application/json")
	w = env.do(t, req, visitor)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, domain.DefaultHours, env.service.Get())
}
