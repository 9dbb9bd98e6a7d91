package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"scheduleandpay/internal/domain"
	"scheduleandpay/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

//go:embed templates/*.html static/*
var files embed.FS

var funcs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"join": func(labels []domain.TimeLabel, sep string) string {
		return strings.Join(domain.LabelStrings(labels), sep)
	},
	"safeURL": func(s string) template.URL { return template.URL(s) },
}

// Install loads the page templates into the engine and serves /static.
func Install(engine *gin.Engine) error {
	tmpl, err := template.New("").Funcs(funcs).ParseFS(files, "templates/*.html")
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	engine.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(files, "static")
	if err != nil {
		return err
	}
	engine.StaticFS("/static", http.FS(static))
	return nil
}

// Renderer fills in the data every page needs: the signed-in user, whether
// they are the administrator, the business name and the CSRF form field.
type Renderer struct {
	gate         middleware.AdminChecker
	businessName string
}

func NewRenderer(gate middleware.AdminChecker, businessName string) *Renderer {
	return &Renderer{gate: gate, businessName: businessName}
}

func (r *Renderer) HTML(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	user := middleware.CurrentUser(c)
	data["user"] = user
	data["is_admin"] = r.gate.IsAdmin(user)
	data["business_name"] = r.businessName
	data["csrf_field"] = csrf.TemplateField(c.Request)
	c.HTML(status, name, data)
}

// Error renders the generic error page.
func (r *Renderer) Error(c *gin.Context, status int, message string) {
	r.HTML(c, status, "error.html", gin.H{
		"title":   http.StatusText(status),
		"message": message,
	})
}
