package auth

import (
	"strings"

	"scheduleandpay/internal/domain"
	"scheduleandpay/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Gate decides who the administrator is. There is exactly one, identified by email.
type Gate struct {
	adminEmail string
}

func NewGate(adminEmail string) *Gate {
	return &Gate{adminEmail: strings.TrimSpace(adminEmail)}
}

func (g *Gate) AdminEmail() string { return g.adminEmail }

// IsAdmin compares emails case-insensitively after trimming.
func (g *Gate) IsAdmin(user *domain.Identity) bool {
	if user == nil || g.adminEmail == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(user.Email), g.adminEmail)
}

func (g *Gate) CurrentUser(c *gin.Context) *domain.Identity {
	return middleware.CurrentUser(c)
}
