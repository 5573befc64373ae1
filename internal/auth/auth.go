// Package auth extracts caller identity from headers injected by the
// upstream gateway. The gateway has already verified credentials; these
// headers are trusted as-is and this service never checks tokens itself.
package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/analytics/pkg/httputil"
)

const userKey = "authUser"

const (
	HeaderUserID    = "x-user-id"
	HeaderUserRole  = "x-user-role"
	HeaderUserName  = "x-user-name"
	HeaderUserEmail = "x-user-email"
)

var (
	ErrAuthRequired = errors.New("authentication required")
	ErrForbidden    = errors.New("insufficient permissions")
)

type UserContext struct {
	ID    string
	Role  string
	Name  string
	Email string
}

func (u *UserContext) IsAuthenticated() bool {
	return u != nil && u.ID != ""
}

// Middleware reads the gateway identity headers into the request context.
// Requests without identity still pass through; Required gates them per
// route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := &UserContext{
			ID:    c.GetHeader(HeaderUserID),
			Role:  c.GetHeader(HeaderUserRole),
			Name:  c.GetHeader(HeaderUserName),
			Email: c.GetHeader(HeaderUserEmail),
		}
		c.Set(userKey, user)
		c.Next()
	}
}

func Required(c *gin.Context) {
	user := GetUser(c)
	if !user.IsAuthenticated() {
		httputil.NewError(c, http.StatusUnauthorized, ErrAuthRequired)
		return
	}
	c.Next()
}

func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(c *gin.Context) {
		user := GetUser(c)
		if !user.IsAuthenticated() {
			httputil.NewError(c, http.StatusUnauthorized, ErrAuthRequired)
			return
		}
		if !allowed[user.Role] {
			httputil.NewError(c, http.StatusForbidden, ErrForbidden)
			return
		}
		c.Next()
	}
}

func GetUser(c *gin.Context) *UserContext {
	user, _ := c.Value(userKey).(*UserContext)
	if user == nil {
		return &UserContext{}
	}
	return user
}
