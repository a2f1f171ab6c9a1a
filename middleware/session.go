package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tenco/blog/models"
	"github.com/tenco/blog/utils"
)

// ContextSessionUserKey holds the *models.SessionUser of the caller in the gin context.
const ContextSessionUserKey = "sessionUser"

// LoginPath is where unauthenticated callers are sent.
const LoginPath = "/login-form"

// SessionLoader resolves the session cookie and stores the caller, if any, in the context.
// A missing or expired session leaves the request anonymous.
func SessionLoader(store utils.SessionStore, cookieName string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, err := ctx.Cookie(cookieName)
		if err != nil || id == "" {
			ctx.Next()
			return
		}
		user, err := store.Get(ctx.Request.Context(), id)
		switch {
		case err == nil:
			ctx.Set(ContextSessionUserKey, user)
		case errors.Is(err, utils.ErrSessionNotFound):
		default:
			utils.L().Warn("session lookup failed", zap.Error(err))
		}
		ctx.Next()
	}
}

// LoginRequired redirects anonymous callers to the login form.
func LoginRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if CurrentUser(ctx) == nil {
			ctx.Redirect(http.StatusFound, LoginPath)
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// CurrentUser returns the caller set by SessionLoader, or nil.
func CurrentUser(ctx *gin.Context) *models.SessionUser {
	v, ok := ctx.Get(ContextSessionUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.SessionUser)
	return user
}
