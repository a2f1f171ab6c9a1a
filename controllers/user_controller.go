package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tenco/blog/config"
	"github.com/tenco/blog/dto"
	"github.com/tenco/blog/middleware"
	"github.com/tenco/blog/services"
	"github.com/tenco/blog/utils"
)

// UserController handles join, login and logout. Login puts the caller into the session store.
type UserController struct {
	users    *services.UserService
	sessions utils.SessionStore
	cookie   config.SessionSection
	logger   *zap.Logger
}

// NewUserController creates a UserController issuing cookies per the session settings.
func NewUserController(users *services.UserService, sessions utils.SessionStore, cookie config.SessionSection, logger *zap.Logger) *UserController {
	return &UserController{users: users, sessions: sessions, cookie: cookie, logger: logger}
}

func (u *UserController) LoginForm(ctx *gin.Context) {
	render(ctx, http.StatusOK, "user/login-form", nil)
}

func (u *UserController) JoinForm(ctx *gin.Context) {
	render(ctx, http.StatusOK, "user/join-form", nil)
}

func (u *UserController) Join(ctx *gin.Context) {
	var req dto.JoinRequest
	err := bindForm(ctx, &req)
	if err == nil {
		_, err = u.users.Join(ctx.Request.Context(), req.Input())
	}
	var validation *services.ValidationError
	if errors.As(err, &validation) {
		render(ctx, http.StatusBadRequest, "user/join-form", gin.H{"message": validation.Error()})
		return
	}
	if err != nil {
		handleError(ctx, u.logger, err)
		return
	}
	ctx.Redirect(http.StatusFound, middleware.LoginPath)
}

func (u *UserController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := bindForm(ctx, &req); err != nil {
		render(ctx, http.StatusBadRequest, "user/login-form", gin.H{"message": "username and password are required"})
		return
	}
	user, err := u.users.Login(ctx.Request.Context(), req.Input())
	if errors.Is(err, services.ErrInvalidCredentials) {
		render(ctx, http.StatusUnauthorized, "user/login-form", gin.H{"message": err.Error()})
		return
	}
	if err != nil {
		handleError(ctx, u.logger, err)
		return
	}

	id, err := u.sessions.Create(ctx.Request.Context(), user)
	if err != nil {
		handleError(ctx, u.logger, err)
		return
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(u.cookie.CookieName, id, u.cookie.TTLMinutes*60, "/", "", u.cookie.Secure, true)
	u.logger.Info("user logged in", zap.Uint("user_id", user.ID))
	ctx.Redirect(http.StatusFound, "/")
}

func (u *UserController) Logout(ctx *gin.Context) {
	if id, err := ctx.Cookie(u.cookie.CookieName); err == nil && id != "" {
		if err := u.sessions.Delete(context.WithoutCancel(ctx.Request.Context()), id); err != nil {
			u.logger.Warn("session delete failed", zap.Error(err))
		}
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(u.cookie.CookieName, "", -1, "/", "", u.cookie.Secure, true)
	ctx.Redirect(http.StatusFound, "/")
}
