package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tenco/blog/middleware"
	"github.com/tenco/blog/services"
)

// render executes a page with the caller identity available to the shared header.
func render(ctx *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["sessionUser"] = middleware.CurrentUser(ctx)
	ctx.HTML(status, name, data)
}

// handleError maps a service error to a status and renders the error page.
func handleError(ctx *gin.Context, logger *zap.Logger, err error) {
	var (
		validation *services.ValidationError
		missing    *services.NotFoundError
		forbidden  *services.ForbiddenError
	)
	status := http.StatusInternalServerError
	message := "something went wrong"
	switch {
	case errors.As(err, &validation):
		status, message = http.StatusBadRequest, validation.Error()
	case errors.As(err, &missing):
		status, message = http.StatusNotFound, missing.Error()
	case errors.As(err, &forbidden):
		status, message = http.StatusForbidden, forbidden.Error()
	case errors.Is(err, services.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, err.Error()
	default:
		logger.Error("request failed",
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Error(err),
		)
	}
	render(ctx, status, "error", gin.H{"status": status, "message": message})
	ctx.Abort()
}

// bindForm binds and validates a form DTO; binding failures count as validation errors.
func bindForm(ctx *gin.Context, req interface{ Validate() error }) error {
	if err := ctx.ShouldBind(req); err != nil {
		return &services.ValidationError{Message: "invalid form: " + err.Error()}
	}
	return req.Validate()
}

// parseID reads a positive path id. Anything else is reported as a missing resource.
func parseID(ctx *gin.Context, resource string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, &services.NotFoundError{Resource: resource}
	}
	return uint(id), nil
}
