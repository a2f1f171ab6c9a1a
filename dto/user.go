package dto

import (
	"strings"

	"github.com/tenco/blog/services"
)

// JoinRequest is the registration form.
type JoinRequest struct {
	Username string `form:"username" binding:"required,max=64"`
	Password string `form:"password" binding:"required,min=4,max=72"`
	Email    string `form:"email" binding:"omitempty,email,max=255"`
}

func (r *JoinRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	if r.Username == "" {
		return &services.ValidationError{Field: "username", Message: "must not be blank"}
	}
	return nil
}

func (r JoinRequest) Input() services.JoinInput {
	return services.JoinInput{Username: r.Username, Password: r.Password, Email: r.Email}
}

// LoginRequest is the login form.
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" {
		return &services.ValidationError{Field: "username", Message: "must not be blank"}
	}
	return nil
}

func (r LoginRequest) Input() services.LoginInput {
	return services.LoginInput{Username: r.Username, Password: r.Password}
}
