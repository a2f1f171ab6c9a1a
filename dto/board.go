package dto

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tenco/blog/models"
	"github.com/tenco/blog/services"
)

// BoardSaveRequest is the new post form.
type BoardSaveRequest struct {
	Title   string `form:"title" binding:"required"`
	Content string `form:"content" binding:"required"`
}

func (r *BoardSaveRequest) Validate() error {
	return validateBoard(&r.Title, &r.Content)
}

func (r BoardSaveRequest) Input() services.BoardInput {
	return services.BoardInput{Title: r.Title, Content: r.Content}
}

// BoardUpdateRequest is the edit post form.
type BoardUpdateRequest struct {
	Title   string `form:"title" binding:"required"`
	Content string `form:"content" binding:"required"`
}

func (r *BoardUpdateRequest) Validate() error {
	return validateBoard(&r.Title, &r.Content)
}

func (r BoardUpdateRequest) Input() services.BoardInput {
	return services.BoardInput{Title: r.Title, Content: r.Content}
}

func validateBoard(title, content *string) error {
	*title = strings.TrimSpace(*title)
	if *title == "" {
		return &services.ValidationError{Field: "title", Message: "must not be blank"}
	}
	if utf8.RuneCountInString(*title) > models.BoardTitleMaxLength {
		return &services.ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("must be at most %d characters", models.BoardTitleMaxLength),
		}
	}
	if strings.TrimSpace(*content) == "" {
		return &services.ValidationError{Field: "content", Message: "must not be blank"}
	}
	return nil
}
