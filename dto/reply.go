package dto

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tenco/blog/models"
	"github.com/tenco/blog/services"
)

// ReplySaveRequest is the reply form on the board detail page. The comment length is checked
// after trimming.
type ReplySaveRequest struct {
	BoardID uint   `form:"boardId" binding:"required"`
	Comment string `form:"comment" binding:"required"`
}

func (r *ReplySaveRequest) Validate() error {
	r.Comment = strings.TrimSpace(r.Comment)
	if r.Comment == "" {
		return &services.ValidationError{Field: "comment", Message: "must not be blank"}
	}
	if utf8.RuneCountInString(r.Comment) > models.ReplyCommentMaxLength {
		return &services.ValidationError{
			Field:   "comment",
			Message: fmt.Sprintf("must be at most %d characters", models.ReplyCommentMaxLength),
		}
	}
	return nil
}

func (r ReplySaveRequest) Input() services.ReplyInput {
	return services.ReplyInput{BoardID: r.BoardID, Comment: r.Comment}
}
