package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tenco/blog/dto"
	"github.com/tenco/blog/middleware"
	"github.com/tenco/blog/services"
)

// ReplyController handles reply creation and deletion.
type ReplyController struct {
	replies *services.ReplyService
	logger  *zap.Logger
}

// NewReplyController creates a ReplyController.
func NewReplyController(replies *services.ReplyService, logger *zap.Logger) *ReplyController {
	return &ReplyController{replies: replies, logger: logger}
}

func (r *ReplyController) Save(ctx *gin.Context) {
	var req dto.ReplySaveRequest
	if err := bindForm(ctx, &req); err != nil {
		handleError(ctx, r.logger, err)
		return
	}
	reply, err := r.replies.Save(ctx.Request.Context(), req.Input(), middleware.CurrentUser(ctx))
	if err != nil {
		handleError(ctx, r.logger, err)
		return
	}
	ctx.Redirect(http.StatusFound, fmt.Sprintf("/board/%d", reply.BoardID))
}

func (r *ReplyController) Delete(ctx *gin.Context) {
	id, err := parseID(ctx, "reply")
	if err != nil {
		handleError(ctx, r.logger, err)
		return
	}
	boardID, err := r.replies.DeleteByID(ctx.Request.Context(), id, middleware.CurrentUser(ctx))
	if err != nil {
		handleError(ctx, r.logger, err)
		return
	}
	ctx.Redirect(http.StatusFound, fmt.Sprintf("/board/%d", boardID))
}
