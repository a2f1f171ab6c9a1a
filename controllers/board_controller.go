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

// BoardController serves the post pages.
type BoardController struct {
	boards *services.BoardService
	logger *zap.Logger
}

// NewBoardController creates a BoardController.
func NewBoardController(boards *services.BoardService, logger *zap.Logger) *BoardController {
	return &BoardController{boards: boards, logger: logger}
}

func (b *BoardController) Index(ctx *gin.Context) {
	boards, err := b.boards.FindAll(ctx.Request.Context())
	if err != nil {
		handleError(ctx, b.logger, err)
		return
	}
	render(ctx, http.StatusOK, "index", gin.H{"boards": boards})
}

func (b *BoardController) Detail(ctx *gin.Context) {
	id, err := parseID(ctx, "board")
	if err != nil {
		handleError(ctx, b.logger, err)
		return
	}
	detail, err := b.boards.FindByIDWithViewerContext(ctx.Request.Context(), id, middleware.CurrentUser(ctx))
	if err != nil {
		handleError(ctx, b.logger, err)
		return
	}
	render(ctx, http.StatusOK, "board/detail", gin.H{"board": detail, "title": detail.Title})
}

func (b *BoardController) SaveForm(ctx *gin.Context) {
	render(ctx, http.StatusOK, "board/save-form", nil)
}

func (b *BoardController) Save(ctx *gin.Context) {
	var req dto.BoardSaveRequest
	if err := bindForm(ctx, &req); err != nil {
		handleError(ctx, b.logger, err)
		return
	}
	if _, err := b.boards.Save(ctx.Request.Context(), req.Input(), middleware.CurrentUser(ctx)); err != nil {
		handleError(ctx, b.logger, err)
		return
	}
	ctx.Redirect(http.StatusFound, "/")
}

// UpdateForm renders the edit form for the owner only.
func (b *BoardController) UpdateForm(ctx *gin.Context) {
	id, err := parseID(ctx, "board")
	if err != nil {
		handleError(ctx, b.logger, err)
		return
	}
	rctx := ctx.Request.Context()
	if err := b.boards.CheckOwnership(rctx, id, middleware.CurrentUser(ctx).ID); err != nil {
		handleError(ctx, b.logger, err)
		return
	}
	board, err := b.boards.FindByID(rctx, id)
	if err != nil {
		handleError(ctx, b.logger, err)
		return
	}
	render(ctx, http.StatusOK, "board/update-form", gin.H{"board": board, "title": board.Title})
}

func (b *BoardController) Update(ctx *gin.Context) {
	id, err := parseID(ctx, "board")
	if err != nil {
		handleError(ctx, b.logger, err)
		return
	}
	var req dto.BoardUpdateRequest
	if err := bindForm(ctx, &req); err != nil {
		handleError(ctx, b.logger, err)
		return
	}
	if _, err := b.boards.UpdateByID(ctx.Request.Context(), id, req.Input(), middleware.CurrentUser(ctx)); err != nil {
		handleError(ctx, b.logger, err)
		return
	}
	ctx.Redirect(http.StatusFound, fmt.Sprintf("/board/%d", id))
}

func (b *BoardController) Delete(ctx *gin.Context) {
	id, err := parseID(ctx, "board")
	if err != nil {
		handleError(ctx, b.logger, err)
		return
	}
	if err := b.boards.DeleteByID(ctx.Request.Context(), id, middleware.CurrentUser(ctx)); err != nil {
		handleError(ctx, b.logger, err)
		return
	}
	ctx.Redirect(http.StatusFound, "/")
}
