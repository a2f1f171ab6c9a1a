package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tenco/blog/models"
	"github.com/tenco/blog/repositories"
	"github.com/tenco/blog/utils"
)

// BoardInput is the title and content submitted for a board.
type BoardInput struct {
	Title   string
	Content string
}

// ReplyView is a reply prepared for one viewer.
type ReplyView struct {
	ID              uint
	Comment         string
	UserID          uint
	Username        string
	CreatedAt       string
	IsOwnedByViewer bool
}

// BoardDetail is a board with its replies prepared for one viewer. It is built per request and
// never persisted.
type BoardDetail struct {
	ID              uint
	Title           string
	Content         string
	UserID          uint
	Username        string
	CreatedAt       string
	IsOwnedByViewer bool
	Replies         []ReplyView
}

// BoardService implements board reads, ownership checks and mutations.
type BoardService struct {
	db      *gorm.DB
	boards  *repositories.BoardRepository
	replies *repositories.ReplyRepository
	users   *repositories.UserRepository
	logger  *zap.Logger
}

// NewBoardService creates a BoardService. A nil logger discards output.
func NewBoardService(
	db *gorm.DB,
	boards *repositories.BoardRepository,
	replies *repositories.ReplyRepository,
	users *repositories.UserRepository,
	logger *zap.Logger,
) *BoardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoardService{db: db, boards: boards, replies: replies, users: users, logger: logger.Named("board")}
}

func (in BoardInput) normalize() (BoardInput, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return in, invalid("title", "must not be blank")
	}
	if utf8.RuneCountInString(title) > models.BoardTitleMaxLength {
		return in, invalid("title", fmt.Sprintf("must be at most %d characters", models.BoardTitleMaxLength))
	}
	content := strings.TrimSpace(utils.Sanitize(in.Content))
	if content == "" {
		return in, invalid("content", "must not be blank")
	}
	return BoardInput{Title: title, Content: content}, nil
}

// Save creates a board owned by caller.
func (s *BoardService) Save(ctx context.Context, in BoardInput, caller *models.SessionUser) (*models.Board, error) {
	if caller == nil || caller.ID == 0 {
		return nil, invalid("owner", "must be present")
	}
	s.logger.Info("board save start", zap.Uint("user_id", caller.ID))
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	board := &models.Board{Title: in.Title, Content: in.Content, UserID: caller.ID}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owner, err := s.users.WithTx(tx).FindByID(ctx, caller.ID)
		if err != nil {
			return err
		}
		if owner == nil {
			return notFound("user", caller.ID)
		}
		if err := s.boards.WithTx(tx).Create(ctx, board); err != nil {
			return err
		}
		board.User = *owner
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("board saved", zap.Uint("board_id", board.ID), zap.Uint("user_id", caller.ID))
	return board, nil
}

// FindAll lists every board with its author, newest first.
func (s *BoardService) FindAll(ctx context.Context) ([]models.Board, error) {
	boards, err := s.boards.FindAllJoinUser(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("boards listed", zap.Int("count", len(boards)))
	return boards, nil
}

// FindByID loads a board with its author.
func (s *BoardService) FindByID(ctx context.Context, id uint) (*models.Board, error) {
	board, err := s.boards.FindByIDJoinUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if board == nil {
		s.logger.Warn("board not found", zap.Uint("board_id", id))
		return nil, notFound("board", id)
	}
	s.logger.Info("board loaded", zap.Uint("board_id", id))
	return board, nil
}

// FindByIDWithViewerContext loads a board with its replies and marks what viewer owns. A nil
// viewer owns nothing.
func (s *BoardService) FindByIDWithViewerContext(ctx context.Context, id uint, viewer *models.SessionUser) (*BoardDetail, error) {
	board, err := s.boards.FindByIDWithReplies(ctx, id)
	if err != nil {
		return nil, err
	}
	if board == nil {
		s.logger.Warn("board not found", zap.Uint("board_id", id))
		return nil, notFound("board", id)
	}
	s.logger.Info("board detail loaded", zap.Uint("board_id", id), zap.Int("replies", len(board.Replies)))

	var viewerID uint
	if viewer != nil {
		viewerID = viewer.ID
	}

	detail := &BoardDetail{
		ID:              board.ID,
		Title:           board.Title,
		Content:         board.Content,
		UserID:          board.UserID,
		Username:        board.User.Username,
		CreatedAt:       board.Time(),
		IsOwnedByViewer: board.IsOwner(viewerID),
		Replies:         make([]ReplyView, 0, len(board.Replies)),
	}
	for _, r := range board.Replies {
		detail.Replies = append(detail.Replies, ReplyView{
			ID:              r.ID,
			Comment:         r.Comment,
			UserID:          r.UserID,
			Username:        r.User.Username,
			CreatedAt:       r.Time(),
			IsOwnedByViewer: r.IsOwner(viewerID),
		})
	}
	return detail, nil
}

// CheckOwnership fails unless board id exists and belongs to callerID.
func (s *BoardService) CheckOwnership(ctx context.Context, id, callerID uint) error {
	board, err := s.boards.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return s.ownedBy(board, id, callerID)
}

func (s *BoardService) ownedBy(board *models.Board, id, callerID uint) error {
	if board == nil {
		return notFound("board", id)
	}
	if !board.IsOwner(callerID) {
		s.logger.Warn("board ownership rejected", zap.Uint("board_id", id), zap.Uint("user_id", callerID))
		return &ForbiddenError{Message: "you can only change your own posts"}
	}
	return nil
}

// UpdateByID rewrites title and content of a board the caller owns. Id and creation time stay.
func (s *BoardService) UpdateByID(ctx context.Context, id uint, in BoardInput, caller *models.SessionUser) (*models.Board, error) {
	if caller == nil {
		return nil, invalid("owner", "must be present")
	}
	s.logger.Info("board update start", zap.Uint("board_id", id), zap.Uint("user_id", caller.ID))
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	var board *models.Board
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		boards := s.boards.WithTx(tx)
		found, err := boards.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.ownedBy(found, id, caller.ID); err != nil {
			return err
		}
		ok, err := boards.UpdateContent(ctx, id, in.Title, in.Content)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("board", id)
		}
		found.Title = in.Title
		found.Content = in.Content
		board = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("board updated", zap.Uint("board_id", id), zap.Uint("user_id", caller.ID))
	return board, nil
}

// DeleteByID removes a board the caller owns together with all of its replies.
func (s *BoardService) DeleteByID(ctx context.Context, id uint, caller *models.SessionUser) error {
	if caller == nil {
		return invalid("owner", "must be present")
	}
	s.logger.Info("board delete start", zap.Uint("board_id", id), zap.Uint("user_id", caller.ID))

	var removedReplies int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		boards := s.boards.WithTx(tx)
		found, err := boards.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.ownedBy(found, id, caller.ID); err != nil {
			return err
		}
		if removedReplies, err = s.replies.WithTx(tx).DeleteByBoardID(ctx, id); err != nil {
			return err
		}
		n, err := boards.DeleteByID(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return notFound("board", id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("board deleted",
		zap.Uint("board_id", id),
		zap.Uint("user_id", caller.ID),
		zap.Int64("replies", removedReplies),
	)
	return nil
}
