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
)

// ReplyInput is the board and comment submitted for a reply.
type ReplyInput struct {
	BoardID uint
	Comment string
}

// ReplyService creates and deletes replies.
type ReplyService struct {
	db      *gorm.DB
	boards  *repositories.BoardRepository
	replies *repositories.ReplyRepository
	users   *repositories.UserRepository
	logger  *zap.Logger
}

// NewReplyService creates a ReplyService. A nil logger discards output.
func NewReplyService(
	db *gorm.DB,
	boards *repositories.BoardRepository,
	replies *repositories.ReplyRepository,
	users *repositories.UserRepository,
	logger *zap.Logger,
) *ReplyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplyService{db: db, boards: boards, replies: replies, users: users, logger: logger.Named("reply")}
}

// Save attaches a comment by caller to an existing board.
func (s *ReplyService) Save(ctx context.Context, in ReplyInput, caller *models.SessionUser) (*models.Reply, error) {
	if caller == nil || caller.ID == 0 {
		return nil, invalid("owner", "must be present")
	}
	s.logger.Info("reply save start", zap.Uint("board_id", in.BoardID), zap.Uint("user_id", caller.ID))
	comment := strings.TrimSpace(in.Comment)
	if comment == "" {
		return nil, invalid("comment", "must not be blank")
	}
	if utf8.RuneCountInString(comment) > models.ReplyCommentMaxLength {
		return nil, invalid("comment", fmt.Sprintf("must be at most %d characters", models.ReplyCommentMaxLength))
	}

	reply := &models.Reply{Comment: comment, BoardID: in.BoardID, UserID: caller.ID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		board, err := s.boards.WithTx(tx).FindByID(ctx, in.BoardID)
		if err != nil {
			return err
		}
		if board == nil {
			return notFound("board", in.BoardID)
		}
		owner, err := s.users.WithTx(tx).FindByID(ctx, caller.ID)
		if err != nil {
			return err
		}
		if owner == nil {
			return notFound("user", caller.ID)
		}
		if err := s.replies.WithTx(tx).Create(ctx, reply); err != nil {
			return err
		}
		reply.User = *owner
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("reply saved",
		zap.Uint("reply_id", reply.ID),
		zap.Uint("board_id", reply.BoardID),
		zap.Uint("user_id", caller.ID),
	)
	return reply, nil
}

// DeleteByID removes a reply the caller owns and returns the board it belonged to.
func (s *ReplyService) DeleteByID(ctx context.Context, id uint, caller *models.SessionUser) (uint, error) {
	if caller == nil {
		return 0, invalid("owner", "must be present")
	}
	s.logger.Info("reply delete start", zap.Uint("reply_id", id), zap.Uint("user_id", caller.ID))

	var boardID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		replies := s.replies.WithTx(tx)
		reply, err := replies.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if reply == nil {
			return notFound("reply", id)
		}
		if !reply.IsOwner(caller.ID) {
			s.logger.Warn("reply ownership rejected", zap.Uint("reply_id", id), zap.Uint("user_id", caller.ID))
			return &ForbiddenError{Message: "you can only delete your own replies"}
		}
		n, err := replies.DeleteByID(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return notFound("reply", id)
		}
		boardID = reply.BoardID
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("reply deleted", zap.Uint("reply_id", id), zap.Uint("board_id", boardID))
	return boardID, nil
}
