package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tenco/blog/models"
)

// ReplyRepository reads and writes reply_tb.
type ReplyRepository struct {
	db *gorm.DB
}

// NewReplyRepository creates a ReplyRepository on db.
func NewReplyRepository(db *gorm.DB) *ReplyRepository {
	return &ReplyRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *ReplyRepository) WithTx(tx *gorm.DB) *ReplyRepository {
	return &ReplyRepository{db: tx}
}

// Create inserts a reply and fills its id and creation time.
func (r *ReplyRepository) Create(ctx context.Context, reply *models.Reply) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(reply).Error; err != nil {
		return fmt.Errorf("create reply failed: %w", err)
	}
	return nil
}

func (r *ReplyRepository) FindByID(ctx context.Context, id uint) (*models.Reply, error) {
	var reply models.Reply
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&reply).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reply failed: %w", err)
	}
	return &reply, nil
}

// DeleteByBoardID removes every reply of a board and returns how many went.
func (r *ReplyRepository) DeleteByBoardID(ctx context.Context, boardID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("board_id = ?", boardID).Delete(&models.Reply{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete replies of board failed: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *ReplyRepository) DeleteByID(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Reply{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete reply failed: %w", res.Error)
	}
	return res.RowsAffected, nil
}
