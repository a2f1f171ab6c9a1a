package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tenco/blog/models"
)

// BoardRepository reads and writes board_tb.
type BoardRepository struct {
	db *gorm.DB
}

// NewBoardRepository creates a BoardRepository on db.
func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *BoardRepository) WithTx(tx *gorm.DB) *BoardRepository {
	return &BoardRepository{db: tx}
}

// Create inserts a board and fills its id and creation time.
func (r *BoardRepository) Create(ctx context.Context, board *models.Board) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(board).Error; err != nil {
		return fmt.Errorf("create board failed: %w", err)
	}
	return nil
}

// FindAllJoinUser lists every board with its author, newest first.
func (r *BoardRepository) FindAllJoinUser(ctx context.Context) ([]models.Board, error) {
	var boards []models.Board
	if err := r.db.WithContext(ctx).Joins("User").Order("board_tb.id DESC").Find(&boards).Error; err != nil {
		return nil, fmt.Errorf("list boards failed: %w", err)
	}
	return boards, nil
}

// FindByID returns nil, nil when the board does not exist.
func (r *BoardRepository) FindByID(ctx context.Context, id uint) (*models.Board, error) {
	var board models.Board
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&board).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get board failed: %w", err)
	}
	return &board, nil
}

func (r *BoardRepository) FindByIDJoinUser(ctx context.Context, id uint) (*models.Board, error) {
	var board models.Board
	if err := r.db.WithContext(ctx).Joins("User").Where("board_tb.id = ?", id).First(&board).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get board with user failed: %w", err)
	}
	return &board, nil
}

// FindByIDWithReplies loads the board, its author, its replies (newest first) and their authors.
func (r *BoardRepository) FindByIDWithReplies(ctx context.Context, id uint) (*models.Board, error) {
	var board models.Board
	err := r.db.WithContext(ctx).
		Joins("User").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("reply_tb.id DESC")
		}).
		Preload("Replies.User").
		Where("board_tb.id = ?", id).
		First(&board).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get board with replies failed: %w", err)
	}
	return &board, nil
}

// UpdateContent rewrites title and content in place. It reports false when the row is gone.
func (r *BoardRepository) UpdateContent(ctx context.Context, id uint, title, content string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Board{}).Where("id = ?", id).
		Updates(map[string]interface{}{"title": title, "content": content})
	if res.Error != nil {
		return false, fmt.Errorf("update board failed: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	// MySQL reports zero affected rows when nothing changed
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Board{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count board failed: %w", err)
	}
	return count > 0, nil
}

func (r *BoardRepository) DeleteByID(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Board{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete board failed: %w", res.Error)
	}
	return res.RowsAffected, nil
}
