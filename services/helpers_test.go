package services

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tenco/blog/config"
	"github.com/tenco/blog/models"
	"github.com/tenco/blog/repositories"
	"github.com/tenco/blog/utils"
)

type fixture struct {
	db      *gorm.DB
	boards  *BoardService
	replies *ReplyService
	users   *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	utils.PasswordCost = bcrypt.MinCost
	t.Cleanup(func() { utils.PasswordCost = bcrypt.DefaultCost })

	db, err := gorm.Open(sqlite.Open(":memory:"), config.NewGormConfig("silent"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, config.Migrate(db, &models.User{}, &models.Board{}, &models.Reply{}))

	logger := zaptest.NewLogger(t)
	boardRepo := repositories.NewBoardRepository(db)
	replyRepo := repositories.NewReplyRepository(db)
	userRepo := repositories.NewUserRepository(db)

	return &fixture{
		db:      db,
		boards:  NewBoardService(db, boardRepo, replyRepo, userRepo, logger),
		replies: NewReplyService(db, boardRepo, replyRepo, userRepo, logger),
		users:   NewUserService(db, userRepo, logger),
	}
}

func (f *fixture) join(t *testing.T, username string) *models.SessionUser {
	t.Helper()
	u, err := f.users.Join(context.Background(), JoinInput{Username: username, Password: "secret", Email: username + "@example.com"})
	require.NoError(t, err)
	return models.SessionUserOf(u)
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}
