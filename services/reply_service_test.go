package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenco/blog/models"
)

func TestReplySave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.join(t, "alice")
	board, err := f.boards.Save(ctx, BoardInput{Title: "T", Content: "C"}, alice)
	require.NoError(t, err)

	reply, err := f.replies.Save(ctx, ReplyInput{BoardID: board.ID, Comment: "  nice  "}, alice)
	require.NoError(t, err)
	assert.NotZero(t, reply.ID)
	assert.Equal(t, "nice", reply.Comment)
	assert.Equal(t, board.ID, reply.BoardID)
	assert.Equal(t, "alice", reply.User.Username)
}

func TestReplySaveValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.join(t, "alice")
	board, err := f.boards.Save(ctx, BoardInput{Title: "T", Content: "C"}, alice)
	require.NoError(t, err)

	_, err = f.replies.Save(ctx, ReplyInput{BoardID: board.ID, Comment: " "}, alice)
	requireInvalid(t, err, "comment")

	_, err = f.replies.Save(ctx, ReplyInput{BoardID: board.ID, Comment: strings.Repeat("x", 501)}, alice)
	requireInvalid(t, err, "comment")

	_, err = f.replies.Save(ctx, ReplyInput{BoardID: board.ID, Comment: "hi"}, nil)
	requireInvalid(t, err, "owner")

	// the limit counts characters, not bytes
	_, err = f.replies.Save(ctx, ReplyInput{BoardID: board.ID, Comment: strings.Repeat("가", 500)}, alice)
	require.NoError(t, err)

	_, err = f.replies.Save(ctx, ReplyInput{BoardID: board.ID + 1, Comment: "orphan"}, alice)
	requireNotFound(t, err)

	assert.EqualValues(t, 1, f.count(t, &models.Reply{}))
}

func TestReplyDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.join(t, "alice")
	bob := f.join(t, "bob")
	board, err := f.boards.Save(ctx, BoardInput{Title: "T", Content: "C"}, alice)
	require.NoError(t, err)
	reply, err := f.replies.Save(ctx, ReplyInput{BoardID: board.ID, Comment: "mine"}, bob)
	require.NoError(t, err)

	// owning the board does not grant deleting other people's replies
	_, err = f.replies.DeleteByID(ctx, reply.ID, alice)
	requireForbidden(t, err)
	assert.EqualValues(t, 1, f.count(t, &models.Reply{}))

	boardID, err := f.replies.DeleteByID(ctx, reply.ID, bob)
	require.NoError(t, err)
	assert.Equal(t, board.ID, boardID)
	assert.EqualValues(t, 0, f.count(t, &models.Reply{}))

	_, err = f.replies.DeleteByID(ctx, reply.ID, bob)
	requireNotFound(t, err)
}
