package services

import (
	"context"
	"strings"
	"testing"

	"github.com/liuwei-h/personal-site/backend/internal/apperr"
	"github.com/liuwei-h/personal-site/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelfActionsAreNotNotified(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "author", false)
	ref := env.seedPost(t, author.ID, "own post")

	ctx := context.Background()
	_, err := env.interactions.ToggleLike(ctx, author, ref)
	require.NoError(t, err)
	_, err = env.interactions.ToggleFavorite(ctx, author, ref)
	require.NoError(t, err)
	_, err = env.interactions.SetRating(ctx, author, ref, 5)
	require.NoError(t, err)
	comment, err := env.comments.AddComment(ctx, author, ref, "first!")
	require.NoError(t, err)
	_, err = env.comments.AddReply(ctx, author, comment.Comment.ID, "replying to myself")
	require.NoError(t, err)
	_, err = env.comments.ToggleCommentLike(ctx, author, comment.Comment.ID)
	require.NoError(t, err)

	assert.Empty(t, env.notificationsFor(t, author.ID))
}

func TestInteractionsNotifyContentAuthor(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "author", false)
	visitor := env.seedUser(t, "visitor", false)
	ref := env.seedPost(t, author.ID, "post")

	ctx := context.Background()
	_, err := env.interactions.ToggleLike(ctx, visitor, ref)
	require.NoError(t, err)
	_, err = env.interactions.ToggleFavorite(ctx, visitor, ref)
	require.NoError(t, err)
	_, err = env.interactions.SetRating(ctx, visitor, ref, 4)
	require.NoError(t, err)
	_, err = env.comments.AddComment(ctx, visitor, ref, "hello")
	require.NoError(t, err)

	rows := env.notificationsFor(t, author.ID)
	require.Len(t, rows, 4)
	types := make([]string, 0, len(rows))
	for _, n := range rows {
		types = append(types, n.Type)
		assert.Equal(t, visitor.ID, n.SenderID)
		assert.Equal(t, "visitor", n.SenderName)
		assert.False(t, n.IsRead)
	}
	assert.ElementsMatch(t, []string{
		models.NotificationLike,
		models.NotificationFavorite,
		models.NotificationRating,
		models.NotificationComment,
	}, types)
}

func TestUnlikingDoesNotNotify(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "author", false)
	visitor := env.seedUser(t, "visitor", false)
	ref := env.seedPost(t, author.ID, "post")

	ctx := context.Background()
	_, err := env.interactions.ToggleLike(ctx, visitor, ref)
	require.NoError(t, err)
	_, err = env.interactions.ToggleLike(ctx, visitor, ref)
	require.NoError(t, err)

	assert.Len(t, env.notificationsFor(t, author.ID), 1)
}

func TestReplyNotifiesCommentOwnerNotContentAuthor(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "author", false)
	commenter := env.seedUser(t, "commenter", false)
	replier := env.seedUser(t, "replier", false)
	ref := env.seedPost(t, author.ID, "post")

	ctx := context.Background()
	comment, err := env.comments.AddComment(ctx, commenter, ref, "a thought")
	require.NoError(t, err)
	_, err = env.comments.AddReply(ctx, replier, comment.Comment.ID, "a counterpoint")
	require.NoError(t, err)

	rows := env.notificationsFor(t, commenter.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, models.NotificationReply, rows[0].Type)
	assert.Contains(t, rows[0].RelatedURL, "#comment-")

	for _, n := range env.notificationsFor(t, author.ID) {
		assert.NotEqual(t, models.NotificationReply, n.Type)
	}
}

func TestNotificationBodyIsExcerpted(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "author", false)
	visitor := env.seedUser(t, "visitor", false)
	ref := env.seedPost(t, author.ID, "post")

	long := strings.Repeat("x", 500)
	_, err := env.comments.AddComment(context.Background(), visitor, ref, long)
	require.NoError(t, err)

	rows := env.notificationsFor(t, author.ID)
	require.Len(t, rows, 1)
	assert.True(t, strings.HasSuffix(rows[0].Body, `..."`))
	assert.Less(t, len(rows[0].Body), 120)
}

func TestMarkReadIsRecipientScoped(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "author", false)
	visitor := env.seedUser(t, "visitor", false)
	ref := env.seedPost(t, author.ID, "post")

	ctx := context.Background()
	_, err := env.interactions.ToggleLike(ctx, visitor, ref)
	require.NoError(t, err)
	rows := env.notificationsFor(t, author.ID)
	require.Len(t, rows, 1)

	err = env.notifications.MarkRead(ctx, visitor, rows[0].ID)
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))

	require.NoError(t, env.notifications.MarkRead(ctx, author, rows[0].ID))
	// idempotent second call
	require.NoError(t, env.notifications.MarkRead(ctx, author, rows[0].ID))

	refreshed := env.notificationsFor(t, author.ID)
	assert.True(t, refreshed[0].IsRead)
	assert.NotNil(t, refreshed[0].ReadAt)

	err = env.notifications.MarkRead(ctx, author, 999)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestUnreadCountAndMarkAll(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "author", false)
	visitor := env.seedUser(t, "visitor", false)
	ref1 := env.seedPost(t, author.ID, "one")
	ref2 := env.seedPost(t, author.ID, "two")

	ctx := context.Background()
	_, err := env.interactions.ToggleLike(ctx, visitor, ref1)
	require.NoError(t, err)
	_, err = env.interactions.ToggleLike(ctx, visitor, ref2)
	require.NoError(t, err)

	count, err := env.notifications.UnreadCount(ctx, author)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, env.notifications.MarkAllRead(ctx, author))

	count, err = env.notifications.UnreadCount(ctx, author)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestListFiltersByType(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "author", false)
	visitor := env.seedUser(t, "visitor", false)
	ref := env.seedPost(t, author.ID, "post")

	ctx := context.Background()
	_, err := env.interactions.ToggleLike(ctx, visitor, ref)
	require.NoError(t, err)
	_, err = env.comments.AddComment(ctx, visitor, ref, "hi")
	require.NoError(t, err)

	rows, pagination, err := env.notifications.List(ctx, author, models.NotificationComment, 1, 20)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.NotificationComment, rows[0].Type)
	assert.Equal(t, int64(1), pagination.Total)

	rows, pagination, err = env.notifications.List(ctx, author, "", 1, 20)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, int64(2), pagination.Total)
}

func TestViewMarksReadAndReturnsURL(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "author", false)
	visitor := env.seedUser(t, "visitor", false)
	ref := env.seedProject(t, author.ID, "project")

	ctx := context.Background()
	_, err := env.interactions.ToggleLike(ctx, visitor, ref)
	require.NoError(t, err)
	rows := env.notificationsFor(t, author.ID)
	require.Len(t, rows, 1)

	url, err := env.notifications.View(ctx, author, rows[0].ID)
	require.NoError(t, err)
	assert.Equal(t, ref.URL(), url)
	assert.True(t, env.notificationsFor(t, author.ID)[0].IsRead)

	_, err = env.notifications.View(ctx, visitor, rows[0].ID)
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))
}

func TestDeleteNotification(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "author", false)
	visitor := env.seedUser(t, "visitor", false)
	ref := env.seedPost(t, author.ID, "post")

	ctx := context.Background()
	_, err := env.interactions.ToggleLike(ctx, visitor, ref)
	require.NoError(t, err)
	rows := env.notificationsFor(t, author.ID)
	require.Len(t, rows, 1)

	err = env.notifications.Delete(ctx, visitor, rows[0].ID)
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))

	require.NoError(t, env.notifications.Delete(ctx, author, rows[0].ID))
	assert.Empty(t, env.notificationsFor(t, author.ID))
}
