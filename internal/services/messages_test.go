package services

import (
	"context"
	"testing"

	"github.com/liuwei-h/personal-site/backend/internal/apperr"
	"github.com/liuwei-h/personal-site/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submitMessage(t *testing.T, env *testEnv, userID *uint) *models.Message {
	t.Helper()
	message, err := env.messages.Receive(context.Background(), models.CreateMessageRequest{
		Name:    "Jamie",
		Email:   "jamie@example.com",
		Subject: "Question about a post",
		Message: "How did you build this?",
	}, userID, "203.0.113.9", "test-agent")
	require.NoError(t, err)
	return message
}

func TestReceiveStartsUnread(t *testing.T) {
	env := newTestEnv(t)
	message := submitMessage(t, env, nil)

	assert.Equal(t, models.MessageUnread, message.Status)
	assert.NotEmpty(t, message.Reference)
	assert.Nil(t, message.ReadAt)
	assert.Nil(t, message.RepliedAt)
}

func TestViewMovesUnreadToRead(t *testing.T) {
	env := newTestEnv(t)
	message := submitMessage(t, env, nil)

	detail, err := env.messages.View(context.Background(), message.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageRead, detail.Message.Status)
	require.NotNil(t, detail.Message.ReadAt)
	assert.Empty(t, detail.Replies)

	// a second view keeps the original read stamp
	firstReadAt := *detail.Message.ReadAt
	detail, err = env.messages.View(context.Background(), message.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageRead, detail.Message.Status)
	// compare instants; the driver round-trip normalizes the location
	assert.True(t, firstReadAt.Equal(*detail.Message.ReadAt))

	_, err = env.messages.View(context.Background(), 999)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestReplyProgression(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin", true)
	message := submitMessage(t, env, nil)

	ctx := context.Background()
	_, err := env.messages.AddReply(ctx, admin, message.ID, "Thanks for reaching out.")
	require.NoError(t, err)

	detail, err := env.messages.View(ctx, message.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageReplied, detail.Message.Status)
	require.NotNil(t, detail.Message.RepliedAt)

	_, err = env.messages.AddReply(ctx, admin, message.ID, "One more thing.")
	require.NoError(t, err)

	detail, err = env.messages.View(ctx, message.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageInConversation, detail.Message.Status)
	assert.Len(t, detail.Replies, 2)
}

func TestDeleteReplyRegressesStatus(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin", true)
	message := submitMessage(t, env, nil)

	ctx := context.Background()
	first, err := env.messages.AddReply(ctx, admin, message.ID, "first")
	require.NoError(t, err)
	second, err := env.messages.AddReply(ctx, admin, message.ID, "second")
	require.NoError(t, err)

	require.NoError(t, env.messages.DeleteReply(ctx, second.ID))
	detail, err := env.messages.View(ctx, message.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageReplied, detail.Message.Status)

	// removing the last reply lands on read, never back on unread
	require.NoError(t, env.messages.DeleteReply(ctx, first.ID))
	detail, err = env.messages.View(ctx, message.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageRead, detail.Message.Status)
	assert.Nil(t, detail.Message.RepliedAt)

	err = env.messages.DeleteReply(ctx, first.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestArchivedIsSticky(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin", true)
	message := submitMessage(t, env, nil)

	ctx := context.Background()
	require.NoError(t, env.messages.Archive(ctx, message.ID))

	// replies on an archived message are stored without changing its state
	_, err := env.messages.AddReply(ctx, admin, message.ID, "closing note")
	require.NoError(t, err)

	detail, err := env.messages.View(ctx, message.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageArchived, detail.Message.Status)
	assert.Len(t, detail.Replies, 1)
}

func TestReplyNotifiesSignedInSender(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin", true)
	sender := env.seedUser(t, "sender", false)
	message := submitMessage(t, env, &sender.ID)

	ctx := context.Background()
	_, err := env.messages.AddReply(ctx, admin, message.ID, "Hello back!")
	require.NoError(t, err)

	rows := env.notificationsFor(t, sender.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, models.NotificationMessageReply, rows[0].Type)
	assert.Equal(t, "/contact", rows[0].RelatedURL)
}

func TestReplyToAnonymousSenderNotifiesNobody(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin", true)
	message := submitMessage(t, env, nil)

	_, err := env.messages.AddReply(context.Background(), admin, message.ID, "Hello!")
	require.NoError(t, err)

	var count int64
	require.NoError(t, env.db.Model(&models.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDeleteMessageRemovesConversation(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin", true)
	message := submitMessage(t, env, nil)

	ctx := context.Background()
	_, err := env.messages.AddReply(ctx, admin, message.ID, "bye")
	require.NoError(t, err)

	require.NoError(t, env.messages.Delete(ctx, message.ID))

	var replies int64
	require.NoError(t, env.db.Model(&models.MessageReply{}).Count(&replies).Error)
	assert.Equal(t, int64(0), replies)

	err = env.messages.Delete(ctx, message.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestListMessagesByStatus(t *testing.T) {
	env := newTestEnv(t)
	m1 := submitMessage(t, env, nil)
	submitMessage(t, env, nil)

	ctx := context.Background()
	_, err := env.messages.View(ctx, m1.ID)
	require.NoError(t, err)

	unread, pagination, err := env.messages.List(ctx, models.MessageUnread, 1, 20)
	require.NoError(t, err)
	assert.Len(t, unread, 1)
	assert.Equal(t, int64(1), pagination.Total)

	all, pagination, err := env.messages.List(ctx, "", 1, 20)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, int64(2), pagination.Total)
}
